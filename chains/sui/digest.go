package sui

import (
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

const digestLength = 32

// ValidateDigest checks that d is a base58 transaction digest.
func ValidateDigest(d string) error {
	if d == "" {
		return fmt.Errorf("digest is empty")
	}
	raw, err := base58.Decode(d)
	if err != nil {
		return fmt.Errorf("invalid digest %q: %w", d, err)
	}
	if len(raw) != digestLength {
		return fmt.Errorf("invalid digest %q: expected %d bytes, got %d", d, digestLength, len(raw))
	}
	return nil
}

// TransactionDigest computes the digest of BCS transaction data.
func TransactionDigest(txBytes []byte) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte("TransactionData::"))
	h.Write(txBytes)
	return base58.Encode(h.Sum(nil))
}

// ExplorerURL links to a transaction on Suiscan.
func ExplorerURL(network, digest string) string {
	return fmt.Sprintf("https://suiscan.xyz/%s/tx/%s", network, digest)
}
