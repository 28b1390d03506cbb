package flows

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chinmay1088/gasline/api"
	"github.com/chinmay1088/gasline/chains/sui"
)

type fakeZkLogin struct {
	calls []string
	req   api.ZkLoginProofRequest
	err   error
}

func (f *fakeZkLogin) GetOrCreateZkLoginWallet(ctx context.Context, jwt string) (*api.ZkLoginWallet, error) {
	f.calls = append(f.calls, "salt")
	if f.err != nil {
		return nil, f.err
	}
	return &api.ZkLoginWallet{Salt: "42", Address: "0xzk"}, nil
}

func (f *fakeZkLogin) CreateZkLoginProof(ctx context.Context, req api.ZkLoginProofRequest) (*api.ZkLoginProof, error) {
	f.calls = append(f.calls, "proof")
	f.req = req
	return &api.ZkLoginProof{ZkProof: json.RawMessage(`{"proofPoints":{}}`)}, nil
}

func idToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

func sessionNonce(t *testing.T, kp sui.Keypair, maxEpoch uint64, randomness string) string {
	t.Helper()
	nonce, err := sui.ZkLoginNonce(kp, maxEpoch, randomness)
	require.NoError(t, err)
	return nonce
}

func TestZkLoginPrepare(t *testing.T) {
	svc := &fakeZkLogin{}
	kp := testKeypair(t)
	token := idToken(t, jwt.MapClaims{
		"iss": "https://accounts.google.com", "sub": "123", "aud": "client",
		"nonce": sessionNonce(t, kp, 120, "9876"),
	})

	session, err := ZkLoginPrepare(context.Background(), svc, token, 120, kp, "9876")
	require.NoError(t, err)

	assert.Equal(t, "0xzk", session.Address)
	assert.Equal(t, "42", session.Salt)
	assert.Equal(t, "123", session.Subject)
	assert.JSONEq(t, `{"proofPoints":{}}`, string(session.Proof))
	assert.Equal(t, api.ZkLoginProofRequest{
		JWT:                        token,
		MaxEpoch:                   120,
		ExtendedEphemeralPublicKey: sui.ExtendedEphemeralPublicKey(kp),
		JWTRandomness:              "9876",
		Salt:                       "42",
	}, svc.req)
}

func TestZkLoginPrepareBadToken(t *testing.T) {
	svc := &fakeZkLogin{}
	token := idToken(t, jwt.MapClaims{"iss": "i", "sub": "s", "aud": "a"})

	_, err := ZkLoginPrepare(context.Background(), svc, token, 1, testKeypair(t), "1")
	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, StepIdentity, stepErr.Step)
	assert.Empty(t, svc.calls)
}

func TestZkLoginPrepareNonceMismatch(t *testing.T) {
	svc := &fakeZkLogin{}
	kp := testKeypair(t)
	// token issued for a different max epoch
	token := idToken(t, jwt.MapClaims{"iss": "i", "sub": "s", "aud": "a", "nonce": sessionNonce(t, kp, 2, "1")})

	_, err := ZkLoginPrepare(context.Background(), svc, token, 1, kp, "1")
	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, StepIdentity, stepErr.Step)
	assert.ErrorContains(t, err, "does not match")
	assert.Empty(t, svc.calls)
}

func TestZkLoginPrepareSaltError(t *testing.T) {
	svc := &fakeZkLogin{err: errUpstream}
	token := idToken(t, jwt.MapClaims{"iss": "i", "sub": "s", "aud": "a", "nonce": sessionNonce(t, testKeypair(t), 1, "1")})

	_, err := ZkLoginPrepare(context.Background(), svc, token, 1, testKeypair(t), "1")
	assert.ErrorIs(t, err, errUpstream)
	assert.Equal(t, []string{"salt"}, svc.calls)
}
