package sui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMistToSUI(t *testing.T) {
	assert.Equal(t, "1.5", MistToSUI(1_500_000_000).String())
	assert.Equal(t, "0.000000001", MistToSUI(1).String())
	assert.Equal(t, "0", MistToSUI(0).String())
}

func TestSUIToMist(t *testing.T) {
	mist, err := SUIToMist("0.25")
	require.NoError(t, err)
	assert.Equal(t, uint64(250_000_000), mist)

	mist, err = SUIToMist("3")
	require.NoError(t, err)
	assert.Equal(t, uint64(3*MistPerSUI), mist)

	for _, bad := range []string{"abc", "-1", "0.0000000001", "99999999999999999999"} {
		_, err := SUIToMist(bad)
		assert.Error(t, err, bad)
	}
}
