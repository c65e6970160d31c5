package seed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/veilport/go-wallet/internal/wallet/seed"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestInitialize(t *testing.T) {
	m := seed.NewManager()
	assert.False(t, m.IsInitialized())

	require.NoError(t, m.Initialize(testMnemonic, ""))
	assert.True(t, m.IsInitialized())
}

func TestInitializeEmptyMnemonic(t *testing.T) {
	m := seed.NewManager()

	require.Error(t, m.Initialize("", ""))
	assert.False(t, m.IsInitialized())
}

func TestDerivePrivateKeyDeterministic(t *testing.T) {
	m := seed.NewManager()
	require.NoError(t, m.Initialize(testMnemonic, ""))

	key1, err := m.DerivePrivateKey(0)
	require.NoError(t, err)
	key2, err := m.DerivePrivateKey(0)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)
	assert.Len(t, key1, 32)

	other, err := m.DerivePrivateKey(1)
	require.NoError(t, err)
	assert.NotEqual(t, key1, other)
}

func TestPassphraseChangesDerivation(t *testing.T) {
	withPass := seed.NewManager()
	require.NoError(t, withPass.Initialize(testMnemonic, "hunter2"))

	withoutPass := seed.NewManager()
	require.NoError(t, withoutPass.Initialize(testMnemonic, ""))

	key1, err := withPass.DerivePrivateKey(0)
	require.NoError(t, err)
	key2, err := withoutPass.DerivePrivateKey(0)
	require.NoError(t, err)
	assert.NotEqual(t, key1, key2)
}

func TestSecretHashMatchesPrivateKey(t *testing.T) {
	m := seed.NewManager()
	require.NoError(t, m.Initialize(testMnemonic, ""))

	hash1, err := m.SecretHash(3)
	require.NoError(t, err)
	hash2, err := m.SecretHash(3)
	require.NoError(t, err)
	assert.Equal(t, hash1, hash2)
	assert.Regexp(t, "^[0-9a-f]{64}$", hash1)

	otherHash, err := m.SecretHash(4)
	require.NoError(t, err)
	assert.NotEqual(t, hash1, otherHash)
}

func TestUninitializedDerivationFails(t *testing.T) {
	m := seed.NewManager()

	_, err := m.DerivePrivateKey(0)
	require.Error(t, err)

	_, err = m.SecretHash(0)
	require.Error(t, err)
}

func TestClear(t *testing.T) {
	m := seed.NewManager()
	require.NoError(t, m.Initialize(testMnemonic, ""))

	m.Clear()
	assert.False(t, m.IsInitialized())

	_, err := m.DerivePrivateKey(0)
	require.Error(t, err)
}
