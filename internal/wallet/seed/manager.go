package seed

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"sync"

	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip32"
	"golang.org/x/crypto/pbkdf2"
)

// manager implements seed management with thread-safe access
type manager struct {
	seed        []byte
	mu          sync.RWMutex
	initialized bool
}

// NewManager creates a new seed Manager
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewManager() Manager {
	return &manager{
		seed:        nil,
		initialized: false,
	}
}

// Initialize initializes the seed manager with mnemonic and password
// This converts mnemonic to seed using PBKDF2 (BIP39 standard)
func (m *manager) Initialize(mnemonic string, password string) error {
	if mnemonic == "" {
		return errors.New("mnemonic must not be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// BIP39: seed = PBKDF2(mnemonic, "mnemonic" + password, 2048, 64, SHA512)
	const (
		pbkdf2Iterations = 2048 // BIP39 standard iterations
		pbkdf2KeyLength  = 64   // BIP39 standard key length (512 bits)
	)

	m.seed = pbkdf2.Key(
		[]byte(mnemonic),
		[]byte("mnemonic"+password),
		pbkdf2Iterations,
		pbkdf2KeyLength,
		sha512.New,
	)
	m.initialized = true

	return nil
}

// IsInitialized checks if seed is initialized
func (m *manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.initialized
}

// DerivePrivateKey derives the secp256k1 private key for a wallet index
func (m *manager) DerivePrivateKey(index uint32) ([]byte, error) {
	child, err := m.childKey(index)
	if err != nil {
		return nil, err
	}

	key := make([]byte, len(child.Key))
	copy(key, child.Key)

	return key, nil
}

// SecretHash derives the stable per-wallet secret hash used to generate
// deterministic viewing keys. It is the hex sha256 of the wallet's private key.
func (m *manager) SecretHash(index uint32) (string, error) {
	child, err := m.childKey(index)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(child.Key)

	return hex.EncodeToString(sum[:]), nil
}

// Clear clears the seed from memory
func (m *manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.seed != nil {
		for i := range m.seed {
			m.seed[i] = 0
		}
		m.seed = nil
	}
	m.initialized = false
}

func (m *manager) childKey(index uint32) (*bip32.Key, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.initialized || m.seed == nil {
		return nil, errors.New("seed not initialized")
	}

	master, err := bip32.NewMasterKey(m.seed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build master key")
	}

	child, err := master.NewChildKey(index)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to derive child key %d", index)
	}

	return child, nil
}
