package seed

// Manager provides the per-wallet secret material for software wallets
type Manager interface {
	// Initialize initializes the seed manager (called at startup)
	Initialize(mnemonic string, password string) error

	// IsInitialized checks if seed is initialized
	IsInitialized() bool

	// DerivePrivateKey derives the secp256k1 private key for a wallet index
	DerivePrivateKey(index uint32) ([]byte, error)

	// SecretHash derives the stable per-wallet secret hash used to generate
	// deterministic viewing keys for a wallet index
	SecretHash(index uint32) (string, error)

	// Clear clears the seed from memory
	Clear()
}
