package wallet

import (
	"crypto/sha256"
	"encoding/hex"
)

// Kind discriminates how a wallet can authorize state-changing operations.
type Kind string

const (
	// KindSoftware wallets hold their private key material locally.
	KindSoftware Kind = "software"
	// KindHardware wallets sign on an external device and never expose key material.
	KindHardware Kind = "hardware"
)

// Network identifies a chain as the wallet sees it.
type Network string

const (
	// NetworkVeil is the confidential-token network, native coin representation.
	NetworkVeil Network = "veil"
	// NetworkVeilToken is the confidential-token network, wrapped (token) representation.
	NetworkVeilToken Network = "veil_token"
	// NetworkEthereum is the bridged EVM side.
	NetworkEthereum Network = "eth"
)

// IsConfidential reports whether n is the confidential-token network in
// either of its representations.
func (n Network) IsConfidential() bool {
	return n == NetworkVeil || n == NetworkVeilToken
}

// Identity is the caller-owned wallet identity consumed by the core.
// It is immutable for the duration of an operation.
type Identity struct {
	Address string
	Kind    Kind

	// KeyMaterial is the raw secp256k1 private key for software wallets.
	// Empty for hardware wallets.
	KeyMaterial []byte

	// DeviceUserID addresses the signing device account for hardware wallets.
	DeviceUserID string

	// DeriveIndex is the per-network derivation index of this wallet.
	DeriveIndex uint32
}

// Coin is an amount/denom pair as reported by the confidential network.
type Coin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// Transfer is one entry of a confidential token's transfer history.
type Transfer struct {
	ID       uint64 `json:"id"`
	From     string `json:"from"`
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Coins    Coin   `json:"coins"`
}

// IsSoftware reports whether the identity signs with local key material.
func (i *Identity) IsSoftware() bool {
	return i.Kind == KindSoftware && len(i.KeyMaterial) > 0
}

// IsHardware reports whether the identity signs on an external device.
func (i *Identity) IsHardware() bool {
	return i.Kind == KindHardware
}

// SecretHashFromKey computes the stable per-wallet secret hash from raw
// private key material. Derived viewing keys are generated from it.
func SecretHashFromKey(key []byte) string {
	sum := sha256.Sum256(key)

	return hex.EncodeToString(sum[:])
}
