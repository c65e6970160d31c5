package signer

import (
	"context"

	"github.com/pkg/errors"
)

// pubKeyTypeSecp256k1 is the amino type tag expected by the confidential
// network for secp256k1 public keys.
const pubKeyTypeSecp256k1 = "tendermint/PubKeySecp256k1"

// ErrNoSigningPath is returned when a wallet identity matches neither the
// software nor the hardware signing path. Callers must treat it as a
// configuration error, never swallow it.
var ErrNoSigningPath = errors.New("no signing path available for wallet")

// PubKey is the public-key half of a signature envelope.
type PubKey struct {
	Type  string `json:"type"`
	Value string `json:"value"` // base64 compressed secp256k1 key
}

// Envelope is the uniform signature shape produced by every signing path.
type Envelope struct {
	PubKey    PubKey `json:"pub_key"`
	Signature string `json:"signature"` // base64 64-byte r||s
}

// SignFunc signs an arbitrary payload. It is the ephemeral capability handed
// to transports for the lifetime of one outgoing transaction.
type SignFunc func(ctx context.Context, payload []byte) (*Envelope, error)

// Capability produces signatures for one wallet identity, hiding whether
// signing happens locally or on an external device.
type Capability interface {
	Sign(ctx context.Context, payload []byte) (*Envelope, error)
}

// DeviceSignature is what a signing device reports back.
type DeviceSignature struct {
	// Signature is the compact 64-byte r||s signature.
	Signature []byte
	// PublicKey is the compressed secp256k1 key the device signed with.
	PublicKey []byte
}

// Device is one open connection to a signing device.
type Device interface {
	// Sign requests a signature over payload for the given derivation path.
	// It may block until the user confirms on the device.
	Sign(ctx context.Context, path []uint32, payload []byte) (*DeviceSignature, error)
	Close() error
}

// DeviceTransport opens connections to a signing device. Connections are
// opened per signing operation and never pooled.
type DeviceTransport interface {
	Connect(ctx context.Context) (Device, error)
}
