package signer

import (
	"context"

	"github/veilport/go-wallet/internal/wallet"
)

// New selects the signing path for an identity once, at construction.
// Software identities with malformed key material fail here, not at Sign.
// Identities matching neither path get a no-op capability whose Sign
// returns ErrNoSigningPath.
//
//nolint:ireturn // Returning interface is intentional, the variants are opaque to callers
func New(identity *wallet.Identity, device DeviceTransport) (Capability, error) {
	switch {
	case identity.IsSoftware():
		return newSoftware(identity)
	case identity.IsHardware() && device != nil:
		return newHardware(identity, device), nil
	default:
		return noop{}, nil
	}
}

// noop is the capability selected when no signing path applies.
type noop struct{}

func (noop) Sign(_ context.Context, _ []byte) (*Envelope, error) {
	return nil, ErrNoSigningPath
}
