package signer

import (
	"context"
	"encoding/base64"

	"github.com/pkg/errors"
	"github/veilport/go-wallet/internal/wallet"
)

const (
	// Cosmos-style derivation path components for the confidential network.
	derivePurpose  uint32 = 44
	deriveCoinType uint32 = 118
	// deriveAccount is fixed for device-held wallets.
	deriveAccount uint32 = 2
)

// hardware signs on an external device, one connection per operation.
type hardware struct {
	identity *wallet.Identity
	device   DeviceTransport
}

func newHardware(identity *wallet.Identity, device DeviceTransport) *hardware {
	return &hardware{
		identity: identity,
		device:   device,
	}
}

// Sign connects to the device, requests a signature over payload and
// reshapes the device response into the common envelope. The connection is
// closed before returning; it is never reused across calls. The call may
// block while the user confirms on the device.
func (h *hardware) Sign(ctx context.Context, payload []byte) (*Envelope, error) {
	conn, err := h.device.Connect(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to signing device")
	}
	defer conn.Close()

	sig, err := conn.Sign(ctx, h.derivationPath(), payload)
	if err != nil {
		return nil, errors.Wrap(err, "device signing failed")
	}

	if len(sig.Signature) != compactSignatureLength {
		return nil, errors.Errorf("device returned %d signature bytes, want %d", len(sig.Signature), compactSignatureLength)
	}

	return &Envelope{
		PubKey: PubKey{
			Type:  pubKeyTypeSecp256k1,
			Value: base64.StdEncoding.EncodeToString(sig.PublicKey),
		},
		Signature: base64.StdEncoding.EncodeToString(sig.Signature),
	}, nil
}

func (h *hardware) derivationPath() []uint32 {
	return []uint32{derivePurpose, deriveCoinType, deriveAccount, 0, h.identity.DeriveIndex}
}
