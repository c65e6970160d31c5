package signer

import (
	"context"
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/base64"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github/veilport/go-wallet/internal/wallet"
)

// compactSignatureLength is the r||s portion of a secp256k1 signature.
const compactSignatureLength = 64

// software signs locally with the wallet's private key material.
type software struct {
	key    *ecdsa.PrivateKey
	pubKey string // base64 compressed public key, fixed per keypair
}

func newSoftware(identity *wallet.Identity) (*software, error) {
	key, err := crypto.ToECDSA(identity.KeyMaterial)
	if err != nil {
		return nil, errors.Wrap(err, "malformed private key material")
	}

	compressed := crypto.CompressPubkey(&key.PublicKey)

	return &software{
		key:    key,
		pubKey: base64.StdEncoding.EncodeToString(compressed),
	}, nil
}

// Sign signs sha256(payload) and never performs I/O.
func (s *software) Sign(_ context.Context, payload []byte) (*Envelope, error) {
	digest := sha256.Sum256(payload)

	sig, err := crypto.Sign(digest[:], s.key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign payload")
	}

	// crypto.Sign appends a recovery byte the envelope format does not carry.
	return &Envelope{
		PubKey: PubKey{
			Type:  pubKeyTypeSecp256k1,
			Value: s.pubKey,
		},
		Signature: base64.StdEncoding.EncodeToString(sig[:compactSignatureLength]),
	}, nil
}
