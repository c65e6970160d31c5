package api

import (
	"encoding/hex"
	"net/http"

	"github/veilport/go-wallet/internal/api/httperrors"
	"github/veilport/go-wallet/internal/config"
	"github/veilport/go-wallet/internal/types"
	"github/veilport/go-wallet/internal/wallet"
)

// IdentityFromParams builds the wallet identity a request acts as, together
// with the per-wallet secret hash used for derived viewing keys. Hardware
// wallets never yield a secret hash.
func (s *Server) IdentityFromParams(params types.WalletParams) (*wallet.Identity, string, error) {
	if params.Address == "" {
		return nil, "", httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidWallet, "Wallet address is required")
	}

	if wallet.Kind(params.Kind) == wallet.KindHardware {
		return &wallet.Identity{
			Address:      params.Address,
			Kind:         wallet.KindHardware,
			DeviceUserID: params.UserID,
		}, "", nil
	}

	identity := &wallet.Identity{
		Address: params.Address,
		Kind:    wallet.KindSoftware,
	}

	switch {
	case params.PrivateKey != nil:
		key, err := hex.DecodeString(*params.PrivateKey)
		if err != nil {
			return nil, "", httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidWallet, "Private key is not valid hex")
		}
		identity.KeyMaterial = key

		return identity, wallet.SecretHashFromKey(key), nil

	case params.DeriveIndex != nil:
		if *params.DeriveIndex < 0 {
			return nil, "", httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidWallet, "Derive index must not be negative")
		}
		index := uint32(*params.DeriveIndex)

		key, err := s.Seed.DerivePrivateKey(index)
		if err != nil {
			return nil, "", httperrors.NewHTTPError(http.StatusConflict, types.PublicHTTPErrorTypeInvalidWallet, "Local seed is not initialized")
		}
		identity.KeyMaterial = key
		identity.DeriveIndex = index

		secretHash, err := s.Seed.SecretHash(index)
		if err != nil {
			return nil, "", httperrors.NewHTTPError(http.StatusConflict, types.PublicHTTPErrorTypeInvalidWallet, "Local seed is not initialized")
		}

		return identity, secretHash, nil
	}

	return nil, "", httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidWallet, "Software wallets need a private key or derive index")
}

// TokenByContract looks a contract address up in the configured registry.
func (s *Server) TokenByContract(contractAddress string) (config.Token, bool) {
	for _, token := range s.Config.Tokens {
		if token.ContractAddress == contractAddress {
			return token, true
		}
	}

	return config.Token{}, false
}
