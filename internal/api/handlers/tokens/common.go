package tokens

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github/veilport/go-wallet/internal/api/httperrors"
	"github/veilport/go-wallet/internal/types"
	"github/veilport/go-wallet/internal/wallet/signer"
)

// transactError maps a failed state-changing operation to the public error
// shape. A missing signing path is a caller configuration problem, not an
// upstream fault.
func transactError(log *zerolog.Logger, err error, msg string) error {
	if errors.Is(err, signer.ErrNoSigningPath) {
		return httperrors.NewHTTPError(http.StatusConflict, types.PublicHTTPErrorTypeNoSigningPath, "Wallet has no signing path")
	}

	log.Error().Err(err).Msg(msg)

	return httperrors.NewHTTPError(http.StatusBadGateway, types.PublicHTTPErrorTypeGeneric, msg)
}
