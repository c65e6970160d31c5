package tokens

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/veilport/go-wallet/internal/api"
	"github/veilport/go-wallet/internal/api/httperrors"
	"github/veilport/go-wallet/internal/types"
	"github/veilport/go-wallet/internal/util"
)

func PostUnwrapRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Tok.POST("/unwrap", postUnwrapHandler(s))
}

// postUnwrapHandler redeems wrapped tokens back into native coin.
func postUnwrapHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostUnwrapRequest
		if err := c.Bind(&body); err != nil {
			return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Invalid request body")
		}

		if body.Amount == "" {
			return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Amount is required")
		}

		identity, _, err := s.IdentityFromParams(body.Wallet)
		if err != nil {
			return err
		}

		result, err := s.Transact.Unwrap(ctx, identity, body.Amount)
		if err != nil {
			return transactError(log, err, "Unwrap failed")
		}

		return c.JSON(http.StatusOK, &types.PostTransferResponse{TxHash: result.TxHash})
	}
}
