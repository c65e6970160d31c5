package tokens

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/veilport/go-wallet/internal/api"
	"github/veilport/go-wallet/internal/api/httperrors"
	"github/veilport/go-wallet/internal/types"
	"github/veilport/go-wallet/internal/util"
)

func PostViewingKeyRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Tok.POST("/:contract/viewing-key", postViewingKeyHandler(s))
}

// postViewingKeyHandler establishes a viewing key on-chain: the provided
// one when the body carries a key, a contract-generated random one otherwise.
func postViewingKeyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		contract := c.Param("contract")

		var body types.PostViewingKeyRequest
		if err := c.Bind(&body); err != nil {
			return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Invalid request body")
		}

		identity, _, err := s.IdentityFromParams(body.Wallet)
		if err != nil {
			return err
		}

		if body.Key != "" {
			result, err := s.Transact.SetViewingKey(ctx, identity, contract, body.Key)
			if err != nil {
				return transactError(log, err, "Failed to set viewing key")
			}

			return c.JSON(http.StatusOK, &types.PostViewingKeyResponse{TxHash: result.TxHash})
		}

		result, err := s.Transact.CreateRandomViewingKey(ctx, identity, contract)
		if err != nil {
			return transactError(log, err, "Failed to create viewing key")
		}

		return c.JSON(http.StatusOK, &types.PostViewingKeyResponse{
			TxHash:     result.TxHash,
			ViewingKey: result.ViewingKey,
		})
	}
}
