package tokens

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/veilport/go-wallet/internal/api"
	"github/veilport/go-wallet/internal/api/httperrors"
	"github/veilport/go-wallet/internal/types"
	"github/veilport/go-wallet/internal/util"
)

func PostConvertRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Tok.POST("/:contract/convert", postConvertHandler(s))
}

// postConvertHandler sends tokens to a bridge contract with the foreign
// recipient address attached, starting an outbound bridge leg.
func postConvertHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		contract := c.Param("contract")

		token, ok := s.TokenByContract(contract)
		if !ok {
			return httperrors.NewHTTPError(http.StatusNotFound, types.PublicHTTPErrorTypeUnknownToken, "Unknown token contract")
		}

		var body types.PostConvertRequest
		if err := c.Bind(&body); err != nil {
			return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Invalid request body")
		}

		if body.BridgeContract == "" || body.To == "" || body.Amount == "" {
			return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Bridge contract, recipient and amount are required")
		}

		identity, _, err := s.IdentityFromParams(body.Wallet)
		if err != nil {
			return err
		}

		result, err := s.Transact.ConvertToBridge(ctx, identity, token, body.BridgeContract, body.To, body.Amount)
		if err != nil {
			return transactError(log, err, "Bridge conversion failed")
		}

		return c.JSON(http.StatusOK, &types.PostTransferResponse{TxHash: result.TxHash})
	}
}
