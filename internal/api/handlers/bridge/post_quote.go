package bridge

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/veilport/go-wallet/internal/api"
	"github/veilport/go-wallet/internal/api/httperrors"
	"github/veilport/go-wallet/internal/types"
	"github/veilport/go-wallet/internal/util"
	"github/veilport/go-wallet/internal/wallet"
	"github/veilport/go-wallet/internal/wallet/bridge"
)

func PostQuoteRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Brdg.POST("/quote", postQuoteHandler(s))
}

// postQuoteHandler quotes one bridge leg: a locally known fee for
// confidential sources, an externally built transaction otherwise.
func postQuoteHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostBridgeQuoteRequest
		if err := c.Bind(&body); err != nil {
			return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Invalid request body")
		}

		if body.Source == "" || body.Target == "" {
			return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Source and target networks are required")
		}

		quote, err := s.Bridge.Quote(ctx, bridge.QuoteRequest{
			Source:  wallet.Network(body.Source),
			Target:  wallet.Network(body.Target),
			Address: body.Address,
			To:      body.To,
			Amount:  body.Amount,
		})
		if err != nil {
			log.Error().Err(err).Str("source", body.Source).Str("target", body.Target).Msg("Bridge quote failed")

			return httperrors.NewHTTPError(http.StatusBadGateway, types.PublicHTTPErrorTypeGeneric, "Bridge quote failed")
		}

		return c.JSON(http.StatusOK, &types.PostBridgeQuoteResponse{
			OK:      quote.OK,
			Fee:     quote.Fee,
			Payload: quote.Payload,
		})
	}
}
