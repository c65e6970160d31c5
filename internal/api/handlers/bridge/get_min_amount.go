package bridge

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/veilport/go-wallet/internal/api"
	"github/veilport/go-wallet/internal/api/httperrors"
	"github/veilport/go-wallet/internal/types"
	"github/veilport/go-wallet/internal/wallet"
)

func GetMinAmountRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Brdg.GET("/min-amount", getMinAmountHandler(s))
}

// getMinAmountHandler returns the minimum bridgeable amount for a network
// pair. Fetch failures surface as zero, never as an error.
func getMinAmountHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		source := c.QueryParam("source")
		target := c.QueryParam("target")

		if source == "" || target == "" {
			return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Source and target networks are required")
		}

		min := s.Bridge.MinAmount(ctx, wallet.Network(source), wallet.Network(target))

		return c.JSON(http.StatusOK, &types.GetMinAmountResponse{MinAmount: min})
	}
}
