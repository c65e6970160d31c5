package tokens

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/veilport/go-wallet/internal/api"
	"github/veilport/go-wallet/internal/api/httperrors"
	"github/veilport/go-wallet/internal/types"
	"github/veilport/go-wallet/internal/util"
	"github/veilport/go-wallet/internal/wallet"
)

func GetTokenBalanceRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Tok.GET("/:contract/balance", getTokenBalanceHandler(s))
}

func getTokenBalanceHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		contract := c.Param("contract")
		address := c.QueryParam("address")
		if address == "" {
			return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidWallet, "Wallet address is required")
		}

		identity := &wallet.Identity{Address: address}

		outcome := s.Resolver.GetBalance(ctx, identity, contract)
		if outcome.IsError {
			log.Debug().
				Str("contract", contract).
				AnErr("external_err", outcome.ExternalErr).
				AnErr("derived_err", outcome.DerivedErr).
				Msg("Balance unavailable")

			return httperrors.NewHTTPError(http.StatusBadGateway, types.PublicHTTPErrorTypeTokenUnavailable, "Balance is unavailable")
		}

		return c.JSON(http.StatusOK, &types.GetTokenBalanceResponse{
			Amount:    outcome.Amount,
			KindUsed:  string(outcome.KindUsed),
			Reachable: true,
		})
	}
}
