package tokens

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github/veilport/go-wallet/internal/api"
	"github/veilport/go-wallet/internal/api/httperrors"
	"github/veilport/go-wallet/internal/types"
	"github/veilport/go-wallet/internal/wallet"
)

func GetTokenTransactionsRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Tok.GET("/:contract/transactions", getTokenTransactionsHandler(s))
}

func getTokenTransactionsHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		contract := c.Param("contract")
		address := c.QueryParam("address")
		if address == "" {
			return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidWallet, "Wallet address is required")
		}

		page := 1
		if raw := c.QueryParam("page"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Invalid page")
			}
			page = parsed
		}

		identity := &wallet.Identity{Address: address}

		outcome := s.Resolver.GetTransactions(ctx, identity, contract, page)
		if outcome.IsError {
			return httperrors.NewHTTPError(http.StatusBadGateway, types.PublicHTTPErrorTypeTokenUnavailable, "Transfer history is unavailable")
		}

		return c.JSON(http.StatusOK, &types.GetTokenTransactionsResponse{
			Txs:      types.NewTransferItems(outcome.Txs),
			TotalTxs: outcome.TotalTxs,
			KindUsed: string(outcome.KindUsed),
		})
	}
}
