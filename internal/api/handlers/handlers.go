package handlers

import (
	"github.com/labstack/echo/v4"
	"github/veilport/go-wallet/internal/api"
	"github/veilport/go-wallet/internal/api/handlers/bridge"
	"github/veilport/go-wallet/internal/api/handlers/common"
	"github/veilport/go-wallet/internal/api/handlers/tokens"
)

// AttachAllRoutes registers every handler on the server's route groups.
func AttachAllRoutes(s *api.Server) {
	s.Router.Routes = []*echo.Route{
		common.GetReadyRoute(s),

		tokens.GetTokenBalanceRoute(s),
		tokens.GetTokenTransactionsRoute(s),
		tokens.PostSyncRoute(s),
		tokens.PostViewingKeyRoute(s),
		tokens.PostTransferRoute(s),
		tokens.PostWrapRoute(s),
		tokens.PostUnwrapRoute(s),
		tokens.PostConvertRoute(s),

		bridge.PostQuoteRoute(s),
		bridge.GetMinAmountRoute(s),
	}
}
