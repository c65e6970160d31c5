package tokens

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/veilport/go-wallet/internal/api"
	"github/veilport/go-wallet/internal/api/httperrors"
	"github/veilport/go-wallet/internal/types"
	"github/veilport/go-wallet/internal/util"
)

func PostSyncRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Tok.POST("/sync", postSyncHandler(s))
}

func postSyncHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostSyncRequest
		if err := c.Bind(&body); err != nil {
			return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Invalid request body")
		}

		identity, secretHash, err := s.IdentityFromParams(body.Wallet)
		if err != nil {
			return err
		}

		// An in-flight sync makes this request a recorded no-op, not an error.
		if s.Sync.InFlight(identity.Address) {
			return c.JSON(http.StatusOK, &types.PostSyncResponse{Started: false})
		}

		if err := s.Sync.Sync(ctx, identity, secretHash); err != nil {
			log.Error().Err(err).Msg("Sync failed")

			return httperrors.NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, "Sync failed")
		}

		return c.JSON(http.StatusOK, &types.PostSyncResponse{Started: true})
	}
}
