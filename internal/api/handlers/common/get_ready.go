package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/veilport/go-wallet/internal/api"
)

func GetReadyRoute(s *api.Server) *echo.Route {
	return s.Router.Root.GET("/api/v1/ready", getReadyHandler(s))
}

// getReadyHandler reports whether all core services are wired.
func getReadyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.Ready() {
			return c.String(521, "Not ready.")
		}

		return c.String(http.StatusOK, "Ready.")
	}
}
