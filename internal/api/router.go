package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/veilport/go-wallet/internal/api/httperrors"
	"github/veilport/go-wallet/internal/types"
)

// InitRouter configures the echo instance and its route groups.
func (s *Server) InitRouter() {
	e := echo.New()
	e.Debug = s.Config.Echo.Debug
	e.HideBanner = true
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(loggerMiddleware())

	s.Echo = e
	s.Router = &Router{
		Root:      e.Group(""),
		APIV1Tok:  e.Group("/api/v1/tokens"),
		APIV1Brdg: e.Group("/api/v1/bridge"),
	}
}

// errorHandler serializes *httperrors.HTTPError bodies and hides everything
// else behind a generic payload.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *httperrors.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Internal != nil {
			log.Error().Err(httpErr.Internal).Str("type", httpErr.Type).Msg("Request failed")
		}

		_ = c.JSON(httpErr.Status, httpErr.PublicHTTPError)

		return
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		_ = c.JSON(echoErr.Code, types.PublicHTTPError{
			Status: echoErr.Code,
			Type:   types.PublicHTTPErrorTypeGeneric,
			Title:  http.StatusText(echoErr.Code),
		})

		return
	}

	log.Error().Err(err).Msg("Unhandled request error")

	_ = c.JSON(http.StatusInternalServerError, types.PublicHTTPError{
		Status: http.StatusInternalServerError,
		Type:   types.PublicHTTPErrorTypeGeneric,
		Title:  http.StatusText(http.StatusInternalServerError),
	})
}

// loggerMiddleware attaches a request-scoped zerolog logger to the context.
func loggerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			l := log.With().
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Logger()

			c.SetRequest(req.WithContext(l.WithContext(req.Context())))

			return next(c)
		}
	}
}
