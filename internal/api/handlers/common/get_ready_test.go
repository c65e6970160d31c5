package common_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github/veilport/go-wallet/internal/api"
	"github/veilport/go-wallet/internal/test"
)

func TestGetReadyReadiness(t *testing.T) {
	test.WithTestServer(t, test.ServerOptions{}, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/api/v1/ready", nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		require.Equal(t, "Ready.", res.Body.String())
	})
}

func TestGetReadyReadinessBroken(t *testing.T) {
	test.WithTestServer(t, test.ServerOptions{}, func(s *api.Server) {
		// forcefully remove an initialized component to check if ready state works
		s.Seed = nil

		res := test.PerformRequest(t, s, "GET", "/api/v1/ready", nil)
		require.Equal(t, 521, res.Result().StatusCode)
		require.Equal(t, "Not ready.", res.Body.String())
	})
}
