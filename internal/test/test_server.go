// Package test provides helpers for running HTTP tests against a fully
// wired server with stubbed upstream endpoints.
package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github/veilport/go-wallet/internal/api"
	"github/veilport/go-wallet/internal/api/handlers"
	"github/veilport/go-wallet/internal/config"
)

// Mnemonic is the well-known BIP39 test vector mnemonic.
const Mnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// WrappedContract is the wrapped-native contract address of the default
// test token registry.
const WrappedContract = "veil1wrappedtest0000000000000000000000000000"

// ServerOptions configures the stubbed upstreams of a test server.
type ServerOptions struct {
	// ComputeHandler serves the confidential-computation endpoints.
	// Defaults to an endpoint answering 502 to everything.
	ComputeHandler http.Handler

	// BackendHandler serves the wallet backend endpoints.
	// Defaults to an endpoint answering 502 to everything.
	BackendHandler http.Handler

	// Tokens overrides the default token registry.
	Tokens []config.Token
}

// WithTestServer runs closure against a fully initialized server whose
// upstreams point at in-process stubs.
func WithTestServer(t *testing.T, opts ServerOptions, closure func(s *api.Server)) {
	t.Helper()

	if opts.ComputeHandler == nil {
		opts.ComputeHandler = unavailableHandler()
	}
	if opts.BackendHandler == nil {
		opts.BackendHandler = unavailableHandler()
	}
	if opts.Tokens == nil {
		opts.Tokens = DefaultTokens()
	}

	computeSrv := httptest.NewServer(opts.ComputeHandler)
	t.Cleanup(computeSrv.Close)

	backendSrv := httptest.NewServer(opts.BackendHandler)
	t.Cleanup(backendSrv.Close)

	cfg := config.Server{
		Echo: config.EchoServer{ListenAddress: ":0"},
		Logger: config.LoggerServer{
			Level: "warn",
		},
		Compute: config.ComputeServer{
			Endpoint:       computeSrv.URL,
			ChainID:        "veil-test-1",
			HistoryPage:    10,
			RequestTimeout: 5,
		},
		Bridge: config.BridgeServer{
			Endpoint:       backendSrv.URL,
			RequestTimeout: 5,
		},
		Wallet: config.WalletServer{Mnemonic: Mnemonic},
		Tokens: opts.Tokens,
	}

	s, err := api.InitNewServer(cfg)
	require.NoError(t, err)

	handlers.AttachAllRoutes(s)

	closure(s)
}

// DefaultTokens returns the token registry test servers start with.
func DefaultTokens() []config.Token {
	return []config.Token{
		{
			Code:            "veil_wveil",
			Symbol:          "wVEIL",
			Network:         "veil_token",
			ContractAddress: WrappedContract,
			Decimals:        6,
			Favorite:        true,
		},
	}
}

// PerformRequest runs one request against the server's router. A non-nil
// body is sent as JSON.
func PerformRequest(t *testing.T, s *api.Server, method string, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	return rec
}

func unavailableHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
}
