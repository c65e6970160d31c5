package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/veilport/go-wallet/internal/config"
	"github/veilport/go-wallet/internal/wallet"
	"github/veilport/go-wallet/internal/wallet/backend"
	"github/veilport/go-wallet/internal/wallet/bridge"
	"github/veilport/go-wallet/internal/wallet/compute"
	"github/veilport/go-wallet/internal/wallet/credential"
	"github/veilport/go-wallet/internal/wallet/fees"
	"github/veilport/go-wallet/internal/wallet/seed"
	"github/veilport/go-wallet/internal/wallet/tokensync"
	"github/veilport/go-wallet/internal/wallet/transact"
	"github/veilport/go-wallet/internal/wallet/viewingkey"
)

// Router groups the echo route groups handlers attach to.
type Router struct {
	Routes    []*echo.Route
	Root      *echo.Group
	APIV1Tok  *echo.Group
	APIV1Brdg *echo.Group
}

// Server wires the wallet core services behind the HTTP surface.
type Server struct {
	Config config.Server
	Echo   *echo.Echo
	Router *Router

	Store    *credential.Store
	Resolver viewingkey.Service
	Sync     tokensync.Service
	Bridge   bridge.Service
	Transact transact.Service
	Fees     fees.Service
	Seed     seed.Manager
}

// InitNewServer builds a fully wired server from the configuration.
func InitNewServer(cfg config.Server) (*Server, error) {
	computeClient := compute.NewClient(cfg.Compute)
	backendClient := backend.NewClient(cfg.Bridge)

	store := credential.NewStore()
	feeService := fees.NewService(backendClient)
	resolver := viewingkey.NewService(store, computeClient)
	syncService := tokensync.NewService(store, resolver, feeService, cfg.Tokens)
	bridgeService := bridge.NewService(backendClient, feeService)

	seedManager := seed.NewManager()
	if cfg.Wallet.Mnemonic != "" {
		if err := seedManager.Initialize(cfg.Wallet.Mnemonic, cfg.Wallet.Passphrase); err != nil {
			return nil, errors.Wrap(err, "failed to initialize seed manager")
		}
	}

	wrapped, ok := wrappedToken(cfg.Tokens)
	if !ok {
		return nil, errors.New("token registry is missing the wrapped native token")
	}

	s := &Server{
		Config:   cfg,
		Store:    store,
		Resolver: resolver,
		Sync:     syncService,
		Bridge:   bridgeService,
		// No device transport is attached in headless operation; hardware
		// wallets then fail with a missing signing path.
		Transact: transact.NewService(computeClient, store, feeService, nil, wrapped),
		Fees:     feeService,
		Seed:     seedManager,
	}

	s.InitRouter()

	return s, nil
}

// Ready reports whether every core service survived initialization.
func (s *Server) Ready() bool {
	return s.Store != nil &&
		s.Resolver != nil &&
		s.Sync != nil &&
		s.Bridge != nil &&
		s.Transact != nil &&
		s.Fees != nil &&
		s.Seed != nil
}

// Start begins serving on the configured listen address.
func (s *Server) Start() error {
	log.Info().Str("address", s.Config.Echo.ListenAddress).Msg("Starting server")

	return s.Echo.Start(s.Config.Echo.ListenAddress)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Warn().Msg("Shutting down server")

	return s.Echo.Shutdown(ctx)
}

func wrappedToken(tokens []config.Token) (config.Token, bool) {
	for _, token := range tokens {
		if wallet.Network(token.Network) == wallet.NetworkVeilToken {
			return token, true
		}
	}

	return config.Token{}, false
}
