package tokensync

import (
	"context"
	"sync"

	"github/veilport/go-wallet/internal/config"
	"github/veilport/go-wallet/internal/util"
	"github/veilport/go-wallet/internal/wallet"
	"github/veilport/go-wallet/internal/wallet/credential"
	"github/veilport/go-wallet/internal/wallet/fees"
	"github/veilport/go-wallet/internal/wallet/viewingkey"
)

// Service refreshes balances and histories for every tracked, favorited
// token of one wallet. Only one sync per wallet runs at a time; overlapping
// requests are no-ops.
type Service interface {
	Sync(ctx context.Context, identity *wallet.Identity, secretHash string) error

	// InFlight reports whether a sync is currently running for the wallet.
	InFlight(walletAddress string) bool
}

type service struct {
	store    *credential.Store
	resolver viewingkey.Service
	fees     fees.Service
	tokens   []config.Token

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewService creates the sync orchestrator over the configured token registry.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(store *credential.Store, resolver viewingkey.Service, feeService fees.Service, tokens []config.Token) Service {
	return &service{
		store:    store,
		resolver: resolver,
		fees:     feeService,
		tokens:   tokens,
		inflight: make(map[string]struct{}),
	}
}

// Sync runs the structure-ensure step and then two strictly sequential
// passes (balances, then histories) over the favorited tokens. Sequential
// ordering is a deliberate throttle against confidential-query rate limits.
func (s *service) Sync(ctx context.Context, identity *wallet.Identity, secretHash string) error {
	if !s.begin(identity.Address) {
		util.LogFromContext(ctx).Debug().
			Str("wallet", identity.Address).
			Msg("Sync already in flight, skipping")

		return nil
	}
	defer s.end(identity.Address)

	log := util.LogFromContext(ctx)

	// Hardware wallets never hold a derivable secret locally.
	if identity.IsHardware() {
		secretHash = ""
	}

	for _, token := range s.tokens {
		if err := s.store.Ensure(identity.Address, token.ContractAddress, secretHash); err != nil {
			log.Warn().Err(err).
				Str("contract", token.ContractAddress).
				Msg("Failed to ensure credential record")
		}
	}

	for _, token := range s.favorites() {
		outcome := s.resolver.GetBalance(ctx, identity, token.ContractAddress)
		if outcome.IsError {
			log.Debug().
				Str("contract", token.ContractAddress).
				AnErr("external_err", outcome.ExternalErr).
				AnErr("derived_err", outcome.DerivedErr).
				Msg("Balance unavailable")

			continue
		}

		// A confirmed-live token is the first moment its chain's fee
		// schedule is known to be needed.
		if err := s.fees.EnsureLoaded(ctx, wallet.Network(token.Network)); err != nil {
			log.Warn().Err(err).
				Str("network", token.Network).
				Msg("Failed to load fee schedule")
		}
	}

	for _, token := range s.favorites() {
		outcome := s.resolver.GetTransactions(ctx, identity, token.ContractAddress, 1)
		if outcome.IsError {
			log.Debug().
				Str("contract", token.ContractAddress).
				AnErr("external_err", outcome.ExternalErr).
				AnErr("derived_err", outcome.DerivedErr).
				Msg("Transfer history unavailable")
		}
	}

	return nil
}

func (s *service) InFlight(walletAddress string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.inflight[walletAddress]

	return ok
}

// favorites returns the tracked tokens flagged for refresh, bounding query volume.
func (s *service) favorites() []config.Token {
	favorites := make([]config.Token, 0, len(s.tokens))
	for _, token := range s.tokens {
		if token.Favorite && token.ContractAddress != "" {
			favorites = append(favorites, token)
		}
	}

	return favorites
}

// begin atomically claims the per-wallet in-flight slot.
func (s *service) begin(walletAddress string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inflight[walletAddress]; ok {
		return false
	}
	s.inflight[walletAddress] = struct{}{}

	return true
}

// end releases the slot on every exit path.
func (s *service) end(walletAddress string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inflight, walletAddress)
}
