package fees

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/veilport/go-wallet/internal/wallet"
)

// Tier is one fee level of a network's schedule.
type Tier struct {
	Fee float64 `json:"fee"`
}

// Table is the per-network fee schedule.
type Table struct {
	Low  Tier `json:"low"`
	Mid  Tier `json:"mid"`
	High Tier `json:"high"`
}

// Loader fetches a network's fee schedule from the backend.
type Loader interface {
	FeeSchedule(ctx context.Context, net wallet.Network) (*Table, error)
}

// Service is a lazy fetch-once-per-network cache of fee schedules.
type Service interface {
	// Schedule returns the cached table for a network, if loaded.
	Schedule(net wallet.Network) (*Table, bool)

	// EnsureLoaded fetches the table on first use; subsequent calls for the
	// same network are no-ops.
	EnsureLoaded(ctx context.Context, net wallet.Network) error

	// Invalidate drops the cached table so the next EnsureLoaded refetches.
	Invalidate(net wallet.Network)
}

type service struct {
	loader Loader
	mu     sync.RWMutex
	tables map[wallet.Network]*Table
}

// NewService creates the fee cache over a loader.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(loader Loader) Service {
	return &service{
		loader: loader,
		tables: make(map[wallet.Network]*Table),
	}
}

func (s *service) Schedule(net wallet.Network) (*Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	table, ok := s.tables[net]

	return table, ok
}

func (s *service) EnsureLoaded(ctx context.Context, net wallet.Network) error {
	if _, ok := s.Schedule(net); ok {
		return nil
	}

	table, err := s.loader.FeeSchedule(ctx, net)
	if err != nil {
		return errors.Wrapf(err, "failed to load fee schedule for %s", net)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A concurrent load may have won; keeping the first result is fine, the
	// schedule is the same snapshot either way.
	if _, ok := s.tables[net]; !ok {
		s.tables[net] = table

		log.Debug().Str("network", string(net)).Msg("Fee schedule loaded")
	}

	return nil
}

func (s *service) Invalidate(net wallet.Network) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tables, net)
}
