package bridge

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github/veilport/go-wallet/internal/util"
	"github/veilport/go-wallet/internal/wallet"
	"github/veilport/go-wallet/internal/wallet/fees"
)

type service struct {
	transport Transport
	fees      fees.Service

	mu         sync.RWMutex
	minAmounts map[[2]wallet.Network]float64
}

// NewService creates the route dispatcher.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(transport Transport, feeService fees.Service) Service {
	return &service{
		transport:  transport,
		fees:       feeService,
		minAmounts: make(map[[2]wallet.Network]float64),
	}
}

// routeFor picks the strategy by source network: both representations of
// the confidential network pay their bridge leg with the locally known fee
// table, everything else gets an externally built transaction.
func routeFor(source wallet.Network) RouteKind {
	if source.IsConfidential() {
		return RouteLocalFee
	}

	return RouteDirectBuild
}

// Quote dispatches the request to its strategy and normalizes the result.
// Strategy errors propagate unmodified; retry policy belongs to callers.
func (s *service) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	switch routeFor(req.Source) {
	case RouteLocalFee:
		return s.localFee(ctx)
	case RouteDirectBuild:
		return s.directBuild(ctx, req)
	case RouteOriginFee:
		return s.OriginFee(ctx, req.Source)
	}

	return nil, errors.Errorf("no route for source network %q", req.Source)
}

// OriginFee queries the bridge for the fee charged on the origin side and
// normalizes it into the common quote shape.
func (s *service) OriginFee(ctx context.Context, net wallet.Network) (*Quote, error) {
	info, err := s.transport.RequestOriginFee(ctx, net)
	if err != nil {
		return nil, err
	}

	return &Quote{OK: true, Fee: info.Origin}, nil
}

func (s *service) MinAmount(ctx context.Context, source wallet.Network, target wallet.Network) float64 {
	min, err := s.transport.RequestMinAmount(ctx, source, target)
	if err != nil {
		util.LogFromContext(ctx).Warn().Err(err).
			Str("source", string(source)).
			Str("target", string(target)).
			Msg("Failed to fetch minimum bridge amount, defaulting to zero")

		min = 0
	}

	s.mu.Lock()
	s.minAmounts[[2]wallet.Network{source, target}] = min
	s.mu.Unlock()

	return min
}

func (s *service) CachedMinAmount(source wallet.Network, target wallet.Network) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.minAmounts[[2]wallet.Network{source, target}]
}

// localFee reads the confidential network's cached fee table, populating it
// on first use. The execution always happens on the token representation,
// so its table serves both source representations.
func (s *service) localFee(ctx context.Context) (*Quote, error) {
	if err := s.fees.EnsureLoaded(ctx, wallet.NetworkVeilToken); err != nil {
		return nil, err
	}

	table, ok := s.fees.Schedule(wallet.NetworkVeilToken)
	if !ok {
		return nil, errors.New("fee schedule unavailable after load")
	}

	return &Quote{OK: true, Fee: table.Low.Fee}, nil
}

func (s *service) directBuild(ctx context.Context, req QuoteRequest) (*Quote, error) {
	payload, err := s.transport.RequestBuild(ctx, req)
	if err != nil {
		return nil, err
	}

	return &Quote{OK: true, Payload: payload}, nil
}
