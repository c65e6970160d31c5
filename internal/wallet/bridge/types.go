package bridge

import (
	"context"
	"encoding/json"

	"github/veilport/go-wallet/internal/wallet"
)

// RouteKind enumerates the quote strategies so dispatch stays
// exhaustiveness-checkable.
type RouteKind int

const (
	// RouteDirectBuild requests an externally computed, ready-to-submit payload.
	RouteDirectBuild RouteKind = iota
	// RouteLocalFee reads the locally cached confidential-network fee table.
	RouteLocalFee
	// RouteOriginFee queries the bridge for the fee charged on the origin side.
	RouteOriginFee
)

// QuoteRequest describes one bridge leg to be quoted or built.
type QuoteRequest struct {
	Source  wallet.Network
	Target  wallet.Network
	Address string
	To      string
	Amount  string
}

// Quote is the normalized result of any strategy.
type Quote struct {
	OK  bool    `json:"ok"`
	Fee float64 `json:"fee"`
	// Payload is the ready-to-submit transaction, present for direct builds only.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// OriginFeeInfo is the raw cross-chain fee response.
type OriginFeeInfo struct {
	Origin float64 `json:"origin"`
}

// Transport is the bridge network client.
type Transport interface {
	RequestBuild(ctx context.Context, req QuoteRequest) (json.RawMessage, error)
	RequestOriginFee(ctx context.Context, net wallet.Network) (*OriginFeeInfo, error)
	RequestMinAmount(ctx context.Context, source wallet.Network, target wallet.Network) (float64, error)
}

// Service routes quote requests to the right strategy and owns the
// minimum-amount cache.
type Service interface {
	Quote(ctx context.Context, req QuoteRequest) (*Quote, error)
	OriginFee(ctx context.Context, net wallet.Network) (*Quote, error)

	// MinAmount fetches the minimum bridgeable amount for a pair. Any
	// failure caches and returns exactly zero: a wrong default only affects
	// UI-side validation, never fund movement.
	MinAmount(ctx context.Context, source wallet.Network, target wallet.Network) float64

	// CachedMinAmount returns the last cached minimum for a pair, zero when
	// never fetched.
	CachedMinAmount(source wallet.Network, target wallet.Network) float64
}
