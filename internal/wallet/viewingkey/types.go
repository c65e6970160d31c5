package viewingkey

import (
	"context"

	"github.com/pkg/errors"
	"github/veilport/go-wallet/internal/wallet"
	"github/veilport/go-wallet/internal/wallet/credential"
)

// ErrNoCredential is returned when a pair has neither an external nor a
// derived viewing key to attempt a query with.
var ErrNoCredential = errors.New("no viewing credential available")

// QueryClient is the confidential-query transport the resolver drives.
// A rejected credential must surface as *compute.ViewingKeyError; any other
// error is treated as transient and passed through verbatim.
type QueryClient interface {
	Balance(ctx context.Context, contractAddress string, walletAddress string, viewingKey string) (string, error)
	TransferHistory(ctx context.Context, contractAddress string, walletAddress string, viewingKey string, page int) ([]wallet.Transfer, *int64, error)
}

// BalanceOutcome is the composite result of one balance resolve.
type BalanceOutcome struct {
	IsError  bool
	KindUsed credential.Kind
	Amount   string

	// Specific errors per attempted credential kind; nil when not attempted.
	ExternalErr error
	DerivedErr  error
}

// HistoryOutcome is the composite result of one history resolve.
type HistoryOutcome struct {
	IsError  bool
	KindUsed credential.Kind
	Txs      []wallet.Transfer
	TotalTxs *int64

	ExternalErr error
	DerivedErr  error
}

// Service resolves confidential queries with the best available credential,
// falling back deterministically and feeding rejections back into the store.
type Service interface {
	GetBalance(ctx context.Context, identity *wallet.Identity, contractAddress string) BalanceOutcome
	GetTransactions(ctx context.Context, identity *wallet.Identity, contractAddress string, page int) HistoryOutcome
}
