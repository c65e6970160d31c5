package transact

import (
	"context"

	"github/veilport/go-wallet/internal/config"
	"github/veilport/go-wallet/internal/wallet"
	"github/veilport/go-wallet/internal/wallet/compute"
	"github/veilport/go-wallet/internal/wallet/signer"
)

// Executor broadcasts signed contract executions.
type Executor interface {
	Execute(ctx context.Context, sender string, req compute.ExecuteRequest, sign signer.SignFunc) (*compute.ExecuteResult, error)
}

// Result is the outcome of one state-changing operation.
type Result struct {
	TxHash string
}

// KeyResult is the outcome of a random viewing-key creation.
type KeyResult struct {
	TxHash     string
	ViewingKey string
}

// Service executes the state-changing token operations: establishing
// viewing keys, transfers and conversions. Every operation constructs its
// signing capability once, for the lifetime of the transaction.
type Service interface {
	// SetViewingKey establishes a user-provided viewing key on-chain and
	// records it as the imported credential on success.
	SetViewingKey(ctx context.Context, identity *wallet.Identity, contractAddress string, viewingKey string) (*Result, error)

	// CreateRandomViewingKey has the contract generate a viewing key from
	// fresh entropy and records it as the random credential on success.
	CreateRandomViewingKey(ctx context.Context, identity *wallet.Identity, contractAddress string) (*KeyResult, error)

	// Transfer moves confidential tokens to a recipient.
	Transfer(ctx context.Context, identity *wallet.Identity, token config.Token, recipient string, amount string) (*Result, error)

	// ConvertToBridge sends tokens to the bridge contract with the foreign
	// recipient address attached.
	ConvertToBridge(ctx context.Context, identity *wallet.Identity, token config.Token, bridgeContract string, toAddress string, amount string) (*Result, error)

	// Wrap converts native coin into its confidential token representation.
	Wrap(ctx context.Context, identity *wallet.Identity, amount string) (*Result, error)

	// Unwrap redeems confidential tokens back into native coin.
	Unwrap(ctx context.Context, identity *wallet.Identity, amount string) (*Result, error)
}
