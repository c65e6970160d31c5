package viewingkey

import (
	"context"

	"github.com/pkg/errors"
	"github/veilport/go-wallet/internal/util"
	"github/veilport/go-wallet/internal/wallet"
	"github/veilport/go-wallet/internal/wallet/compute"
	"github/veilport/go-wallet/internal/wallet/credential"
)

type service struct {
	store *credential.Store
	query QueryClient
}

// NewService creates the resolver over a credential store and a query transport.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(store *credential.Store, query QueryClient) Service {
	return &service{
		store: store,
		query: query,
	}
}

// GetBalance obtains the confidential balance of one (wallet, contract)
// pair. External keys are attempted before the derived key: an externally
// established key represents explicit user intent and must not be masked by
// a working derived key.
func (s *service) GetBalance(ctx context.Context, identity *wallet.Identity, contractAddress string) BalanceOutcome {
	log := util.LogFromContext(ctx)

	rec, ok := s.store.Get(identity.Address, contractAddress)
	if !ok {
		return BalanceOutcome{IsError: true, DerivedErr: ErrNoCredential}
	}

	var outcome BalanceOutcome

	if rec.ActiveKind.IsExternal() && rec.ExternalKey != "" {
		amount, err := s.query.Balance(ctx, contractAddress, identity.Address, rec.ExternalKey)
		if err == nil {
			s.store.RecordSuccess(identity.Address, contractAddress, rec.ActiveKind, credential.Data{Amount: &amount})

			return BalanceOutcome{KindUsed: rec.ActiveKind, Amount: amount}
		}

		if !isCredentialRejected(err) {
			// Transient fault, not a credential problem: surface verbatim,
			// mutate nothing, do not burn the derived attempt.
			return BalanceOutcome{IsError: true, ExternalErr: err}
		}

		s.store.MarkInvalid(identity.Address, contractAddress, rec.ActiveKind)
		outcome.ExternalErr = err

		log.Debug().
			Str("contract", contractAddress).
			Str("kind", string(rec.ActiveKind)).
			Msg("External viewing key rejected, falling back to derived key")
	}

	if rec.DerivedKey != "" {
		amount, err := s.query.Balance(ctx, contractAddress, identity.Address, rec.DerivedKey)
		if err == nil {
			s.store.RecordSuccess(identity.Address, contractAddress, credential.KindDerived, credential.Data{Amount: &amount})

			return BalanceOutcome{KindUsed: credential.KindDerived, Amount: amount, ExternalErr: outcome.ExternalErr}
		}

		if isCredentialRejected(err) {
			// The derived key was never set on-chain for this contract.
			s.store.MarkInvalid(identity.Address, contractAddress, credential.KindDerived)
		}
		outcome.DerivedErr = err
	}

	if outcome.ExternalErr == nil && outcome.DerivedErr == nil {
		outcome.DerivedErr = ErrNoCredential
	}
	outcome.IsError = true

	return outcome
}

// GetTransactions obtains one page of confidential transfer history,
// applying the same credential protocol as GetBalance.
func (s *service) GetTransactions(ctx context.Context, identity *wallet.Identity, contractAddress string, page int) HistoryOutcome {
	log := util.LogFromContext(ctx)

	rec, ok := s.store.Get(identity.Address, contractAddress)
	if !ok {
		return HistoryOutcome{IsError: true, DerivedErr: ErrNoCredential}
	}

	var outcome HistoryOutcome

	if rec.ActiveKind.IsExternal() && rec.ExternalKey != "" {
		txs, total, err := s.query.TransferHistory(ctx, contractAddress, identity.Address, rec.ExternalKey, page)
		if err == nil {
			s.store.RecordSuccess(identity.Address, contractAddress, rec.ActiveKind, credential.Data{Txs: &txs, TotalTxs: total})

			return HistoryOutcome{KindUsed: rec.ActiveKind, Txs: txs, TotalTxs: total}
		}

		if !isCredentialRejected(err) {
			return HistoryOutcome{IsError: true, ExternalErr: err}
		}

		s.store.MarkInvalid(identity.Address, contractAddress, rec.ActiveKind)
		outcome.ExternalErr = err

		log.Debug().
			Str("contract", contractAddress).
			Str("kind", string(rec.ActiveKind)).
			Msg("External viewing key rejected, falling back to derived key")
	}

	if rec.DerivedKey != "" {
		txs, total, err := s.query.TransferHistory(ctx, contractAddress, identity.Address, rec.DerivedKey, page)
		if err == nil {
			s.store.RecordSuccess(identity.Address, contractAddress, credential.KindDerived, credential.Data{Txs: &txs, TotalTxs: total})

			return HistoryOutcome{KindUsed: credential.KindDerived, Txs: txs, TotalTxs: total, ExternalErr: outcome.ExternalErr}
		}

		if isCredentialRejected(err) {
			s.store.MarkInvalid(identity.Address, contractAddress, credential.KindDerived)
		}
		outcome.DerivedErr = err
	}

	if outcome.ExternalErr == nil && outcome.DerivedErr == nil {
		outcome.DerivedErr = ErrNoCredential
	}
	outcome.IsError = true

	return outcome
}

// isCredentialRejected reports whether err is the structured wrong-key
// rejection. Every other failure is opaque to the resolver.
func isCredentialRejected(err error) bool {
	var vkErr *compute.ViewingKeyError

	return errors.As(err, &vkErr)
}
