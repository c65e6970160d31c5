package viewingkey_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/veilport/go-wallet/internal/wallet"
	"github/veilport/go-wallet/internal/wallet/compute"
	"github/veilport/go-wallet/internal/wallet/credential"
	"github/veilport/go-wallet/internal/wallet/viewingkey"
)

const (
	testWallet   = "veil1testwallet000000000000000000000000000000"
	testContract = "veil1testcontract00000000000000000000000000000"
	testHash     = "6c3e1f204c2e8f7a0f4b9f0f9d8f3e2a1b0c9d8e7f6a5b4c3d2e1f0a9b8c7d6e"
)

// fakeQuery answers queries per viewing key: a balance for accepted keys, a
// wrong-key rejection for rejected ones and a transient error for the rest.
type fakeQuery struct {
	balances map[string]string
	txs      map[string][]wallet.Transfer
	rejected map[string]bool
	downErr  error

	balanceKeys []string // keys in attempt order
	historyKeys []string
}

func newFakeQuery() *fakeQuery {
	return &fakeQuery{
		balances: make(map[string]string),
		txs:      make(map[string][]wallet.Transfer),
		rejected: make(map[string]bool),
	}
}

func (f *fakeQuery) Balance(_ context.Context, _ string, _ string, viewingKey string) (string, error) {
	f.balanceKeys = append(f.balanceKeys, viewingKey)

	if f.downErr != nil {
		return "", f.downErr
	}
	if f.rejected[viewingKey] {
		return "", &compute.ViewingKeyError{Msg: "Wrong viewing key for this address or viewing key not set"}
	}
	if amount, ok := f.balances[viewingKey]; ok {
		return amount, nil
	}

	return "", &compute.ViewingKeyError{Msg: "Wrong viewing key for this address or viewing key not set"}
}

func (f *fakeQuery) TransferHistory(_ context.Context, _ string, _ string, viewingKey string, _ int) ([]wallet.Transfer, *int64, error) {
	f.historyKeys = append(f.historyKeys, viewingKey)

	if f.downErr != nil {
		return nil, nil, f.downErr
	}
	if f.rejected[viewingKey] {
		return nil, nil, &compute.ViewingKeyError{Msg: "Wrong viewing key for this address or viewing key not set"}
	}
	if txs, ok := f.txs[viewingKey]; ok {
		total := int64(len(txs))
		return txs, &total, nil
	}

	return nil, nil, &compute.ViewingKeyError{Msg: "Wrong viewing key for this address or viewing key not set"}
}

func testIdentity() *wallet.Identity {
	return &wallet.Identity{Address: testWallet, Kind: wallet.KindSoftware}
}

func derivedKey(t *testing.T) string {
	t.Helper()

	key, err := credential.GenerateDerivedKey(testHash, testContract)
	require.NoError(t, err)

	return key
}

func TestGetBalanceDerivedOnly(t *testing.T) {
	store := credential.NewStore()
	require.NoError(t, store.Ensure(testWallet, testContract, testHash))

	query := newFakeQuery()
	query.balances[derivedKey(t)] = "42"

	resolver := viewingkey.NewService(store, query)

	outcome := resolver.GetBalance(context.Background(), testIdentity(), testContract)
	require.False(t, outcome.IsError)
	assert.Equal(t, "42", outcome.Amount)
	assert.Equal(t, credential.KindDerived, outcome.KindUsed)
	assert.Equal(t, []string{derivedKey(t)}, query.balanceKeys, "only the derived key may be attempted")

	rec, ok := store.Get(testWallet, testContract)
	require.True(t, ok)
	assert.True(t, rec.IsReachable)
	assert.Equal(t, "42", rec.Amount)
	assert.Equal(t, credential.KindDerived, rec.ActiveKind)
}

func TestGetBalanceExternalPreferredOverDerived(t *testing.T) {
	store := credential.NewStore()
	require.NoError(t, store.Ensure(testWallet, testContract, testHash))
	require.NoError(t, store.SetExternalKey(testWallet, testContract, "user-key", credential.KindImported))

	query := newFakeQuery()
	query.balances["user-key"] = "100"
	query.balances[derivedKey(t)] = "42"

	resolver := viewingkey.NewService(store, query)

	outcome := resolver.GetBalance(context.Background(), testIdentity(), testContract)
	require.False(t, outcome.IsError)
	assert.Equal(t, "100", outcome.Amount)
	assert.Equal(t, credential.KindImported, outcome.KindUsed)
	assert.Equal(t, []string{"user-key"}, query.balanceKeys, "a working external key must preempt the derived key")
}

func TestGetBalanceRejectedExternalFallsBackToDerived(t *testing.T) {
	store := credential.NewStore()
	require.NoError(t, store.Ensure(testWallet, testContract, testHash))
	require.NoError(t, store.SetExternalKey(testWallet, testContract, "stale-key", credential.KindRandom))

	query := newFakeQuery()
	query.rejected["stale-key"] = true
	query.balances[derivedKey(t)] = "7"

	resolver := viewingkey.NewService(store, query)

	outcome := resolver.GetBalance(context.Background(), testIdentity(), testContract)
	require.False(t, outcome.IsError)
	assert.Equal(t, "7", outcome.Amount)
	assert.Equal(t, credential.KindDerived, outcome.KindUsed)
	assert.Error(t, outcome.ExternalErr, "the rejection must stay visible on the outcome")

	rec, ok := store.Get(testWallet, testContract)
	require.True(t, ok)
	assert.Empty(t, rec.ExternalKey, "rejected external key must be cleared")
	assert.Equal(t, credential.KindDerived, rec.ActiveKind)
	assert.True(t, rec.IsReachable)

	// The next resolve must not attempt the rejected key again.
	query.balanceKeys = nil
	outcome = resolver.GetBalance(context.Background(), testIdentity(), testContract)
	require.False(t, outcome.IsError)
	assert.Equal(t, []string{derivedKey(t)}, query.balanceKeys)
}

func TestGetBalanceBothRejected(t *testing.T) {
	store := credential.NewStore()
	require.NoError(t, store.Ensure(testWallet, testContract, testHash))
	require.NoError(t, store.SetExternalKey(testWallet, testContract, "stale-key", credential.KindImported))

	query := newFakeQuery()
	query.rejected["stale-key"] = true
	query.rejected[derivedKey(t)] = true

	resolver := viewingkey.NewService(store, query)

	outcome := resolver.GetBalance(context.Background(), testIdentity(), testContract)
	require.True(t, outcome.IsError)
	assert.Error(t, outcome.ExternalErr)
	assert.Error(t, outcome.DerivedErr)

	rec, ok := store.Get(testWallet, testContract)
	require.True(t, ok)
	assert.False(t, rec.IsReachable)
}

func TestGetBalanceTransientErrorMutatesNothing(t *testing.T) {
	store := credential.NewStore()
	require.NoError(t, store.Ensure(testWallet, testContract, testHash))
	require.NoError(t, store.SetExternalKey(testWallet, testContract, "user-key", credential.KindImported))

	query := newFakeQuery()
	query.downErr = errors.New("connection refused")

	resolver := viewingkey.NewService(store, query)

	outcome := resolver.GetBalance(context.Background(), testIdentity(), testContract)
	require.True(t, outcome.IsError)
	assert.Error(t, outcome.ExternalErr)
	assert.NoError(t, outcome.DerivedErr, "a transient fault must not burn the derived attempt")
	assert.Equal(t, []string{"user-key"}, query.balanceKeys)

	rec, ok := store.Get(testWallet, testContract)
	require.True(t, ok)
	assert.Equal(t, "user-key", rec.ExternalKey, "a transient fault must not invalidate the credential")
	assert.Equal(t, credential.KindImported, rec.ActiveKind)
}

func TestGetBalanceEmptyExternalKeyNeverAttempted(t *testing.T) {
	store := credential.NewStore()
	require.NoError(t, store.Ensure(testWallet, testContract, testHash))

	// An external kind without key material, as left behind by a partial
	// success report.
	store.RecordSuccess(testWallet, testContract, credential.KindImported, credential.Data{})

	query := newFakeQuery()
	query.balances[derivedKey(t)] = "13"

	resolver := viewingkey.NewService(store, query)

	outcome := resolver.GetBalance(context.Background(), testIdentity(), testContract)
	require.False(t, outcome.IsError)
	assert.Equal(t, []string{derivedKey(t)}, query.balanceKeys, "an empty external key must never reach the wire")
}

func TestGetBalanceUnknownPair(t *testing.T) {
	resolver := viewingkey.NewService(credential.NewStore(), newFakeQuery())

	outcome := resolver.GetBalance(context.Background(), testIdentity(), testContract)
	require.True(t, outcome.IsError)
	assert.ErrorIs(t, outcome.DerivedErr, viewingkey.ErrNoCredential)
}

func TestGetBalanceNoCredentialAvailable(t *testing.T) {
	store := credential.NewStore()
	require.NoError(t, store.Ensure(testWallet, testContract, ""))

	resolver := viewingkey.NewService(store, newFakeQuery())

	outcome := resolver.GetBalance(context.Background(), testIdentity(), testContract)
	require.True(t, outcome.IsError)
	assert.ErrorIs(t, outcome.DerivedErr, viewingkey.ErrNoCredential)
}

func TestGetTransactionsDerived(t *testing.T) {
	store := credential.NewStore()
	require.NoError(t, store.Ensure(testWallet, testContract, testHash))

	query := newFakeQuery()
	query.txs[derivedKey(t)] = []wallet.Transfer{
		{ID: 1, Sender: "veil1sender", Receiver: testWallet, Coins: wallet.Coin{Denom: "uveil", Amount: "5"}},
		{ID: 2, Sender: testWallet, Receiver: "veil1receiver", Coins: wallet.Coin{Denom: "uveil", Amount: "3"}},
	}

	resolver := viewingkey.NewService(store, query)

	outcome := resolver.GetTransactions(context.Background(), testIdentity(), testContract, 1)
	require.False(t, outcome.IsError)
	assert.Equal(t, credential.KindDerived, outcome.KindUsed)
	require.Len(t, outcome.Txs, 2)
	require.NotNil(t, outcome.TotalTxs)
	assert.EqualValues(t, 2, *outcome.TotalTxs)

	rec, ok := store.Get(testWallet, testContract)
	require.True(t, ok)
	assert.Len(t, rec.Txs, 2)
}

func TestGetTransactionsRejectedExternalFallsBack(t *testing.T) {
	store := credential.NewStore()
	require.NoError(t, store.Ensure(testWallet, testContract, testHash))
	require.NoError(t, store.SetExternalKey(testWallet, testContract, "stale-key", credential.KindImported))

	query := newFakeQuery()
	query.rejected["stale-key"] = true
	query.txs[derivedKey(t)] = []wallet.Transfer{{ID: 9}}

	resolver := viewingkey.NewService(store, query)

	outcome := resolver.GetTransactions(context.Background(), testIdentity(), testContract, 1)
	require.False(t, outcome.IsError)
	assert.Equal(t, credential.KindDerived, outcome.KindUsed)
	assert.Error(t, outcome.ExternalErr)
	assert.Equal(t, []string{"stale-key", derivedKey(t)}, query.historyKeys)
}
