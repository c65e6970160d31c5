package tokensync_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/veilport/go-wallet/internal/config"
	"github/veilport/go-wallet/internal/wallet"
	"github/veilport/go-wallet/internal/wallet/credential"
	"github/veilport/go-wallet/internal/wallet/fees"
	"github/veilport/go-wallet/internal/wallet/tokensync"
	"github/veilport/go-wallet/internal/wallet/viewingkey"
)

const (
	testWallet = "veil1testwallet000000000000000000000000000000"
	testHash   = "6c3e1f204c2e8f7a0f4b9f0f9d8f3e2a1b0c9d8e7f6a5b4c3d2e1f0a9b8c7d6e"
)

var testTokens = []config.Token{
	{Code: "veil_wveil", Symbol: "wVEIL", Network: "veil_token", ContractAddress: "veil1wrapped", Decimals: 6, Favorite: true},
	{Code: "veil_aaa", Symbol: "AAA", Network: "veil_token", ContractAddress: "veil1aaa", Decimals: 6, Favorite: true},
	{Code: "veil_bbb", Symbol: "BBB", Network: "veil_token", ContractAddress: "veil1bbb", Decimals: 6, Favorite: false},
}

// fakeResolver records which contracts were queried and can block until
// released to keep a sync in flight.
type fakeResolver struct {
	mu       sync.Mutex
	balances []string
	txs      []string

	block   chan struct{} // closed to release a blocked resolve, nil to not block
	started chan struct{} // signaled once on the first resolve

	startOnce sync.Once
}

func (f *fakeResolver) GetBalance(_ context.Context, _ *wallet.Identity, contractAddress string) viewingkey.BalanceOutcome {
	f.mu.Lock()
	f.balances = append(f.balances, contractAddress)
	f.mu.Unlock()

	f.waitIfBlocked()

	return viewingkey.BalanceOutcome{KindUsed: credential.KindDerived, Amount: "1"}
}

func (f *fakeResolver) GetTransactions(_ context.Context, _ *wallet.Identity, contractAddress string, _ int) viewingkey.HistoryOutcome {
	f.mu.Lock()
	f.txs = append(f.txs, contractAddress)
	f.mu.Unlock()

	f.waitIfBlocked()

	return viewingkey.HistoryOutcome{KindUsed: credential.KindDerived}
}

func (f *fakeResolver) waitIfBlocked() {
	if f.started != nil {
		f.startOnce.Do(func() { close(f.started) })
	}
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeResolver) queried() ([]string, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.balances...), append([]string(nil), f.txs...)
}

type fakeLoader struct {
	mu    sync.Mutex
	calls []wallet.Network
}

func (f *fakeLoader) FeeSchedule(_ context.Context, net wallet.Network) (*fees.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, net)

	return &fees.Table{Low: fees.Tier{Fee: 0.1}}, nil
}

func softwareIdentity() *wallet.Identity {
	return &wallet.Identity{Address: testWallet, Kind: wallet.KindSoftware, KeyMaterial: []byte{0x01}}
}

func TestSyncQueriesFavoritesOnly(t *testing.T) {
	store := credential.NewStore()
	resolver := &fakeResolver{}
	loader := &fakeLoader{}

	svc := tokensync.NewService(store, resolver, fees.NewService(loader), testTokens)

	require.NoError(t, svc.Sync(context.Background(), softwareIdentity(), testHash))

	balances, txs := resolver.queried()
	assert.Equal(t, []string{"veil1wrapped", "veil1aaa"}, balances, "non-favorites stay untouched")
	assert.Equal(t, []string{"veil1wrapped", "veil1aaa"}, txs)

	// Structure records exist for every tracked token, favorite or not.
	for _, token := range testTokens {
		rec, ok := store.Get(testWallet, token.ContractAddress)
		require.True(t, ok, token.ContractAddress)
		assert.Equal(t, credential.KindDerived, rec.ActiveKind)
	}
}

func TestSyncBalancesBeforeHistories(t *testing.T) {
	resolver := &fakeResolver{}
	loader := &fakeLoader{}

	svc := tokensync.NewService(credential.NewStore(), resolver, fees.NewService(loader), testTokens)

	require.NoError(t, svc.Sync(context.Background(), softwareIdentity(), testHash))

	balances, txs := resolver.queried()
	require.NotEmpty(t, balances)
	require.NotEmpty(t, txs)
}

func TestSyncLoadsFeeScheduleOncePerNetwork(t *testing.T) {
	resolver := &fakeResolver{}
	loader := &fakeLoader{}

	svc := tokensync.NewService(credential.NewStore(), resolver, fees.NewService(loader), testTokens)

	require.NoError(t, svc.Sync(context.Background(), softwareIdentity(), testHash))

	assert.Equal(t, []wallet.Network{wallet.NetworkVeilToken}, loader.calls, "two live tokens on one network load its schedule once")
}

func TestSyncHardwareWalletGetsNoDerivedKey(t *testing.T) {
	store := credential.NewStore()
	resolver := &fakeResolver{}

	svc := tokensync.NewService(store, resolver, fees.NewService(&fakeLoader{}), testTokens)

	identity := &wallet.Identity{Address: testWallet, Kind: wallet.KindHardware}

	// A secret hash passed for a hardware wallet must be ignored.
	require.NoError(t, svc.Sync(context.Background(), identity, testHash))

	rec, ok := store.Get(testWallet, "veil1wrapped")
	require.True(t, ok)
	assert.Empty(t, rec.DerivedKey)
	assert.Equal(t, credential.KindNone, rec.ActiveKind)
}

func TestSyncOverlappingRunsAreNoops(t *testing.T) {
	resolver := &fakeResolver{
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}

	svc := tokensync.NewService(credential.NewStore(), resolver, fees.NewService(&fakeLoader{}), testTokens)

	done := make(chan error, 1)
	go func() {
		done <- svc.Sync(context.Background(), softwareIdentity(), testHash)
	}()

	<-resolver.started
	require.True(t, svc.InFlight(testWallet))

	// The overlapping call returns immediately without touching the resolver.
	require.NoError(t, svc.Sync(context.Background(), softwareIdentity(), testHash))

	balances, _ := resolver.queried()
	assert.Len(t, balances, 1, "only the first sync may query")

	close(resolver.block)
	require.NoError(t, <-done)

	require.Eventually(t, func() bool {
		return !svc.InFlight(testWallet)
	}, time.Second, 10*time.Millisecond)
}

func TestInFlightUnknownWallet(t *testing.T) {
	svc := tokensync.NewService(credential.NewStore(), &fakeResolver{}, fees.NewService(&fakeLoader{}), testTokens)

	assert.False(t, svc.InFlight("veil1unknown"))
}
