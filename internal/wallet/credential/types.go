package credential

import (
	"github/veilport/go-wallet/internal/wallet"
)

// Kind identifies which viewing credential a record currently trusts.
type Kind string

const (
	// KindNone means no credential is trusted for the pair.
	KindNone Kind = ""
	// KindDerived is the deterministically regenerable key.
	KindDerived Kind = "derived"
	// KindRandom is an external key generated on-chain.
	KindRandom Kind = "random"
	// KindImported is an external key entered by the user.
	KindImported Kind = "imported"
)

// IsExternal reports whether k is one of the externally established kinds.
func (k Kind) IsExternal() bool {
	return k == KindRandom || k == KindImported
}

// Record is the viewing-credential state of one (wallet, contract) pair.
// Records are immutable; the store replaces them wholesale on every change.
type Record struct {
	// DerivedKey is regenerable from the wallet's secret hash and the
	// contract address. Empty when no secret hash is available.
	DerivedKey string

	// ExternalKey was generated on-chain or imported by the user.
	ExternalKey string

	// ActiveKind is the credential the resolver currently trusts.
	ActiveKind Kind

	// IsReachable is true after the last query with the active credential succeeded.
	IsReachable bool

	// Cached query results, volatile.
	Amount   string
	Txs      []wallet.Transfer
	TotalTxs *int64
}

// Data carries query results to merge into a record. Nil fields are left untouched.
type Data struct {
	Amount   *string
	Txs      *[]wallet.Transfer
	TotalTxs *int64
}

// Patch describes a partial record change. Nil fields are left untouched.
type Patch struct {
	DerivedKey  *string
	ExternalKey *string
	ActiveKind  *Kind
	IsReachable *bool
	Amount      *string
	Txs         *[]wallet.Transfer
	TotalTxs    **int64
}

// apply returns a new record with the patch applied, leaving rec untouched.
func apply(rec Record, p Patch) Record {
	if p.DerivedKey != nil {
		rec.DerivedKey = *p.DerivedKey
	}
	if p.ExternalKey != nil {
		rec.ExternalKey = *p.ExternalKey
	}
	if p.ActiveKind != nil {
		rec.ActiveKind = *p.ActiveKind
	}
	if p.IsReachable != nil {
		rec.IsReachable = *p.IsReachable
	}
	if p.Amount != nil {
		rec.Amount = *p.Amount
	}
	if p.Txs != nil {
		rec.Txs = *p.Txs
	}
	if p.TotalTxs != nil {
		rec.TotalTxs = *p.TotalTxs
	}

	return rec
}
