package credential

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/veilport/go-wallet/internal/wallet"
)

// derivedKeyPrefix marks keys the wallet generated itself, matching the
// format the token contracts were provisioned with.
const derivedKeyPrefix = "api_key_"

// GenerateDerivedKey computes the deterministic viewing key for a contract
// from the wallet's secret hash. Same inputs always yield the same key.
func GenerateDerivedKey(secretHash string, contractAddress string) (string, error) {
	if secretHash == "" || contractAddress == "" {
		return "", errors.New("secret hash and contract address are required")
	}

	sum := sha256.Sum256([]byte(contractAddress + secretHash))

	return derivedKeyPrefix + hex.EncodeToString(sum[:]), nil
}

// Store holds viewing-credential records for all (wallet, contract) pairs.
// It never performs I/O; all transitions are driven by callers.
type Store struct {
	mu      sync.RWMutex
	records map[string]map[string]Record // wallet address -> contract address -> record
}

// NewStore creates an empty credential store.
func NewStore() *Store {
	return &Store{
		records: make(map[string]map[string]Record),
	}
}

// Get returns the record for the pair, if present.
func (s *Store) Get(walletAddress string, contractAddress string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[walletAddress][contractAddress]

	return rec, ok
}

// Contracts returns the contract addresses tracked for a wallet, sorted.
func (s *Store) Contracts(walletAddress string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contracts := make([]string, 0, len(s.records[walletAddress]))
	for contract := range s.records[walletAddress] {
		contracts = append(contracts, contract)
	}
	sort.Strings(contracts)

	return contracts
}

// Ensure guarantees a record exists for the pair. With a non-empty secret
// hash the record gets a derived key and KindDerived; without one it is a
// bare placeholder with KindNone. Existing records holding a working
// external key are never overwritten.
func (s *Store) Ensure(walletAddress string, contractAddress string, secretHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.records[walletAddress][contractAddress]

	if exists {
		// Nothing to do unless the record lacks a derived key we can now compute.
		if rec.DerivedKey != "" || rec.ActiveKind.IsExternal() || secretHash == "" {
			return nil
		}

		derived, err := GenerateDerivedKey(secretHash, contractAddress)
		if err != nil {
			return errors.Wrap(err, "failed to generate derived key")
		}

		kind := rec.ActiveKind
		if kind == KindNone {
			kind = KindDerived
		}

		s.put(walletAddress, contractAddress, apply(rec, Patch{
			DerivedKey: &derived,
			ActiveKind: &kind,
		}))

		return nil
	}

	newRec := Record{ActiveKind: KindNone}

	if secretHash != "" {
		derived, err := GenerateDerivedKey(secretHash, contractAddress)
		if err != nil {
			return errors.Wrap(err, "failed to generate derived key")
		}
		newRec.DerivedKey = derived
		newRec.ActiveKind = KindDerived
	}

	s.put(walletAddress, contractAddress, newRec)

	return nil
}

// MarkInvalid records that the server rejected the credential of the given
// kind. The rejected key material and all cached data are cleared so the
// next resolve cannot retry the same key or show stale results.
func (s *Store) MarkInvalid(walletAddress string, contractAddress string, kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[walletAddress][contractAddress]
	if !ok {
		return
	}

	empty := ""
	unreachable := false

	patch := Patch{
		IsReachable: &unreachable,
		Amount:      &empty,
		Txs:         &[]wallet.Transfer{},
		TotalTxs:    new(*int64),
	}

	if kind.IsExternal() {
		// Demote toward the derived key; the external key is gone for good
		// until the user establishes a new one.
		next := KindDerived
		if rec.DerivedKey == "" {
			next = KindNone
		}
		patch.ExternalKey = &empty
		patch.ActiveKind = &next
	} else {
		// A rejected derived key means the contract never had it set; the key
		// itself stays, regeneration would produce the same value.
		next := rec.ActiveKind
		if rec.DerivedKey == "" {
			next = KindNone
		}
		patch.ActiveKind = &next
	}

	s.put(walletAddress, contractAddress, apply(rec, patch))

	log.Debug().
		Str("wallet", walletAddress).
		Str("contract", contractAddress).
		Str("kind", string(kind)).
		Msg("Credential marked invalid")
}

// RecordSuccess stores the result of a successful query performed with the
// given credential kind.
func (s *Store) RecordSuccess(walletAddress string, contractAddress string, kind Kind, data Data) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[walletAddress][contractAddress]
	if !ok {
		rec = Record{}
	}

	reachable := true
	patch := Patch{
		ActiveKind:  &kind,
		IsReachable: &reachable,
		Amount:      data.Amount,
		Txs:         data.Txs,
	}
	if data.TotalTxs != nil {
		patch.TotalTxs = &data.TotalTxs
	}

	if kind == KindDerived {
		// Success on the derived key retires whatever external key was left over.
		empty := ""
		patch.ExternalKey = &empty
	}

	s.put(walletAddress, contractAddress, apply(rec, patch))
}

// SetExternalKey installs an externally established viewing key and makes it
// the trusted credential for the pair.
func (s *Store) SetExternalKey(walletAddress string, contractAddress string, key string, kind Kind) error {
	if !kind.IsExternal() {
		return errors.Errorf("kind %q is not an external credential kind", kind)
	}
	if key == "" {
		return errors.New("external key must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.records[walletAddress][contractAddress]

	s.put(walletAddress, contractAddress, apply(rec, Patch{
		ExternalKey: &key,
		ActiveKind:  &kind,
	}))

	return nil
}

// Delete removes the record for the pair, e.g. when a token is untracked.
func (s *Store) Delete(walletAddress string, contractAddress string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records[walletAddress], contractAddress)
}

// put stores rec under the pair, creating the wallet bucket on first use.
// Callers must hold the write lock.
func (s *Store) put(walletAddress string, contractAddress string, rec Record) {
	bucket, ok := s.records[walletAddress]
	if !ok {
		bucket = make(map[string]Record)
		s.records[walletAddress] = bucket
	}

	bucket[contractAddress] = rec
}
