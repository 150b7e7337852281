// (c) 2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"sort"
	"sync"

	"github.com/luxfi/ledger/decimal"
)

// Account holds one client's balance state. Client is immutable once the
// account is created; Available/Held/Total/Locked are mutated only through
// an AccountHandle returned by AccountStore.GetOrCreate, which serializes
// writers of the same client while leaving other clients free to proceed.
type Account struct {
	Client    uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}

// accountBuckets is the number of stripes the account map is split across.
// Each client hashes to exactly one bucket; concurrency across clients is
// bounded by how many distinct buckets are in play, not by client count.
const accountBuckets = 64

type accountBucket struct {
	mu       sync.Mutex
	accounts map[uint16]*Account
}

// AccountStore is a concurrent client_id -> Account map: per-key exclusive
// access via GetOrCreate, with clients hashed into buckets so that clients
// in different buckets never contend on the same lock. Adapted from a single mutex+map idiom
// generalized to a fixed set of stripes.
type AccountStore struct {
	buckets [accountBuckets]*accountBucket
}

// NewAccountStore returns an empty store.
func NewAccountStore() *AccountStore {
	s := &AccountStore{}
	for i := range s.buckets {
		s.buckets[i] = &accountBucket{accounts: make(map[uint16]*Account)}
	}
	return s
}

func (s *AccountStore) bucketFor(client uint16) *accountBucket {
	return s.buckets[client%accountBuckets]
}

// AccountHandle is an exclusive, locked view of one client's Account. The
// caller must call Release exactly once to unblock other writers of the
// same client.
type AccountHandle struct {
	bucket  *accountBucket
	account *Account
}

// Account returns the handle's underlying account for read/write access.
// Valid only until Release is called.
func (h *AccountHandle) Account() *Account { return h.account }

// Release unlocks the bucket backing this handle.
func (h *AccountHandle) Release() { h.bucket.mu.Unlock() }

// GetOrCreate returns an exclusive handle on client's account, creating a
// zero-valued one (available/held/total all 0.0000, locked false) if this
// is the first time client has been seen. The returned handle must be
// released by the caller.
func (s *AccountStore) GetOrCreate(client uint16) *AccountHandle {
	b := s.bucketFor(client)
	b.mu.Lock()
	acct, ok := b.accounts[client]
	if !ok {
		acct = &Account{Client: client}
		b.accounts[client] = acct
	}
	return &AccountHandle{bucket: b, account: acct}
}

// Snapshot returns every known account, sorted ascending by Client.
// It is not atomic across clients: each account's fields are read under
// that client's own bucket lock, but different clients may be captured at
// different points in time relative to concurrent writers.
func (s *AccountStore) Snapshot() []Account {
	out := make([]Account, 0)
	for _, b := range s.buckets {
		b.mu.Lock()
		for _, a := range b.accounts {
			out = append(out, *a)
		}
		b.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Client < out[j].Client })
	return out
}
