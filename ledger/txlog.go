// (c) 2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"sync"

	"github.com/luxfi/ledger/decimal"
)

// TxStatus is a TxRecord's position in the three-state dispute FSM.
type TxStatus int

const (
	// Normal is the initial state on insertion, and the state Resolve
	// returns a transaction to.
	Normal TxStatus = iota
	// UnderDispute is set by a valid Dispute and left by Resolve or
	// Chargeback.
	UnderDispute
	// ChargedBack is terminal: no transition leaves it.
	ChargedBack
)

func (s TxStatus) String() string {
	switch s {
	case Normal:
		return "normal"
	case UnderDispute:
		return "under_dispute"
	case ChargedBack:
		return "charged_back"
	default:
		return "unknown"
	}
}

// TxRecord is the log's record of one accepted deposit or withdrawal.
type TxRecord struct {
	Client uint16
	Amount decimal.Decimal
	Status TxStatus
}

// TxLog is an insertion-ordered tx_id -> TxRecord map with an optional
// capacity. When full, Insert evicts the oldest entry by insertion order
// before adding the new one — strict FIFO, never LRU: looking a record up
// with Get or Contains does not move it. Adapted from a mutex+map+keys-slice
// LRU cache by dropping every access-refreshes-recency step and keeping
// only the bounded FIFO eviction.
//
// TxLog is the sole dispute lookup table: an entry evicted to make room is
// gone, and any dispute/resolve/chargeback referencing its tx_id is
// rejected as not found.
type TxLog struct {
	mu       sync.Mutex
	records  map[uint32]*TxRecord
	order    []uint32 // insertion order, oldest first
	capacity int      // 0 means unbounded
}

// NewTxLog returns an empty log. capacity <= 0 means unbounded.
func NewTxLog(capacity int) *TxLog {
	if capacity < 0 {
		capacity = 0
	}
	return &TxLog{
		records:  make(map[uint32]*TxRecord),
		capacity: capacity,
	}
}

// Lock acquires the log's single mutex. Callers must Unlock exactly once.
// The engine holds this lock across duplicate-id check, account mutation,
// and insert for a single event so that the lock order (log lock first,
// then per-client account lock) makes duplicate detection race-free.
func (l *TxLog) Lock() { l.mu.Lock() }

// Unlock releases the log's mutex.
func (l *TxLog) Unlock() { l.mu.Unlock() }

// Contains reports whether tx is present. Must be called with the log
// locked.
func (l *TxLog) Contains(tx uint32) bool {
	_, ok := l.records[tx]
	return ok
}

// Get returns tx's record (or nil if absent) without affecting eviction
// order. Must be called with the log locked.
func (l *TxLog) Get(tx uint32) *TxRecord {
	return l.records[tx]
}

// Insert appends a new record for tx, evicting the oldest entry first if
// the log is at capacity. Must be called with the log locked. Inserting an
// already-present tx_id is a caller bug (the engine's duplicate check
// always precedes Insert) and overwrites in place without touching order.
func (l *TxLog) Insert(tx uint32, rec TxRecord) {
	if _, exists := l.records[tx]; exists {
		l.records[tx] = &rec
		return
	}
	if l.capacity > 0 && len(l.order) >= l.capacity {
		oldest := l.order[0]
		l.order = l.order[1:]
		delete(l.records, oldest)
	}
	l.records[tx] = &rec
	l.order = append(l.order, tx)
}

// Len returns the number of records currently held. Must be called with
// the log locked.
func (l *TxLog) Len() int {
	return len(l.records)
}
