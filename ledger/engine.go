// (c) 2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledger implements the payments ledger core: the transaction
// state machine, its bounded dispute cache, the per-client account store,
// and the locking protocol that admits concurrent per-client parallelism
// while keeping duplicate-id detection, dispute transitions, and overflow
// rollback race-free.
package ledger

import (
	"context"

	"github.com/luxfi/ledger/decimal"
	"github.com/luxfi/ledger/log"
	"github.com/luxfi/ledger/metrics"
)

// Engine is the state-machine core. It owns an AccountStore and a TxLog
// exclusively; callers only ever see Snapshot output and submit Events
// through Process.
//
// Lock order is uniform across every event type: the log lock is acquired
// first, and only while it is held is a per-client account handle
// acquired. Because the duplicate-id check and the log insert both happen
// under the log lock, no two concurrent events sharing a tx_id can both
// pass the check.
type Engine struct {
	accounts *AccountStore
	log      *TxLog
	cfg      ProcessorConfig
	metrics  *metrics.Collector
}

// New returns an Engine configured per cfg. A zero ProcessorConfig is
// valid and behaves as an unbounded, permissive engine. Metrics are left
// unregistered; use NewWithMetrics to have the engine publish them.
func New(cfg ProcessorConfig) *Engine {
	return &Engine{
		accounts: NewAccountStore(),
		log:      NewTxLog(cfg.MaxTxHistory),
		cfg:      cfg,
	}
}

// NewWithMetrics is New, additionally reporting event outcomes and the
// log size through collector, whose metrics metrics.New has already
// registered. Pass nil to get the same behavior as New.
func NewWithMetrics(cfg ProcessorConfig, collector *metrics.Collector) *Engine {
	e := New(cfg)
	e.metrics = collector
	return e
}

// Snapshot returns every known account, ascending by client id.
func (e *Engine) Snapshot() []Account {
	return e.accounts.Snapshot()
}

// Process applies ev to the ledger. Rejections are silent beyond a log
// line: Process never returns an error, and a rejected event leaves both
// the TxLog and the affected account bit-identical to their pre-event
// state, except that a rejected deposit or withdrawal for a previously
// unseen client still leaves a zero-valued account behind. The engine
// does no external I/O and waits only on its own locks; ctx exists
// so a caller such as cmd/ledger-server can bound how long it waits
// across many Process calls without the engine needing to know about
// connections or deadlines.
func (e *Engine) Process(ctx context.Context, ev Event) {
	select {
	case <-ctx.Done():
		return
	default:
	}

	switch v := ev.(type) {
	case Deposit:
		e.processDeposit(v)
	case Withdrawal:
		e.processWithdrawal(v)
	case Dispute:
		e.processDispute(v)
	case Resolve:
		e.processResolve(v)
	case Chargeback:
		e.processChargeback(v)
	}
}

func (e *Engine) warnf(event, reason string, client uint16, tx uint32, amount *decimal.Decimal) {
	e.metrics.ObserveEvent(event, false)
	if !e.cfg.LogWarnings {
		return
	}
	ctx := []interface{}{"event", event, "client", client, "tx", tx, "reason", reason}
	if amount != nil {
		ctx = append(ctx, "amount", amount.String())
	}
	log.Warn("event rejected", ctx...)
}

func (e *Engine) accept(event string) {
	e.metrics.ObserveEvent(event, true)
	e.metrics.SetTxLogSize(e.log.Len())
}

func (e *Engine) processDeposit(d Deposit) {
	e.log.Lock()
	defer e.log.Unlock()

	if e.log.Contains(d.Tx) {
		e.warnf("deposit", "duplicate transaction id", d.Client, d.Tx, &d.Amount)
		return
	}

	h := e.accounts.GetOrCreate(d.Client)
	defer h.Release()
	acct := h.Account()

	newAvailable, ok := acct.Available.Add(d.Amount)
	if !ok {
		e.warnf("deposit", "overflow on available", d.Client, d.Tx, &d.Amount)
		return
	}
	newTotal, ok := acct.Total.Add(d.Amount)
	if !ok {
		e.warnf("deposit", "overflow on total", d.Client, d.Tx, &d.Amount)
		return
	}

	acct.Available = newAvailable
	acct.Total = newTotal
	e.log.Insert(d.Tx, TxRecord{Client: d.Client, Amount: d.Amount, Status: Normal})
	e.accept("deposit")
}

func (e *Engine) processWithdrawal(w Withdrawal) {
	e.log.Lock()
	defer e.log.Unlock()

	if e.log.Contains(w.Tx) {
		e.warnf("withdrawal", "duplicate transaction id", w.Client, w.Tx, &w.Amount)
		return
	}

	h := e.accounts.GetOrCreate(w.Client)
	defer h.Release()
	acct := h.Account()

	if acct.Available.LessThan(w.Amount) {
		e.warnf("withdrawal", "insufficient funds", w.Client, w.Tx, &w.Amount)
		return
	}

	newAvailable, ok := acct.Available.Sub(w.Amount)
	if !ok {
		e.warnf("withdrawal", "overflow on available", w.Client, w.Tx, &w.Amount)
		return
	}
	newTotal, ok := acct.Total.Sub(w.Amount)
	if !ok {
		e.warnf("withdrawal", "overflow on total", w.Client, w.Tx, &w.Amount)
		return
	}

	acct.Available = newAvailable
	acct.Total = newTotal
	e.log.Insert(w.Tx, TxRecord{Client: w.Client, Amount: w.Amount, Status: Normal})
	e.accept("withdrawal")
}

func (e *Engine) processDispute(d Dispute) {
	e.log.Lock()
	defer e.log.Unlock()

	rec := e.log.Get(d.Tx)
	if rec == nil {
		e.warnf("dispute", "transaction not found or evicted", d.Client, d.Tx, nil)
		return
	}
	if rec.Client != d.Client {
		e.warnf("dispute", "cross-client dispute", d.Client, d.Tx, nil)
		return
	}
	if rec.Status == ChargedBack {
		e.warnf("dispute", "transaction already charged back", d.Client, d.Tx, nil)
		return
	}
	if rec.Status == UnderDispute {
		e.warnf("dispute", "transaction already under dispute", d.Client, d.Tx, nil)
		return
	}

	amount := rec.Amount
	rec.Status = UnderDispute

	h := e.accounts.GetOrCreate(d.Client)
	defer h.Release()
	acct := h.Account()

	newAvailable, ok := acct.Available.Sub(amount)
	if !ok {
		rec.Status = Normal
		e.warnf("dispute", "overflow on available", d.Client, d.Tx, &amount)
		return
	}
	newHeld, ok := acct.Held.Add(amount)
	if !ok {
		rec.Status = Normal
		e.warnf("dispute", "overflow on held", d.Client, d.Tx, &amount)
		return
	}

	if newAvailable.IsNegative() {
		// Business rule: a dispute is permitted to push available
		// negative. Logged for visibility, not rejected.
		log.Info("dispute creates negative available balance", "client", d.Client, "tx", d.Tx, "available", newAvailable.String())
	}

	acct.Available = newAvailable
	acct.Held = newHeld
	e.accept("dispute")
}

func (e *Engine) processResolve(r Resolve) {
	e.log.Lock()
	defer e.log.Unlock()

	rec := e.log.Get(r.Tx)
	if rec == nil {
		e.warnf("resolve", "transaction not found or evicted", r.Client, r.Tx, nil)
		return
	}
	if rec.Client != r.Client {
		e.warnf("resolve", "cross-client resolve", r.Client, r.Tx, nil)
		return
	}
	if rec.Status != UnderDispute {
		e.warnf("resolve", "transaction not under dispute", r.Client, r.Tx, nil)
		return
	}

	amount := rec.Amount
	rec.Status = Normal

	h := e.accounts.GetOrCreate(r.Client)
	defer h.Release()
	acct := h.Account()

	newHeld, ok := acct.Held.Sub(amount)
	if !ok {
		rec.Status = UnderDispute
		e.warnf("resolve", "overflow on held", r.Client, r.Tx, &amount)
		return
	}
	newAvailable, ok := acct.Available.Add(amount)
	if !ok {
		rec.Status = UnderDispute
		e.warnf("resolve", "overflow on available", r.Client, r.Tx, &amount)
		return
	}

	acct.Held = newHeld
	acct.Available = newAvailable
	e.accept("resolve")
}

func (e *Engine) processChargeback(c Chargeback) {
	e.log.Lock()
	defer e.log.Unlock()

	rec := e.log.Get(c.Tx)
	if rec == nil {
		e.warnf("chargeback", "transaction not found or evicted", c.Client, c.Tx, nil)
		return
	}
	if rec.Client != c.Client {
		e.warnf("chargeback", "cross-client chargeback", c.Client, c.Tx, nil)
		return
	}
	if rec.Status != UnderDispute {
		e.warnf("chargeback", "transaction not under dispute", c.Client, c.Tx, nil)
		return
	}

	amount := rec.Amount
	rec.Status = ChargedBack

	h := e.accounts.GetOrCreate(c.Client)
	defer h.Release()
	acct := h.Account()

	newHeld, ok := acct.Held.Sub(amount)
	if !ok {
		rec.Status = UnderDispute
		e.warnf("chargeback", "overflow on held", c.Client, c.Tx, &amount)
		return
	}
	newTotal, ok := acct.Total.Sub(amount)
	if !ok {
		rec.Status = UnderDispute
		e.warnf("chargeback", "overflow on total", c.Client, c.Tx, &amount)
		return
	}

	acct.Held = newHeld
	acct.Total = newTotal
	acct.Locked = true
	e.accept("chargeback")
}
