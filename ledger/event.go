// (c) 2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import "github.com/luxfi/ledger/decimal"

// Event is one of Deposit, Withdrawal, Dispute, Resolve, or Chargeback: a
// marker interface implemented only by this package's five concrete
// structs, modeling a small closed sum as a family of typed structs
// rather than a tagged union.
type Event interface {
	eventKind() string
}

// Deposit credits amount to client's available and total balances.
// Amount must be non-negative; the engine does not itself validate sign,
// since every adapter in this repo only ever constructs Deposit/Withdrawal
// from non-negative parsed amounts.
type Deposit struct {
	Client uint16
	Tx     uint32
	Amount decimal.Decimal
}

func (Deposit) eventKind() string { return "deposit" }

// Withdrawal debits amount from client's available and total balances,
// provided available funds suffice.
type Withdrawal struct {
	Client uint16
	Tx     uint32
	Amount decimal.Decimal
}

func (Withdrawal) eventKind() string { return "withdrawal" }

// Dispute freezes tx's recorded amount, moving it from available to held.
type Dispute struct {
	Client uint16
	Tx     uint32
}

func (Dispute) eventKind() string { return "dispute" }

// Resolve reverses an open Dispute in the client's favor, returning the
// amount to available.
type Resolve struct {
	Client uint16
	Tx     uint32
}

func (Resolve) eventKind() string { return "resolve" }

// Chargeback finalizes an open Dispute against the client: the amount
// leaves held without returning to available, and the account is locked.
type Chargeback struct {
	Client uint16
	Tx     uint32
}

func (Chargeback) eventKind() string { return "chargeback" }
