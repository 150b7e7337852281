// (c) 2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/luxfi/ledger/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func amount(s string) decimal.Decimal { return decimal.MustParse(s) }

func snapshotOf(t *testing.T, e *Engine, client uint16) Account {
	t.Helper()
	for _, a := range e.Snapshot() {
		if a.Client == client {
			return a
		}
	}
	t.Fatalf("no account for client %d", client)
	return Account{}
}

func TestScenarioBasic(t *testing.T) {
	e := New(DefaultConfig())
	ctx := context.Background()

	e.Process(ctx, Deposit{Client: 1, Tx: 1, Amount: amount("1.0")})
	e.Process(ctx, Deposit{Client: 2, Tx: 2, Amount: amount("2.0")})
	e.Process(ctx, Deposit{Client: 1, Tx: 3, Amount: amount("2.0")})
	e.Process(ctx, Withdrawal{Client: 1, Tx: 4, Amount: amount("1.5")})
	e.Process(ctx, Withdrawal{Client: 2, Tx: 5, Amount: amount("3.0")}) // rejected: insufficient funds

	a1 := snapshotOf(t, e, 1)
	require.Equal(t, "0.5000", a1.Available.String())
	require.Equal(t, "0.0000", a1.Held.String())
	require.Equal(t, "0.5000", a1.Total.String())
	require.False(t, a1.Locked)

	a2 := snapshotOf(t, e, 2)
	require.Equal(t, "2.0000", a2.Available.String())
	require.Equal(t, "2.0000", a2.Total.String())
}

func TestScenarioDisputeResolveRoundTrip(t *testing.T) {
	e := New(DefaultConfig())
	ctx := context.Background()

	e.Process(ctx, Deposit{Client: 1, Tx: 1, Amount: amount("10.0")})
	e.Process(ctx, Dispute{Client: 1, Tx: 1})
	e.Process(ctx, Resolve{Client: 1, Tx: 1})

	a := snapshotOf(t, e, 1)
	require.Equal(t, "10.0000", a.Available.String())
	require.Equal(t, "0.0000", a.Held.String())
	require.Equal(t, "10.0000", a.Total.String())
	require.False(t, a.Locked)
}

func TestScenarioDisputeChargebackLocksAccount(t *testing.T) {
	e := New(DefaultConfig())
	ctx := context.Background()

	e.Process(ctx, Deposit{Client: 1, Tx: 1, Amount: amount("5.0")})
	e.Process(ctx, Dispute{Client: 1, Tx: 1})
	e.Process(ctx, Chargeback{Client: 1, Tx: 1})

	a := snapshotOf(t, e, 1)
	require.Equal(t, "0.0000", a.Available.String())
	require.Equal(t, "0.0000", a.Held.String())
	require.Equal(t, "0.0000", a.Total.String())
	require.True(t, a.Locked)
}

func TestScenarioDisputeCreatesNegativeAvailable(t *testing.T) {
	e := New(DefaultConfig())
	ctx := context.Background()

	e.Process(ctx, Deposit{Client: 1, Tx: 1, Amount: amount("100.0")})
	e.Process(ctx, Withdrawal{Client: 1, Tx: 2, Amount: amount("80.0")})
	e.Process(ctx, Dispute{Client: 1, Tx: 1})

	a := snapshotOf(t, e, 1)
	require.Equal(t, "-80.0000", a.Available.String())
	require.Equal(t, "100.0000", a.Held.String())
	require.Equal(t, "20.0000", a.Total.String())
	require.False(t, a.Locked)
}

func TestScenarioCrossClientDisputeIgnored(t *testing.T) {
	e := New(DefaultConfig())
	ctx := context.Background()

	e.Process(ctx, Deposit{Client: 1, Tx: 1, Amount: amount("10.0")})
	e.Process(ctx, Dispute{Client: 2, Tx: 1})

	a := snapshotOf(t, e, 1)
	require.Equal(t, "10.0000", a.Available.String())
	require.Equal(t, "0.0000", a.Held.String())
	require.False(t, a.Locked)

	for _, acct := range e.Snapshot() {
		require.NotEqual(t, uint16(2), acct.Client, "client 2 must not be created by a cross-client dispute")
	}
}

func TestScenarioBoundedLogEvicts(t *testing.T) {
	e := New(NewConfig(WithMaxTxHistory(2)))
	ctx := context.Background()

	e.Process(ctx, Deposit{Client: 1, Tx: 1, Amount: amount("10")})
	e.Process(ctx, Deposit{Client: 1, Tx: 2, Amount: amount("20")})
	e.Process(ctx, Deposit{Client: 1, Tx: 3, Amount: amount("30")})
	e.Process(ctx, Dispute{Client: 1, Tx: 1}) // evicted, dropped

	a := snapshotOf(t, e, 1)
	require.Equal(t, "60.0000", a.Available.String())
	require.Equal(t, "0.0000", a.Held.String())
	require.Equal(t, "60.0000", a.Total.String())

	e.log.Lock()
	require.Equal(t, 2, e.log.Len())
	require.False(t, e.log.Contains(1))
	require.True(t, e.log.Contains(2))
	require.True(t, e.log.Contains(3))
	e.log.Unlock()
}

func TestScenarioDuplicateIdRejected(t *testing.T) {
	e := New(DefaultConfig())
	ctx := context.Background()

	e.Process(ctx, Deposit{Client: 1, Tx: 1, Amount: amount("100")})
	e.Process(ctx, Deposit{Client: 1, Tx: 1, Amount: amount("50")})

	a := snapshotOf(t, e, 1)
	require.Equal(t, "100.0000", a.Available.String())

	e.log.Lock()
	require.Equal(t, 1, e.log.Len())
	rec := e.log.Get(1)
	require.Equal(t, "100.0000", rec.Amount.String())
	e.log.Unlock()
}

func TestWithdrawalEqualToAvailableAccepted(t *testing.T) {
	// The available comparison is strictly "<", so a withdrawal equal to
	// available must be accepted, not rejected.
	e := New(DefaultConfig())
	ctx := context.Background()

	e.Process(ctx, Deposit{Client: 1, Tx: 1, Amount: amount("10")})
	e.Process(ctx, Withdrawal{Client: 1, Tx: 2, Amount: amount("10")})

	a := snapshotOf(t, e, 1)
	require.Equal(t, "0.0000", a.Available.String())
}

func TestDoubleDisputeRejected(t *testing.T) {
	e := New(DefaultConfig())
	ctx := context.Background()

	e.Process(ctx, Deposit{Client: 1, Tx: 1, Amount: amount("10")})
	e.Process(ctx, Dispute{Client: 1, Tx: 1})
	e.Process(ctx, Dispute{Client: 1, Tx: 1}) // rejected: already under dispute

	a := snapshotOf(t, e, 1)
	require.Equal(t, "0.0000", a.Available.String())
	require.Equal(t, "10.0000", a.Held.String())
}

func TestDisputeAfterChargebackRejected(t *testing.T) {
	e := New(DefaultConfig())
	ctx := context.Background()

	e.Process(ctx, Deposit{Client: 1, Tx: 1, Amount: amount("10")})
	e.Process(ctx, Dispute{Client: 1, Tx: 1})
	e.Process(ctx, Chargeback{Client: 1, Tx: 1})
	e.Process(ctx, Dispute{Client: 1, Tx: 1}) // rejected: terminal

	a := snapshotOf(t, e, 1)
	require.True(t, a.Locked)
	require.Equal(t, "0.0000", a.Total.String())
}

func TestResolveWithoutDisputeRejected(t *testing.T) {
	e := New(DefaultConfig())
	ctx := context.Background()

	e.Process(ctx, Deposit{Client: 1, Tx: 1, Amount: amount("10")})
	e.Process(ctx, Resolve{Client: 1, Tx: 1}) // rejected: not under dispute

	a := snapshotOf(t, e, 1)
	require.Equal(t, "10.0000", a.Available.String())
	require.Equal(t, "0.0000", a.Held.String())
}

func TestDisputeOnWithdrawalMovesToHeld(t *testing.T) {
	// The engine does not distinguish disputing a withdrawal from
	// disputing a deposit; it moves the withdrawal's amount to held the
	// same way.
	e := New(DefaultConfig())
	ctx := context.Background()

	e.Process(ctx, Deposit{Client: 1, Tx: 1, Amount: amount("100")})
	e.Process(ctx, Withdrawal{Client: 1, Tx: 2, Amount: amount("40")})
	e.Process(ctx, Dispute{Client: 1, Tx: 2})

	a := snapshotOf(t, e, 1)
	require.Equal(t, "20.0000", a.Available.String())
	require.Equal(t, "40.0000", a.Held.String())
	require.Equal(t, "60.0000", a.Total.String())
}

func TestLockedAccountStillAcceptsFurtherEvents(t *testing.T) {
	// locked is monotonic but non-restrictive — a locked account still
	// accepts deposits/withdrawals.
	e := New(DefaultConfig())
	ctx := context.Background()

	e.Process(ctx, Deposit{Client: 1, Tx: 1, Amount: amount("10")})
	e.Process(ctx, Dispute{Client: 1, Tx: 1})
	e.Process(ctx, Chargeback{Client: 1, Tx: 1})
	e.Process(ctx, Deposit{Client: 1, Tx: 2, Amount: amount("5")})

	a := snapshotOf(t, e, 1)
	require.True(t, a.Locked)
	require.Equal(t, "5.0000", a.Available.String())
}

func TestConcurrentDuplicateDepositsOnlyOneWins(t *testing.T) {
	// under concurrent submission of N identical deposits, only one
	// effects a balance change.
	const n = 64
	e := New(DefaultConfig())
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			e.Process(ctx, Deposit{Client: 1, Tx: 1, Amount: amount("10")})
		}()
	}
	wg.Wait()

	a := snapshotOf(t, e, 1)
	require.Equal(t, "10.0000", a.Available.String())
	require.Equal(t, "10.0000", a.Total.String())
}

func TestConcurrentDepositsForDifferentClientsAllApplied(t *testing.T) {
	const clients = 100
	e := New(DefaultConfig())
	ctx := context.Background()

	var wg sync.WaitGroup
	for c := uint16(0); c < clients; c++ {
		wg.Add(1)
		go func(c uint16) {
			defer wg.Done()
			e.Process(ctx, Deposit{Client: c, Tx: uint32(c), Amount: amount("1.0")})
		}(c)
	}
	wg.Wait()

	snap := e.Snapshot()
	require.Len(t, snap, clients)
	for i, a := range snap {
		require.Equal(t, uint16(i), a.Client)
		require.Equal(t, "1.0000", a.Available.String())
	}
}

func TestBalanceInvariantHoldsAfterMixedSequence(t *testing.T) {
	// total == available + held after every event.
	e := New(DefaultConfig())
	ctx := context.Background()

	events := []Event{
		Deposit{Client: 1, Tx: 1, Amount: amount("50")},
		Deposit{Client: 1, Tx: 2, Amount: amount("25")},
		Withdrawal{Client: 1, Tx: 3, Amount: amount("10")},
		Dispute{Client: 1, Tx: 1},
		Resolve{Client: 1, Tx: 1},
		Dispute{Client: 1, Tx: 2},
		Chargeback{Client: 1, Tx: 2},
	}
	for _, ev := range events {
		e.Process(ctx, ev)
		a := snapshotOf(t, e, 1)
		sum, ok := a.Available.Add(a.Held)
		require.True(t, ok)
		require.Equal(t, a.Total.String(), sum.String())
	}
}

func TestOverflowRejectionLeavesAccountUnchanged(t *testing.T) {
	// an event that would overflow leaves every field of the targeted
	// account equal to its pre-event value. near-max and tiny are chosen
	// so their sum's unscaled mantissa exceeds math.MaxInt64.
	const near = "9223372.036854774807"
	const tiny = "0.000002"

	e := New(DefaultConfig())
	ctx := context.Background()

	e.Process(ctx, Deposit{Client: 1, Tx: 1, Amount: amount(near)})
	before := snapshotOf(t, e, 1)

	e.Process(ctx, Deposit{Client: 1, Tx: 2, Amount: amount(tiny)})
	after := snapshotOf(t, e, 1)

	require.Equal(t, before, after, "overflowing deposit must not mutate the account")

	e.log.Lock()
	require.False(t, e.log.Contains(2), "overflowing deposit must not be inserted into the log")
	e.log.Unlock()
}
