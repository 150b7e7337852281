// (c) 2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import "strconv"

// SnapshotRow is the external rendering of one Account: every monetary
// field already formatted to exactly four fractional digits, ready for a
// CSV writer or any other serializer in adapter/. Keeping formatting here
// rather than in the adapter keeps the "exactly four digits, zero-padded"
// rule in one place regardless of which adapter renders it.
type SnapshotRow struct {
	Client    string
	Available string
	Held      string
	Total     string
	Locked    string
}

// Header is the fixed column order every adapter must emit.
var Header = []string{"client", "available", "held", "total", "locked"}

// Render converts an Account into its CSV-ready row. Row order mirrors
// Header.
func Render(a Account) SnapshotRow {
	return SnapshotRow{
		Client:    strconv.FormatUint(uint64(a.Client), 10),
		Available: a.Available.String(),
		Held:      a.Held.String(),
		Total:     a.Total.String(),
		Locked:    strconv.FormatBool(a.Locked),
	}
}

// Fields returns r as a slice in Header order, for encoding/csv.Writer.
func (r SnapshotRow) Fields() []string {
	return []string{r.Client, r.Available, r.Held, r.Total, r.Locked}
}
