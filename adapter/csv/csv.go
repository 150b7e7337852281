// (c) 2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package csv converts between the ledger's CSV wire format and
// github.com/luxfi/ledger/ledger events and snapshot rows. It is
// intentionally outside the ledger package: the core never parses bytes,
// only Events.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/luxfi/ledger/decimal"
	"github.com/luxfi/ledger/ledger"
	"github.com/luxfi/ledger/log"
)

// Header is the recognized input column order: type, client, tx, amount.
var Header = []string{"type", "client", "tx", "amount"}

// ReadEvents parses r as the ledger CSV wire format and returns the
// decoded events in file order. Malformed rows are dropped when
// skipMalformed is true (the default); otherwise the first such row returns
// an error. Amount-less deposit/withdrawal rows are always dropped, whatever
// skipMalformed says.
//
// A header row ("type,client,tx,amount", case-insensitive, whitespace
// trimmed) is recognized and skipped if present; its absence is not an
// error, since a caller may already have consumed it.
func ReadEvents(r io.Reader, skipMalformed, logWarnings bool) ([]ledger.Event, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var events []ledger.Event
	first := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if skipMalformed {
				if logWarnings {
					log.Warn("skipping malformed row", "reason", err.Error())
				}
				continue
			}
			return nil, fmt.Errorf("csv: malformed row: %w", err)
		}

		if first {
			first = false
			if isHeaderRow(row) {
				continue
			}
		}

		ev, ok, err := decodeRow(row)
		if err != nil {
			if skipMalformed {
				if logWarnings {
					log.Warn("skipping malformed row", "reason", err.Error())
				}
				continue
			}
			return nil, fmt.Errorf("csv: %w", err)
		}
		if !ok {
			if logWarnings {
				log.Warn("skipping transaction with missing amount")
			}
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(row[0]), "type")
}

// decodeRow returns (event, true, nil) on success, (nil, false, nil) for a
// well-formed but amount-less deposit/withdrawal row (dropped, not an
// error), and (nil, false, err) for a structurally invalid row.
func decodeRow(row []string) (ledger.Event, bool, error) {
	if len(row) < 3 {
		return nil, false, fmt.Errorf("expected at least 3 columns, got %d", len(row))
	}

	typ := strings.ToLower(strings.TrimSpace(row[0]))
	client, err := parseUint16(row[1])
	if err != nil {
		return nil, false, fmt.Errorf("invalid client %q: %w", row[1], err)
	}
	tx, err := parseUint32(row[2])
	if err != nil {
		return nil, false, fmt.Errorf("invalid tx %q: %w", row[2], err)
	}

	var rawAmount string
	if len(row) > 3 {
		rawAmount = strings.TrimSpace(row[3])
	}

	switch typ {
	case "deposit", "withdrawal":
		if rawAmount == "" {
			return nil, false, nil
		}
		amount, err := decimal.Parse(rawAmount)
		if err != nil {
			return nil, false, fmt.Errorf("invalid amount %q: %w", rawAmount, err)
		}
		if amount.IsNegative() {
			return nil, false, fmt.Errorf("negative amount %q", rawAmount)
		}
		if typ == "deposit" {
			return ledger.Deposit{Client: client, Tx: tx, Amount: amount}, true, nil
		}
		return ledger.Withdrawal{Client: client, Tx: tx, Amount: amount}, true, nil
	case "dispute":
		return ledger.Dispute{Client: client, Tx: tx}, true, nil
	case "resolve":
		return ledger.Resolve{Client: client, Tx: tx}, true, nil
	case "chargeback":
		return ledger.Chargeback{Client: client, Tx: tx}, true, nil
	default:
		return nil, false, fmt.Errorf("unrecognized transaction type %q", typ)
	}
}

func parseUint16(s string) (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	return uint16(v), err
}

func parseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	return uint32(v), err
}

// WriteSnapshot renders accounts as CSV to w, including the header row.
func WriteSnapshot(w io.Writer, accounts []ledger.Account) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ledger.Header); err != nil {
		return err
	}
	for _, a := range accounts {
		if err := writer.Write(ledger.Render(a).Fields()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
