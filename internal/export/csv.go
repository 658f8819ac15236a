// Package export converts transactions to and from tabular rows shared by
// the CSV download, the CLI import and the Google Sheets export.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"fintrack/internal/core"
)

// Header is the column order of every export.
var Header = []string{"date", "type", "amount", "category", "source", "time", "id"}

// ErrBadHeader is returned when an import file does not start with the
// expected columns.
var ErrBadHeader = errors.New("unexpected csv header")

// Row renders t in Header order. Amounts are unsigned magnitudes.
func Row(t core.Transaction) []string {
	return []string{
		t.Date.String(),
		string(t.Type),
		t.Amount.String(),
		t.Category,
		t.Source,
		t.Time,
		t.ID,
	}
}

// Rows renders ts with the header as the first row.
func Rows(ts []core.Transaction) [][]string {
	out := make([][]string, 0, len(ts)+1)
	out = append(out, Header)
	for _, t := range ts {
		out = append(out, Row(t))
	}
	return out
}

// WriteCSV writes ts as CSV with a header line.
func WriteCSV(w io.Writer, ts []core.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(Rows(ts)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// ReadCSV parses an import file. The header must list at least
// date,type,amount,category,source,time in that order; an id column and
// anything after it are ignored since imported records get new ids.
// Errors name the 1-based line of the offending row.
func ReadCSV(r io.Reader) ([]core.TransactionInput, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	head, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if err := checkHeader(head); err != nil {
		return nil, err
	}

	var out []core.TransactionInput
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if blank(rec) {
			continue
		}
		in, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, in)
	}
}

func checkHeader(head []string) error {
	want := Header[:6]
	if len(head) < len(want) {
		return fmt.Errorf("%w: got %v", ErrBadHeader, head)
	}
	for i, col := range want {
		got := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(head[i], "\ufeff")))
		if got != col {
			return fmt.Errorf("%w: column %d is %q, want %q", ErrBadHeader, i+1, head[i], col)
		}
	}
	return nil
}

func parseRow(rec []string) (core.TransactionInput, error) {
	field := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	date, err := core.ParseDate(field(0))
	if err != nil {
		return core.TransactionInput{}, err
	}
	var typ core.TxType
	if s := field(1); s != "" {
		if typ, err = core.ParseTxType(s); err != nil {
			return core.TransactionInput{}, err
		}
	}
	amount, err := core.ParseAmount(field(2))
	if err != nil {
		return core.TransactionInput{}, err
	}
	return core.TransactionInput{
		Date:     date,
		Type:     typ,
		Amount:   amount,
		Category: field(3),
		Source:   field(4),
		Time:     field(5),
	}, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
