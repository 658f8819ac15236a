// Package memory is an in-process TransactionExporter that keeps the last
// exported sheet. It backs the export endpoint when no spreadsheet is
// configured in development and in tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/export"
	ports "fintrack/internal/sheets"
)

type Exporter struct {
	mu      sync.Mutex
	rows    [][]string
	exports int
}

var _ ports.TransactionExporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

// ExportTransactions replaces the held sheet with ts.
func (e *Exporter) ExportTransactions(ctx context.Context, ts []core.Transaction) (ports.ExportResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.ExportResult{}, err
	}
	rows := export.Rows(ts)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rows = rows
	e.exports++
	return ports.ExportResult{
		Range: fmt.Sprintf("mem!A1:G%d", len(rows)),
		Rows:  len(ts),
	}, nil
}

// Rows returns a copy of the last exported sheet, header included.
func (e *Exporter) Rows() [][]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([][]string, len(e.rows))
	for i, r := range e.rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

// Exports counts completed exports.
func (e *Exporter) Exports() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exports
}
