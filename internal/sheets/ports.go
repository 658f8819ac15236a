package sheets

import (
	"context"

	"fintrack/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionExporter publishes a snapshot of transactions to a
	// spreadsheet, replacing whatever the target sheet held before.
	TransactionExporter interface {
		ExportTransactions(ctx context.Context, ts []core.Transaction) (ExportResult, error)
	}
)

// ExportResult describes where an export landed.
type ExportResult struct {
	Range string `json:"range"`
	Rows  int    `json:"rows"`
	URL   string `json:"url,omitempty"`
}
