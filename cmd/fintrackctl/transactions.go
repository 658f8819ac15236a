package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/log"
	"fintrack/internal/query"
)

func newTransactionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "List, import and export transactions",
	}
	cmd.AddCommand(newTxListCmd(a), newTxImportCmd(a), newTxExportCmd(a))
	return cmd
}

func newTxListCmd(a *app) *cobra.Command {
	var search, typ, month, from, to string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions matching the filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := query.ParseCriteria(search, typ, month)
			if err != nil {
				return err
			}
			if from != "" || to != "" {
				start, err := core.ParseDate(from)
				if err != nil {
					return fmt.Errorf("--from: %w", err)
				}
				end, err := core.ParseDate(to)
				if err != nil {
					return fmt.Errorf("--to: %w", err)
				}
				if c.Range, err = query.NewRange(start, end); err != nil {
					return err
				}
			}

			records, err := a.store.ListTransactions(cmd.Context())
			if err != nil {
				return err
			}
			matched, skipped := query.Filter(records, c)
			for _, err := range skipped {
				a.logger.Warn("Skipped transaction", log.FieldError, err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tTYPE\tAMOUNT\tCATEGORY\tSOURCE")
			for _, t := range matched {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.Date, t.Type, money(t.SignedAmount()), t.Category, t.Source)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d transactions, balance %s\n", len(matched), money(analytics.Summarize(matched).Balance))
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive match on category or source")
	cmd.Flags().StringVarP(&typ, "type", "t", "", "income or expense")
	cmd.Flags().StringVarP(&month, "month", "m", "", "Month name, e.g. january")
	cmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD), requires --to")
	cmd.Flags().StringVar(&to, "to", "", "End date (YYYY-MM-DD), requires --from")
	cmd.MarkFlagsRequiredTogether("from", "to")
	return cmd
}

func newTxImportCmd(a *app) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Append transactions from a CSV file",
		Long:  "Reads a CSV whose header starts with " + strings.Join(export.Header[:6], ",") + ". Every row is validated before anything is written.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			inputs, err := export.ReadCSV(f)
			if err != nil {
				return err
			}
			txs := make([]core.Transaction, 0, len(inputs))
			for i, in := range inputs {
				t, err := core.NormalizeTransaction(in)
				if err != nil {
					return fmt.Errorf("record %d: %w", i+1, err)
				}
				txs = append(txs, t)
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%d transactions valid, nothing written\n", len(txs))
				return nil
			}
			for _, t := range txs {
				if err := a.store.AppendTransaction(cmd.Context(), t); err != nil {
					return fmt.Errorf("append %s: %w", t.ID, err)
				}
			}
			a.logger.Info("Imported transactions", log.FieldOperation, log.OpImport, "count", len(txs), log.FieldPath, args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d transactions\n", len(txs))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate without writing")
	return cmd
}

func newTxExportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every transaction as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.store.ListTransactions(cmd.Context())
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				return export.WriteCSV(cmd.OutOrStdout(), records)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := export.WriteCSV(f, records); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d transactions to %s\n", len(records), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}
