package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

func newReportCmd(a *app) *cobra.Command {
	var period, from, to, weekStart, sortBy string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize income and spending for a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if weekStart == "" && a.cfg != nil {
				weekStart = a.cfg.WeekStart
			}
			if weekStart == "" {
				weekStart = time.Monday.String()
			}
			ws, err := analytics.ParseWeekday(weekStart)
			if err != nil {
				return err
			}

			p := analytics.ResolvePeriod(period, a.now(), ws)
			if from != "" || to != "" {
				start, err := core.ParseDate(from)
				if err != nil {
					return fmt.Errorf("--from: %w", err)
				}
				end, err := core.ParseDate(to)
				if err != nil {
					return fmt.Errorf("--to: %w", err)
				}
				if p, err = analytics.CustomPeriod(start, end); err != nil {
					return err
				}
			}

			records, err := a.store.ListTransactions(cmd.Context())
			if err != nil {
				return err
			}
			rep, skipped := analytics.BuildReport(records, p)
			if len(skipped) > 0 {
				a.logger.Warn("Report skipped records", log.FieldPeriod, p.Key(), log.FieldSkipped, len(skipped))
			}

			switch sortBy {
			case "name":
				analytics.SortByName(rep.Categories)
			case "amount", "":
				analytics.SortByAmount(rep.Categories)
			default:
				return fmt.Errorf("unknown sort %q (amount or name)", sortBy)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Period   %s (%s to %s)\n", rep.Period.Name, rep.Period.Start, rep.Period.End)
			fmt.Fprintf(out, "Income   %s\n", money(rep.Summary.TotalIncome))
			fmt.Fprintf(out, "Expense  %s\n", money(rep.Summary.TotalExpense))
			fmt.Fprintf(out, "Balance  %s\n", money(rep.Summary.Balance))
			fmt.Fprintf(out, "Records  %d\n", rep.Count)
			if len(rep.Categories) == 0 {
				return nil
			}
			fmt.Fprintln(out)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "CATEGORY\tSPENT\t")
			for _, c := range rep.Categories {
				fmt.Fprintf(tw, "%s\t%s\t\n", c.Name, money(c.Amount))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&period, "period", "p", "month", "week, month or year")
	cmd.Flags().StringVar(&from, "from", "", "Custom period start (YYYY-MM-DD), requires --to")
	cmd.Flags().StringVar(&to, "to", "", "Custom period end (YYYY-MM-DD), requires --from")
	cmd.Flags().StringVar(&weekStart, "week-start", "", "First day of the week (default WEEK_START or monday)")
	cmd.Flags().StringVar(&sortBy, "sort", "amount", "Category order: amount or name")
	cmd.MarkFlagsRequiredTogether("from", "to")
	return cmd
}
