package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fintrack/internal/cli"
	"fintrack/internal/notify"
	"fintrack/internal/reminders"
)

func newRemindersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Inspect and notify payment reminders",
	}
	cmd.AddCommand(newRemindersListCmd(a), newRemindersCheckCmd(a))
	return cmd
}

func newRemindersListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List reminders with their urgency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := reminders.NewService(a.store, a.logger).List(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DUE\tDAYS\tURGENCY\tTITLE\tAMOUNT\tRECURRENCE\tSENT")
			for _, s := range reminders.Describe(rs, a.now()) {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%t\n",
					s.DueDate, s.DaysUntil, s.Urgency, s.Title, notify.FormatAmount(s.Amount), s.Recurrence.Label(), s.EmailSent)
			}
			return tw.Flush()
		},
	}
}

func newRemindersCheckCmd(a *app) *cobra.Command {
	var rollover bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run one notification pass over due reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := reminders.DefaultSchedulerConfig()
			if a.cfg != nil {
				sc = cli.SchedulerConfig(a.cfg)
			}
			if cmd.Flags().Changed("rollover") {
				sc.Rollover = rollover
			}
			switch {
			case a.notifier != nil:
			case a.cfg == nil:
				a.notifier = notify.NewLogSender(a.logger)
			default:
				n, closeFn, err := cli.Notifier(cmd.Context(), a.cfg, a.logger)
				if err != nil {
					return err
				}
				a.notifier = n
				a.closers = append(a.closers, closeFn)
			}

			s := reminders.NewScheduler(reminders.NewService(a.store, a.logger), a.notifier, sc, a.logger)
			res, err := s.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "checked %d, due %d, sent %d, failed %d, skipped %d, malformed %d\n",
				res.Checked, res.Due, res.Sent, res.Failed, res.Skipped, res.Malformed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&rollover, "rollover", false, "Advance recurring reminders after sending (default REMINDER_ROLLOVER)")
	return cmd
}
