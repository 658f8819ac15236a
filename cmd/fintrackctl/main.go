// Command fintrackctl manages the ledger and reminders from the terminal
// against the same store the server uses.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/notify"
	"fintrack/internal/ports"
)

// app carries what every subcommand needs. Tests inject store and
// notifier; otherwise they are built from the environment.
type app struct {
	cfg      *config.Config
	logger   *log.Logger
	store    ports.Store
	notifier notify.Notifier
	now      func() time.Time
	closers  []func() error
}

func main() {
	a := &app{now: time.Now}
	if err := newRootCmd(a).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "fintrackctl",
		Short:        "Manage fintrack transactions and reminders",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	root.AddCommand(newTransactionsCmd(a), newReportCmd(a), newRemindersCmd(a))
	return root
}

func (a *app) setup() error {
	if a.logger == nil {
		a.logger = log.Discard()
	}
	if a.store != nil {
		return nil
	}
	cli.LoadEnvFile()
	cfg, err := cli.LoadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	a.cfg = cfg
	lc := log.DefaultConfig()
	lc.Component = log.ComponentCLI
	lc.Format = cfg.LogFormat
	lc.Output = os.Stderr
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		lc.Level = level
	}
	a.logger = log.New(lc)

	store, err := cli.OpenStore(cfg, a.logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	a.store = store
	a.closers = append(a.closers, store.Close)
	return nil
}

func (a *app) close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

func money(m core.Money) string {
	sign := ""
	if m.Cents < 0 {
		sign = "-"
	}
	f, _ := m.Decimal().Abs().Float64()
	return sign + humanize.FormatFloat("#,###.##", f)
}
