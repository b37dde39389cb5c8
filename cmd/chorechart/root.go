package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/chorechart/internal/scheduler"
	"github.com/sandeepkv93/chorechart/internal/update"
)

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:           "chorechart",
		Short:         "Household chore checklist for the fridge",
		Long:          "chorechart keeps a morning and afternoon chore list per kid, ticks them off per day and starts fresh at midnight.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(cmd, flags)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.chorechart/config.yaml)")
	pf.StringVar(&flags.statePath, "state", "", "state location (sqlite database or json file)")
	pf.StringVar(&flags.storage, "storage", "", "storage backend: sqlite, file or memory")
	pf.StringVar(&flags.timezone, "timezone", "", "IANA zone for day boundaries (default Local)")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error")

	cmd.AddCommand(
		newListCmd(flags),
		newToggleCmd(flags),
		newResetCmd(flags),
		newStatusCmd(flags),
		newAdminCmd(flags),
	)
	return cmd
}

func runBoard(cmd *cobra.Command, flags *globalFlags) error {
	a, err := openApp(cmd.Context(), flags, true)
	if err != nil {
		return err
	}
	defer a.Close()

	engine := scheduler.NewEngine(a.cfg.SchedulerBuffer)
	engine.Start()
	defer engine.Stop()

	m := update.NewModelWithConfig(a.store, engine, a.cfg)
	m.SetLogger(a.logger)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("board failed: %w", err)
	}
	if dropped := engine.Dropped(); dropped > 0 {
		a.logger.Warn("cli_event", "event", "scheduler_dropped", "count", dropped)
	}
	return nil
}
