package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/chorechart/internal/commands"
	"github.com/sandeepkv93/chorechart/internal/views"
)

// newAdminCmd groups the PIN-protected edits. Each subcommand is translated
// into the same command line the board's palette accepts.
func newAdminCmd(flags *globalFlags) *cobra.Command {
	var pin string
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Edit chores and manage data (requires the PIN)",
	}
	cmd.PersistentFlags().StringVar(&pin, "pin", "", "admin PIN")

	run := func(verb string, args cobra.PositionalArgs) *cobra.Command {
		return &cobra.Command{
			Args: args,
			RunE: func(c *cobra.Command, argv []string) error {
				line := strings.TrimSpace(verb + " " + strings.Join(argv, " "))
				return runAdmin(c, flags, pin, line)
			},
		}
	}

	add := run("add", cobra.MinimumNArgs(3))
	add.Use, add.Short = "add <participant> <period> <task text...>", "Add a chore"
	remove := run("remove", cobra.ExactArgs(3))
	remove.Use, remove.Short = "remove <participant> <period> <position>", "Remove a chore by its list position"
	setPIN := run("pin", cobra.ExactArgs(1))
	setPIN.Use, setPIN.Short = "set-pin <new pin>", "Change the admin PIN"
	export := run("export", cobra.MaximumNArgs(1))
	export.Use, export.Short = "export [dir]", "Write a JSON backup"
	importCmd := run("import", cobra.ExactArgs(1))
	importCmd.Use, importCmd.Short = "import <file>", "Merge a JSON backup into the current data"

	var yes bool
	wipe := &cobra.Command{
		Use:   "wipe",
		Short: "Erase everything and restore the defaults",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, argv []string) error {
			if !yes {
				return fmt.Errorf("refusing to wipe without --yes")
			}
			return runAdmin(c, flags, pin, "wipe confirm")
		},
	}
	wipe.Flags().BoolVar(&yes, "yes", false, "confirm the wipe")

	cmd.AddCommand(add, remove, setPIN, export, importCmd, wipe)
	return cmd
}

func runAdmin(cmd *cobra.Command, flags *globalFlags, pin, line string) error {
	parsed, err := commands.Parse(line)
	if err != nil {
		return err
	}
	a, err := openApp(cmd.Context(), flags, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.store.VerifySecret(pin) {
		a.logger.Warn("cli_event", "event", "admin_pin_rejected", "command", string(parsed.Type))
		return errWrongPIN
	}
	res, err := commands.Execute(parsed, commands.StoreHandlers(cmd.Context(), a.store, a.cfg.ExportDir))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), views.Good.Render(res.Message))
	return nil
}
