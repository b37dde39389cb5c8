package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/chorechart/internal/commands"
	"github.com/sandeepkv93/chorechart/internal/model"
	"github.com/sandeepkv93/chorechart/internal/store"
	"github.com/sandeepkv93/chorechart/internal/views"
)

// resolvePeriod returns the flag value when set, otherwise the clock period.
func resolvePeriod(st *store.Store, raw string) (model.Period, error) {
	if raw == "" {
		return st.CurrentPeriod(nil), nil
	}
	p, err := model.ParsePeriod(raw)
	if err != nil {
		return "", err
	}
	return st.CurrentPeriod(&p), nil
}

func checklistCard(st *store.Store, name string, period model.Period) (views.CardData, error) {
	tasks, err := st.Tasks(name, period)
	if err != nil {
		return views.CardData{}, err
	}
	completed := st.CompletedToday(name, period)
	done, total := st.Progress(name, period)
	rows := make([]views.TaskRowData, 0, len(tasks))
	for i, text := range tasks {
		rows = append(rows, views.TaskRowData{Text: text, Done: slices.Contains(completed, i)})
	}
	return views.CardData{Participant: name, Tasks: rows, Done: done, Total: total}, nil
}

func newListCmd(flags *globalFlags) *cobra.Command {
	var period string
	cmd := &cobra.Command{
		Use:   "list [participant...]",
		Short: "Print today's checklists",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), flags, false)
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := resolvePeriod(a.store, period)
			if err != nil {
				return err
			}
			names := a.store.Participants()
			if len(args) > 0 {
				known := names
				names = make([]string, 0, len(args))
				for _, arg := range args {
					names = append(names, commands.ResolveParticipant(known, arg))
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, views.Heading(views.IconBoard, fmt.Sprintf("%s chores for %s", p.Label(), a.store.Today())))
			for _, name := range names {
				card, err := checklistCard(a.store, name, p)
				if err != nil {
					return err
				}
				fmt.Fprint(out, views.RenderChecklist(card))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&period, "period", "", "morning or afternoon (default: from the clock)")
	return cmd
}

func newToggleCmd(flags *globalFlags) *cobra.Command {
	var period string
	cmd := &cobra.Command{
		Use:   "toggle <participant> <position>",
		Short: "Tick or untick one of today's chores",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[1])
			if err != nil || pos < 1 {
				return fmt.Errorf("position must be a number from 1, got %q", args[1])
			}
			a, err := openApp(cmd.Context(), flags, false)
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := resolvePeriod(a.store, period)
			if err != nil {
				return err
			}
			name := commands.ResolveParticipant(a.store.Participants(), args[0])
			res, err := a.store.Toggle(cmd.Context(), name, p, pos-1)
			if err != nil {
				return err
			}
			card, err := checklistCard(a.store, name, p)
			if err != nil {
				return err
			}
			printToggle(cmd.OutOrStdout(), card, pos, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&period, "period", "", "morning or afternoon (default: from the clock)")
	return cmd
}

func printToggle(out io.Writer, card views.CardData, pos int, res model.ToggleResult) {
	task := card.Tasks[pos-1].Text
	if res.Completed {
		fmt.Fprintln(out, views.Good.Render(views.IconDone+" "+task))
	} else {
		fmt.Fprintln(out, views.Muted.Render(views.IconTodo+" "+task))
	}
	fmt.Fprint(out, views.RenderChecklist(card))
	if res.AllDone {
		fmt.Fprintln(out, views.Gold.Render(fmt.Sprintf("%s %s finished every chore! %s", views.IconStar, card.Participant, views.IconStar)))
	}
}

func newResetCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Mark today as reset (keeps ticks)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), flags, false)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.store.ResetNow(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), views.Good.Render("today marked as reset, ticks kept"))
			return nil
		},
	}
}

func newStatusCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show storage details and today's progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), flags, false)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, views.Heading(views.IconInfo, "Status"))
			fmt.Fprintln(out, views.LabelValue("Storage", fmt.Sprintf("%s (%s)", a.cfg.Storage, a.cfg.StatePath)))
			if info, err := a.store.Info(cmd.Context()); err == nil {
				fmt.Fprintln(out, views.LabelValue("Saved", fmt.Sprintf("%d bytes at %s", info.Size, info.UpdatedAt.In(a.store.Location()).Format("2006-01-02 15:04:05"))))
			}
			if last, ok := a.store.LastReset(); ok {
				fmt.Fprintln(out, views.LabelValue("Last reset", last.Format("2006-01-02 15:04")))
			}
			fmt.Fprintln(out, views.LabelValue("Today", a.store.Today()))
			fmt.Fprintln(out, views.LabelValue("Period", a.store.CurrentPeriod(nil).Label()))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, views.H2.Render("Progress"))
			for _, name := range a.store.Participants() {
				line := "- " + views.Key.Render(name+":")
				for _, p := range model.Periods {
					done, total := a.store.Progress(name, p)
					line += fmt.Sprintf(" %s %s %d/%d", p.Label(), views.ProgressText(done, total, 10), done, total)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}
