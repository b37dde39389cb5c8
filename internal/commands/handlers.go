package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandeepkv93/chorechart/internal/model"
)

// Target is the state the admin commands act on.
type Target interface {
	Participants() []string
	Tasks(participant string, period model.Period) ([]string, error)
	AddTask(ctx context.Context, participant string, period model.Period, text string) error
	RemoveTask(ctx context.Context, participant string, period model.Period, index int) error
	SetSecret(ctx context.Context, secret string) error
	ExportToFile(dir string) (string, error)
	ImportFile(ctx context.Context, path string) error
	Wipe(ctx context.Context) error
	Load(ctx context.Context) (*model.AppState, error)
	ResetNow(ctx context.Context) error
}

// StoreHandlers wires every command to target. exportDir is used when an
// export names no directory.
func StoreHandlers(ctx context.Context, target Target, exportDir string) Handlers {
	return Handlers{
		Add: func(a AddArgs) (Result, error) {
			name := ResolveParticipant(target.Participants(), a.Participant)
			if err := target.AddTask(ctx, name, a.Period, a.Text); err != nil {
				return Result{}, err
			}
			return Result{Message: fmt.Sprintf("added %q to %s %s", a.Text, name, a.Period)}, nil
		},
		Remove: func(r RemoveArgs) (Result, error) {
			name := ResolveParticipant(target.Participants(), r.Participant)
			tasks, err := target.Tasks(name, r.Period)
			if err != nil {
				return Result{}, err
			}
			if err := target.RemoveTask(ctx, name, r.Period, r.Index); err != nil {
				return Result{}, err
			}
			return Result{Message: fmt.Sprintf("removed %q from %s %s", tasks[r.Index], name, r.Period)}, nil
		},
		PIN: func(p PINArgs) (Result, error) {
			if err := target.SetSecret(ctx, p.PIN); err != nil {
				return Result{}, err
			}
			return Result{Message: "PIN updated"}, nil
		},
		Export: func(e ExportArgs) (Result, error) {
			dir := e.Dir
			if dir == "" {
				dir = exportDir
			}
			path, err := target.ExportToFile(dir)
			if err != nil {
				return Result{}, err
			}
			return Result{Message: "exported to " + path}, nil
		},
		Import: func(i ImportArgs) (Result, error) {
			if err := target.ImportFile(ctx, i.Path); err != nil {
				return Result{}, err
			}
			return Result{Message: "imported " + i.Path, Reload: true}, nil
		},
		Wipe: func() (Result, error) {
			if err := target.Wipe(ctx); err != nil {
				return Result{}, err
			}
			if _, err := target.Load(ctx); err != nil {
				return Result{}, err
			}
			return Result{Message: "all data erased, defaults restored", Reload: true}, nil
		},
		Reset: func() (Result, error) {
			if err := target.ResetNow(ctx); err != nil {
				return Result{}, err
			}
			return Result{Message: "today marked as reset, ticks kept"}, nil
		},
	}
}

// ResolveParticipant matches name against names, exactly first and then
// case-insensitively. Unknown names come back unchanged.
func ResolveParticipant(names []string, name string) string {
	for _, n := range names {
		if n == name {
			return n
		}
	}
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return n
		}
	}
	return name
}
