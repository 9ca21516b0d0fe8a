package tui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/penerbit-id/naskah/internal/ui/wizard"
	"github.com/penerbit-id/naskah/logging"
)

// Options configures Run.
type Options struct {
	Backend Backend
	Logger  *logging.Logger
	// Input and Output default to the terminal.
	Input     io.Reader
	Output    io.Writer
	AltScreen bool
}

// Run drives the terminal wizard until the user quits and returns the last
// wizard state.
func Run(ctx context.Context, opts Options) (wizard.Wizard, error) {
	if opts.Backend == nil {
		return wizard.Wizard{}, errors.New("tui: backend is not configured")
	}
	var progOpts []tea.ProgramOption
	progOpts = append(progOpts, tea.WithContext(ctx))
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}

	prog := tea.NewProgram(NewModel(ctx, opts.Backend, opts.Logger), progOpts...)
	result, err := prog.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return wizard.Wizard{}, err
	}
	final, ok := result.(Model)
	if !ok {
		return wizard.Wizard{}, errors.New("tui: wizard failed to return results")
	}
	return final.Wizard(), nil
}
