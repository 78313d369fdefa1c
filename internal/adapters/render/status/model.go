package status

import (
	"errors"
	"io"

	"github.com/bnema/homewatch-cli/internal/application"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

// board is a one-shot bubbletea model: it quits on startup and the caller
// reads the composed view off the final model. There is no interaction, so
// no messages beyond the quit need handling.
type board struct {
	statuses []application.ItemStatus
	opts     RenderOptions
	styles   styles
}

func (b board) Init() tea.Cmd { return tea.Quit }

func (b board) Update(tea.Msg) (tea.Model, tea.Cmd) { return b, nil }

func (b board) View() string {
	return renderView(b.statuses, b.opts, b.styles)
}

// Render composes the status board without attaching to the terminal; the
// caller decides where the text goes.
func Render(statuses []application.ItemStatus, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		board{statuses: statuses, opts: opts, styles: newStyles()},
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	final, ok := finalModel.(board)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return final.View(), nil
}
