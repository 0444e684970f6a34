package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/handiism/archive-downloader/internal/model"
)

// ErrAborted is returned by Picker.Select when the user quits the program
// instead of answering.
var ErrAborted = errors.New("selection aborted by user")

type choice struct {
	candidate *model.Candidate
	err       error
}

// ChooseMsg asks the Model to show the options for one album. The Model
// answers exactly once on reply.
type ChooseMsg struct {
	Label      string
	Candidates []*model.Candidate

	reply chan<- choice
}

// Picker is a selection.Selector that asks inside a running Bubble Tea
// program. Select blocks until the user answers or ctx is done.
//
// Example:
//
//	p := tea.NewProgram(NewModel(settings, cancel))
//	picker := NewPicker(p.Send)
//	manager := download.NewManager(settings, picker, logger, onProgress)
type Picker struct {
	send func(tea.Msg)
}

// NewPicker creates a Picker that delivers its questions through send,
// usually (*tea.Program).Send.
func NewPicker(send func(tea.Msg)) *Picker {
	return &Picker{send: send}
}

// Select implements selection.Selector.
func (p *Picker) Select(ctx context.Context, candidates []*model.Candidate, label string) (*model.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reply := make(chan choice, 1)
	p.send(ChooseMsg{Label: label, Candidates: candidates, reply: reply})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case c := <-reply:
		return c.candidate, c.err
	}
}
