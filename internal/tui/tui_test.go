package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/archive-downloader/internal/config"
	"github.com/handiism/archive-downloader/internal/download"
	"github.com/handiism/archive-downloader/internal/model"
)

func candidates(t *testing.T, titles ...string) []*model.Candidate {
	t.Helper()
	var out []*model.Candidate
	for _, title := range titles {
		c, err := model.NewCandidate(title, title, "Artist", "MP3", []model.RemoteFile{{Name: "01.mp3"}, {Name: "02.mp3"}})
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

// ask puts a fresh model into the choosing state and returns the channel the
// answer arrives on.
func ask(t *testing.T, cs []*model.Candidate) (Model, chan choice) {
	t.Helper()
	reply := make(chan choice, 1)
	m := NewModel(config.DefaultSettings(), false, nil)
	updated, _ := m.Update(ChooseMsg{Label: "Album", Candidates: cs, reply: reply})
	m = updated.(Model)
	require.Equal(t, StateChoosing, m.state)
	return m, reply
}

func press(m Model, keys ...tea.KeyMsg) Model {
	for _, k := range keys {
		updated, _ := m.Update(k)
		m = updated.(Model)
	}
	return m
}

func typeText(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	up    = tea.KeyMsg{Type: tea.KeyUp}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestModel_ChooseByNumber(t *testing.T) {
	cs := candidates(t, "First", "Second")
	m, reply := ask(t, cs)

	m = press(m, typeText("2"), enter)

	require.Len(t, reply, 1)
	got := <-reply
	assert.NoError(t, got.err)
	assert.Same(t, cs[1], got.candidate)
	assert.Equal(t, StateWorking, m.state)
}

func TestModel_ChooseRejectsInvalidInput(t *testing.T) {
	cs := candidates(t, "First", "Second")
	m, reply := ask(t, cs)

	m = press(m, typeText("x"), enter)
	assert.Equal(t, StateChoosing, m.state)
	assert.Equal(t, msgNotNumeric, m.choiceErr)
	assert.Empty(t, reply)
	assert.Contains(t, m.View(), "ERROR: "+msgNotNumeric)

	m = press(m, typeText("7"), enter)
	assert.Equal(t, StateChoosing, m.state)
	assert.Equal(t, msgInvalidOption, m.choiceErr)
	assert.Empty(t, reply)

	m = press(m, typeText("-1"), enter)
	assert.Equal(t, msgInvalidOption, m.choiceErr)

	m = press(m, typeText("1"), enter)
	got := <-reply
	assert.Same(t, cs[0], got.candidate)
	assert.Empty(t, m.choiceErr)
}

func TestModel_ChooseZeroSkips(t *testing.T) {
	m, reply := ask(t, candidates(t, "First"))

	press(m, typeText("0"), enter)

	got := <-reply
	assert.Nil(t, got.candidate)
	assert.NoError(t, got.err)
}

func TestModel_ChooseWithCursor(t *testing.T) {
	cs := candidates(t, "First", "Second")
	m, reply := ask(t, cs)

	m = press(m, down, down, down, up)
	assert.Equal(t, 1, m.cursor)

	press(m, enter)
	assert.Same(t, cs[1], (<-reply).candidate)
}

func TestModel_CursorOnSkip(t *testing.T) {
	m, reply := ask(t, candidates(t, "First"))

	press(m, down, enter)

	got := <-reply
	assert.Nil(t, got.candidate)
	assert.NoError(t, got.err)
}

func TestModel_EscSkips(t *testing.T) {
	m, reply := ask(t, candidates(t, "First"))

	m = press(m, esc)

	got := <-reply
	assert.Nil(t, got.candidate)
	assert.NoError(t, got.err)
	assert.Equal(t, StateWorking, m.state)
}

func TestModel_CtrlCAborts(t *testing.T) {
	cancelled := false
	reply := make(chan choice, 1)
	m := NewModel(config.DefaultSettings(), false, func() { cancelled = true })
	updated, _ := m.Update(ChooseMsg{Label: "Album", Candidates: candidates(t, "First"), reply: reply})

	_, cmd := updated.(Model).Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	got := <-reply
	assert.ErrorIs(t, got.err, ErrAborted)
	assert.True(t, cancelled)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_View(t *testing.T) {
	m, _ := ask(t, candidates(t, "First", "Second"))

	view := m.View()
	assert.Contains(t, view, "Options found for 'Album':")
	assert.Contains(t, view, "[1] First (2 songs)")
	assert.Contains(t, view, "[2] Second (2 songs)")
	assert.Contains(t, view, "[0] Skip")
}

func TestModel_ProgressAndDone(t *testing.T) {
	m := NewModel(config.DefaultSettings(), false, nil)

	updated, _ := m.Update(ProgressMsg{Event: download.ProgressEvent{Message: "Searching for: B - A", Level: download.LevelInfo}})
	updated, _ = updated.Update(ProgressMsg{Event: download.ProgressEvent{Message: "hidden", Level: download.LevelVerbose}})
	updated, _ = updated.Update(TransferMsg{Name: "a.mp3", Written: 50, Total: 100})
	m = updated.(Model)

	assert.Equal(t, "Searching for: B - A", m.status)
	require.Len(t, m.logs, 1)
	assert.Contains(t, m.View(), "a.mp3")

	updated, _ = m.Update(RunDoneMsg{Summary: download.Summary{Searched: 1, Downloaded: 1}})
	m = updated.(Model)
	assert.Equal(t, StateComplete, m.state)
	assert.Contains(t, m.View(), "Downloaded: 1")

	updated, _ = m.Update(RunDoneMsg{Err: context.Canceled})
	assert.Equal(t, StateError, updated.(Model).state)
}

func TestPicker_Select(t *testing.T) {
	cs := candidates(t, "First", "Second")

	picker := NewPicker(func(msg tea.Msg) {
		q := msg.(ChooseMsg)
		assert.Equal(t, "Album", q.Label)
		q.reply <- choice{candidate: q.Candidates[1]}
	})

	got, err := picker.Select(context.Background(), cs, "Album")
	require.NoError(t, err)
	assert.Same(t, cs[1], got)
}

func TestPicker_SelectAborted(t *testing.T) {
	picker := NewPicker(func(msg tea.Msg) {
		msg.(ChooseMsg).reply <- choice{err: ErrAborted}
	})

	_, err := picker.Select(context.Background(), candidates(t, "First"), "Album")
	assert.True(t, errors.Is(err, ErrAborted))
}

func TestPicker_SelectCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// Nobody answers.
	picker := NewPicker(func(tea.Msg) {})

	got, err := picker.Select(ctx, candidates(t, "First"), "Album")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
