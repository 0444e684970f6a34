// Package tui provides a Bubble Tea terminal user interface for
// archive-downloader.
//
// The worklist runs in the background while the Model shows search progress,
// asks which candidate to download through a Picker and draws a progress bar
// for the file being transferred.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/archive-downloader/internal/config"
	"github.com/handiism/archive-downloader/internal/download"
	"github.com/handiism/archive-downloader/internal/model"
	"github.com/handiism/archive-downloader/internal/selection"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	albumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// Messages shown when a typed option is rejected.
const (
	msgNotNumeric    = "Only numeric values accepted"
	msgInvalidOption = "Invalid option, try again"
)

// maxLogs is the number of log lines kept on screen.
const maxLogs = 10

// transferStep is the minimum number of bytes between two progress updates
// of one file.
const transferStep = 64 * 1024

// State represents the current UI state.
type State int

const (
	StateWorking State = iota
	StateChoosing
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Message types
type (
	// ProgressMsg is sent for every progress event of the run.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// TransferMsg reports the byte progress of the file being downloaded.
	TransferMsg struct {
		Name    string
		Written int64
		Total   int64
	}

	// RunDoneMsg is sent when the worklist is finished or stopped.
	RunDoneMsg struct {
		Summary download.Summary
		Err     error
	}
)

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	status    string
	summary   download.Summary
	err       error

	// cancel stops the background run.
	cancel context.CancelFunc

	// Pending question
	label      string
	candidates []*model.Candidate
	reply      chan<- choice
	cursor     int
	choiceErr  string

	// Current transfer
	file    string
	written int64
	total   int64

	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model. cancel is called when the user quits
// while the run is still going.
func NewModel(settings *config.Settings, verbose bool, cancel context.CancelFunc) Model {
	ti := textinput.New()
	ti.Placeholder = "number"
	ti.CharLimit = 4
	ti.Width = 10

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	if cancel == nil {
		cancel = func() {}
	}

	return Model{
		state:     StateWorking,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		logs:      make([]LogEntry, 0),
		status:    "Starting...",
		cancel:    cancel,
		verbose:   verbose,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.answer(nil, ErrAborted)
			m.cancel()
			return m, tea.Quit
		}
		if m.state == StateChoosing {
			return m.updateChoosing(msg)
		}

		switch msg.String() {
		case "esc":
			if m.state == StateWorking {
				m.cancel()
				m.status = "Cancelling..."
			} else {
				return m, tea.Quit
			}
		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if msg.Event.Level == download.LevelInfo {
			m.status = msg.Event.Message
		}
		// Filter verbose messages if not in verbose mode
		if msg.Event.Level == download.LevelVerbose && !m.verbose {
			return m, nil
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}

	case TransferMsg:
		m.file = msg.Name
		m.written = msg.Written
		m.total = msg.Total

	case ChooseMsg:
		m.state = StateChoosing
		m.label = msg.Label
		m.candidates = msg.Candidates
		m.reply = msg.reply
		m.cursor = 0
		m.choiceErr = ""
		m.textInput.SetValue("")
		cmds = append(cmds, m.textInput.Focus())

	case RunDoneMsg:
		m.summary = msg.Summary
		m.file = ""
		switch {
		case errors.Is(msg.Err, context.Canceled), errors.Is(msg.Err, ErrAborted):
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}
	}

	return m, tea.Batch(cmds...)
}

// updateChoosing handles keys while a question is open. Options are listed
// 1..N followed by Skip; the cursor indexes that list.
func (m Model) updateChoosing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down":
		if m.cursor < len(m.candidates) {
			m.cursor++
		}
		return m, nil

	case "esc":
		m.answer(nil, nil)
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.textInput.Value())
		if value == "" {
			m.answer(selection.Pick(m.candidates, m.cursorChoice()), nil)
			return m, nil
		}

		n, err := strconv.Atoi(value)
		switch {
		case err != nil:
			m.choiceErr = msgNotNumeric
		case n < 0 || n > len(m.candidates):
			m.choiceErr = msgInvalidOption
		default:
			m.answer(selection.Pick(m.candidates, n), nil)
			return m, nil
		}
		m.textInput.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// cursorChoice converts the cursor to a menu number, 0 being Skip.
func (m Model) cursorChoice() int {
	if m.cursor >= len(m.candidates) {
		return 0
	}
	return m.cursor + 1
}

// answer replies to the pending question, if any, and goes back to work.
func (m *Model) answer(c *model.Candidate, err error) {
	if m.reply == nil {
		return
	}
	m.reply <- choice{candidate: c, err: err}
	m.reply = nil
	m.candidates = nil
	m.choiceErr = ""
	m.textInput.Blur()
	m.state = StateWorking
	if c == nil && err == nil {
		m.status = "Skipping to the next album"
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("♫ Internet Archive Downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Saving %s albums to %s", m.settings.Format, m.settings.DownloadsPath)))
	b.WriteString("\n\n")

	switch m.state {
	case StateWorking:
		b.WriteString(m.viewWorking())
	case StateChoosing:
		b.WriteString(m.viewChoosing())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewWorking() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(m.status))
	b.WriteString("\n\n")

	if m.file != "" {
		var percent float64
		if m.total > 0 {
			percent = float64(m.written) / float64(m.total)
		}
		b.WriteString(albumStyle.Render("♪ " + m.file))
		b.WriteString("\n")
		b.WriteString(m.progress.ViewAs(percent))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(fmt.Sprintf("%.2f MB", float64(m.written)/1024/1024)))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewChoosing() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Options found for '%s':", m.label)))
	b.WriteString("\n\n")

	for i, c := range m.candidates {
		b.WriteString(m.renderOption(i, fmt.Sprintf("[%d] %s", i+1, selection.OptionLabel(c))))
	}
	b.WriteString(m.renderOption(len(m.candidates), "[0] Skip"))

	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n")
	if m.choiceErr != "" {
		b.WriteString(errorStyle.Render("ERROR: " + m.choiceErr))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderOption(index int, text string) string {
	if index == m.cursor {
		return albumStyle.Render("› "+text) + "\n"
	}
	return "  " + text + "\n"
}

func (m Model) viewComplete() string {
	box := boxStyle.Render(fmt.Sprintf(
		"✨ Process finalized\n\n"+
			"Searched: %d\n"+
			"Downloaded: %d\n"+
			"Failed: %d\n"+
			"Skipped: %d\n"+
			"Not found: %d",
		m.summary.Searched,
		m.summary.Downloaded,
		m.summary.Failed,
		m.summary.Skipped,
		m.summary.NoCandidates,
	))
	return box + "\n\n" + m.renderLogs()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateChoosing:
		return "↑/↓: move • enter: choose • type a number • esc: skip • ctrl+c: quit"
	case StateWorking:
		return "esc: cancel • ctrl+c: quit"
	case StateComplete, StateError:
		return "q: quit"
	}
	return ""
}

// Run starts the TUI application and works through settings.Albums. It
// returns once the user leaves the program and the run has stopped.
func Run(ctx context.Context, settings *config.Settings, logger *slog.Logger, verbose bool) (download.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(settings, verbose, cancel), tea.WithAltScreen())

	manager := download.NewManager(settings, NewPicker(p.Send), logger, func(event download.ProgressEvent) {
		p.Send(ProgressMsg{Event: event})
	})
	manager.OnTransfer(func(file model.RemoteFile) func(written, total int64) {
		name := file.BaseName()
		p.Send(TransferMsg{Name: name, Total: file.Size})

		var last int64
		return func(written, total int64) {
			if written-last < transferStep && written != total {
				return
			}
			last = written
			p.Send(TransferMsg{Name: name, Written: written, Total: total})
		}
	})

	type result struct {
		summary download.Summary
		err     error
	}
	done := make(chan result, 1)
	go func() {
		sum, err := manager.Run(ctx, settings.Albums)
		done <- result{summary: sum, err: err}
		p.Send(RunDoneMsg{Summary: sum, Err: err})
	}()

	_, err := p.Run()
	cancel()
	res := <-done
	if err != nil {
		return res.summary, err
	}
	return res.summary, res.err
}
