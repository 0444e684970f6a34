package selection

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/archive-downloader/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ECDC4"))
	skipStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

// Prompt is the interactive line-based Selector.
//
// It prints a numbered menu with "[0] Skip" and reads one line at a time.
// Anything that is not an integer in [0, len(candidates)] is rejected and
// the question is asked again, with no limit on the number of attempts.
// Lines of any length are accepted. End of input counts as a skip.
//
// Reading happens on a background goroutine, so a cancelled context ends
// Select even while the terminal is waiting for input.
//
// Example:
//
//	p := selection.NewPrompt(os.Stdin, os.Stdout)
//	chosen, err := p.Select(ctx, candidates, "Exmilitary")
//	if chosen == nil {
//	    // skipped
//	}
type Prompt struct {
	in  *bufio.Reader
	out io.Writer

	start sync.Once
	lines chan inputLine
}

type inputLine struct {
	text string
	err  error
}

// NewPrompt creates a Prompt reading from in and writing the menu to out.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out, lines: make(chan inputLine)}
}

// readLines feeds p.lines until the input fails. The channel is closed
// afterwards, so later reads see end of input straight away.
func (p *Prompt) readLines() {
	defer close(p.lines)
	for {
		text, err := p.in.ReadString('\n')
		if text != "" {
			p.lines <- inputLine{text: text}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				p.lines <- inputLine{err: err}
			}
			return
		}
	}
}

// Select implements Selector.
func (p *Prompt) Select(ctx context.Context, candidates []*model.Candidate, label string) (*model.Candidate, error) {
	fmt.Fprintln(p.out, headerStyle.Render(fmt.Sprintf("Options found for '%s':", label)))
	for i, c := range candidates {
		fmt.Fprintf(p.out, "[%d] %s\n", i+1, OptionLabel(c))
	}
	fmt.Fprintln(p.out, skipStyle.Render("[0] Skip"))

	p.start.Do(func() { go p.readLines() })

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fmt.Fprint(p.out, "\n> ")

		var line inputLine
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(p.out)
			return nil, ctx.Err()
		case line, ok = <-p.lines:
		}
		if !ok {
			fmt.Fprintln(p.out)
			return nil, nil
		}
		if line.err != nil {
			return nil, fmt.Errorf("reading selection: %w", line.err)
		}

		choice, err := strconv.Atoi(strings.TrimSpace(line.text))
		if err != nil {
			fmt.Fprintln(p.out, errorStyle.Render("ERROR: Only numeric values accepted"))
			continue
		}
		if choice < 0 || choice > len(candidates) {
			fmt.Fprintln(p.out, errorStyle.Render("ERROR: Invalid option, try again"))
			continue
		}

		return Pick(candidates, choice), nil
	}
}
