// Package selection decides which candidate, if any, gets downloaded for an
// album.
//
// A Selector is handed the resolved candidates together with a label (the
// album being searched for) and returns one of them, or nil to skip the
// album. Prompt asks on a terminal and keeps asking until it gets a valid
// answer; Auto and Skip decide without any input, for scripts and tests.
package selection

import (
	"context"
	"fmt"

	"github.com/handiism/archive-downloader/internal/model"
)

// Selector picks one candidate or declines.
//
// Implementations must not modify or reorder candidates. A nil candidate
// with a nil error means the album is skipped.
type Selector interface {
	Select(ctx context.Context, candidates []*model.Candidate, label string) (*model.Candidate, error)
}

// SelectorFunc adapts a function to the Selector interface.
type SelectorFunc func(ctx context.Context, candidates []*model.Candidate, label string) (*model.Candidate, error)

// Select calls f.
func (f SelectorFunc) Select(ctx context.Context, candidates []*model.Candidate, label string) (*model.Candidate, error) {
	return f(ctx, candidates, label)
}

// Auto picks the candidate at the 1-based Index without asking. Index 0, or
// an index past the end of the list, skips.
type Auto struct {
	Index int
}

// Select implements Selector.
func (a Auto) Select(ctx context.Context, candidates []*model.Candidate, label string) (*model.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Pick(candidates, a.Index), nil
}

// Skip declines every album.
type Skip struct{}

// Select implements Selector.
func (Skip) Select(ctx context.Context, candidates []*model.Candidate, label string) (*model.Candidate, error) {
	return nil, ctx.Err()
}

// Pick returns the candidate for a 1-based menu choice, nil for 0 or an out
// of range choice.
func Pick(candidates []*model.Candidate, choice int) *model.Candidate {
	if choice < 1 || choice > len(candidates) {
		return nil
	}
	return candidates[choice-1]
}

// OptionLabel renders one menu line without the index, "<title> (<n> songs)".
func OptionLabel(c *model.Candidate) string {
	return fmt.Sprintf("%s (%d songs)", c.Title, c.TrackCount())
}
