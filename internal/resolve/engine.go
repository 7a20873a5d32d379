// Package resolve turns a free-text play request into exactly one catalog
// item and hands it to the player.
//
// A request runs Searching, then either NotFound, Resolved or, when the
// catalog returns more than one match, Disambiguating before Resolved. A
// request with no text skips the search and resumes the current track.
package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"

	"github.com/jfmyers9/spotctl/internal/apperr"
	"github.com/jfmyers9/spotctl/internal/catalog"
	"github.com/jfmyers9/spotctl/internal/music"
)

// MaxChoices caps how many candidates the user is asked to choose from
const MaxChoices = 5

// labelWidth bounds a choice label in display columns
const labelWidth = 72

// State is where a request ended up
type State int

const (
	StateIdle State = iota
	StateSearching
	StateDisambiguating
	StateResolved
	StateNotFound
	StatePlayCurrent
)

// String returns a human-readable representation of the State
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSearching:
		return "searching"
	case StateDisambiguating:
		return "disambiguating"
	case StateResolved:
		return "resolved"
	case StateNotFound:
		return "not found"
	case StatePlayCurrent:
		return "play current"
	default:
		return "unknown"
	}
}

// Query is a play request built by the command line
type Query struct {
	Kind catalog.Kind
	Text string
}

// Outcome reports the final state of a request and, when Resolved, the
// selected item
type Outcome struct {
	State State
	Item  catalog.Item
}

// Choice is one candidate offered to the user. Index is the candidate's
// position in the list passed to Choose.
type Choice struct {
	Label string
	Index int
}

// Searcher runs catalog searches
type Searcher interface {
	Search(ctx context.Context, kind catalog.Kind, text string) ([]catalog.Item, error)
}

// Chooser asks the user to pick one of several candidates
type Chooser interface {
	Choose(ctx context.Context, prompt string, choices []Choice) (Choice, error)
}

// Notifier reports progress to the user. Start begins an operation and
// Success or Fail finishes it.
type Notifier interface {
	Start(msg string)
	Success(msg string)
	Fail(msg string)
}

// Engine resolves queries against the catalog and plays the result
type Engine struct {
	Catalog  Searcher
	Player   music.Player
	Chooser  Chooser
	Notifier Notifier
	Logger   zerolog.Logger
}

// Play resolves q and starts playback of the selected item. An empty query
// resumes the current track. No matches is reported through the Notifier and
// returns StateNotFound with a nil error.
func (e *Engine) Play(ctx context.Context, q Query) (Outcome, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		e.Logger.Debug().Msg("No query text, resuming current track")
		if err := e.Player.Unmute(ctx); err != nil {
			return Outcome{State: StateIdle}, err
		}
		if err := e.Player.Play(ctx); err != nil {
			return Outcome{State: StateIdle}, err
		}
		e.Notifier.Success("Resumed playback")
		return Outcome{State: StatePlayCurrent}, nil
	}

	item, state, err := e.resolve(ctx, q.Kind, text)
	if err != nil {
		return Outcome{State: state}, err
	}
	if state == StateNotFound {
		return Outcome{State: StateNotFound}, nil
	}

	if err := e.Player.Unmute(ctx); err != nil {
		return Outcome{State: StateResolved, Item: item}, err
	}
	if err := e.Player.PlayItem(ctx, item.URI); err != nil {
		return Outcome{State: StateResolved, Item: item}, err
	}

	e.Notifier.Success(playingMessage(item))
	return Outcome{State: StateResolved, Item: item}, nil
}

// Resolve runs the search and disambiguation without touching the player.
// No matches is a NotFound error.
func (e *Engine) Resolve(ctx context.Context, q Query) (catalog.Item, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return catalog.Item{}, apperr.InvalidArgument("nothing to search for")
	}

	item, state, err := e.resolve(ctx, q.Kind, text)
	if err != nil {
		return catalog.Item{}, err
	}
	if state == StateNotFound {
		return catalog.Item{}, apperr.NotFound(fmt.Sprintf("search %s %q", q.Kind, text))
	}
	return item, nil
}

func (e *Engine) resolve(ctx context.Context, kind catalog.Kind, text string) (catalog.Item, State, error) {
	log := e.Logger.With().Str("kind", kind.String()).Str("query", text).Logger()

	e.Notifier.Start(fmt.Sprintf("Searching for %s %q", kind, text))
	items, err := e.Catalog.Search(ctx, kind, text)
	if err != nil {
		e.Notifier.Fail(fmt.Sprintf("Search for %s %q failed", kind, text))
		return catalog.Item{}, StateSearching, err
	}
	log.Debug().Int("results", len(items)).Msg("Search complete")

	switch len(items) {
	case 0:
		e.Notifier.Fail(fmt.Sprintf("%s not found: %q", kind.Title(), text))
		return catalog.Item{}, StateNotFound, nil
	case 1:
		e.Notifier.Success(fmt.Sprintf("Found %s", label(items[0])))
		return items[0], StateResolved, nil
	}

	candidates := items
	if len(candidates) > MaxChoices {
		candidates = candidates[:MaxChoices]
	}
	e.Notifier.Success(fmt.Sprintf("Found %d matching %ss", len(items), kind))

	choices := make([]Choice, len(candidates))
	for i, item := range candidates {
		choices[i] = Choice{Label: label(item), Index: i}
	}

	chosen, err := e.Chooser.Choose(ctx, fmt.Sprintf("Which %s did you mean?", kind), choices)
	if err != nil {
		return catalog.Item{}, StateDisambiguating, err
	}
	if chosen.Index < 0 || chosen.Index >= len(candidates) {
		return catalog.Item{}, StateDisambiguating, apperr.InvalidArgument("choice %d out of range", chosen.Index+1)
	}

	log.Debug().Int("choice", chosen.Index).Msg("Candidate selected")
	return candidates[chosen.Index], StateResolved, nil
}

// label renders an item as "Name - Artist" when an artist is credited
func label(item catalog.Item) string {
	text := item.Name
	if artist := item.PrimaryArtist(); artist != "" {
		text += " - " + artist
	}
	return runewidth.Truncate(text, labelWidth, "...")
}

func playingMessage(item catalog.Item) string {
	if artist := item.PrimaryArtist(); artist != "" {
		return fmt.Sprintf("Playing %s by %s", item.Name, artist)
	}
	return fmt.Sprintf("Playing %s", item.Name)
}
