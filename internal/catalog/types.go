package catalog

import (
	"strings"

	"github.com/jfmyers9/spotctl/internal/apperr"
)

// Kind selects which catalog index a search runs against
type Kind int

const (
	KindTrack    Kind = iota // Default when no kind is given
	KindArtist
	KindPlaylist
)

// String returns a human-readable representation of the Kind
func (k Kind) String() string {
	switch k {
	case KindTrack:
		return "track"
	case KindArtist:
		return "artist"
	case KindPlaylist:
		return "playlist"
	default:
		return "unknown"
	}
}

// Title returns the capitalized form used in user-facing messages
func (k Kind) Title() string {
	s := k.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseKind parses a kind name, accepting singular and plural forms in any case
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "track", "tracks", "song", "songs":
		return KindTrack, nil
	case "artist", "artists":
		return KindArtist, nil
	case "playlist", "playlists":
		return KindPlaylist, nil
	default:
		return 0, apperr.InvalidArgument("unknown search kind %q (must be track, artist or playlist)", s)
	}
}

// Artist is a credited artist on a catalog item
type Artist struct {
	Name string
}

// Item is one search result
type Item struct {
	Name       string   // Display name
	URI        string   // Playable URI, e.g. spotify:track:...
	Artists    []Artist // Credited artists, in credit order (tracks only)
	Album      string   // Album name (tracks only)
	DurationMs int      // Track length (tracks only)
}

// PrimaryArtist returns the first credited artist, or "" if none
func (i Item) PrimaryArtist() string {
	if len(i.Artists) == 0 {
		return ""
	}
	return i.Artists[0].Name
}

// AccessToken is the bearer token obtained by Authenticate
type AccessToken string
