package music

import (
	"context"
	"time"
)

// Track represents the track loaded in the player
type Track struct {
	Name     string        // Track name/title
	Artist   string        // Artist name
	Album    string        // Album name
	URI      string        // Player URI of the track, if the player reports one
	Duration time.Duration // Total track duration
}

// Playback represents the live playback state of the player
type Playback struct {
	State    PlayState     // Current playback state
	Position time.Duration // Current playback position
	Volume   int           // Volume level 0-100
}

// PlayState represents the current playback state of the music player
type PlayState int

const (
	StateStopped PlayState = iota // No track playing
	StatePlaying                  // Track is currently playing
	StatePaused                   // Track is paused
)

// String returns a human-readable representation of the PlayState
func (s PlayState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Volume bounds and step used by VolumeUp/VolumeDown
const (
	MinVolume    = 0
	MaxVolume    = 100
	VolumeStep   = 10
	UnmuteVolume = 50
)

// Player defines the interface for controlling the local music player.
// Every failure is reported as an apperr BridgeError.
type Player interface {
	// IsRunning checks if the music player application is running
	IsRunning(ctx context.Context) (bool, error)

	// Play resumes playback of the current track
	Play(ctx context.Context) error

	// PlayItem starts playback of a catalog URI
	PlayItem(ctx context.Context, uri string) error

	// Pause pauses playback
	Pause(ctx context.Context) error

	// NextTrack skips to the next track
	NextTrack(ctx context.Context) error

	// PreviousTrack goes to the previous track
	PreviousTrack(ctx context.Context) error

	// VolumeUp raises the volume by VolumeStep
	VolumeUp(ctx context.Context) error

	// VolumeDown lowers the volume by VolumeStep
	VolumeDown(ctx context.Context) error

	// SetVolume sets the volume (0-100). Out-of-range levels are rejected.
	SetVolume(ctx context.Context, level int) error

	// Unmute restores an audible volume if the player is at zero
	Unmute(ctx context.Context) error

	// TrackInfo returns the loaded track, or nil if there is none
	TrackInfo(ctx context.Context) (*Track, error)

	// PlaybackState returns the live playback state
	PlaybackState(ctx context.Context) (*Playback, error)
}

// clampVolume bounds level to MinVolume..MaxVolume
func clampVolume(level int) int {
	if level < MinVolume {
		return MinVolume
	}
	if level > MaxVolume {
		return MaxVolume
	}
	return level
}
