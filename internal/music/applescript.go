package music

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/jfmyers9/spotctl/internal/apperr"
)

// ErrNotRunning is wrapped when the player application is not running.
var ErrNotRunning = errors.New("Spotify is not running")

// scriptRunner executes an AppleScript and returns its trimmed stdout
type scriptRunner func(ctx context.Context, script string) (string, error)

// AppleScriptClient implements the Player interface by scripting the
// Spotify desktop app with osascript
type AppleScriptClient struct {
	run scriptRunner
}

// NewAppleScriptClient creates a new AppleScript-based player client
func NewAppleScriptClient() *AppleScriptClient {
	return &AppleScriptClient{run: runOsascript}
}

// runOsascript runs script through osascript
func runOsascript(ctx context.Context, script string) (string, error) {
	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	output, err := cmd.Output()
	if err != nil {
		// If there's an error, try to extract the error message
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("osascript error: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("failed to execute osascript: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// tell runs a command against Spotify, failing fast when it is not running
// so that osascript does not launch it as a side effect
func (c *AppleScriptClient) tell(ctx context.Context, op, command string) (string, error) {
	script := fmt.Sprintf(`if application "Spotify" is running then
	tell application "Spotify"
		%s
	end tell
else
	return "not_running"
end if`, command)

	out, err := c.run(ctx, script)
	if err != nil {
		return "", apperr.Bridge(op, err)
	}
	if out == "not_running" {
		return "", apperr.Bridge(op, ErrNotRunning)
	}
	return out, nil
}

// IsRunning checks if the Spotify app is currently running
func (c *AppleScriptClient) IsRunning(ctx context.Context) (bool, error) {
	out, err := c.run(ctx, `application "Spotify" is running`)
	if err != nil {
		return false, apperr.Bridge("check if Spotify is running", err)
	}
	return out == "true", nil
}

// Play resumes playback in Spotify
func (c *AppleScriptClient) Play(ctx context.Context) error {
	_, err := c.tell(ctx, "play", "play")
	return err
}

// PlayItem plays a Spotify URI
func (c *AppleScriptClient) PlayItem(ctx context.Context, uri string) error {
	_, err := c.tell(ctx, "play item", fmt.Sprintf("play track %s", strconv.Quote(uri)))
	return err
}

// Pause pauses playback in Spotify
func (c *AppleScriptClient) Pause(ctx context.Context) error {
	_, err := c.tell(ctx, "pause", "pause")
	return err
}

// NextTrack skips to the next track in Spotify
func (c *AppleScriptClient) NextTrack(ctx context.Context) error {
	_, err := c.tell(ctx, "skip to next track", "next track")
	return err
}

// PreviousTrack goes back to the previous track in Spotify
func (c *AppleScriptClient) PreviousTrack(ctx context.Context) error {
	_, err := c.tell(ctx, "go to previous track", "previous track")
	return err
}

// VolumeUp raises the volume by VolumeStep, capped at MaxVolume
func (c *AppleScriptClient) VolumeUp(ctx context.Context) error {
	return c.stepVolume(ctx, "volume up", VolumeStep)
}

// VolumeDown lowers the volume by VolumeStep, floored at MinVolume
func (c *AppleScriptClient) VolumeDown(ctx context.Context) error {
	return c.stepVolume(ctx, "volume down", -VolumeStep)
}

func (c *AppleScriptClient) stepVolume(ctx context.Context, op string, delta int) error {
	level, err := c.volume(ctx, op)
	if err != nil {
		return err
	}
	_, err = c.tell(ctx, op, fmt.Sprintf("set sound volume to %d", clampVolume(level+delta)))
	return err
}

// SetVolume sets the playback volume in Spotify (0-100)
func (c *AppleScriptClient) SetVolume(ctx context.Context, level int) error {
	if level < MinVolume || level > MaxVolume {
		return apperr.InvalidArgument("volume level must be between 0 and 100, got %d", level)
	}
	_, err := c.tell(ctx, "set volume", fmt.Sprintf("set sound volume to %d", level))
	return err
}

// Unmute restores the volume to UnmuteVolume if Spotify is at zero
func (c *AppleScriptClient) Unmute(ctx context.Context) error {
	_, err := c.tell(ctx, "unmute", fmt.Sprintf("if sound volume is 0 then set sound volume to %d", UnmuteVolume))
	return err
}

// volume reads the current sound volume
func (c *AppleScriptClient) volume(ctx context.Context, op string) (int, error) {
	out, err := c.tell(ctx, op, "return sound volume")
	if err != nil {
		return 0, err
	}
	level, err := strconv.Atoi(out)
	if err != nil {
		return 0, apperr.Bridge(op, fmt.Errorf("failed to parse volume %q: %w", out, err))
	}
	return level, nil
}

// TrackInfo returns the track currently loaded in Spotify, or nil if stopped
func (c *AppleScriptClient) TrackInfo(ctx context.Context) (*Track, error) {
	out, err := c.tell(ctx, "get track info", `if player state is stopped then
			return "stopped"
		end if
		set t to current track
		return (name of t) & "|||" & (artist of t) & "|||" & (album of t) & "|||" & (duration of t) & "|||" & (spotify url of t)`)
	if err != nil {
		return nil, err
	}
	if out == "stopped" {
		return nil, nil
	}

	track, err := parseTrackOutput(out)
	if err != nil {
		return nil, apperr.Bridge("get track info", err)
	}
	return track, nil
}

// PlaybackState returns Spotify's player state, position and volume
func (c *AppleScriptClient) PlaybackState(ctx context.Context) (*Playback, error) {
	out, err := c.tell(ctx, "get playback state",
		`return (player state as string) & "|||" & (player position) & "|||" & (sound volume)`)
	if err != nil {
		return nil, err
	}

	pb, err := parsePlaybackOutput(out)
	if err != nil {
		return nil, apperr.Bridge("get playback state", err)
	}
	return pb, nil
}

// parseTrackOutput parses the delimited track info from the AppleScript.
// Spotify reports duration in milliseconds.
func parseTrackOutput(output string) (*Track, error) {
	parts := strings.Split(output, "|||")
	if len(parts) != 5 {
		return nil, fmt.Errorf("expected 5 parts, got %d: %q", len(parts), output)
	}

	durationStr := strings.TrimSpace(parts[3])
	durationMs, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse duration %q: %w", durationStr, err)
	}

	return &Track{
		Name:     strings.TrimSpace(parts[0]),
		Artist:   strings.TrimSpace(parts[1]),
		Album:    strings.TrimSpace(parts[2]),
		Duration: time.Duration(durationMs * float64(time.Millisecond)),
		URI:      strings.TrimSpace(parts[4]),
	}, nil
}

// parsePlaybackOutput parses "state|||position|||volume".
// Spotify reports position in seconds, using a locale decimal separator.
func parsePlaybackOutput(output string) (*Playback, error) {
	parts := strings.Split(output, "|||")
	if len(parts) != 3 {
		return nil, fmt.Errorf("expected 3 parts, got %d: %q", len(parts), output)
	}

	state, err := parsePlayState(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, err
	}

	positionStr := strings.ReplaceAll(strings.TrimSpace(parts[1]), ",", ".")
	positionSec, err := strconv.ParseFloat(positionStr, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse position %q: %w", positionStr, err)
	}

	volumeStr := strings.TrimSpace(parts[2])
	volume, err := strconv.Atoi(volumeStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse volume %q: %w", volumeStr, err)
	}

	return &Playback{
		State:    state,
		Position: secondsToDuration(positionSec),
		Volume:   volume,
	}, nil
}

// parsePlayState maps a player state name to a PlayState
func parsePlayState(s string) (PlayState, error) {
	switch strings.ToLower(s) {
	case "playing":
		return StatePlaying, nil
	case "paused":
		return StatePaused, nil
	case "stopped":
		return StateStopped, nil
	default:
		return StateStopped, fmt.Errorf("unknown player state: %q", s)
	}
}

// secondsToDuration converts seconds (as float) to time.Duration
func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
