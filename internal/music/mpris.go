package music

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jfmyers9/spotctl/internal/apperr"
)

const (
	mprisPath        = "/org/mpris/MediaPlayer2"
	mprisPlayerIface = "org.mpris.MediaPlayer2.Player"
	propertiesGet    = "org.freedesktop.DBus.Properties.Get"
	propertiesSet    = "org.freedesktop.DBus.Properties.Set"
)

// caller is the subset of dbus.BusObject the client uses
type caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// MPRISClient implements the Player interface over the D-Bus session bus
// for any MPRIS-compatible player
type MPRISClient struct {
	service string
	player  caller
	bus     caller
	conn    *dbus.Conn
}

// NewMPRISClient connects to the session bus and targets the given MPRIS
// service, e.g. org.mpris.MediaPlayer2.spotify
func NewMPRISClient(service string) (*MPRISClient, error) {
	if service == "" {
		return nil, apperr.Bridge("connect to player", errors.New("empty mpris service name"))
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, apperr.Bridge("connect to session bus", err)
	}

	return &MPRISClient{
		service: service,
		player:  conn.Object(service, mprisPath),
		bus:     conn.BusObject(),
		conn:    conn,
	}, nil
}

// Close releases the session bus connection
func (c *MPRISClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// IsRunning checks if the MPRIS service currently owns its bus name
func (c *MPRISClient) IsRunning(ctx context.Context) (bool, error) {
	var owned bool
	err := c.bus.CallWithContext(ctx, "org.freedesktop.DBus.NameHasOwner", 0, c.service).Store(&owned)
	if err != nil {
		return false, apperr.Bridge("check if player is running", err)
	}
	return owned, nil
}

// invoke calls a method on the Player interface
func (c *MPRISClient) invoke(ctx context.Context, op, method string, args ...interface{}) error {
	if err := c.player.CallWithContext(ctx, mprisPlayerIface+"."+method, 0, args...).Err; err != nil {
		return apperr.Bridge(op, err)
	}
	return nil
}

// getProperty reads a Player interface property
func (c *MPRISClient) getProperty(ctx context.Context, op, name string) (interface{}, error) {
	var v dbus.Variant
	if err := c.player.CallWithContext(ctx, propertiesGet, 0, mprisPlayerIface, name).Store(&v); err != nil {
		return nil, apperr.Bridge(op, err)
	}
	return v.Value(), nil
}

// setProperty writes a Player interface property
func (c *MPRISClient) setProperty(ctx context.Context, op, name string, value interface{}) error {
	err := c.player.CallWithContext(ctx, propertiesSet, 0, mprisPlayerIface, name, dbus.MakeVariant(value)).Err
	if err != nil {
		return apperr.Bridge(op, err)
	}
	return nil
}

// Play resumes playback
func (c *MPRISClient) Play(ctx context.Context) error {
	return c.invoke(ctx, "play", "Play")
}

// PlayItem opens a URI in the player, which starts playing it
func (c *MPRISClient) PlayItem(ctx context.Context, uri string) error {
	return c.invoke(ctx, "play item", "OpenUri", uri)
}

// Pause pauses playback
func (c *MPRISClient) Pause(ctx context.Context) error {
	return c.invoke(ctx, "pause", "Pause")
}

// NextTrack skips to the next track
func (c *MPRISClient) NextTrack(ctx context.Context) error {
	return c.invoke(ctx, "skip to next track", "Next")
}

// PreviousTrack goes to the previous track
func (c *MPRISClient) PreviousTrack(ctx context.Context) error {
	return c.invoke(ctx, "go to previous track", "Previous")
}

// VolumeUp raises the volume by VolumeStep, capped at MaxVolume
func (c *MPRISClient) VolumeUp(ctx context.Context) error {
	return c.stepVolume(ctx, "volume up", VolumeStep)
}

// VolumeDown lowers the volume by VolumeStep, floored at MinVolume
func (c *MPRISClient) VolumeDown(ctx context.Context) error {
	return c.stepVolume(ctx, "volume down", -VolumeStep)
}

func (c *MPRISClient) stepVolume(ctx context.Context, op string, delta int) error {
	level, err := c.volume(ctx, op)
	if err != nil {
		return err
	}
	return c.writeVolume(ctx, op, clampVolume(level+delta))
}

// SetVolume sets the volume (0-100)
func (c *MPRISClient) SetVolume(ctx context.Context, level int) error {
	if level < MinVolume || level > MaxVolume {
		return apperr.InvalidArgument("volume level must be between 0 and 100, got %d", level)
	}
	return c.writeVolume(ctx, "set volume", level)
}

// Unmute restores the volume to UnmuteVolume if the player is at zero
func (c *MPRISClient) Unmute(ctx context.Context) error {
	level, err := c.volume(ctx, "unmute")
	if err != nil {
		return err
	}
	if level > 0 {
		return nil
	}
	return c.writeVolume(ctx, "unmute", UnmuteVolume)
}

// volume reads the MPRIS volume (0.0-1.0) as a 0-100 level
func (c *MPRISClient) volume(ctx context.Context, op string) (int, error) {
	raw, err := c.getProperty(ctx, op, "Volume")
	if err != nil {
		return 0, err
	}
	v, ok := raw.(float64)
	if !ok {
		return 0, apperr.Bridge(op, fmt.Errorf("unexpected volume type %T", raw))
	}
	return clampVolume(int(math.Round(v * 100))), nil
}

func (c *MPRISClient) writeVolume(ctx context.Context, op string, level int) error {
	return c.setProperty(ctx, op, "Volume", float64(level)/100)
}

// TrackInfo returns the loaded track from the player metadata, or nil if
// the player has nothing loaded
func (c *MPRISClient) TrackInfo(ctx context.Context) (*Track, error) {
	raw, err := c.getProperty(ctx, "get track info", "Metadata")
	if err != nil {
		return nil, err
	}

	metadata, ok := raw.(map[string]dbus.Variant)
	if !ok {
		return nil, apperr.Bridge("get track info", fmt.Errorf("unexpected metadata type %T", raw))
	}

	track := &Track{
		Name:     extractString(metadata, "xesam:title"),
		Artist:   extractArtist(metadata, "xesam:artist"),
		Album:    extractString(metadata, "xesam:album"),
		URI:      extractString(metadata, "xesam:url"),
		Duration: extractLength(metadata, "mpris:length"),
	}
	if track.Name == "" {
		return nil, nil
	}
	return track, nil
}

// PlaybackState returns the player status, position and volume
func (c *MPRISClient) PlaybackState(ctx context.Context) (*Playback, error) {
	const op = "get playback state"

	raw, err := c.getProperty(ctx, op, "PlaybackStatus")
	if err != nil {
		return nil, err
	}
	status, _ := raw.(string)
	state, err := parsePlayState(status)
	if err != nil {
		return nil, apperr.Bridge(op, err)
	}

	pb := &Playback{State: state}
	if state == StateStopped {
		return pb, nil
	}

	raw, err = c.getProperty(ctx, op, "Position")
	if err != nil {
		return nil, err
	}
	if micros, ok := raw.(int64); ok && micros > 0 {
		pb.Position = time.Duration(micros) * time.Microsecond
	}

	if pb.Volume, err = c.volume(ctx, op); err != nil {
		return nil, err
	}

	return pb, nil
}

func extractString(metadata map[string]dbus.Variant, key string) string {
	variant, exists := metadata[key]
	if !exists {
		return ""
	}

	text, ok := variant.Value().(string)
	if ok {
		return text
	}
	return ""
}

// extractArtist returns the first credited artist; xesam:artist is a list
// but some players send a plain string
func extractArtist(metadata map[string]dbus.Variant, key string) string {
	variant, exists := metadata[key]
	if !exists {
		return ""
	}

	switch typed := variant.Value().(type) {
	case []string:
		if len(typed) > 0 {
			return typed[0]
		}
		return ""
	case string:
		return typed
	default:
		return ""
	}
}

// extractLength converts mpris:length (microseconds, signed or unsigned
// depending on the player) to a Duration
func extractLength(metadata map[string]dbus.Variant, key string) time.Duration {
	variant, exists := metadata[key]
	if !exists {
		return 0
	}

	switch typed := variant.Value().(type) {
	case int64:
		if typed <= 0 {
			return 0
		}
		return time.Duration(typed) * time.Microsecond
	case uint64:
		return time.Duration(typed) * time.Microsecond
	default:
		return 0
	}
}
