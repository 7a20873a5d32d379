package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jfmyers9/spotctl/internal/apperr"
	"github.com/jfmyers9/spotctl/internal/music"
)

// pauseCmd represents the pause command
var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause playback in Spotify",
	RunE: bridgeCommand("Paused", func(ctx context.Context, p music.Player) error {
		return p.Pause(ctx)
	}),
}

// nextCmd represents the next command
var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Skip to the next track in Spotify",
	RunE: bridgeCommand("Skipped to next track", func(ctx context.Context, p music.Player) error {
		return p.NextTrack(ctx)
	}),
}

// prevCmd represents the prev command
var prevCmd = &cobra.Command{
	Use:   "prev",
	Short: "Go back to the previous track in Spotify",
	RunE: bridgeCommand("Back to previous track", func(ctx context.Context, p music.Player) error {
		return p.PreviousTrack(ctx)
	}),
}

// volumeUpCmd represents the volumeUp command
var volumeUpCmd = &cobra.Command{
	Use:   "volumeUp",
	Short: "Raise the Spotify volume by 10",
	RunE: bridgeCommand("Volume up", func(ctx context.Context, p music.Player) error {
		return p.VolumeUp(ctx)
	}),
}

// volumeDownCmd represents the volumeDown command
var volumeDownCmd = &cobra.Command{
	Use:   "volumeDown",
	Short: "Lower the Spotify volume by 10",
	RunE: bridgeCommand("Volume down", func(ctx context.Context, p music.Player) error {
		return p.VolumeDown(ctx)
	}),
}

// volumeCmd represents the volume command
var volumeCmd = &cobra.Command{
	Use:   "volume <0-100>",
	Short: "Set the Spotify volume",
	Long: `Set the playback volume in Spotify.

Volume level must be between 0 (muted) and 100 (maximum).`,
	RunE: runVolume,
}

// volumeFlagError turns "volume -5" into the range error instead of an
// unknown flag error. The flag parser sees a negative level as a shorthand.
func volumeFlagError(cmd *cobra.Command, err error) error {
	msg := err.Error()
	if i := strings.LastIndex(msg, " in "); i >= 0 {
		arg := msg[i+len(" in "):]
		if _, convErr := strconv.Atoi(arg); convErr == nil {
			if _, rangeErr := parseVolumeArgs([]string{arg}); rangeErr != nil {
				return rangeErr
			}
		}
	}
	return apperr.InvalidArgument("%v", err)
}

func init() {
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(prevCmd)
	rootCmd.AddCommand(volumeUpCmd)
	rootCmd.AddCommand(volumeDownCmd)
	rootCmd.AddCommand(volumeCmd)

	volumeCmd.SetFlagErrorFunc(volumeFlagError)
}

// bridgeCommand builds a RunE that unmutes the player, runs action and
// reports done on success
func bridgeCommand(done string, action func(ctx context.Context, p music.Player) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a := fromContext(cmd)

		ctx, cancel := a.withTimeout(cmd.Context())
		defer cancel()

		return a.withPlayer(func(player music.Player) error {
			if err := runBridge(ctx, player, action); err != nil {
				return err
			}
			a.notifier.Success(done)
			return nil
		})
	}
}

// runBridge restores an audible volume and then runs action
func runBridge(ctx context.Context, player music.Player, action func(ctx context.Context, p music.Player) error) error {
	if err := player.Unmute(ctx); err != nil {
		return err
	}
	return action(ctx, player)
}

func runVolume(cmd *cobra.Command, args []string) error {
	level, err := parseVolumeArgs(args)
	if err != nil {
		return err
	}

	run := bridgeCommand(fmt.Sprintf("Volume set to %d", level), func(ctx context.Context, p music.Player) error {
		return p.SetVolume(ctx, level)
	})
	return run(cmd, args)
}

// parseVolumeArgs validates the single 0-100 volume argument
func parseVolumeArgs(args []string) (int, error) {
	if len(args) != 1 {
		return 0, apperr.InvalidArgument("volume takes exactly one level between 0 and 100")
	}

	level, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, apperr.InvalidArgument("invalid volume level: %s (must be a number 0-100)", args[0])
	}
	if level < music.MinVolume || level > music.MaxVolume {
		return 0, apperr.InvalidArgument("volume level must be between 0 and 100, got %d", level)
	}
	return level, nil
}
