package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jfmyers9/spotctl/internal/music"
	"github.com/jfmyers9/spotctl/internal/status"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what Spotify is playing",
	Long: `Show the playback state, the current track and a progress bar.

Reads the local Spotify app only; nothing is sent to the Web API.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a := fromContext(cmd)

	ctx, cancel := a.withTimeout(cmd.Context())
	defer cancel()

	return a.withPlayer(func(player music.Player) error {
		pb, err := player.PlaybackState(ctx)
		if err != nil {
			return err
		}

		var track *music.Track
		if pb.State != music.StateStopped {
			if track, err = player.TrackInfo(ctx); err != nil {
				return err
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), status.Render(track, pb))
		return nil
	})
}
