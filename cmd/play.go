package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jfmyers9/spotctl/internal/apperr"
	"github.com/jfmyers9/spotctl/internal/catalog"
	"github.com/jfmyers9/spotctl/internal/music"
	"github.com/jfmyers9/spotctl/internal/resolve"
)

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play [track|artist|playlist] [search text...]",
	Short: "Search Spotify and play the best match",
	Long: `Search the Spotify catalog and play the result in the Spotify app.

The first word may name what to search for: track, artist or playlist
(singular or plural). Without it, the whole text is a track search.
When several results match, you are asked to pick one of the top five.
Without any text, playback of the current track resumes.

Examples:
  spotctl play
  spotctl play bohemian rhapsody
  spotctl play artist radiohead
  spotctl play playlists deep focus`,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	a := fromContext(cmd)

	q, err := parsePlayArgs(args)
	if err != nil {
		return err
	}

	engine := &resolve.Engine{
		Chooser:  a.prompter,
		Notifier: a.notifier,
		Logger:   a.logger.With().Str("component", "resolve").Logger(),
	}

	if q.Text != "" {
		client, err := a.newCatalog(*a.creds)
		if err != nil {
			return err
		}

		ctx, cancel := a.withTimeout(cmd.Context())
		defer cancel()
		if _, err := client.Authenticate(ctx); err != nil {
			return err
		}
		engine.Catalog = client
	}

	return a.withPlayer(func(player music.Player) error {
		engine.Player = player

		outcome, err := engine.Play(cmd.Context(), q)
		if err != nil {
			return err
		}
		a.logger.Debug().Str("state", outcome.State.String()).Str("uri", outcome.Item.URI).Msg("Play finished")
		return nil
	})
}

// parsePlayArgs splits the play arguments into a query. A leading kind word
// selects the search kind and must be followed by search text.
func parsePlayArgs(args []string) (resolve.Query, error) {
	if len(args) == 0 {
		return resolve.Query{Kind: catalog.KindTrack}, nil
	}

	if kind, err := catalog.ParseKind(args[0]); err == nil {
		text := strings.TrimSpace(strings.Join(args[1:], " "))
		if text == "" {
			return resolve.Query{}, apperr.InvalidArgument("play %s needs something to search for", kind)
		}
		return resolve.Query{Kind: kind, Text: text}, nil
	}

	return resolve.Query{
		Kind: catalog.KindTrack,
		Text: strings.TrimSpace(strings.Join(args, " ")),
	}, nil
}
