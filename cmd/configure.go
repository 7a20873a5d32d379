package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jfmyers9/spotctl/internal/setup"
)

// configureCmd represents the configure command
var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Set your Spotify API keys",
	Long: `Store the Spotify client ID and client secret used for catalog search.

Create an app on the Spotify developer dashboard to get them. Current
values are offered as defaults, so pressing enter keeps them.`,
	Annotations: map[string]string{annotationNoCredentials: "true"},
	RunE:        runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	a := fromContext(cmd)

	_, err := setup.Run(cmd.Context(), a.store, a.prompter, a.opener, a.logger)
	return err
}
