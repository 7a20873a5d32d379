package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// projectURL is the home page offered by the about command
const projectURL = "https://github.com/jfmyers9/spotctl"

// aboutCmd represents the about command
var aboutCmd = &cobra.Command{
	Use:         "about",
	Short:       "Show version information and the project page",
	Annotations: map[string]string{annotationNoCredentials: "true"},
	RunE:        runAbout,
}

func init() {
	rootCmd.AddCommand(aboutCmd)
}

func runAbout(cmd *cobra.Command, args []string) error {
	a := fromContext(cmd)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "spotctl %s\n", rootCmd.Version)
	fmt.Fprintf(out, "Control Spotify from the command line.\n%s\n", projectURL)

	visit, err := a.prompter.Confirm(cmd.Context(), "Open the project page on GitHub?", false)
	if err != nil {
		return err
	}
	if !visit {
		return nil
	}

	ctx, cancel := a.withTimeout(cmd.Context())
	defer cancel()
	return a.opener.Open(ctx, projectURL)
}
