// Package setup walks the user through storing Spotify API credentials.
package setup

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/jfmyers9/spotctl/internal/apperr"
	"github.com/jfmyers9/spotctl/internal/config"
)

// DashboardURL is where users create a Spotify app to get credentials
const DashboardURL = "https://developer.spotify.com/dashboard/applications"

// Store is the part of config.Store the setup flow needs
type Store interface {
	Previous() config.Credentials
	Save(creds config.Credentials) error
}

// Prompter asks the user questions
type Prompter interface {
	Confirm(ctx context.Context, question string, defaultYes bool) (bool, error)
	Input(ctx context.Context, question, defaultValue string) (string, error)
}

// Opener opens a URL in the browser
type Opener interface {
	Open(ctx context.Context, url string) error
}

// Run asks for a client ID and secret, offering to open the developer
// dashboard first, and saves them. Previously stored values are offered as
// defaults. Empty answers are rejected.
func Run(ctx context.Context, store Store, prompter Prompter, opener Opener, logger zerolog.Logger) (*config.Credentials, error) {
	log := logger.With().Str("component", "setup").Logger()

	pterm.DefaultSection.Println("It's time to set your Spotify keys!")

	visit, err := prompter.Confirm(ctx, "Do you want to go to the Spotify developer website to get an API key?", true)
	if err != nil {
		return nil, err
	}
	if visit {
		if err := opener.Open(ctx, DashboardURL); err != nil {
			// Not fatal, the user can still paste keys they already have
			log.Warn().Err(err).Msg("Failed to open browser")
			pterm.Warning.Printfln("Could not open a browser, visit %s", DashboardURL)
		}
	}

	previous := store.Previous()

	clientID, err := prompter.Input(ctx, "What is your Spotify client ID?", previous.ClientID)
	if err != nil {
		return nil, err
	}
	if clientID == "" {
		return nil, apperr.InvalidArgument("client ID must not be empty")
	}

	clientSecret, err := prompter.Input(ctx, "What is your Spotify client secret?", previous.ClientSecret)
	if err != nil {
		return nil, err
	}
	if clientSecret == "" {
		return nil, apperr.InvalidArgument("client secret must not be empty")
	}

	creds := config.Credentials{ClientID: clientID, ClientSecret: clientSecret}
	if err := store.Save(creds); err != nil {
		return nil, fmt.Errorf("failed to save credentials: %w", err)
	}

	log.Debug().Msg("Credentials saved")
	pterm.Success.Println("Spotify keys saved")
	return &creds, nil
}
