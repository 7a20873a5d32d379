package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jfmyers9/spotctl/internal/apperr"
	"github.com/jfmyers9/spotctl/internal/catalog"
	"github.com/jfmyers9/spotctl/internal/config"
	"github.com/jfmyers9/spotctl/internal/music"
	"github.com/jfmyers9/spotctl/internal/resolve"
	"github.com/jfmyers9/spotctl/internal/setup"
	"github.com/jfmyers9/spotctl/internal/ui"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// Global flags. Each one overrides the matching config file setting when set.
var (
	flagLogLevel     string
	flagTimeout      time.Duration
	flagPlayer       string
	flagMPRISService string
)

// annotationNoCredentials marks commands that run without Spotify keys
const annotationNoCredentials = "spotctl/no-credentials"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spotctl",
	Short: "Control Spotify from the command line",
	Long: `spotctl searches the Spotify catalog and controls the Spotify app
running on this machine.

Search runs against the Spotify Web API with your own client credentials,
created at https://developer.spotify.com/dashboard/applications. Playback
is driven through AppleScript on macOS and MPRIS over D-Bus on Linux.

Credentials and settings live in ~/.spotify-cli-config.json. Environment
variables of the same name take precedence.`,
	Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	os.Exit(apperr.ExitCode(err))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "Timeout for Spotify and player calls (default 10s)")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Player backend (auto, applescript, mpris)")
	rootCmd.PersistentFlags().StringVar(&flagMPRISService, "mpris-service", "", "MPRIS bus name of the player")
}

// prompter asks the user to pick results and answer setup questions
type prompter interface {
	resolve.Chooser
	setup.Prompter
}

// deps builds the outside-facing pieces of an app. Tests swap them out.
type deps struct {
	configPath  func() string
	newPrompter func() prompter
	newOpener   func() setup.Opener
	newPlayer   func(opts music.Options) (music.Player, error)
	newCatalog  func(cfg catalog.Config) (*catalog.Client, error)
}

var defaultDeps = deps{
	configPath:  config.DefaultPath,
	newPrompter: func() prompter { return ui.NewPrompter() },
	newOpener:   func() setup.Opener { return ui.NewOpener() },
	newPlayer:   music.New,
	newCatalog:  catalog.New,
}

// app carries everything a command needs for one invocation
type app struct {
	settings config.Settings
	logger   zerolog.Logger
	store    *config.Store
	creds    *config.Credentials
	notifier *ui.Notifier
	prompter prompter
	opener   setup.Opener

	newPlayer  func() (music.Player, error)
	newCatalog func(creds config.Credentials) (*catalog.Client, error)
}

type appKey struct{}

func fromContext(cmd *cobra.Command) *app {
	val := cmd.Context().Value(appKey{})
	if val == nil {
		return nil
	}
	return val.(*app)
}

// prepare loads settings, builds the app and makes sure credentials exist
// before any command that talks to Spotify runs
func prepare(cmd *cobra.Command, args []string) error {
	return prepareWith(cmd, defaultDeps)
}

func prepareWith(cmd *cobra.Command, d deps) error {
	store := config.NewStore(d.configPath())

	settings, err := store.Settings()
	if err != nil {
		return err
	}
	settings = applyFlags(cmd, settings)

	logger := setupLogger(settings.LogLevel)
	logger.Debug().
		Str("config", store.Path()).
		Str("player", settings.Player).
		Dur("timeout", settings.Timeout).
		Msg("Loaded settings")

	a := &app{
		settings: settings,
		logger:   logger,
		store:    store,
		notifier: ui.NewNotifier(),
		prompter: d.newPrompter(),
		opener:   d.newOpener(),
	}

	a.newPlayer = func() (music.Player, error) {
		return d.newPlayer(music.Options{
			Backend:      settings.Player,
			MPRISService: settings.MPRISService,
		})
	}
	a.newCatalog = func(creds config.Credentials) (*catalog.Client, error) {
		return d.newCatalog(catalog.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			HTTPClient:   &http.Client{Timeout: settings.Timeout},
			Logger:       logger,
		})
	}

	if needsCredentials(cmd) {
		creds, err := store.Load()
		if err != nil {
			return err
		}
		if creds == nil {
			logger.Debug().Msg("No credentials stored, starting setup")
			creds, err = setup.Run(cmd.Context(), store, a.prompter, a.opener, logger)
			if err != nil {
				return err
			}
		}
		a.creds = creds
	}

	cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
	return nil
}

// applyFlags overrides settings with the global flags the user set
func applyFlags(cmd *cobra.Command, settings config.Settings) config.Settings {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		settings.LogLevel = flagLogLevel
	}
	if flags.Changed("timeout") && flagTimeout > 0 {
		settings.Timeout = flagTimeout
	}
	if flags.Changed("player") {
		settings.Player = flagPlayer
	}
	if flags.Changed("mpris-service") {
		settings.MPRISService = flagMPRISService
	}
	if settings.Timeout <= 0 {
		settings.Timeout = config.DefaultTimeout
	}
	return settings
}

// needsCredentials reports whether cmd needs Spotify keys before it runs
func needsCredentials(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationNoCredentials] == "true" {
			return false
		}
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// withTimeout bounds a single network or player call
func (a *app) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.settings.Timeout)
}

// withPlayer opens the configured player for the duration of fn
func (a *app) withPlayer(fn func(player music.Player) error) error {
	player, err := a.newPlayer()
	if err != nil {
		return err
	}
	if closer, ok := player.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				a.logger.Debug().Err(err).Msg("Failed to close player")
			}
		}()
	}
	return fn(player)
}

// printError reports err once, with a hint for credential problems
func printError(err error) {
	pterm.Error.Println(err.Error())
	if errors.Is(err, apperr.ErrAuth) {
		pterm.Info.Println("Check your Spotify keys with 'spotctl configure'")
	}
}
