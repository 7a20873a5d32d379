package cmd

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/jfmyers9/spotctl/internal/apperr"
	"github.com/jfmyers9/spotctl/internal/catalog"
	"github.com/jfmyers9/spotctl/internal/config"
	"github.com/jfmyers9/spotctl/internal/music"
	"github.com/jfmyers9/spotctl/internal/resolve"
	"github.com/jfmyers9/spotctl/internal/setup"
)

// eventLog records the order things happen in across the fakes and the
// test server
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(event string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *eventLog) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.events, ",")
}

// fakePrompter declines the website, then answers the setup inputs in order
type fakePrompter struct {
	log     *eventLog
	answers []string
}

func (f *fakePrompter) Choose(ctx context.Context, prompt string, choices []resolve.Choice) (resolve.Choice, error) {
	f.log.add("choose")
	return choices[0], nil
}

func (f *fakePrompter) Confirm(ctx context.Context, question string, defaultYes bool) (bool, error) {
	f.log.add("confirm")
	return false, nil
}

func (f *fakePrompter) Input(ctx context.Context, question, defaultValue string) (string, error) {
	f.log.add("input")
	answer := f.answers[0]
	f.answers = f.answers[1:]
	return answer, nil
}

type fakeOpener struct{}

func (fakeOpener) Open(ctx context.Context, url string) error { return nil }

// newCatalogServer serves the token endpoint and an empty artist search,
// logging each request
func newCatalogServer(t *testing.T, log *eventLog) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		log.add("token")
		id, secret, ok := r.BasicAuth()
		w.Header().Set("Content-Type", "application/json")
		if !ok || id != "test-id" || secret != "test-secret" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": "invalid_client"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token": "test-token", "token_type": "Bearer", "expires_in": 3600}`))
	})
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		log.add("search")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"artists": {"items": [], "total": 0}}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// useTestDeps points prepare at a temp config file, the given fakes and
// server, and restores the real wiring afterwards
func useTestDeps(t *testing.T, log *eventLog, p prompter, player *fakePlayer, server *httptest.Server) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), config.FileName)
	previous := defaultDeps
	defaultDeps = deps{
		configPath:  func() string { return path },
		newPrompter: func() prompter { return p },
		newOpener:   func() setup.Opener { return fakeOpener{} },
		newPlayer: func(opts music.Options) (music.Player, error) {
			log.add("player")
			return player, nil
		},
		newCatalog: func(cfg catalog.Config) (*catalog.Client, error) {
			log.add("catalog")
			if server != nil {
				cfg.TokenURL = server.URL + "/api/token"
				cfg.BaseURL = server.URL + "/v1/"
			}
			return catalog.New(cfg)
		},
	}
	t.Cleanup(func() {
		defaultDeps = previous
		rootCmd.SetArgs(nil)
	})
	return path
}

func TestPrepare_SetupRunsBeforeCatalog(t *testing.T) {
	// Empty values leave the stored file as the only source
	t.Setenv(config.KeyClientID, "")
	t.Setenv(config.KeyClientSecret, "")

	log := &eventLog{}
	server := newCatalogServer(t, log)
	prompter := &fakePrompter{log: log, answers: []string{"test-id", "test-secret"}}
	player := &fakePlayer{}
	path := useTestDeps(t, log, prompter, player, server)

	rootCmd.SetArgs([]string{"play", "artist", "radiohead"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("play failed: %v", err)
	}

	want := "confirm,input,input,catalog,token,player,search"
	if got := log.String(); got != want {
		t.Errorf("events = %s, want %s", got, want)
	}

	creds, err := config.NewStore(path).Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if creds == nil || creds.ClientID != "test-id" || creds.ClientSecret != "test-secret" {
		t.Errorf("stored credentials = %+v, want the keys entered during setup", creds)
	}
}

func TestPrepare_StoredCredentialsSkipSetup(t *testing.T) {
	t.Setenv(config.KeyClientID, "test-id")
	t.Setenv(config.KeyClientSecret, "test-secret")

	log := &eventLog{}
	server := newCatalogServer(t, log)
	prompter := &fakePrompter{log: log}
	useTestDeps(t, log, prompter, &fakePlayer{}, server)

	rootCmd.SetArgs([]string{"play", "artist", "radiohead"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("play failed: %v", err)
	}

	if got := log.String(); strings.Contains(got, "confirm") || strings.Contains(got, "input") {
		t.Errorf("events = %s, want no setup prompts", got)
	}
}

func TestPrepare_RejectedKeysDoNotRestartSetup(t *testing.T) {
	t.Setenv(config.KeyClientID, "test-id")
	t.Setenv(config.KeyClientSecret, "wrong-secret")

	log := &eventLog{}
	server := newCatalogServer(t, log)
	player := &fakePlayer{}
	useTestDeps(t, log, &fakePrompter{log: log}, player, server)

	rootCmd.SetArgs([]string{"play", "artist", "radiohead"})
	err := rootCmd.Execute()
	if !errors.Is(err, apperr.ErrAuth) {
		t.Fatalf("play error = %v, want AuthError", err)
	}
	if got := log.String(); got != "catalog,token" {
		t.Errorf("events = %s, want catalog,token with no setup prompts", got)
	}
	if len(player.calls) != 0 {
		t.Errorf("player calls = %v, want none", player.calls)
	}
}

func TestVolume_NegativeLevel(t *testing.T) {
	t.Setenv(config.KeyClientID, "test-id")
	t.Setenv(config.KeyClientSecret, "test-secret")

	tests := []struct {
		name string
		args []string
	}{
		{"bare", []string{"volume", "-5"}},
		{"after separator", []string{"volume", "--", "-5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &eventLog{}
			player := &fakePlayer{}
			useTestDeps(t, log, &fakePrompter{log: log}, player, nil)

			rootCmd.SetArgs(tt.args)
			err := rootCmd.Execute()
			if !errors.Is(err, apperr.ErrInvalidArgument) {
				t.Fatalf("%v error = %v, want InvalidArgument", tt.args, err)
			}
			if !strings.Contains(err.Error(), "got -5") {
				t.Errorf("%v error = %q, want the range message", tt.args, err)
			}
			if len(player.calls) != 0 {
				t.Errorf("player calls = %v, want none", player.calls)
			}
		})
	}
}

func TestVolumeFlagError_OtherFlags(t *testing.T) {
	err := volumeFlagError(volumeCmd, errors.New("unknown flag: --loud"))
	if !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("volumeFlagError() = %v, want InvalidArgument", err)
	}
	if !strings.Contains(err.Error(), "--loud") {
		t.Errorf("volumeFlagError() = %q, want the flag named", err)
	}
}
