package setup

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/jfmyers9/spotctl/internal/apperr"
	"github.com/jfmyers9/spotctl/internal/config"
)

type fakePrompter struct {
	confirm   bool
	answers   []string
	questions []string
	defaults  []string
	err       error
}

func (f *fakePrompter) Confirm(ctx context.Context, question string, defaultYes bool) (bool, error) {
	f.questions = append(f.questions, question)
	return f.confirm, f.err
}

func (f *fakePrompter) Input(ctx context.Context, question, defaultValue string) (string, error) {
	f.questions = append(f.questions, question)
	f.defaults = append(f.defaults, defaultValue)
	if f.err != nil {
		return "", f.err
	}
	answer := f.answers[0]
	f.answers = f.answers[1:]
	return answer, nil
}

type fakeOpener struct {
	urls []string
	err  error
}

func (f *fakeOpener) Open(ctx context.Context, url string) error {
	f.urls = append(f.urls, url)
	return f.err
}

func newStore(t *testing.T) *config.Store {
	t.Helper()
	t.Setenv(config.KeyClientID, "")
	t.Setenv(config.KeyClientSecret, "")
	return config.NewStore(filepath.Join(t.TempDir(), config.FileName))
}

func TestRun_SavesCredentials(t *testing.T) {
	store := newStore(t)
	prompter := &fakePrompter{confirm: true, answers: []string{"my-id", "my-secret"}}
	opener := &fakeOpener{}

	creds, err := Run(context.Background(), store, prompter, opener, zerolog.Nop())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if creds.ClientID != "my-id" || creds.ClientSecret != "my-secret" {
		t.Errorf("Run() = %+v", creds)
	}
	if len(opener.urls) != 1 || opener.urls[0] != DashboardURL {
		t.Errorf("opened %v, want %s", opener.urls, DashboardURL)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded == nil || *loaded != *creds {
		t.Errorf("Load() = %+v, want %+v", loaded, creds)
	}
}

func TestRun_DeclineWebsite(t *testing.T) {
	store := newStore(t)
	prompter := &fakePrompter{confirm: false, answers: []string{"id", "secret"}}
	opener := &fakeOpener{}

	if _, err := Run(context.Background(), store, prompter, opener, zerolog.Nop()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if len(opener.urls) != 0 {
		t.Errorf("opened %v, want nothing", opener.urls)
	}
}

func TestRun_OpenFailureIsNotFatal(t *testing.T) {
	store := newStore(t)
	prompter := &fakePrompter{confirm: true, answers: []string{"id", "secret"}}
	opener := &fakeOpener{err: errors.New("xdg-open not found")}

	if _, err := Run(context.Background(), store, prompter, opener, zerolog.Nop()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
}

func TestRun_OffersPreviousValues(t *testing.T) {
	store := newStore(t)
	if err := store.Save(config.Credentials{ClientID: "old-id", ClientSecret: "old-secret"}); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	prompter := &fakePrompter{answers: []string{"new-id", "old-secret"}}

	if _, err := Run(context.Background(), store, prompter, &fakeOpener{}, zerolog.Nop()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if len(prompter.defaults) != 2 || prompter.defaults[0] != "old-id" || prompter.defaults[1] != "old-secret" {
		t.Errorf("defaults = %v, want previous values", prompter.defaults)
	}
}

func TestRun_RejectsEmptyAnswers(t *testing.T) {
	tests := []struct {
		name    string
		answers []string
	}{
		{"empty id", []string{"", "secret"}},
		{"empty secret", []string{"id", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t)
			prompter := &fakePrompter{answers: tt.answers}

			_, err := Run(context.Background(), store, prompter, &fakeOpener{}, zerolog.Nop())
			if !errors.Is(err, apperr.ErrInvalidArgument) {
				t.Errorf("Run() error = %v, want InvalidArgument", err)
			}
			if creds, _ := store.Load(); creds != nil {
				t.Errorf("credentials were saved: %+v", creds)
			}
		})
	}
}

func TestRun_PromptError(t *testing.T) {
	store := newStore(t)
	prompter := &fakePrompter{err: errors.New("interrupt")}

	if _, err := Run(context.Background(), store, prompter, &fakeOpener{}, zerolog.Nop()); err == nil {
		t.Error("Run() expected error, got nil")
	}
}
