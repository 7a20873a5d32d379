// Package catalog searches the Spotify Web API for tracks, artists and
// playlists using an app-only client-credentials token.
//
// Example usage:
//
//	client, err := catalog.New(catalog.Config{
//	    ClientID:     "your-client-id",
//	    ClientSecret: "your-client-secret",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if _, err := client.Authenticate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	items, err := client.Search(ctx, catalog.KindTrack, "bohemian rhapsody")
package catalog

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/jfmyers9/spotctl/internal/apperr"
)

// ErrNotAuthenticated is wrapped when Search is called before Authenticate.
var ErrNotAuthenticated = errors.New("catalog: client not authenticated")

// Config holds client configuration.
type Config struct {
	ClientID     string         // Required: Spotify client ID
	ClientSecret string         // Required: Spotify client secret
	TokenURL     string         // Optional: token endpoint (defaults to Spotify accounts, used for testing)
	BaseURL      string         // Optional: Web API base URL with trailing slash (used for testing)
	HTTPClient   *http.Client   // Optional: HTTP client (defaults to http.DefaultClient)
	Logger       zerolog.Logger // Optional: debug logging
}

// Client is a thin authenticated wrapper over the Spotify search endpoint.
type Client struct {
	credentials clientcredentials.Config
	baseURL     string
	httpClient  *http.Client
	logger      zerolog.Logger

	api *spotify.Client
}

// New creates a catalog client. No network call is made until Authenticate.
//
// Returns an AuthError if either credential is empty.
func New(cfg Config) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, apperr.Auth("create catalog client", errors.New("client ID is required"))
	}
	if cfg.ClientSecret == "" {
		return nil, apperr.Auth("create catalog client", errors.New("client secret is required"))
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyauth.TokenURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		credentials: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		logger:     cfg.Logger.With().Str("component", "catalog").Logger(),
	}, nil
}

// Authenticate performs the client-credentials exchange and keeps the
// token for subsequent searches.
//
// Any failure, whether rejected credentials or a transport error, is an
// AuthError. Nothing is retried.
func (c *Client) Authenticate(ctx context.Context) (AccessToken, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	c.logger.Debug().Str("token_url", c.credentials.TokenURL).Msg("Requesting access token")

	token, err := c.credentials.Token(ctx)
	if err != nil {
		return "", apperr.Auth("token exchange", err)
	}

	var opts []spotify.ClientOption
	if c.baseURL != "" {
		opts = append(opts, spotify.WithBaseURL(c.baseURL))
	}
	c.api = spotify.New(oauth2.NewClient(ctx, oauth2.StaticTokenSource(token)), opts...)

	c.logger.Debug().Time("expiry", token.Expiry).Msg("Access token acquired")
	return AccessToken(token.AccessToken), nil
}

// Search runs a single search and returns matches in service order.
//
// Zero matches is an empty slice, not an error. A 401 from the API is an
// AuthError; every other failure is a NetworkError.
func (c *Client) Search(ctx context.Context, kind Kind, text string) ([]Item, error) {
	if c.api == nil {
		return nil, apperr.Auth("search", ErrNotAuthenticated)
	}

	searchType, err := searchTypeFor(kind)
	if err != nil {
		return nil, err
	}

	res, err := c.api.Search(ctx, text, searchType)
	if err != nil {
		return nil, classifyError(err)
	}

	items := convertResult(kind, res)

	c.logger.Debug().
		Str("kind", kind.String()).
		Str("query", text).
		Int("results", len(items)).
		Msg("Search complete")

	return items, nil
}

func searchTypeFor(kind Kind) (spotify.SearchType, error) {
	switch kind {
	case KindTrack:
		return spotify.SearchTypeTrack, nil
	case KindArtist:
		return spotify.SearchTypeArtist, nil
	case KindPlaylist:
		return spotify.SearchTypePlaylist, nil
	default:
		return 0, apperr.InvalidArgument("unsupported search kind %d", int(kind))
	}
}

// classifyError maps client errors onto the error taxonomy
func classifyError(err error) error {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		return apperr.Auth("search", err)
	}
	return apperr.Network("search", err)
}

// convertResult flattens the page matching kind into Items
func convertResult(kind Kind, res *spotify.SearchResult) []Item {
	items := []Item{}
	if res == nil {
		return items
	}

	switch kind {
	case KindTrack:
		if res.Tracks == nil {
			return items
		}
		for _, t := range res.Tracks.Tracks {
			artists := make([]Artist, 0, len(t.Artists))
			for _, a := range t.Artists {
				artists = append(artists, Artist{Name: a.Name})
			}
			items = append(items, Item{
				Name:       t.Name,
				URI:        string(t.URI),
				Artists:    artists,
				Album:      t.Album.Name,
				DurationMs: int(t.Duration),
			})
		}
	case KindArtist:
		if res.Artists == nil {
			return items
		}
		for _, a := range res.Artists.Artists {
			items = append(items, Item{Name: a.Name, URI: string(a.URI)})
		}
	case KindPlaylist:
		if res.Playlists == nil {
			return items
		}
		for _, p := range res.Playlists.Playlists {
			// The API returns null entries for playlists it can no longer serve
			if p.URI == "" {
				continue
			}
			items = append(items, Item{Name: p.Name, URI: string(p.URI)})
		}
	}

	return items
}
