// Package spotify adapts the Spotify Web API to the catalog.Client
// interface.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/sydlexius/retune/internal/catalog"
	"github.com/sydlexius/retune/internal/version"
)

const (
	defaultBaseURL = "https://api.spotify.com/v1"
	tokenURL       = "https://accounts.spotify.com/api/token" //nolint:gosec // G101: public endpoint, not a credential

	searchLimit = 20
	// Discography pagination cap. 50 releases per page covers even prolific
	// artists in four pages.
	discographyPageSize = 50
	maxDiscographyPages = 4
)

// Config holds the client-credentials pair for the Spotify Web API.
type Config struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// Client implements catalog.Client against the Spotify Web API.
type Client struct {
	http    *http.Client
	logger  *slog.Logger
	baseURL string
}

// New creates a Spotify client using the OAuth2 client-credentials flow.
// Missing credentials are a fatal configuration error: nothing can be
// resolved without catalog access.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, &catalog.ErrAuthRequired{Reason: "spotify client id/secret not configured"}
	}
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
	}
	httpClient := cc.Client(context.Background())
	httpClient.Timeout = 15 * time.Second
	return NewWithBaseURL(httpClient, logger, defaultBaseURL), nil
}

// NewWithBaseURL creates a Client with a custom HTTP client and base URL
// (for testing).
func NewWithBaseURL(httpClient *http.Client, logger *slog.Logger, baseURL string) *Client {
	return &Client{
		http:    httpClient,
		logger:  logger.With(slog.String("component", "spotify")),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SearchArtists searches Spotify for artists matching the given name.
func (c *Client) SearchArtists(ctx context.Context, name string) ([]catalog.Artist, error) {
	params := url.Values{
		"q":     {name},
		"type":  {"artist"},
		"limit": {strconv.Itoa(searchLimit)},
	}
	body, err := c.doRequest(ctx, "search-artists", c.baseURL+"/search?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing artist search response: %w", err)
	}
	if resp.Artists == nil {
		return nil, nil
	}

	artists := make([]catalog.Artist, 0, len(resp.Artists.Items))
	for _, a := range resp.Artists.Items {
		artists = append(artists, catalog.Artist{
			ID:         a.ID,
			Name:       a.Name,
			Popularity: a.Popularity,
		})
	}
	return artists, nil
}

// SearchAlbums searches Spotify for albums matching the query shape.
// Fielded queries use Spotify's artist:/album:/year: qualifiers; a
// free-text query sends the text as-is.
func (c *Client) SearchAlbums(ctx context.Context, q catalog.AlbumQuery) ([]catalog.Album, error) {
	params := url.Values{
		"q":     {buildAlbumQuery(q)},
		"type":  {"album"},
		"limit": {strconv.Itoa(searchLimit)},
	}
	body, err := c.doRequest(ctx, "search-albums", c.baseURL+"/search?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing album search response: %w", err)
	}
	if resp.Albums == nil {
		return nil, nil
	}
	return mapAlbums(resp.Albums.Items), nil
}

// ArtistDiscography fetches every release credited to the artist, following
// pagination up to maxDiscographyPages.
func (c *Client) ArtistDiscography(ctx context.Context, artistID string) ([]catalog.Album, error) {
	params := url.Values{
		"include_groups": {"album,single,compilation"},
		"limit":          {strconv.Itoa(discographyPageSize)},
	}
	reqURL := c.baseURL + "/artists/" + url.PathEscape(artistID) + "/albums?" + params.Encode()

	var albums []catalog.Album
	for page := 0; page < maxDiscographyPages && reqURL != ""; page++ {
		body, err := c.doRequest(ctx, "discography", reqURL)
		if err != nil {
			return nil, err
		}

		var resp albumPage
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("parsing discography response: %w", err)
		}
		albums = append(albums, mapAlbums(resp.Items)...)
		reqURL = resp.Next
	}
	return albums, nil
}

// buildAlbumQuery renders an AlbumQuery to Spotify search syntax.
func buildAlbumQuery(q catalog.AlbumQuery) string {
	if q.Text != "" {
		return q.Text
	}
	var parts []string
	if q.Artist != "" {
		parts = append(parts, fmt.Sprintf("artist:%q", q.Artist))
	}
	if q.Album != "" {
		parts = append(parts, fmt.Sprintf("album:%q", q.Album))
	}
	if q.Year > 0 {
		parts = append(parts, fmt.Sprintf("year:%d", q.Year))
	}
	return strings.Join(parts, " ")
}

// doRequest executes an HTTP GET and maps status codes onto the catalog
// error taxonomy.
func (c *Client) doRequest(ctx context.Context, op, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("requesting", slog.String("url", reqURL))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &catalog.ErrUnavailable{Op: op, Cause: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &catalog.ErrAuthRequired{Reason: fmt.Sprintf("HTTP %d from catalog", resp.StatusCode)}

	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &catalog.ErrNotFound{Op: op, ID: reqURL}

	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &catalog.ErrUnavailable{
			Op:         op,
			Cause:      fmt.Errorf("HTTP %d", resp.StatusCode),
			RetryAfter: retryAfter,
		}

	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &catalog.ErrUnavailable{
			Op:    op,
			Cause: fmt.Errorf("unexpected HTTP %d", resp.StatusCode),
		}
	}

	return io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// mapAlbums converts Spotify album objects to catalog albums.
func mapAlbums(items []albumObject) []catalog.Album {
	albums := make([]catalog.Album, 0, len(items))
	for _, al := range items {
		album := catalog.Album{
			ID:          al.ID,
			Name:        al.Name,
			Type:        mapReleaseType(al.AlbumType),
			ReleaseYear: parseReleaseYear(al.ReleaseDate),
		}
		for _, ar := range al.Artists {
			album.Artists = append(album.Artists, catalog.Artist{ID: ar.ID, Name: ar.Name})
		}
		albums = append(albums, album)
	}
	return albums
}

// mapReleaseType normalizes Spotify album_type strings.
func mapReleaseType(t string) catalog.ReleaseType {
	switch strings.ToLower(t) {
	case "album":
		return catalog.ReleaseAlbum
	case "single":
		return catalog.ReleaseSingle
	case "compilation":
		return catalog.ReleaseCompilation
	default:
		return catalog.ReleaseOther
	}
}

// parseReleaseYear extracts the year from a release_date, which Spotify
// reports as "2007", "2007-03" or "2007-03-05" depending on precision.
func parseReleaseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
