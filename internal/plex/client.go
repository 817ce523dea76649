package plex

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"clipplex/internal/logging"
)

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client queries the Plex session directory. Each call is a fresh round
// trip; no caching and no retries. Retry policy belongs to the caller.
type Client struct {
	baseURL string
	token   string
	client  HTTPDoer
	logger  *slog.Logger
}

// NewClient constructs a directory client with a bounded request timeout.
func NewClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return NewClientWithDoer(baseURL, token, &http.Client{Timeout: timeout}, logger)
}

// NewClientWithDoer constructs a directory client using the provided HTTP
// backend. Used by tests to substitute a fake transport.
func NewClientWithDoer(baseURL, token string, doer HTTPDoer, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  doer,
		logger:  logging.NewComponentLogger(logger, "plex-client"),
	}
}

// ActiveSessions fetches all in-progress video sessions. A single malformed
// session node is skipped with a warning rather than failing the batch.
func (c *Client) ActiveSessions(ctx context.Context) ([]Session, error) {
	container, err := c.fetchContainer(ctx, "/status/sessions")
	if err != nil {
		return nil, err
	}

	sessions := make([]Session, 0, len(container.Videos))
	for _, node := range container.Videos {
		session, err := normalizeSession(node)
		if err != nil {
			c.logger.Warn("skipping malformed session node",
				logging.String("session_key", node.SessionKey),
				logging.Error(err))
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// SessionForViewer resolves the session belonging to the named viewer.
// Matching is a case-insensitive exact comparison; the first match wins.
// Returns ErrNoSession when the viewer is not streaming.
func (c *Client) SessionForViewer(ctx context.Context, viewer string) (Session, error) {
	sessions, err := c.ActiveSessions(ctx)
	if err != nil {
		return Session{}, err
	}
	for _, session := range sessions {
		if strings.EqualFold(session.Viewer, viewer) {
			return session, nil
		}
	}
	return Session{}, fmt.Errorf("%w: %s", ErrNoSession, viewer)
}

// MediaDetails fetches the detail record for a single media item by its
// library key. The response uses the same document format as the session
// listing.
func (c *Client) MediaDetails(ctx context.Context, mediaKey string) (MediaItem, error) {
	if !strings.HasPrefix(mediaKey, "/") {
		mediaKey = "/" + mediaKey
	}
	container, err := c.fetchContainer(ctx, mediaKey)
	if err != nil {
		return MediaItem{}, err
	}
	if len(container.Videos) == 0 {
		return MediaItem{}, fmt.Errorf("plex: no media item at key %s", mediaKey)
	}
	return normalizeMediaItem(container.Videos[0]), nil
}

func (c *Client) fetchContainer(ctx context.Context, path string) (*mediaContainer, error) {
	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	query := url.Values{"X-Plex-Token": {c.token}}
	req.URL.RawQuery = query.Encode()
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &UnreachableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var container mediaContainer
	if err := xml.NewDecoder(resp.Body).Decode(&container); err != nil {
		return nil, fmt.Errorf("decode session document: %w", err)
	}
	return &container, nil
}
