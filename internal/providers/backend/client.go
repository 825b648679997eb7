package backend

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

	"github.com/preston-bernstein/esports-dashboard/internal/domain/matches"
	"github.com/preston-bernstein/esports-dashboard/internal/domain/teams"
	"github.com/preston-bernstein/esports-dashboard/internal/providers"
)

// Config controls how the client reaches the dashboard backend.
type Config struct {
	BaseURL      string
	UpcomingPath string
	LivePath     string
	HTTPClient   *http.Client
	Logger       *slog.Logger
}

// Client fetches matches and teams from the backend API and maps them to domain models.
// It never retries or caches.
type Client struct {
	baseURL      string
	upcomingPath string
	livePath     string
	httpClient   httpDoer
	logger       *slog.Logger
}

var _ providers.DataSource = (*Client)(nil)

// NewClient constructs a backend client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:      normalizeBaseURL(cfg.BaseURL),
		upcomingPath: normalizePath(cfg.UpcomingPath, defaultUpcomingPath),
		livePath:     normalizePath(cfg.LivePath, defaultLivePath),
		httpClient:   resolveHTTPClient(cfg.HTTPClient),
		logger:       cfg.Logger,
	}
}

// FetchUpcoming retrieves upcoming matches for the given params.
func (c *Client) FetchUpcoming(ctx context.Context, params matches.FilterParams) ([]matches.Match, error) {
	return c.fetchMatches(ctx, c.upcomingPath, params.Query(), matches.StatusUpcoming)
}

// FetchLive retrieves running matches for the given params.
func (c *Client) FetchLive(ctx context.Context, params matches.FilterParams) ([]matches.Match, error) {
	return c.fetchMatches(ctx, c.livePath, params.Query(), matches.StatusLive)
}

var _ providers.PagedTeamSource = (*Client)(nil)

// SearchTeams queries the first page of the team directory by name.
func (c *Client) SearchTeams(ctx context.Context, game, query string) ([]teams.Team, error) {
	return c.SearchTeamsPage(ctx, game, query, providers.DefaultPage())
}

// SearchTeamsPage queries one page of the team directory by name.
func (c *Client) SearchTeamsPage(ctx context.Context, game, query string, page providers.Page) ([]teams.Team, error) {
	page = providers.NewPage(page.Limit, page.Number)
	q := url.Values{}
	q.Set("game", game)
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(page.Limit))
	q.Set("page", strconv.Itoa(page.Number))
	return c.fetchTeams(ctx, teamSearchPath, q)
}

// TeamsByIDs resolves specific team IDs.
func (c *Client) TeamsByIDs(ctx context.Context, game string, ids []teams.ID) ([]teams.Team, error) {
	if len(ids) == 0 {
		return []teams.Team{}, nil
	}
	q := url.Values{}
	if game != "" {
		q.Set("game", game)
	}
	q.Set("ids", matches.JoinIDs(ids))
	return c.fetchTeams(ctx, teamsPath, q)
}

func (c *Client) fetchMatches(ctx context.Context, path string, query url.Values, fallback matches.Status) ([]matches.Match, error) {
	var payload []matchResponse
	if err := c.getJSON(ctx, path, query, &payload); err != nil {
		return nil, err
	}
	out := make([]matches.Match, 0, len(payload))
	for _, m := range payload {
		out = append(out, mapMatch(m, fallback))
	}
	return out, nil
}

func (c *Client) fetchTeams(ctx context.Context, path string, query url.Values) ([]teams.Team, error) {
	var payload []sideResponse
	if err := c.getJSON(ctx, path, query, &payload); err != nil {
		return nil, err
	}
	out := make([]teams.Team, 0, len(payload))
	for _, t := range payload {
		if team := mapTeam(t); team.ID.Valid() {
			out = append(out, team)
		}
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dest any) error {
	req, err := c.buildRequest(ctx, path, query)
	if err != nil {
		return providers.NetworkError(path, 0, "build request", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return providers.NetworkError(path, 0, "transport", err)
	}
	defer resp.Body.Close()

	providers.LogWithSource(ctx, c.logger, slog.LevelDebug, sourceName, "backend response",
		slog.String("path", path),
		slog.Int("status_code", resp.StatusCode),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return providers.NetworkError(path, resp.StatusCode,
			fmt.Sprintf("unexpected status: %s", strings.TrimSpace(string(body))), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return providers.ParseError(path, err)
	}
	return nil
}

func (c *Client) buildRequest(ctx context.Context, path string, query url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = query.Encode()
	req.Header.Set("Accept", "application/json")
	return req, nil
}
