package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/esports-dashboard/internal/domain/matches"
	"github.com/preston-bernstein/esports-dashboard/internal/domain/teams"
	"github.com/preston-bernstein/esports-dashboard/internal/providers"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func newTestClient(rt roundTripperFunc) *Client {
	return NewClient(Config{
		BaseURL:    "http://example.com/",
		HTTPClient: &http.Client{Transport: rt},
	})
}

func TestFetchUpcomingHitsAPIAndMapsFlatSchema(t *testing.T) {
	var captured *http.Request
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		captured = req
		return jsonResponse(http.StatusOK, `[
			{
				"id": 10,
				"tournamentName": "LCK Spring",
				"teamA": {"id": 1, "name": "T1", "acronym": "T1", "image_url": "https://img/t1.png"},
				"teamB": {"id": 42, "name": "Gen.G"},
				"startsAt": "2024-03-01T10:00:00Z",
				"status": "upcoming",
				"game": "lol",
				"region": "kr"
			}
		]`), nil
	})

	params := matches.FilterParams{Game: "lol", Region: "kr", Followed: teams.NewIDSet(42), OnlyFollowed: true}
	got, err := client.FetchUpcoming(context.Background(), params)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if captured.URL.Path != "/api/upcoming" {
		t.Fatalf("expected /api/upcoming path, got %s", captured.URL.Path)
	}
	q, _ := url.ParseQuery(captured.URL.RawQuery)
	if q.Get("game") != "lol" || q.Get("region") != "kr" || q.Get("ids") != "42" || q.Get("only_followed") != "true" {
		t.Fatalf("unexpected query %s", captured.URL.RawQuery)
	}
	if captured.Header.Get("Accept") != "application/json" {
		t.Fatalf("expected json accept header, got %s", captured.Header.Get("Accept"))
	}

	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	m := got[0]
	if m.ID != 10 || m.TournamentName != "LCK Spring" || m.Status != matches.StatusUpcoming {
		t.Fatalf("unexpected match %+v", m)
	}
	if m.TeamA.ID != 1 || m.TeamA.Acronym != "T1" || m.TeamB.ID != 42 || m.TeamB.ImageURL != "" {
		t.Fatalf("unexpected sides %+v / %+v", m.TeamA, m.TeamB)
	}
	if !m.StartsAt.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start time %s", m.StartsAt)
	}
}

func TestFetchLiveUsesLivePathAndDefaultsStatus(t *testing.T) {
	var path string
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		path = req.URL.Path
		return jsonResponse(http.StatusOK, `[{"id": 3, "teamA": {"id": 1, "name": "A"}, "teamB": {"id": 2, "name": "B"}}]`), nil
	})

	got, err := client.FetchLive(context.Background(), matches.FilterParams{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if path != "/api/live" {
		t.Fatalf("expected /api/live, got %s", path)
	}
	if got[0].Status != matches.StatusLive {
		t.Fatalf("expected live status fallback, got %s", got[0].Status)
	}
}

func TestFetchUpcomingLegacyOpponentsSchema(t *testing.T) {
	client := NewClient(Config{
		BaseURL:      "http://example.com",
		UpcomingPath: "api/upcoming-matches",
		HTTPClient: &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.URL.Path != "/api/upcoming-matches" {
				t.Fatalf("expected legacy path, got %s", req.URL.Path)
			}
			return jsonResponse(http.StatusOK, `[
				{
					"id": 99,
					"name": "T1 vs GEN",
					"begin_at": "2024-03-01T12:30:00Z",
					"league": {"id": 1, "name": "LCK"},
					"opponents": [
						{"opponent": {"id": 1, "name": "T1", "acronym": "T1", "image_url": "https://img/t1.png"}},
						{"opponent": {"id": 42, "name": "Gen.G", "acronym": null}}
					]
				}
			]`), nil
		})},
	})

	got, err := client.FetchUpcoming(context.Background(), matches.FilterParams{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	m := got[0]
	if m.TournamentName != "LCK" || m.Name != "T1 vs GEN" {
		t.Fatalf("unexpected names %+v", m)
	}
	if m.TeamA.ID != 1 || m.TeamB.ID != 42 || m.TeamB.Acronym != "" {
		t.Fatalf("unexpected sides %+v / %+v", m.TeamA, m.TeamB)
	}
	if m.StartsAt.IsZero() {
		t.Fatal("expected begin_at to map to StartsAt")
	}
}

func TestFetchHandlesNon200AsNetworkFailure(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, "boom"), nil
	})

	_, err := client.FetchUpcoming(context.Background(), matches.FilterParams{})
	if !errors.Is(err, providers.ErrNetworkFailure) {
		t.Fatalf("expected network failure, got %v", err)
	}
	fe, ok := providers.AsFetchError(err)
	if !ok || fe.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status code on fetch error, got %+v", fe)
	}
}

func TestFetchHandlesTransportError(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	_, err := client.FetchLive(context.Background(), matches.FilterParams{})
	if !errors.Is(err, providers.ErrNetworkFailure) {
		t.Fatalf("expected network failure, got %v", err)
	}
}

func TestFetchHandlesDecodeErrors(t *testing.T) {
	for _, body := range []string{"{bad json", `{"data": []}`, ""} {
		client := newTestClient(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, body), nil
		})

		_, err := client.FetchUpcoming(context.Background(), matches.FilterParams{})
		if !errors.Is(err, providers.ErrParseFailure) {
			t.Fatalf("body %q: expected parse failure, got %v", body, err)
		}
	}
}

func TestFetchEmptyAndNullAreEmptyResults(t *testing.T) {
	for _, body := range []string{"[]", "null"} {
		client := newTestClient(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, body), nil
		})

		got, err := client.FetchUpcoming(context.Background(), matches.FilterParams{})
		if err != nil {
			t.Fatalf("body %q: expected no error, got %v", body, err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("body %q: expected non-nil empty slice, got %#v", body, got)
		}
	}
}

func TestSearchTeams(t *testing.T) {
	var captured *http.Request
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		captured = req
		return jsonResponse(http.StatusOK, `[{"id": 1, "name": "T1", "acronym": "T1"}, {"id": 0, "name": "ghost"}]`), nil
	})

	got, err := client.SearchTeams(context.Background(), "lol", "t1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if captured.URL.Path != "/api/teams/search" {
		t.Fatalf("unexpected path %s", captured.URL.Path)
	}
	if captured.URL.Query().Get("q") != "t1" || captured.URL.Query().Get("game") != "lol" {
		t.Fatalf("unexpected query %s", captured.URL.RawQuery)
	}
	if captured.URL.Query().Get("limit") != "10" || captured.URL.Query().Get("page") != "1" {
		t.Fatalf("expected default page, got %s", captured.URL.RawQuery)
	}
	if len(got) != 1 || got[0].Name != "T1" {
		t.Fatalf("expected invalid ids dropped, got %+v", got)
	}
}

func TestSearchTeamsPageClampsPaging(t *testing.T) {
	var captured *http.Request
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		captured = req
		return jsonResponse(http.StatusOK, `[]`), nil
	})

	if _, err := client.SearchTeamsPage(context.Background(), "cs-2", "navi", providers.Page{Limit: 500, Number: 0}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	q := captured.URL.Query()
	if q.Get("limit") != "50" || q.Get("page") != "1" || q.Get("game") != "cs-2" {
		t.Fatalf("unexpected query %s", captured.URL.RawQuery)
	}
}

func TestTeamsByIDs(t *testing.T) {
	calls := 0
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		calls++
		if req.URL.Path != "/api/teams" || req.URL.Query().Get("ids") != "1,42" {
			t.Fatalf("unexpected request %s?%s", req.URL.Path, req.URL.RawQuery)
		}
		return jsonResponse(http.StatusOK, `[{"id": 1, "name": "T1"}, {"id": 42, "name": "Gen.G"}]`), nil
	})

	got, err := client.TeamsByIDs(context.Background(), "", []teams.ID{1, 42})
	if err != nil || len(got) != 2 {
		t.Fatalf("expected 2 teams, got %+v (err=%v)", got, err)
	}

	if got, _ := client.TeamsByIDs(context.Background(), "", nil); len(got) != 0 || calls != 1 {
		t.Fatalf("expected no request for empty id list, calls=%d", calls)
	}
}

func TestNewClientSetsDefaultHTTPClient(t *testing.T) {
	c := NewClient(Config{})
	httpClient, ok := c.httpClient.(*http.Client)
	if !ok {
		t.Fatalf("expected default http client")
	}
	if httpClient.Timeout == 0 {
		t.Fatalf("expected timeout to be set on default http client")
	}
	if c.baseURL != defaultBaseURL || c.upcomingPath != defaultUpcomingPath || c.livePath != defaultLivePath {
		t.Fatalf("unexpected defaults %+v", c)
	}
}
