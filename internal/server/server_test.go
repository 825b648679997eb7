package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/preston-bernstein/esports-dashboard/internal/config"
	"github.com/preston-bernstein/esports-dashboard/internal/domain/matches"
	"github.com/preston-bernstein/esports-dashboard/internal/domain/teams"
	"github.com/preston-bernstein/esports-dashboard/internal/providers/backend"
	"github.com/preston-bernstein/esports-dashboard/internal/providers/fixture"
	"github.com/preston-bernstein/esports-dashboard/internal/render"
	"github.com/preston-bernstein/esports-dashboard/internal/testutil"
	"github.com/preston-bernstein/esports-dashboard/internal/teststubs"
)

func testConfig() config.Config {
	return config.Config{
		Port:            "0",
		RefreshInterval: time.Hour,
		Follows:         config.FollowConfig{Backend: "memory", Key: "selectedTeamIds"},
		Metrics:         config.MetricsConfig{Enabled: false},
		CORSOrigins:     []string{"*"},
	}
}

func waitForView(t *testing.T, h http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		rr := testutil.Serve(h, http.MethodGet, "/view", nil)
		if rr.Code == http.StatusOK {
			return rr
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timed out waiting for first view")
	return nil
}

func TestServerServesHealthAndView(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := &teststubs.StubSource{
		Upcoming: []matches.Match{testutil.SampleMatch(1001, 1, 42)},
		Notify:   make(chan struct{}),
	}
	srv, err := newServerWithSource(testConfig(), nil, source, nil)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	srv.controller.Start(ctx)
	defer srv.controller.Stop(context.Background())

	select {
	case <-source.Notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for controller to fetch")
	}

	router := srv.Handler()
	testutil.AssertStatus(t, testutil.Serve(router, http.MethodGet, "/health", nil), http.StatusOK)

	var view render.View
	testutil.DecodeJSON(t, waitForView(t, router), &view)
	if view.Upcoming.State != render.SectionLoaded || len(view.Upcoming.Cards) != 1 {
		t.Fatalf("unexpected upcoming section %+v", view.Upcoming)
	}
	if view.Live.State != render.SectionEmpty || view.Live.Message != render.MessageNoLive {
		t.Fatalf("unexpected live section %+v", view.Live)
	}
}

func TestServerFollowMutationTriggersRefresh(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := &teststubs.StubSource{Teams: []teams.Team{testutil.SampleTeam(42, "Gen.G")}}
	srv, err := newServerWithSource(testConfig(), nil, source, nil)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	srv.controller.Start(ctx)
	defer srv.controller.Stop(context.Background())
	router := srv.Handler()
	waitForView(t, router)

	rr := testutil.Serve(router, http.MethodPut, "/follows", strings.NewReader(`{"ids":["42"]}`))
	testutil.AssertStatus(t, rr, http.StatusOK)
	if !srv.follows.Current().Contains(42) {
		t.Fatalf("expected follow store updated")
	}

	deadline := time.Now().Add(time.Second)
	for {
		params := source.Params()
		last := params[len(params)-1]
		if last.Followed.Contains(42) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expected a follow-triggered cycle with the new follow set")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestServerKeepsPersistedFollowsOnFirstMutation(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "selectedTeamIds.json"), []byte("[1,2]"), 0o644); err != nil {
		t.Fatalf("seed follow state: %v", err)
	}
	cfg := testConfig()
	cfg.Follows = config.FollowConfig{Backend: "file", Path: dir, Key: "selectedTeamIds"}

	srv, err := newServerWithSource(cfg, nil, &teststubs.StubSource{}, nil)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	router := srv.Handler()

	var before struct {
		IDs []teams.ID `json:"ids"`
	}
	rr := testutil.Serve(router, http.MethodGet, "/follows", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	testutil.DecodeJSON(t, rr, &before)
	if len(before.IDs) != 2 {
		t.Fatalf("expected persisted follows before any mutation, got %v", before.IDs)
	}

	testutil.AssertStatus(t, testutil.Serve(router, http.MethodPost, "/follows/3", nil), http.StatusOK)

	data, err := os.ReadFile(filepath.Join(dir, "selectedTeamIds.json"))
	if err != nil {
		t.Fatalf("read follow state: %v", err)
	}
	if string(data) != "[1,2,3]" {
		t.Fatalf("expected earlier follows to survive, got %s", data)
	}
}

func TestServerControllerFailureKeepsServing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := &teststubs.StubSource{
		UpErr:   errors.New("upstream down"),
		LiveErr: errors.New("upstream down"),
	}
	srv, err := newServerWithSource(testConfig(), nil, source, nil)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	srv.controller.Start(ctx)
	defer srv.controller.Stop(context.Background())

	var view render.View
	testutil.DecodeJSON(t, waitForView(t, srv.Handler()), &view)
	if view.Upcoming.Message != render.MessageFailed || view.Live.Message != render.MessageFailed {
		t.Fatalf("expected both sections failed, got %+v / %+v", view.Upcoming, view.Live)
	}
	testutil.AssertStatus(t, testutil.Serve(srv.Handler(), http.MethodGet, "/ready", nil), http.StatusServiceUnavailable)
}

func TestNewRejectsUnknownFollowBackend(t *testing.T) {
	cfg := testConfig()
	cfg.Follows.Backend = "etcd"

	if _, err := New(cfg, nil); err == nil {
		t.Fatalf("expected error for unknown follow backend")
	}
}

func TestNewConstructsServer(t *testing.T) {
	cfg := testConfig()
	cfg.Backend.Source = config.SourceFixture

	srv, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if srv == nil || srv.Handler() == nil {
		t.Fatalf("expected server with handler")
	}
}

func TestSelectSourceFallsBackToFixture(t *testing.T) {
	cfg := testConfig()
	cfg.Backend.Source = "unknown"
	if _, ok := selectSource(cfg, nil).(*fixture.Provider); !ok {
		t.Fatalf("expected fixture fallback")
	}
}

func TestSelectSourceChoosesBackend(t *testing.T) {
	cfg := testConfig()
	cfg.Backend = config.BackendConfig{
		Source:  config.SourceHTTP,
		BaseURL: "http://example.com",
		Timeout: time.Second,
	}
	if _, ok := selectSource(cfg, nil).(*backend.Client); !ok {
		t.Fatalf("expected backend client")
	}
}

func TestOriginChecker(t *testing.T) {
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	if !originChecker([]string{"*"})(req("https://any.example")) {
		t.Fatalf("expected wildcard to allow any origin")
	}
	check := originChecker([]string{"https://Dash.example"})
	if !check(req("https://dash.example")) {
		t.Fatalf("expected configured origin allowed")
	}
	if check(req("https://evil.example")) {
		t.Fatalf("expected unknown origin rejected")
	}
	if !check(req("")) {
		t.Fatalf("expected same-origin request without header allowed")
	}
}

func TestGracefulShutdownCallsStopAndShutdown(t *testing.T) {
	ctrl := &testutil.StubController{}
	httpSrv := &testutil.StubHTTPServer{}

	srv := newServerWithDeps(config.Config{}, nil, httpSrv, ctrl)
	srv.gracefulShutdown()

	if ctrl.StopCalls != 1 {
		t.Fatalf("expected controller Stop to be called once, got %d", ctrl.StopCalls)
	}
	if httpSrv.ShutdownCalls != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", httpSrv.ShutdownCalls)
	}
}

func TestGracefulShutdownTimesOutLongRunningShutdown(t *testing.T) {
	ctrl := &testutil.StubController{}
	blocking := &testutil.BlockingHTTPServer{
		AddrVal:    ":0",
		HandlerVal: http.NewServeMux(),
		Unblock:    make(chan struct{}),
	}

	original := shutdownTimeout
	shutdownTimeout = 5 * time.Millisecond
	defer func() { shutdownTimeout = original }()

	srv := newServerWithDeps(config.Config{}, nil, blocking, ctrl)

	start := time.Now()
	srv.gracefulShutdown()
	elapsed := time.Since(start)

	if blocking.ShutdownCalls != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", blocking.ShutdownCalls)
	}
	if ctrl.StopCalls != 1 {
		t.Fatalf("expected controller Stop to be called once, got %d", ctrl.StopCalls)
	}
	if elapsed > 200*time.Millisecond {
		t.Fatalf("shutdown took too long: %s", elapsed)
	}
}

func TestGracefulShutdownContinuesWhenControllerStopErrors(t *testing.T) {
	ctrl := &testutil.StubController{Err: errors.New("stop failure")}
	httpSrv := &testutil.StubHTTPServer{}

	srv := newServerWithDeps(config.Config{}, nil, httpSrv, ctrl)
	srv.gracefulShutdown()

	if ctrl.StopCalls != 1 {
		t.Fatalf("expected controller Stop to be called once, got %d", ctrl.StopCalls)
	}
	if httpSrv.ShutdownCalls != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", httpSrv.ShutdownCalls)
	}
}

func TestServerStartHandlesListenErrorAndStops(t *testing.T) {
	srv := newServerWithDeps(config.Config{}, nil, &testutil.ErrHTTPServer{}, &testutil.StubController{})

	var wg sync.WaitGroup
	wg.Add(1)
	stopCalled := make(chan struct{})
	stop := func() {
		close(stopCalled)
		wg.Done()
	}

	srv.startServer(stop)

	select {
	case <-stopCalled:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected stop to be called on listen failure")
	}

	wg.Wait()
}

func TestRunCancelsAndStopsComponents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl := &testutil.StubController{}
	httpSrv := &testutil.CloseableHTTPServer{}
	srv := newServerWithDeps(config.Config{}, nil, httpSrv, ctrl)

	done := make(chan struct{})
	go func() {
		srv.Run(ctx, cancel)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("run did not return after cancel")
	}

	if ctrl.StartCalls != 1 {
		t.Fatalf("expected controller Start called once, got %d", ctrl.StartCalls)
	}
	if ctrl.StopCalls != 1 {
		t.Fatalf("expected controller Stop called once, got %d", ctrl.StopCalls)
	}
	if httpSrv.ShutdownCalls != 1 {
		t.Fatalf("expected server Shutdown called once, got %d", httpSrv.ShutdownCalls)
	}
}
