package testutil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/preston-bernstein/esports-dashboard/internal/domain/matches"
	"github.com/preston-bernstein/esports-dashboard/internal/refresh"
)

func TestFixturesHelper(t *testing.T) {
	m := SampleMatch(10, 1, 42)
	if m.ID != 10 || m.TeamA.ID != 1 || m.TeamB.Name != "Team 42" || m.Status != matches.StatusUpcoming {
		t.Fatalf("unexpected match fixture %+v", m)
	}
	if team := SampleTeam(3, "Liquid"); team.ID != 3 || team.Name != "Liquid" {
		t.Fatalf("unexpected team fixture %+v", team)
	}
}

func TestServeHelpers(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	rr := Serve(handler, http.MethodPost, "/test", strings.NewReader("{}"))
	AssertStatus(t, rr, http.StatusCreated)
	var body map[string]bool
	DecodeJSON(t, rr, &body)
	if !body["ok"] {
		t.Fatalf("expected ok=true")
	}

	req := httptest.NewRequest(http.MethodGet, "/req", nil)
	rr2 := ServeRequest(handler, req)
	AssertStatus(t, rr2, http.StatusCreated)

	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusUnsupportedMediaType)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	AssertStatus(t, ServeJSON(t, echo, http.MethodPut, "/json", map[string]int{"a": 1}), http.StatusOK)
}

func TestServerStubs(t *testing.T) {
	c := &StubController{Err: errors.New("stop"), StatusVal: refresh.Status{Seq: 4}}
	c.Start(context.Background())
	if err := c.Stop(context.Background()); !errors.Is(err, c.Err) {
		t.Fatalf("expected stop error")
	}
	if c.StartCalls != 1 || c.StopCalls != 1 {
		t.Fatalf("unexpected call counts %+v", c)
	}
	if c.Status().Seq != 4 {
		t.Fatalf("expected status passthrough")
	}

	sh := &StubHTTPServer{ListenErr: errors.New("boom"), ShutdownErr: errors.New("down")}
	sh.HandlerVal = http.NewServeMux()
	_ = sh.ListenAndServe()
	_ = sh.Shutdown(context.Background())
	_ = sh.Handler()
	_ = sh.Addr()
	if sh.ListenCalls != 1 || sh.ShutdownCalls != 1 {
		t.Fatalf("expected listen/shutdown calls, got %+v", sh)
	}

	b := &BlockingHTTPServer{Unblock: make(chan struct{}), HandlerVal: http.NewServeMux()}
	if err := b.ListenAndServe(); err != nil {
		t.Fatalf("expected nil listen error for blocking server")
	}
	done := make(chan error, 1)
	go func() { done <- b.Shutdown(context.Background()) }()
	close(b.Unblock)
	if err := <-done; err != nil {
		t.Fatalf("expected nil shutdown err, got %v", err)
	}

	e := &ErrHTTPServer{}
	if err := e.ListenAndServe(); err == nil {
		t.Fatalf("expected listen failure")
	}
	_ = e.Shutdown(context.Background())
	if e.ShutdownCalls != 1 || e.Addr() == "" || e.Handler() == nil {
		t.Fatalf("unexpected ErrHTTPServer state %+v", e)
	}

	cl := &CloseableHTTPServer{}
	if err := cl.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		t.Fatalf("expected ErrServerClosed, got %v", err)
	}
	_ = cl.Shutdown(context.Background())
	if cl.ShutdownCalls != 1 || cl.Addr() == "" || cl.Handler() == nil {
		t.Fatalf("unexpected CloseableHTTPServer state %+v", cl)
	}
}

func TestLoggerAndMetricsHelpers(t *testing.T) {
	logger, buf := NewBufferLogger()
	logger.Debug("hello", "k", "v")
	if buf.Len() == 0 || !strings.Contains(buf.String(), "hello") {
		t.Fatalf("expected buffered debug log output")
	}
	rec, shutdown := NewRecorderWithShutdown()
	if rec == nil || shutdown == nil {
		t.Fatalf("expected recorder and shutdown")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("expected nil shutdown error, got %v", err)
	}
}
