package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/esports-dashboard/internal/app/dashboard"
	"github.com/preston-bernstein/esports-dashboard/internal/directory"
	"github.com/preston-bernstein/esports-dashboard/internal/domain/teams"
	"github.com/preston-bernstein/esports-dashboard/internal/http/requestutil"
	"github.com/preston-bernstein/esports-dashboard/internal/logging"
	"github.com/preston-bernstein/esports-dashboard/internal/providers"
	"github.com/preston-bernstein/esports-dashboard/internal/refresh"
	"github.com/preston-bernstein/esports-dashboard/internal/render"
)

// Service is the dashboard surface the HTTP handlers drive.
type Service interface {
	View() (render.View, bool)
	Status() refresh.Status
	Refresh() refresh.Status
	Follows(ctx context.Context) dashboard.Follows
	SetFollows(ctx context.Context, values []any) (dashboard.Follows, error)
	Follow(ctx context.Context, id teams.ID) (dashboard.Follows, error)
	Unfollow(ctx context.Context, id teams.ID) (dashboard.Follows, error)
	Controls() render.Controls
	SetControls(controls render.Controls) render.Controls
	SearchPage(ctx context.Context, game, query string, page providers.Page) directory.SearchResult
	FilterDirectory(term string) []teams.Team
}

// Handler wires HTTP routes to the dashboard service.
type Handler struct {
	svc    Service
	logger *slog.Logger
}

type followsRequest struct {
	IDs []any `json:"ids"`
}

type teamsResponse struct {
	Query string       `json:"query"`
	Teams []teams.Team `json:"teams"`
}

// NewHandler constructs a Handler.
func NewHandler(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Health reports process liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports whether the refresh controller has published a healthy view.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	status := h.svc.Status()
	if status.IsReady() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, http.StatusServiceUnavailable, msg, h.logger)
}

// View returns the latest rendered dashboard view.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	view, ok := h.svc.View()
	if !ok {
		writeError(w, r, http.StatusServiceUnavailable, "dashboard not ready", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view, h.logger)
}

// Refresh requests a manual refresh cycle.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	status := h.svc.Refresh()
	logging.Info(loggerFromContext(r, h.logger), "manual refresh requested",
		slog.Uint64(logging.FieldSeq, status.Seq),
	)
	writeJSON(w, http.StatusAccepted, status, h.logger)
}

// GetFollows returns the follow set with resolved teams.
func (h *Handler) GetFollows(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Follows(r.Context()), h.logger)
}

// PutFollows replaces the follow set.
func (h *Handler) PutFollows(w http.ResponseWriter, r *http.Request) {
	var req followsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logging.Warn(loggerFromContext(r, h.logger), "invalid follows body", slog.Any("err", err))
		writeError(w, r, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	follows, err := h.svc.SetFollows(r.Context(), req.IDs)
	if err != nil {
		h.followError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, follows, h.logger)
}

// AddFollow adds the team in the path to the follow set.
func (h *Handler) AddFollow(w http.ResponseWriter, r *http.Request) {
	h.mutateFollow(w, r, h.svc.Follow)
}

// RemoveFollow removes the team in the path from the follow set.
func (h *Handler) RemoveFollow(w http.ResponseWriter, r *http.Request) {
	h.mutateFollow(w, r, h.svc.Unfollow)
}

func (h *Handler) mutateFollow(w http.ResponseWriter, r *http.Request, fn func(context.Context, teams.ID) (dashboard.Follows, error)) {
	id, ok := requestutil.ParseTeamID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid team id", h.logger)
		return
	}
	follows, err := fn(r.Context(), id)
	if err != nil {
		h.followError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, follows, h.logger)
}

func (h *Handler) followError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, dashboard.ErrInvalidTeamID) {
		writeError(w, r, http.StatusBadRequest, "invalid team id", h.logger)
		return
	}
	logging.Error(loggerFromContext(r, h.logger), "follow save failed", err)
	writeError(w, r, http.StatusInternalServerError, "failed to save follows", h.logger)
}

// GetControls returns the current dashboard controls.
func (h *Handler) GetControls(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Controls(), h.logger)
}

// PutControls replaces the dashboard controls.
func (h *Handler) PutControls(w http.ResponseWriter, r *http.Request) {
	var controls render.Controls
	if err := decodeJSON(w, r, &controls); err != nil {
		logging.Warn(loggerFromContext(r, h.logger), "invalid controls body", slog.Any("err", err))
		writeError(w, r, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.SetControls(controls), h.logger)
}

// SearchTeams runs a directory search. Failures are reported in the result, never as a status.
// limit and page are clamped to the supported range.
func (h *Handler) SearchTeams(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := providers.ParsePage(q.Get("limit"), q.Get("page"))
	result := h.svc.SearchPage(r.Context(), strings.TrimSpace(q.Get("game")), q.Get("q"), page)
	writeJSON(w, http.StatusOK, result, h.logger)
}

// ListTeams filters the cached directory.
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, teamsResponse{
		Query: term,
		Teams: h.svc.FilterDirectory(term),
	}, h.logger)
}
