package ledger

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/courier/pkg/handlers"
	"github.com/JaimeStill/courier/pkg/pagination"
	"github.com/JaimeStill/courier/pkg/routes"
)

// Handler provides HTTP endpoints for reading the ledger.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// ThreadView bundles a thread's log entries with its context.
type ThreadView struct {
	ThreadID string         `json:"thread_id"`
	Logs     []Entry        `json:"logs"`
	Context  map[string]any `json:"context"`
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "ledger"),
		pagination: pagination,
	}
}

// Routes returns the route groups for log and thread endpoints.
func (h *Handler) Routes() []routes.Group {
	return []routes.Group{
		{
			Prefix: "/logs",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: h.List},
			},
		},
		{
			Prefix: "/threads",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "/{id}", Handler: h.Thread},
				{Method: "GET", Pattern: "/{id}/logs", Handler: h.ThreadLogs},
				{Method: "GET", Pattern: "/{id}/context", Handler: h.ThreadContext},
			},
		},
	}
}

// List returns a paginated page of ledger entries, newest first, with
// optional agent_name, thread_id, and source filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Thread returns a thread's logs and context together.
func (h *Handler) Thread(w http.ResponseWriter, r *http.Request) {
	id, ok := h.threadID(w, r)
	if !ok {
		return
	}

	logs, err := h.sys.LogsForThread(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	data, err := h.sys.Context(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if len(logs) == 0 && len(data) == 0 {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrNotFound)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ThreadView{ThreadID: id, Logs: logs, Context: data})
}

// ThreadLogs returns a thread's entries in chronological order.
func (h *Handler) ThreadLogs(w http.ResponseWriter, r *http.Request) {
	id, ok := h.threadID(w, r)
	if !ok {
		return
	}

	logs, err := h.sys.LogsForThread(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, logs)
}

// ThreadContext returns the thread's context record.
func (h *Handler) ThreadContext(w http.ResponseWriter, r *http.Request) {
	id, ok := h.threadID(w, r)
	if !ok {
		return
	}

	rec, err := h.sys.ContextRecord(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec)
}

func (h *Handler) threadID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidThread)
		return "", false
	}
	return id, true
}
