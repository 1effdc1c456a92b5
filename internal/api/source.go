package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"

	"github.com/google/uuid"

	"github.com/JaimeStill/courier/internal/ledger"
	"github.com/JaimeStill/courier/pkg/handlers"
	"github.com/JaimeStill/courier/pkg/routes"
	"github.com/JaimeStill/courier/pkg/storage"
)

type sourceHandler struct {
	ledger ledger.System
	store  storage.System
	logger *slog.Logger
}

func newSourceHandler(l ledger.System, store storage.System, logger *slog.Logger) *sourceHandler {
	return &sourceHandler{
		ledger: l,
		store:  store,
		logger: logger.With("handler", "source"),
	}
}

func (h *sourceHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/threads",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}/source", Handler: h.download},
		},
	}
}

// download streams the archived raw input recorded in the thread context.
func (h *sourceHandler) download(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ledger.ErrInvalidThread)
		return
	}

	if h.store == nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(storage.ErrDisabled), storage.ErrDisabled)
		return
	}

	cx, err := h.ledger.Context(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	key, _ := cx["archive_key"].(string)
	if key == "" {
		handlers.RespondError(w, h.logger, http.StatusNotFound, storage.ErrNotFound)
		return
	}

	body, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", path.Base(key)),
	)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, body)
}
