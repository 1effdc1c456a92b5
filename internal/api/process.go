package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/JaimeStill/courier/internal/ledger"
	"github.com/JaimeStill/courier/internal/orchestrator"
	"github.com/JaimeStill/courier/pkg/formatting"
	"github.com/JaimeStill/courier/pkg/handlers"
	"github.com/JaimeStill/courier/pkg/routes"
)

// Request errors for pipeline submission.
var (
	ErrNoInput      = errors.New("provide a file or text")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
)

// Runner runs a single input through the pipeline.
type Runner interface {
	Run(ctx context.Context, input string, isPath bool) (*orchestrator.Result, error)
}

// ProcessResponse is the result of a submission with the thread's ledger state.
type ProcessResponse struct {
	Result  *orchestrator.Result `json:"result"`
	Logs    []ledger.Entry       `json:"logs"`
	Context map[string]any       `json:"context"`
}

type processHandler struct {
	runner        Runner
	ledger        ledger.System
	logger        *slog.Logger
	maxUploadSize int64
}

func newProcessHandler(runner Runner, l ledger.System, logger *slog.Logger, maxUploadSize int64) *processHandler {
	return &processHandler{
		runner:        runner,
		ledger:        l,
		logger:        logger.With("handler", "process"),
		maxUploadSize: maxUploadSize,
	}
}

func (h *processHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/process",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.process},
		},
	}
}

// process accepts a multipart file upload, a form "text" field, or a JSON
// body {"text": "..."}, and runs it through the pipeline.
func (h *processHandler) process(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var (
		res *orchestrator.Result
		err error
	)

	switch mediaType {
	case "application/json":
		res, err = h.processJSON(r)
	case "multipart/form-data":
		res, err = h.processMultipart(w, r)
	default:
		text := r.FormValue("text")
		if strings.TrimSpace(text) == "" {
			err = ErrNoInput
			break
		}
		res, err = h.runner.Run(r.Context(), text, false)
	}

	if err != nil {
		handlers.RespondError(w, h.logger, mapProcessStatus(err), err)
		return
	}

	logs, err := h.ledger.LogsForThread(r.Context(), res.ThreadID)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	cx, err := h.ledger.Context(r.Context(), res.ThreadID)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ProcessResponse{Result: res, Logs: logs, Context: cx})
}

func (h *processHandler) processJSON(r *http.Request) (*orchestrator.Result, error) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, h.maxUploadSize)).Decode(&body); err != nil {
		return nil, ErrNoInput
	}
	if strings.TrimSpace(body.Text) == "" {
		return nil, ErrNoInput
	}
	return h.runner.Run(r.Context(), body.Text, false)
}

// processMultipart stores an uploaded file under its original base name in
// a temporary directory so format detection sees the real extension.
func (h *processHandler) processMultipart(w http.ResponseWriter, r *http.Request) (*orchestrator.Result, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		return nil, fmt.Errorf("%w: limit %s", ErrFileTooLarge, formatting.FormatBytes(h.maxUploadSize, 0))
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		text := r.FormValue("text")
		if strings.TrimSpace(text) == "" {
			return nil, ErrNoInput
		}
		return h.runner.Run(r.Context(), text, false)
	}
	if err != nil {
		return nil, ErrNoInput
	}
	defer file.Close()

	dir, err := os.MkdirTemp("", "courier-upload-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	name := filepath.Base(header.Filename)
	if name == "." || name == string(filepath.Separator) {
		name = "upload"
	}
	path := filepath.Join(dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		return nil, err
	}
	if err := dst.Close(); err != nil {
		return nil, err
	}

	h.logger.Debug("upload stored", "name", name, "size", header.Size)
	return h.runner.Run(r.Context(), path, true)
}

func mapProcessStatus(err error) int {
	switch {
	case errors.Is(err, ErrNoInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}
