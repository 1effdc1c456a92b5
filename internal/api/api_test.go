package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JaimeStill/courier/internal/api"
	"github.com/JaimeStill/courier/internal/config"
	"github.com/JaimeStill/courier/internal/domain"
	"github.com/JaimeStill/courier/internal/infrastructure"
	"github.com/JaimeStill/courier/internal/ledger"
	"github.com/JaimeStill/courier/internal/orchestrator"
	"github.com/JaimeStill/courier/internal/routing"
	"github.com/JaimeStill/courier/pkg/database"
	"github.com/JaimeStill/courier/pkg/lifecycle"
	"github.com/JaimeStill/courier/pkg/module"
	"github.com/JaimeStill/courier/pkg/storage"
)

// recordingRunner writes one classifier entry per run and remembers what it saw.
type recordingRunner struct {
	ledger  ledger.System
	input   string
	isPath  bool
	content []byte
}

func (r *recordingRunner) Run(ctx context.Context, input string, isPath bool) (*orchestrator.Result, error) {
	r.input, r.isPath = input, isPath
	if isPath {
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, err
		}
		r.content = data
	}

	thread := r.ledger.NewThreadID()
	if _, err := r.ledger.Append(ctx, ledger.AppendCommand{
		AgentName: "ClassifierAgent",
		ThreadID:  thread,
		Source:    filepath.Base(input),
		Details:   map[string]any{"status": "Classified"},
	}); err != nil {
		return nil, err
	}
	if _, err := r.ledger.UpdateContext(ctx, thread, map[string]any{"classified_format": "TEXT"}); err != nil {
		return nil, err
	}
	return &orchestrator.Result{ThreadID: thread, Format: routing.FormatText}, nil
}

type memStore struct {
	blobs map[string][]byte
}

func (m *memStore) Start(lc *lifecycle.Coordinator) error { return nil }

func (m *memStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.blobs[key] = data
	return nil
}

func (m *memStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type fixture struct {
	module *module.Module
	domain *domain.Domain
	runner *recordingRunner
}

func setup(t *testing.T, store storage.System) fixture {
	t.Helper()

	cfg := &config.Config{
		Database: database.Config{
			Driver: database.DriverSQLite,
			Path:   filepath.Join(t.TempDir(), "courier.db"),
		},
		API: config.APIConfig{MaxUploadSize: "1KB"},
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize error: %v", err)
	}

	infra, err := infrastructure.NewWithWriter(cfg, io.Discard)
	if err != nil {
		t.Fatalf("infrastructure error: %v", err)
	}
	t.Cleanup(func() { infra.Database.Connection().Close() })
	if store != nil {
		infra.Storage = store
	}

	dom := domain.New(cfg, infra)
	if err := dom.Migrate(); err != nil {
		t.Fatalf("Migrate error: %v", err)
	}

	runner := &recordingRunner{ledger: dom.Ledger}
	return fixture{
		module: api.NewModule(cfg, infra, dom, runner),
		domain: dom,
		runner: runner,
	}
}

func serve(m *module.Module, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	m.Serve(rec, req)
	return rec
}

type processBody struct {
	Result  orchestrator.Result `json:"result"`
	Logs    []map[string]any    `json:"logs"`
	Context map[string]any      `json:"context"`
}

func decodeProcess(t *testing.T, rec *httptest.ResponseRecorder) processBody {
	t.Helper()
	var resp processBody
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return resp
}

func TestNewModule(t *testing.T) {
	f := setup(t, nil)
	if f.module.Prefix() != "/api" {
		t.Errorf("Prefix() = %q, want /api", f.module.Prefix())
	}
}

func TestProcessText(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{"json", "application/json", `{"text": "Where is my order?"}`},
		{"form", "application/x-www-form-urlencoded", "text=Where+is+my+order%3F"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/process", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rec := serve(f.module, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
			}
			if f.runner.isPath {
				t.Error("text submitted as a path")
			}
			if f.runner.input != "Where is my order?" {
				t.Errorf("input = %q, want %q", f.runner.input, "Where is my order?")
			}

			resp := decodeProcess(t, rec)
			if len(resp.Logs) != 1 {
				t.Fatalf("len(Logs) = %d, want 1", len(resp.Logs))
			}
			if resp.Context["classified_format"] != "TEXT" {
				t.Errorf("classified_format = %v, want TEXT", resp.Context["classified_format"])
			}
		})
	}
}

func TestProcessUpload(t *testing.T) {
	f := setup(t, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "invoice.json")
	if err != nil {
		t.Fatalf("CreateFormFile error: %v", err)
	}
	part.Write([]byte(`{"invoice_id": "INV-1"}`))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/process", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := serve(f.module, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if !f.runner.isPath {
		t.Error("upload not submitted as a path")
	}
	if filepath.Base(f.runner.input) != "invoice.json" {
		t.Errorf("stored name = %q, want invoice.json", filepath.Base(f.runner.input))
	}
	if string(f.runner.content) != `{"invoice_id": "INV-1"}` {
		t.Errorf("content = %q", f.runner.content)
	}
	if _, err := os.Stat(f.runner.input); !os.IsNotExist(err) {
		t.Error("upload temp file not removed")
	}

	resp := decodeProcess(t, rec)
	if len(resp.Logs) != 1 || resp.Logs[0]["source_filename"] != "invoice.json" {
		t.Errorf("Logs = %v, want one entry from invoice.json", resp.Logs)
	}
	if resp.Result.ThreadID == "" {
		t.Error("Result.ThreadID is empty")
	}
}

func TestProcessRejected(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        int
	}{
		{"empty json text", "application/json", `{"text": "  "}`, http.StatusBadRequest},
		{"malformed json", "application/json", `{"text":`, http.StatusBadRequest},
		{"empty form", "application/x-www-form-urlencoded", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/process", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rec := serve(f.module, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if f.runner.input != "" {
				t.Errorf("runner called with %q", f.runner.input)
			}
		})
	}
}

func TestProcessUploadTooLarge(t *testing.T) {
	f := setup(t, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("file", "big.txt")
	part.Write(bytes.Repeat([]byte("a"), 4096))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/process", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := serve(f.module, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusRequestEntityTooLarge)
	}
}

func TestLedgerRoutes(t *testing.T) {
	f := setup(t, nil)

	res, err := f.runner.Run(context.Background(), "note.txt text", false)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/threads/"+res.ThreadID+"/logs", nil)
	rec := serve(f.module, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var logs []map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&logs); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("len(logs) = %d, want 1", len(logs))
	}
}

func TestSource(t *testing.T) {
	store := &memStore{blobs: map[string][]byte{}}
	f := setup(t, store)
	ctx := context.Background()

	thread := f.domain.Ledger.NewThreadID()
	key := storage.Key(thread, "complaint.txt")
	store.blobs[key] = []byte("The parcel arrived broken.")
	if _, err := f.domain.Ledger.UpdateContext(ctx, thread, map[string]any{"archive_key": key}); err != nil {
		t.Fatalf("UpdateContext error: %v", err)
	}

	t.Run("archived", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/threads/"+thread+"/source", nil)
		rec := serve(f.module, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if rec.Body.String() != "The parcel arrived broken." {
			t.Errorf("body = %q", rec.Body.String())
		}
		if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "complaint.txt") {
			t.Errorf("Content-Disposition = %q", cd)
		}
	})

	t.Run("not archived", func(t *testing.T) {
		other := f.domain.Ledger.NewThreadID()
		req := httptest.NewRequest(http.MethodGet, "/api/threads/"+other+"/source", nil)
		rec := serve(f.module, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/threads/nope/source", nil)
		rec := serve(f.module, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

func TestSourceDisabled(t *testing.T) {
	f := setup(t, nil)
	thread := f.domain.Ledger.NewThreadID()

	req := httptest.NewRequest(http.MethodGet, "/api/threads/"+thread+"/source", nil)
	rec := serve(f.module, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
