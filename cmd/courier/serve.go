package main

import (
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/courier/internal/api"
	"github.com/JaimeStill/courier/internal/infrastructure"
	"github.com/JaimeStill/courier/pkg/module"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve pipeline submission and ledger reads over HTTP until interrupted.

Routes:
  POST /api/process               submit a file (multipart "file") or text
  GET  /api/logs                  paginated ledger entries
  GET  /api/threads/{id}          thread logs and context
  GET  /api/threads/{id}/logs     thread logs
  GET  /api/threads/{id}/context  thread context
  GET  /api/threads/{id}/source   archived raw input
  GET  /healthz, /readyz, /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			orch, err := a.domain.Orchestrator(cmd.Context())
			if err != nil {
				return err
			}

			router := buildRouter(a.infra, a.cfg.Server.MetricsPath)
			router.Mount(api.NewModule(a.cfg, a.infra, a.domain, orch))

			a.infra.Logger.Info(
				"courier starting",
				"version", a.cfg.Version,
				"addr", a.cfg.Server.Addr(),
				"env", a.cfg.Env(),
				"modules", router.Prefixes(),
			)

			errc := make(chan error, 1)
			newHTTPServer(&a.cfg.Server, router, a.infra.Logger).Start(a.infra.Lifecycle, errc)

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			select {
			case <-sigChan:
			case <-cmd.Context().Done():
			case err := <-errc:
				return err
			}

			a.infra.Logger.Info("courier stopping")
			return nil
		},
	}
}

func buildRouter(infra *infrastructure.Infrastructure, metricsPath string) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "ok")
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			writeStatus(w, http.StatusServiceUnavailable, "not ready")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})

	router.Handle("GET "+metricsPath, promhttp.Handler())

	return router
}

func writeStatus(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"status": text})
}
