package api

import (
	"net/http"

	"github.com/JaimeStill/courier/internal/domain"
	"github.com/JaimeStill/courier/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	runtime *Runtime,
	dom *domain.Domain,
	runner Runner,
) {
	process := newProcessHandler(runner, dom.Ledger, runtime.Logger, runtime.MaxUploadSize)
	source := newSourceHandler(dom.Ledger, runtime.Storage, runtime.Logger)

	groups := append(dom.Ledger.Handler().Routes(), process.routes(), source.routes())
	routes.Register(mux, groups...)

	runtime.Logger.Debug("routes registered", "patterns", routes.Patterns(groups...))
}
