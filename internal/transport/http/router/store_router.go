package router

import "github.com/yagro/gostore/internal/transport/http/handler"

// storeRouter registers the file store surface under the configured URL
// prefix: POST uploads, GET serves stored files back (local store only),
// HEAD answers existence checks.
func (r *Router) storeRouter() {
	cfg := &r.server.Config.Store
	h := handler.NewStoreHandler(r.Deps.Store, cfg)

	r.server.POST(cfg.URLPrefix, h.Upload)
	r.server.GET(cfg.URLPrefix+"/*filepath", h.Serve)
	r.server.HEAD(cfg.URLPrefix+"/*filepath", h.Exists)
}
