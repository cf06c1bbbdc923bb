package router

import "github.com/yagro/gostore/internal/transport/http/handler"

func (r *Router) healthRouter() {
	r.server.GET("/health", handler.HealthHandler())
}
