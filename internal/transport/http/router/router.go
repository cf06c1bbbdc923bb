package router

import (
	"github.com/gin-contrib/cors"

	"github.com/yagro/gostore/internal/injectable"
	"github.com/yagro/gostore/internal/server"
	"github.com/yagro/gostore/internal/transport/http/middleware"
)

type Router struct {
	server *server.Server
	Deps   *injectable.Dependencies
}

// NewRouter creates a new Router instance.
func NewRouter(s *server.Server) *Router {
	deps := injectable.LoadDependencies(s.Config)

	return &Router{
		server: s,
		Deps:   &deps,
	}
}

// RegisterRoutes sets up the routes and middleware for the server.
func (r *Router) RegisterRoutes() {
	r.server.Use(middleware.RecoveryMiddleware())
	r.server.Use(middleware.LoggerMiddleware())

	// Apply CORS middleware
	r.server.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
		AllowCredentials: true,
	}))

	r.healthRouter()
	r.storeRouter()
}
