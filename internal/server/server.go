package server

import (
	"github.com/gin-gonic/gin"

	"github.com/yagro/gostore/internal/config"
)

type Server struct {
	*gin.Engine

	Config *config.Config
}

// New loads configuration from configPath (or the default search
// locations when empty) and builds the HTTP server around it.
func New(configPath string) (*Server, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	// Set Gin mode based on configuration
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	return &Server{
		Engine: gin.New(),
		Config: cfg,
	}, nil
}
