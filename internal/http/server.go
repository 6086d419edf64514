package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// Server wraps the configured gin engine behind the app's run loop.
type Server struct {
	Engine *gin.Engine
}

func NewServer(cfg RouterConfig) *Server {
	return &Server{Engine: NewRouter(cfg)}
}

func (s *Server) Run(address string) error {
	if s == nil || s.Engine == nil {
		return fmt.Errorf("server not initialized")
	}
	return s.Engine.Run(address)
}
