package bootstrap

import (
	libLog "github.com/LerianStudio/lib-commons/v2/commons/log"
)

// Service is the runnable application.
type Service struct {
	*Server
	Logger libLog.Logger
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Service) Run() {
	s.Logger.Info("Starting draw engine...")

	if err := s.Server.Run(); err != nil {
		s.Logger.Fatalf("server stopped with error: %v", err)
	}

	s.Logger.Info("draw engine stopped")
}
