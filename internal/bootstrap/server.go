package bootstrap

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	libLog "github.com/LerianStudio/lib-commons/v2/commons/log"
	"github.com/gofiber/fiber/v2"
)

const shutdownGracePeriod = 10 * time.Second

// Server wraps the fiber application with lifecycle management.
type Server struct {
	app           *fiber.App
	serverAddress string
	logger        libLog.Logger
}

func NewServer(cfg *Config, app *fiber.App, logger libLog.Logger) *Server {
	return &Server{
		app:           app,
		serverAddress: cfg.ServerAddress,
		logger:        logger,
	}
}

// ServerAddress returns the configured listen address.
func (s *Server) ServerAddress() string {
	return s.serverAddress
}

// Run serves HTTP until SIGINT/SIGTERM, then drains in-flight requests.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Infof("draw engine listening on %s", s.serverAddress)
		errCh <- s.app.Listen(s.serverAddress)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		s.logger.Infof("received %s, shutting down", sig)

		return s.app.ShutdownWithTimeout(shutdownGracePeriod)
	}
}
