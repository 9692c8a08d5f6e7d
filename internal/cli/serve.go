package cli

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cpjust/shopcheck/internal/config"
	"github.com/cpjust/shopcheck/internal/fixture"
)

// ServerDependencies holds all dependencies needed for the fixture store
type ServerDependencies struct {
	ServerConfig   config.ServerConfig
	ProductHandler http.Handler
	CartHandler    http.Handler
	Log            logrus.FieldLogger
}

// NewServerDependencies wires the fixture store for the Echo Fit Compression Short page.
func NewServerDependencies(serverConfig config.ServerConfig, log logrus.FieldLogger) (ServerDependencies, error) {
	product := fixture.EchoFitCompressionShort()
	productHandler, err := fixture.NewProductHandler(product, log)
	if err != nil {
		return ServerDependencies{}, fmt.Errorf("failed to create product handler: %w", err)
	}

	return ServerDependencies{
		ServerConfig:   serverConfig,
		ProductHandler: productHandler,
		CartHandler:    fixture.NewCartHandler(fixture.NewCart(), product, log),
		Log:            log,
	}, nil
}

// RunServe starts the fixture store and blocks until a shutdown signal
func RunServe(deps ServerDependencies) error {
	listener, server, err := StartServer(deps)
	if err != nil {
		return err
	}
	defer listener.Close()

	return WaitForShutdown(server, nil, deps.Log)
}

// StartServer creates and starts the HTTP server, returning the listener and server
func StartServer(deps ServerDependencies) (net.Listener, *http.Server, error) {
	log := loggerOrStandard(deps.Log)

	mux := http.NewServeMux()
	mux.Handle("/", deps.ProductHandler)
	mux.Handle(fixture.ProductPath, deps.ProductHandler)
	mux.Handle("/cart/add", deps.CartHandler)

	addr := fmt.Sprintf(":%s", deps.ServerConfig.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create listener: %w", err)
	}

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", listener.Addr().String()).Info("Server listening")
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server error")
		}
	}()

	return listener, server, nil
}

// WaitForShutdown waits for a shutdown signal and gracefully shuts down the server
// If shutdown channel is nil, a new channel will be created and registered with signal.Notify
func WaitForShutdown(server *http.Server, shutdown chan os.Signal, log logrus.FieldLogger) error {
	return WaitForShutdownWithTimeout(server, shutdown, 30*time.Second, log)
}

// WaitForShutdownWithTimeout allows specifying a custom shutdown timeout (primarily for testing)
func WaitForShutdownWithTimeout(server *http.Server, shutdown chan os.Signal, shutdownTimeout time.Duration, log logrus.FieldLogger) error {
	log = loggerOrStandard(log)
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(shutdown)
	}

	sig := <-shutdown
	log.WithField("signal", sig).Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("Graceful shutdown timed out, closing connections")
		if err := server.Close(); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	log.Info("Server stopped")
	return nil
}

func loggerOrStandard(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return logrus.StandardLogger()
	}
	return log
}
