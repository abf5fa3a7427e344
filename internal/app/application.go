package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/raysh454/spectre/internal/logging"
	"github.com/raysh454/spectre/internal/server"
)

// Application is the global runtime state container: configuration, the
// shared logger and the HTTP server built from them.
type Application struct {
	Config *Config
	Logger logging.Logger

	server   *server.Server
	http     *http.Server
	listener net.Listener
	serveErr chan error
}

// NewApplication builds the dashboard server from cfg. Nothing listens until
// Start is called.
func NewApplication(cfg *Config, logger logging.Logger) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		logger = logging.NewStdoutLogger("spectre")
	}
	srv, err := server.NewServer(cfg.ServerConfig(logger))
	if err != nil {
		return nil, err
	}
	return &Application{
		Config:   cfg,
		Logger:   logger,
		server:   srv,
		http:     srv.HTTPServer(),
		serveErr: make(chan error, 1),
	}, nil
}

// Start binds the listen address and serves in the background.
func (a *Application) Start() error {
	if a == nil {
		return errors.New("application is nil")
	}
	ln, err := net.Listen("tcp", a.Config.Listen)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.Config.Listen, err)
	}
	a.listener = ln
	a.Logger.Info("application starting", logging.Field{Key: "addr", Value: ln.Addr().String()}, logging.Field{Key: "backend", Value: a.Config.Backend})

	go func() {
		if err := a.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.serveErr <- err
		}
		close(a.serveErr)
	}()
	return nil
}

// Addr is the bound listen address; empty before Start.
func (a *Application) Addr() string {
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// Run starts the application and blocks until ctx is done or serving fails,
// then shuts down.
func (a *Application) Run(ctx context.Context) error {
	if err := a.Start(); err != nil {
		return err
	}
	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-a.serveErr:
		if ok {
			runErr = err
		}
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := a.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// Shutdown stops accepting requests, waits for open ones within ctx and
// releases the server's resources.
func (a *Application) Shutdown(ctx context.Context) error {
	if a == nil {
		return errors.New("application is nil")
	}
	a.Logger.Info("application shutdown initiated")

	err := a.http.Shutdown(ctx)
	if err != nil {
		a.Logger.Warn("http shutdown returned error", logging.Field{Key: "error", Value: err.Error()})
	}
	a.server.Close()
	return err
}
