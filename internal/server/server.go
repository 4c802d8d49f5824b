package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/shared"
	"golang.org/x/oauth2"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that knows the route patterns it serves.
type Handler interface {
	http.Handler
	Routes() []string
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

const (
	DefaultCallbackTimeout = 2 * time.Minute
	shutdownTimeout        = 5 * time.Second
)

// CallbackServer serves a single OAuth callback on a local address.
type CallbackServer struct {
	addr    string
	handler *OAuthHandler
	router  *BasicRouter
	logger  *log.Logger
	timeout time.Duration

	mu       sync.Mutex // guards srv
	listener net.Listener
	srv      *http.Server
	errs     chan error
}

// NewCallbackServer builds a server for handler listening on host:port.
//
// A zero port lets the OS pick one; see [CallbackServer.Addr].
func NewCallbackServer(host string, port int, handler *OAuthHandler, logger *log.Logger) *CallbackServer {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	router := NewBasicRouter()
	router.Use(LoggingMiddleware(logger))
	router.Handler(handler)

	return &CallbackServer{
		addr:    net.JoinHostPort(host, fmt.Sprintf("%d", port)),
		handler: handler,
		router:  router,
		logger:  logger,
		timeout: DefaultCallbackTimeout,
		errs:    make(chan error, 1),
	}
}

// SetTimeout changes how long Wait blocks for the callback.
func (s *CallbackServer) SetTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

// Start binds the listener and serves in the background.
func (s *CallbackServer) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	srv := &http.Server{Handler: s.router, ReadHeaderTimeout: 10 * time.Second}

	s.mu.Lock()
	s.listener = listener
	s.srv = srv
	s.mu.Unlock()

	go func() {
		s.logger.Debug("callback server listening", "addr", listener.Addr().String())
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errs <- err
		}
	}()

	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *CallbackServer) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Wait blocks until the callback delivers a token, the server fails, ctx ends, or the timeout expires.
// The server is shut down before Wait returns.
func (s *CallbackServer) Wait(ctx context.Context) (*oauth2.Token, error) {
	defer s.Shutdown()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	var result OAuthResult
	select {
	case result = <-s.handler.Result():
	case err := <-s.errs:
		return nil, fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, s.timeout)
	}

	if err := result.Error(); err != nil {
		return nil, fmt.Errorf("authorization failed: %w", err)
	}
	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrMissingCredentials)
	}

	return result.Token, nil
}

// Shutdown stops the server if it is running.
func (s *CallbackServer) Shutdown() {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.mu.Unlock()

	if srv == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Warn("error shutting down callback server", "error", err)
	}
}
