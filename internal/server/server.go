package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/josephgoksu/taskapi/models"
)

// TaskService is the task logic the handlers depend on.
type TaskService interface {
	List(ctx context.Context) ([]models.Task, error)
	Get(ctx context.Context, id int) (models.Task, error)
	Create(ctx context.Context, in models.TaskInput) (models.Task, error)
	Update(ctx context.Context, id int, in models.TaskInput) (models.Task, error)
	Delete(ctx context.Context, id int) error
	ByPriority(ctx context.Context, level string) ([]models.Task, error)
	ByCompletion(ctx context.Context, status string) ([]models.Task, error)
}

// Options configures the HTTP server.
type Options struct {
	Host           string
	Port           int
	AllowedOrigins []string
	// CrashLogs writes a crash log for every recovered handler panic.
	CrashLogs bool
	Logger    *slog.Logger
}

type Server struct {
	tasks     TaskService
	logger    *slog.Logger
	origins   map[string]struct{}
	crashLogs bool
	server    *http.Server
	listener  net.Listener
}

func New(tasks TaskService, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	origins := make(map[string]struct{}, len(opts.AllowedOrigins))
	for _, o := range opts.AllowedOrigins {
		origins[o] = struct{}{}
	}

	s := &Server{
		tasks:     tasks,
		logger:    logger,
		origins:   origins,
		crashLogs: opts.CrashLogs,
	}

	s.server = &http.Server{
		Addr:              net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)),
		Handler:           s.registerRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start binds the listen address and serves in a goroutine. Bind failures
// are returned directly; later serve failures are sent to errChan.
func (s *Server) Start(wg *sync.WaitGroup, errChan chan<- error) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.server.Addr, err)
	}
	s.listener = ln
	s.logger.Info("server is listening", "addr", ln.Addr().String())

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()
	return nil
}

// Addr returns the bound address once started, else the configured one.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.server.Addr
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
