/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/josephgoksu/taskapi/internal/logger"
	"github.com/josephgoksu/taskapi/internal/server"
	"github.com/josephgoksu/taskapi/internal/task"
	"github.com/josephgoksu/taskapi/internal/ui"
	"github.com/josephgoksu/taskapi/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the task HTTP API",
	Long: `Start the task HTTP API and block until interrupted.

Routes:
  GET    /tasks                      list every task
  GET    /tasks/{id}                 fetch one task
  POST   /tasks                      create a task
  PUT    /task/{id}                  update a task
  DELETE /task/{id}                  delete a task
  GET    /tasks/priority/{level}     filter by priority
  GET    /tasks/completion/{status}  filter by completion (true/false)

Examples:
  taskapi serve                      # listen on :3000, store in ./task.json
  taskapi serve --port 8080          # use a custom port
  taskapi serve --file data/tasks.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 3000, "API server port")
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	log, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, cmd.OutOrStdout(), log)
}

// newLogger builds the process logger from the log.* settings. --verbose
// forces debug level.
func newLogger(cfg *types.AppConfig, out io.Writer) (*slog.Logger, error) {
	level := cfg.Log.Level
	if cfg.Verbose || viper.GetBool("verbose") {
		level = "debug"
	}
	return logger.New(logger.Options{
		Level:  level,
		Format: cfg.Log.Format,
		Output: out,
	})
}

// serve runs the API until ctx is cancelled or the listener fails, then
// shuts down within server.shutdownTimeout.
func serve(ctx context.Context, cfg *types.AppConfig, out io.Writer, log *slog.Logger) error {
	taskStore, closeStore, err := GetStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn("close task store", "error", err)
		}
	}()

	if cfg.Log.CrashDir != "" {
		logger.SetBasePath(cfg.Log.CrashDir)
	}

	srv := server.New(task.NewService(taskStore, log), server.Options{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		CrashLogs:      cfg.Log.CrashDir != "",
		Logger:         log,
	})

	// WaitGroup to track the serve goroutine
	var wg sync.WaitGroup
	errChan := make(chan error, 1)

	if err := srv.Start(&wg, errChan); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}

	fmt.Fprintln(out, ui.Banner("taskapi "+version,
		ui.Field{Key: "API", Value: "http://" + srv.Addr()},
		ui.Field{Key: "Store", Value: describeStore(taskStore)},
	))
	fmt.Fprintln(out, ui.Success("Server is running. Press Ctrl+C to stop"))

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down", "reason", context.Cause(ctx))
	case serveErr = <-errChan:
		log.Error("API server stopped", "error", serveErr)
	}

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("server shutdown error", "error", err)
	}

	wg.Wait()
	log.Info("server stopped")
	return serveErr
}
