// Package main implements devnode, a fake database node for trying nodectl
// without a real cluster.
//
// devnode serves the welcome document on "/" and a fixed task list on
// "/_active_tasks". See package internal/devnode for the endpoints.
//
// Configuration:
//   - DEVNODE_LISTEN: Listen address (default: ":5984")
//   - DEVNODE_NAME: Node name reported to clients (default: "devnode@127.0.0.1")
//   - DEVNODE_TASKS: JSON file with the active task list (default: none)
//
// Example usage:
//
//	DEVNODE_LISTEN=:15984 DEVNODE_TASKS=tasks.json ./devnode
//	nodectl isonline http://127.0.0.1:15984
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dreamware/nodectl/internal/devnode"
	"github.com/dreamware/nodectl/internal/logger"
)

func main() {
	log := logger.New(logger.Options{Output: os.Stderr, Verbose: true}).Named("devnode")
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log); err != nil {
		log.Error("devnode failed", zap.Error(err))
		stop()
		os.Exit(1)
	}
}

// run serves until ctx is canceled, then shuts the server down.
func run(ctx context.Context, log *zap.Logger) error {
	listen := getenv("DEVNODE_LISTEN", ":5984")
	name := getenv("DEVNODE_NAME", "devnode@127.0.0.1")

	node := devnode.New(name)
	if path := os.Getenv("DEVNODE_TASKS"); path != "" {
		if err := node.LoadTasks(path); err != nil {
			return err
		}
		log.Info("loaded tasks", zap.String("file", path), zap.Int("count", len(node.Tasks())))
	}

	s := newServer(listen, node)

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("node", name), zap.String("addr", listen))
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err, ok := <-errc:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	log.Info("stopped")
	return nil
}

func newServer(listen string, node *devnode.Node) *http.Server {
	return &http.Server{
		Addr:              listen,
		Handler:           node.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// getenv returns the environment variable k, or def when it is unset or empty.
func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
