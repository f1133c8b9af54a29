package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dvalle/stategraph/agent"
	"github.com/dvalle/stategraph/config"
	"github.com/dvalle/stategraph/graph"
	"github.com/dvalle/stategraph/graph/emit"
	"github.com/dvalle/stategraph/graph/store"
	"github.com/dvalle/stategraph/server"
	"github.com/dvalle/stategraph/stream"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the streaming workflow HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides STATEGRAPH_ADDR)")
	return cmd
}

// runServe wires the process: the graph is built and validated once and
// shared by every request. A validation failure aborts startup.
func runServe(ctx context.Context, cfg config.Config) error {
	registry := prometheus.NewRegistry()
	metrics := graph.NewMetrics(registry)
	emitter := emit.NewLogEmitter(os.Stderr, cfg.LogJSON)

	st, err := newHistoryStore(cfg)
	if err != nil {
		return fmt.Errorf("history store: %w", err)
	}
	if st != nil {
		defer st.Close()
	}

	opts := []graph.Option[agent.State]{
		graph.WithEmitter[agent.State](emitter),
		graph.WithMetrics[agent.State](metrics),
	}
	if st != nil {
		opts = append(opts, graph.WithStore[agent.State](st))
	}

	engine, err := agent.NewEngine(agent.DefaultConfig(), opts...)
	if err != nil {
		return fmt.Errorf("build workflow: %w", err)
	}

	messages, err := agent.LoadMessages(cfg.MessagesFile)
	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}

	bridge := stream.NewBridge(engine, messages,
		stream.WithBuffer(cfg.StreamBuffer),
		stream.WithPacing(cfg.Pacing),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.NewHandler(bridge, registry),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Printf("stategraphd listening on %s", cfg.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func newHistoryStore(cfg config.Config) (store.Store[agent.State], error) {
	switch cfg.History {
	case config.HistoryMemory:
		return store.NewMemStore[agent.State](), nil
	case config.HistorySQLite:
		return store.NewSQLiteStore[agent.State](cfg.SQLitePath)
	case config.HistoryMySQL:
		return store.NewMySQLStore[agent.State](cfg.MySQLDSN)
	default:
		return nil, nil
	}
}
