package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/escape-room/internal/config"
	"github.com/jwebster45206/escape-room/internal/events"
	"github.com/jwebster45206/escape-room/internal/handlers"
	"github.com/jwebster45206/escape-room/internal/logger"
	"github.com/jwebster45206/escape-room/internal/metrics"
	"github.com/jwebster45206/escape-room/pkg/engine"
	"github.com/jwebster45206/escape-room/pkg/scenario"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	scenarioName := flag.String("scenario", cfg.Scenario, "scenario to play")
	list := flag.Bool("list", false, "list available scenarios and exit")
	flag.Parse()

	if *list {
		for _, s := range scenario.All() {
			fmt.Printf("%-16s %s\n", s.Name, s.Description)
		}
		return
	}

	gameID := uuid.New()
	log := logger.WithGameID(logger.Setup(cfg, os.Stderr), gameID)

	s, err := scenario.Get(*scenarioName)
	if err != nil {
		log.Error("Failed to load scenario", "error", err)
		os.Exit(1)
	}

	r, err := s.Build(scenario.Settings{
		MaxTurns: cfg.MaxTurns,
		Output:   os.Stdout,
		Logger:   log,
	})
	if err != nil {
		log.Error("Failed to build scenario", "error", err, "scenario", s.Name)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var observers engine.Observers
	components := map[string]handlers.Pinger{}

	if cfg.RedisURL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		redisClient, err := events.NewClient(connectCtx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis client", "error", err)
			}
		}()
		broadcaster := events.NewBroadcaster(redisClient, log)
		observers = append(observers, broadcaster)
		components["redis"] = broadcaster
		log.Info("Broadcasting game events", "channel", events.Channel(gameID))
	}

	if cfg.MetricsAddr != "" {
		collector := metrics.NewCollector()
		observers = append(observers, collector)

		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           handlers.NewRouter(handlers.NewHealthHandler(gameID, components, log), collector.Handler()),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Metrics server error", "error", err)
			}
		}()
		defer shutdown(srv, log)
		log.Info("Serving metrics", "addr", cfg.MetricsAddr)
	}

	opts := []engine.Option{
		engine.WithOutput(os.Stdout),
		engine.WithLogger(log),
		engine.WithGameID(gameID),
	}
	if len(observers) > 0 {
		opts = append(opts, engine.WithObserver(observers))
	}
	e := engine.New(r, opts...)

	log.Info("Starting escape room", "scenario", s.Name, "max_turns", cfg.MaxTurns)

	type result struct {
		outcome engine.Outcome
		err     error
	}
	done := make(chan result, 1)
	go func() {
		outcome, err := e.Run(ctx, os.Stdin)
		done <- result{outcome, err}
	}()

	// Run cannot interrupt a blocked read of stdin, so a signal ends the
	// game from here instead.
	select {
	case res := <-done:
		if res.err != nil && !errors.Is(res.err, context.Canceled) {
			log.Error("Game error", "error", res.err)
			return
		}
		log.Info("Escape room exited", "outcome", res.outcome.String(), "turns", e.Turns())
	case <-ctx.Done():
		fmt.Println()
		log.Info("Shutdown signal received")
	}
}

func shutdown(srv *http.Server, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Failed to stop metrics server", "error", err)
	}
}
