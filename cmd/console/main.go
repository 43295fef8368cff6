package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/escape-room/internal/config"
	"github.com/jwebster45206/escape-room/internal/events"
	"github.com/jwebster45206/escape-room/internal/logger"
	"github.com/jwebster45206/escape-room/pkg/engine"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logPath := flag.String("log", "", "write logs to this file instead of discarding them")
	flag.Parse()

	// The terminal belongs to the UI, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := tea.LogToFile(*logPath, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			_ = f.Close() // Ignore error in defer
		}()
		logOut = f
	}
	log := logger.Setup(cfg, logOut)

	var observers engine.Observers
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err := events.NewClient(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to Redis: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			_ = redisClient.Close() // Ignore error in defer
		}()
		observers = append(observers, events.NewBroadcaster(redisClient, log))
	}

	p := tea.NewProgram(NewConsoleUI(cfg, log, observers),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
