package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/tailored-agentic-units/drafts/checkpoint"
	"github.com/tailored-agentic-units/drafts/host"
	"github.com/tailored-agentic-units/drafts/reducer"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to config file, JSON or YAML (optional)")
		store      = flag.String("store", "", "Checkpoint store: none, memory, file or pebble (overrides config)")
		path       = flag.String("path", "", "Checkpoint store path (overrides config)")
		restore    = flag.Bool("restore", false, "Restore the last snapshot before applying operations")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: drafts [flags] add:<title> | remove:<index> | toggle:<index> | clear | reset ...")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := host.DefaultConfig()
	if *configFile != "" {
		loaded, err := host.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}

	if *store != "" {
		cfg.Checkpoint.Store = *store
	}
	if *path != "" {
		cfg.Checkpoint.Path = *path
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	h, err := host.New(&cfg, host.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to create host: %v", err)
	}
	defer h.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	todos := reducer.NewStore(todosReducer(), h.ContainerOptions("todos")...)

	if *restore {
		err := todos.Container().Restore(ctx, nil, todos.Container().SnapshotID())
		switch {
		case err == nil:
		case errors.Is(err, checkpoint.ErrNotFound):
			logger.Info("no snapshot to restore", "id", todos.Container().SnapshotID())
		default:
			log.Fatalf("Failed to restore: %v", err)
		}
	}

	for _, op := range flag.Args() {
		action, err := parseOp(op)
		if err != nil {
			log.Fatalf("Invalid operation: %v", err)
		}
		if err := todos.Dispatch(action); err != nil {
			log.Fatalf("Dispatch %s failed: %v", action.Type(), err)
		}
	}

	if h.Store() != nil {
		if err := todos.Container().Checkpoint(ctx); err != nil {
			log.Fatalf("Checkpoint failed: %v", err)
		}
	}

	out, err := json.MarshalIndent(todos.State(), "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode state: %v", err)
	}
	fmt.Println(string(out))
}
