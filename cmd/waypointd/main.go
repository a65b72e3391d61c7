package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fieldrover/waypointd/internal/config"
	"github.com/fieldrover/waypointd/internal/log"
	"github.com/fieldrover/waypointd/pkg/journal"
	"github.com/fieldrover/waypointd/pkg/nav"
	"github.com/fieldrover/waypointd/pkg/waypoint"
	"github.com/fieldrover/waypointd/pkg/web"
)

func main() {
	configPath := flag.String("config", "waypointd.json", "Path to JSON config")
	listenAddr := flag.String("listen", "", "Override listen address (host:port)")
	navServer := flag.String("nav-server", "", "Override navigation server URL")
	journalPath := flag.String("journal", "", "Override journal path")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debug {
		log.Init("debug")
	} else {
		log.Init("info")
	}

	if err := run(*configPath, *listenAddr, *navServer, *journalPath); err != nil {
		log.Error("waypointd exiting", "error", err)
		os.Exit(1)
	}
}

func run(configPath, listenAddr, navServer, journalPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config %q: %w", configPath, err)
	}
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}
	if navServer != "" {
		cfg.NavServerURL = navServer
	}
	if journalPath != "" {
		cfg.JournalPath = journalPath
	}

	// Context cancelled on SIGINT/SIGTERM for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down")
		cancel()
	}()

	navClient, err := nav.Dial(ctx, cfg.NavServerURL)
	if err != nil {
		return fmt.Errorf("connect navigation server: %w", err)
	}
	defer navClient.Close()

	coord := waypoint.New(waypoint.Options{
		GoalFrameID:       cfg.GoalFrameID,
		WaitDuration:      time.Duration(cfg.WaitDuration * float64(time.Second)),
		DistanceTolerance: cfg.DistanceTolerance,
	}, navClient)

	if cfg.JournalPath != "" {
		store, err := journal.Open(cfg.JournalPath)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer store.Close()
		coord.SetJournal(store)
	}

	srv := web.NewServer(cfg.ListenAddr, coord, cfg.WaypointsArePoses)
	coord.SetPublisher(srv)

	go func() {
		if err := srv.Start(); err != nil {
			log.Error("web server failed", "error", err)
			cancel()
		}
	}()
	defer srv.Shutdown()

	log.Info("waypointd started",
		"listen", cfg.ListenAddr,
		"nav_server", cfg.NavServerURL,
		"goal_frame", cfg.GoalFrameID,
		"mode", ingestionMode(cfg.WaypointsArePoses),
	)

	// The dispatch loop runs until shutdown or a fatal dispatch error
	// (the unimplemented distance-tolerance branch).
	return coord.Run(ctx)
}

func ingestionMode(poses bool) string {
	if poses {
		return "poses"
	}
	return "points"
}
