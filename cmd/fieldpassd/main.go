package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fieldpass/fieldpass/internal/config"
	"github.com/fieldpass/fieldpass/internal/crm"
	"github.com/fieldpass/fieldpass/internal/mock"
	"github.com/fieldpass/fieldpass/internal/progression"
)

func main() {
	mockMode := flag.Bool("mock", false, "Generate synthetic field events instead of connecting to the CRM")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	cacheDir := flag.String("cache-dir", "", "Override progress cache directory")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dir := cfg.Cache.Dir
	if *cacheDir != "" {
		dir = *cacheDir
	}
	store := progression.NewFileStore(dir)

	engine, err := progression.NewEngine(store, progression.DefaultLadder())
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	engine.SeedSeasonEnd(cfg.Season.EndsAt)
	engine.OnNotify(func(n progression.Notification) {
		switch n.Type {
		case progression.NoteTierUnlocked:
			log.Printf("Tier %d unlocked!", n.Level)
		case progression.NoteMissionComplete:
			log.Printf("Mission complete: %s (+%d XP)", n.MissionTitle, n.XPGranted)
		case progression.NoteRewardClaimed:
			log.Printf("Reward claimed: %s", n.RewardName)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var source <-chan progression.ActionEvent
	if *mockMode {
		log.Println("Starting in mock mode")
		gen := mock.NewGenerator(2 * time.Second)
		gen.Start(ctx)
		source = gen.Events()
	} else {
		log.Printf("Connecting to CRM at %s", cfg.Server.BaseURL)
		client := crm.NewClient(cfg.Server.BaseURL, cfg.Server.Token)
		go engine.Hydrate(ctx, client, cfg.Leaderboard.Limit)

		feed := crm.NewFeed(cfg.Server.FeedURL, cfg.Server.Token)
		go feed.Run(ctx)
		source = feed.Events()
	}

	// Events without an XP amount fall back to the configured per-action
	// table before they reach the engine.
	events := make(chan progression.ActionEvent, 16)
	go func() {
		defer close(events)
		for ev := range source {
			if ev.XP == 0 && ev.Type != "" {
				ev.XP = cfg.XPForAction(ev.Type)
			}
			events <- ev
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		cancel()
	}()

	engine.Run(ctx, events)
}
