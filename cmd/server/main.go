package main

import (
	"fmt"
	"log"
	"time"

	"kaliteedi/internal/app"
	"kaliteedi/internal/config"
	"kaliteedi/internal/ports"
	"kaliteedi/internal/ports/httpapi"
	"kaliteedi/internal/ports/natsio"
	"kaliteedi/internal/scorestore"
)

const gameConfigPath = "data/game_config.json"

func openScoreStore(cfg config.ServerConfig) (ports.ScoreStorePort, func(), error) {
	switch cfg.ScoreBackend {
	case "memory":
		return scorestore.NewMemoryStore(), func() {}, nil
	case "file":
		store, err := scorestore.NewFileStore(cfg.ScoreFile)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case "sqlite":
		store, err := scorestore.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown score backend %q", cfg.ScoreBackend)
	}
}

func main() {
	cfg, err := config.ParseServerEnv()
	if err != nil {
		log.Fatalf("server config: %v", err)
	}
	if err := config.Load(gameConfigPath); err != nil {
		log.Printf("game config not loaded, using defaults: %v", err)
	}

	store, closeStore, err := openScoreStore(cfg)
	if err != nil {
		log.Fatalf("score store: %v", err)
	}
	defer closeStore()
	log.Printf("score backend: %s", cfg.ScoreBackend)

	registry := app.NewRegistry(store, nil)

	var invites *app.InviteService
	if cfg.InviteSecret != "" {
		ttl := time.Duration(config.Get().InviteTTLMinutes) * time.Minute
		invites = app.NewInviteService(cfg.InviteSecret, cfg.InviteIssuer, ttl)
	} else {
		log.Printf("KALITEEDI_INVITE_SECRET not set, room invites disabled")
	}

	var sink app.EventSink
	if cfg.NATSURL != "" {
		publisher, err := natsio.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("nats: %v", err)
		}
		defer publisher.Close()
		sink = publisher
		log.Printf("publishing events to %s", cfg.NATSURL)
	}

	router := httpapi.NewRouter(httpapi.NewHandler(registry, invites, sink))
	log.Printf("listening on %s", cfg.Addr)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
