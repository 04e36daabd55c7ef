package main

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/uzochukwuV/massabeam/internal/config"
	"github.com/uzochukwuV/massabeam/internal/constants"
	"github.com/uzochukwuV/massabeam/internal/events"
	"github.com/uzochukwuV/massabeam/internal/logging"
	"github.com/uzochukwuV/massabeam/internal/service"
	"github.com/uzochukwuV/massabeam/internal/storage"
)

func loadConfigOrExit(path string) *config.LoadedConfig {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Fatal("Missing or invalid battlechain configuration", err, logging.Fields{"config_path": path, "hint": "create a battlechain_config.json with at least trait_authority and treasury"})
	}
	return cfg
}

func createRepositoryOrExit(dbPath string) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, logging.Fields{"db_path": dbPath})
	}
	return storage.NewSQLiteRepository(db)
}

// buildPublisher fans events out to the log, the websocket hub and, when
// an address is configured, a Redis channel. The returned close function
// releases the Redis client.
func buildPublisher(cfg *config.LoadedConfig, hub *events.Hub) (events.Publisher, func()) {
	pubs := events.Multi{events.LogPublisher{}, hub}
	if cfg.RedisAddress == "" {
		return pubs, func() {}
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		// Keep publishing; go-redis reconnects once the server is reachable.
		logging.Error("redis not reachable at startup", err, logging.Fields{constants.LogFieldAddr: cfg.RedisAddress})
	}
	pubs = append(pubs, events.NewRedisPublisher(client, cfg.RedisChannel))
	return pubs, func() { _ = client.Close() }
}

func serviceConfig(cfg *config.LoadedConfig) service.Config {
	return service.Config{
		FeeBps:            cfg.FeeBps,
		InactivityTimeout: cfg.InactivityTimeout,
		StartingHealth:    cfg.StartingHealth,
		TraitAuthority:    cfg.TraitAuthority,
		Treasury:          cfg.Treasury,
		PoolAuthority:     cfg.PoolAuthority,
		PoolOracle:        cfg.PoolOracle,
	}
}
