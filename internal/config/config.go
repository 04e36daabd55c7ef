package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type rawConfig struct {
	Server *struct {
		Address string `json:"address"`
	} `json:"server"`
	FeeBps                   *int   `json:"fee_bps"`
	InactivityTimeoutSeconds int64  `json:"inactivity_timeout_seconds"`
	StartingHealth           uint64 `json:"starting_health"`
	TraitAuthority           string `json:"trait_authority"`
	Treasury                 string `json:"treasury"`
	Pool                     *struct {
		Authority string `json:"authority"`
		Oracle    string `json:"oracle"`
	} `json:"pool"`
	Keeper *struct {
		Enabled         bool  `json:"enabled"`
		IntervalSeconds int64 `json:"interval_seconds"`
	} `json:"keeper"`
	Redis *struct {
		Address string `json:"address"`
		Channel string `json:"channel"`
	} `json:"redis"`
	DevAuth  bool   `json:"dev_auth"`
	LogLevel string `json:"log_level"`
}

// envOverrides holds values that may be supplied through the environment.
// Empty values leave the file configuration untouched.
type envOverrides struct {
	DBPath        string `env:"BATTLECHAIN_DB"`
	Address       string `env:"BATTLECHAIN_ADDR"`
	RedisAddress  string `env:"REDIS_ADDR"`
	KeeperEnabled *bool  `env:"BATTLECHAIN_KEEPER"`
	LogLevel      string `env:"LOG_LEVEL"`
}

// LoadedConfig contains the settings the server needs at startup.
type LoadedConfig struct {
	ServerAddress     string
	DBPath            string
	FeeBps            uint16
	InactivityTimeout time.Duration
	StartingHealth    uint64
	TraitAuthority    string
	Treasury          string
	PoolAuthority     string
	PoolOracle        string
	KeeperEnabled     bool
	KeeperInterval    time.Duration
	RedisAddress      string
	RedisChannel      string
	DevAuth           bool
	LogLevel          string
}

const (
	DefaultAddress           = ":8080"
	DefaultFeeBps            = 200
	DefaultInactivityTimeout = 300 * time.Second
	DefaultStartingHealth    = 100
	DefaultKeeperInterval    = 5 * time.Second
	DefaultRedisChannel      = "battlechain:events"
	DefaultDBPath            = "./data/battlechain.db"
)

// LoadConfig reads the configuration file at path, applies defaults and
// environment overrides, and validates the result.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg, err := fromRaw(rc)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromRaw(rc rawConfig) (*LoadedConfig, error) {
	cfg := &LoadedConfig{
		ServerAddress:     DefaultAddress,
		DBPath:            DefaultDBPath,
		FeeBps:            DefaultFeeBps,
		InactivityTimeout: DefaultInactivityTimeout,
		StartingHealth:    DefaultStartingHealth,
		KeeperInterval:    DefaultKeeperInterval,
		RedisChannel:      DefaultRedisChannel,
		TraitAuthority:    strings.TrimSpace(rc.TraitAuthority),
		Treasury:          strings.TrimSpace(rc.Treasury),
		DevAuth:           rc.DevAuth,
		LogLevel:          rc.LogLevel,
	}
	if rc.Server != nil && rc.Server.Address != "" {
		cfg.ServerAddress = rc.Server.Address
	}
	if rc.FeeBps != nil {
		if *rc.FeeBps < 0 || *rc.FeeBps > 10000 {
			return nil, fmt.Errorf("fee_bps must be within [0, 10000], got %d", *rc.FeeBps)
		}
		cfg.FeeBps = uint16(*rc.FeeBps)
	}
	if rc.InactivityTimeoutSeconds < 0 {
		return nil, fmt.Errorf("inactivity_timeout_seconds must not be negative")
	}
	if rc.InactivityTimeoutSeconds > 0 {
		cfg.InactivityTimeout = time.Duration(rc.InactivityTimeoutSeconds) * time.Second
	}
	if rc.StartingHealth > 0 {
		cfg.StartingHealth = rc.StartingHealth
	}
	if rc.Pool != nil {
		cfg.PoolAuthority = strings.TrimSpace(rc.Pool.Authority)
		cfg.PoolOracle = strings.TrimSpace(rc.Pool.Oracle)
	}
	if rc.Keeper != nil {
		cfg.KeeperEnabled = rc.Keeper.Enabled
		if rc.Keeper.IntervalSeconds > 0 {
			cfg.KeeperInterval = time.Duration(rc.Keeper.IntervalSeconds) * time.Second
		}
	}
	if rc.Redis != nil {
		cfg.RedisAddress = strings.TrimSpace(rc.Redis.Address)
		if rc.Redis.Channel != "" {
			cfg.RedisChannel = rc.Redis.Channel
		}
	}

	// The trait authority and treasury are identities other components
	// compare against; an empty value would silently disable those checks.
	if cfg.TraitAuthority == "" {
		return nil, fmt.Errorf("trait_authority is required")
	}
	if cfg.Treasury == "" {
		return nil, fmt.Errorf("treasury is required")
	}
	return cfg, nil
}

func applyEnv(cfg *LoadedConfig) error {
	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if ov.DBPath != "" {
		cfg.DBPath = ov.DBPath
	}
	if ov.Address != "" {
		cfg.ServerAddress = ov.Address
	}
	if ov.RedisAddress != "" {
		cfg.RedisAddress = ov.RedisAddress
	}
	if ov.KeeperEnabled != nil {
		cfg.KeeperEnabled = *ov.KeeperEnabled
	}
	if ov.LogLevel != "" {
		cfg.LogLevel = ov.LogLevel
	}
	return nil
}
