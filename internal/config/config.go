package config

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName       = "Baintwallet"
	defaultAppEnv        = "development"
	defaultPort          = "3000"
	defaultLogLevel      = "info"
	defaultChainID       = 1
	defaultChainName     = "Ethereum"
	defaultChainSymbol   = "ETH"
	defaultExplorerURL   = "https://etherscan.io"
	defaultShutdownDelay = 10 * time.Second
	defaultPendingTTL    = 10 * time.Minute
	defaultSMSRateLimit  = 10

	pendingTTLSecondsEnvVar = "PENDING_TTL_SECONDS"
	pendingTTLDurEnvVar     = "PENDING_TTL"
	shutdownSecondsEnvVar   = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar  = "SHUTDOWN_TIMEOUT"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName         string
	AppEnv          string
	Port            string
	LogLevel        string
	DatabaseURL     string
	RedisURL        string
	RPCURL          string
	MasterSecret    string
	ChainID         int64
	ChainName       string
	ChainSymbol     string
	ExplorerURL     string
	ShutdownPeriod  time.Duration
	PendingTTL      time.Duration
	SMSRatePerMin   int
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         getEnv("APP_ENV", defaultAppEnv),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		RPCURL:         os.Getenv("RPC_URL"),
		MasterSecret:   os.Getenv("MASTER_SECRET"),
		ChainID:        defaultChainID,
		ChainName:      getEnv("CHAIN_NAME", defaultChainName),
		ChainSymbol:    getEnv("CHAIN_SYMBOL", defaultChainSymbol),
		ExplorerURL:    getEnv("EXPLORER_URL", defaultExplorerURL),
		ShutdownPeriod: defaultShutdownDelay,
		PendingTTL:     defaultPendingTTL,
		SMSRatePerMin:  defaultSMSRateLimit,
	}

	if v := os.Getenv("CHAIN_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return Config{}, fmt.Errorf("invalid CHAIN_ID: %q", v)
		}
		cfg.ChainID = id
	}

	if v := os.Getenv(shutdownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownSecondsEnvVar, err)
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(shutdownDurationEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownDurationEnvVar, err)
		}
		cfg.ShutdownPeriod = d
	}

	if v := os.Getenv(pendingTTLSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", pendingTTLSecondsEnvVar, err)
		}
		cfg.PendingTTL = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(pendingTTLDurEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", pendingTTLDurEnvVar, err)
		}
		cfg.PendingTTL = d
	}

	if v := os.Getenv("SMS_RATE_LIMIT_PER_MIN"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SMS_RATE_LIMIT_PER_MIN: %w", err)
		}
		cfg.SMSRatePerMin = n
	}

	if cfg.MasterSecret == "" {
		return Config{}, fmt.Errorf("MASTER_SECRET must be set")
	}

	if cfg.RPCURL == "" {
		return Config{}, fmt.Errorf("RPC_URL must be set")
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL must be set")
	}

	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL must be set")
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// ChainIDBig returns the configured chain identifier as a big integer for
// transaction signing.
func (c Config) ChainIDBig() *big.Int {
	return big.NewInt(c.ChainID)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
