package config

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"fortuneblock/database"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	// Chain configuration
	RPCURL             string
	ContractAddress    string
	ChainID            *big.Int // nil means ask the node
	PrivateKey         string
	KeystorePath       string
	KeystorePassphrase string
	ArtifactPath       string // compiled contract used by deploy
	Confirmations      uint64
	CurrencySymbol     string

	// Database configuration
	DatabaseURL      string
	DatabaseName     string
	DatabaseMaxConns int32

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated), empty uses the in-process bus

	// Discord configuration
	DiscordToken      string
	GuildID           string
	AnnounceChannelID string // Channel where lottery announcements are posted

	// HTTP API configuration
	HTTPAddr    string
	CORSOrigins []string

	// Worker configuration
	SyncInterval time.Duration

	// OpenTelemetry metrics
	OTelEnabled        bool
	OTelExporterType   string // otlp, stdout (alias console) or none
	OTelOTLPEndpoint   string
	OTelExportInterval time.Duration

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance. A .env file in the working
// directory is loaded first; variables already set in the environment win.
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Warnf("Failed to load .env file: %v", err)
		}

		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// DatabasePool returns the pool settings for the snapshot database
func (c *Config) DatabasePool() database.PoolOptions {
	return database.PoolOptions{
		MaxConns:        c.DatabaseMaxConns,
		ApplicationName: "fortuneblock",
	}
}

// Contract returns the configured contract address
func (c *Config) Contract() (common.Address, error) {
	if !common.IsHexAddress(c.ContractAddress) {
		return common.Address{}, fmt.Errorf("CONTRACT_ADDRESS %q is not a valid address", c.ContractAddress)
	}
	return common.HexToAddress(c.ContractAddress), nil
}

// HasSigner reports whether a key for signing transactions is configured
func (c *Config) HasSigner() bool {
	return c.PrivateKey != "" || c.KeystorePath != ""
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Chain
		RPCURL:             getEnvWithDefault("RPC_URL", "http://127.0.0.1:8545"),
		ContractAddress:    os.Getenv("CONTRACT_ADDRESS"),
		PrivateKey:         os.Getenv("PRIVATE_KEY"),
		KeystorePath:       os.Getenv("KEYSTORE_PATH"),
		KeystorePassphrase: os.Getenv("KEYSTORE_PASSPHRASE"),
		ArtifactPath:       getEnvWithDefault("ARTIFACT_PATH", "build/contracts/FortuneBlock.json"),
		Confirmations:      5,
		CurrencySymbol:     getEnvWithDefault("CURRENCY_SYMBOL", "GAS"),

		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// NATS
		NATSServers: os.Getenv("NATS_SERVERS"),

		// Discord
		DiscordToken:      os.Getenv("DISCORD_TOKEN"),
		GuildID:           os.Getenv("GUILD_ID"),
		AnnounceChannelID: os.Getenv("ANNOUNCE_CHANNEL_ID"),

		// HTTP
		HTTPAddr: getEnvWithDefault("HTTP_ADDR", ":8080"),

		// Worker
		SyncInterval: 30 * time.Second,

		// OpenTelemetry
		OTelEnabled:        os.Getenv("OTEL_ENABLED") == "true",
		OTelExporterType:   getEnvWithDefault("OTEL_EXPORTER_TYPE", "otlp"),
		OTelOTLPEndpoint:   getEnvWithDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTelExportInterval: 60 * time.Second,

		// Logging
		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),
		LogJSON:  os.Getenv("LOG_FORMAT") == "json",

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	if chainID := os.Getenv("CHAIN_ID"); chainID != "" {
		id, ok := new(big.Int).SetString(chainID, 10)
		if !ok || id.Sign() <= 0 {
			return nil, fmt.Errorf("CHAIN_ID %q is not a positive integer", chainID)
		}
		config.ChainID = id
	}

	if confirmations := os.Getenv("CONFIRMATIONS"); confirmations != "" {
		parsed, err := strconv.ParseUint(confirmations, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("CONFIRMATIONS %q is not a number", confirmations)
		}
		config.Confirmations = parsed
	}

	if maxConns := os.Getenv("DATABASE_MAX_CONNS"); maxConns != "" {
		parsed, err := strconv.ParseInt(maxConns, 10, 32)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("DATABASE_MAX_CONNS %q is not a positive number", maxConns)
		}
		config.DatabaseMaxConns = int32(parsed)
	}

	if interval := os.Getenv("SYNC_INTERVAL"); interval != "" {
		parsed, err := time.ParseDuration(interval)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("SYNC_INTERVAL %q is not a positive duration", interval)
		}
		config.SyncInterval = parsed
	}

	if interval := os.Getenv("OTEL_EXPORT_INTERVAL"); interval != "" {
		parsed, err := time.ParseDuration(interval)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("OTEL_EXPORT_INTERVAL %q is not a positive duration", interval)
		}
		config.OTelExportInterval = parsed
	}

	// Parse CORS origins
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				config.CORSOrigins = append(config.CORSOrigins, origin)
			}
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.ContractAddress != "" && !common.IsHexAddress(config.ContractAddress) {
			return nil, fmt.Errorf("CONTRACT_ADDRESS %q is not a valid address", config.ContractAddress)
		}
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:    "test",
		RPCURL:         "http://127.0.0.1:8545",
		CurrencySymbol: "GAS",
		Confirmations:  1,
		HTTPAddr:       ":0",
		SyncInterval:   time.Second,
		LogLevel:       "debug",
	}
}
