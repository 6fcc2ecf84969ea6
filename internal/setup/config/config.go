package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound    = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
)

// CurrentVersion of the config file.
const CurrentVersion = 1

// Config represents the entire application configuration.
type Config struct {
	// Version of the config file.
	Version    int        `koanf:"version"`
	Debug      Debug      `koanf:"debug"`
	PostgreSQL PostgreSQL `koanf:"postgresql"`
	Redis      Redis      `koanf:"redis"`
	Discord    Discord    `koanf:"discord"`
	Moderation Moderation `koanf:"moderation"`
	Sweeper    Sweeper    `koanf:"sweeper"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Maximum number of log sessions to keep on disk.
	MaxLogsToKeep int `koanf:"max_logs_to_keep"`
}

// PostgreSQL contains database connection configuration.
type PostgreSQL struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"db_name"`
	// Connection pool limits.
	MaxOpenConns int `koanf:"max_open_conns"`
	MaxIdleConns int `koanf:"max_idle_conns"`
	// Connection lifetimes in minutes.
	MaxLifetime int `koanf:"max_lifetime"`
	MaxIdleTime int `koanf:"max_idle_time"`
}

// Redis contains Redis connection configuration.
type Redis struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// Discord contains Discord-related configuration.
type Discord struct {
	// Bot token.
	Token string `koanf:"token"`
	// Channel that receives moderation log messages.
	LogChannelID uint64 `koanf:"log_channel_id"`
	// Role IDs forming the staff ladder, in any order; the live role
	// hierarchy decides their ranking.
	StaffLadderRoleIDs []uint64 `koanf:"staff_ladder_roles"`
}

// Moderation contains punishment engine configuration.
type Moderation struct {
	// How many days a staff strike counts toward ladder evaluation.
	StrikeTTLDays int `koanf:"strike_ttl_days"`
	// How many seconds of messages a platform ban deletes.
	BanMessageRetentionSeconds int `koanf:"ban_message_retention_seconds"`
	// How long active-ban cache entries live, in seconds.
	BanCacheTTLSeconds int `koanf:"ban_cache_ttl_seconds"`
}

// Sweeper contains ban-expiry sweeper configuration.
type Sweeper struct {
	// Seconds between sweeps.
	IntervalSeconds int `koanf:"interval_seconds"`
	// Maximum expired bans lifted per sweep.
	BatchSize int `koanf:"batch_size"`
	// Concurrent unban calls per sweep.
	Concurrency int `koanf:"concurrency"`
}

// LoadConfig loads the configuration from the specified file.
// Returns the config along with the used config directory.
func LoadConfig() (*Config, string, error) {
	k := koanf.New(".")

	// Get user's home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get home directory: %w", err)
	}

	// List search paths
	configPaths := []string{
		".warden",
		homeDir + "/.warden/config",
		"/etc/warden/config",
		"/app/config",
		"config",
		".",
	}

	var usedConfigPath string

	for _, path := range configPaths {
		configPath := fmt.Sprintf("%s/warden.toml", path)
		if err := k.Load(file.Provider(configPath), toml.Parser()); err == nil {
			usedConfigPath = path
			break
		}
	}

	if usedConfigPath == "" {
		return nil, "", fmt.Errorf("%w: warden.toml", ErrConfigFileNotFound)
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.Version == 0 {
		return nil, "", fmt.Errorf("%w: warden.toml", ErrConfigVersionMissing)
	}

	if config.Version != CurrentVersion {
		return nil, "", fmt.Errorf("%w: warden.toml (got: %d, expected: %d)",
			ErrConfigVersionMismatch, config.Version, CurrentVersion)
	}

	return &config, usedConfigPath, nil
}
