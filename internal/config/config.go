package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Game    GameConfig    `yaml:"game"`
	Log     LogConfig     `yaml:"log"`
	Status  StatusConfig  `yaml:"status"`
	Storage StorageConfig `yaml:"storage"`
	FTP     FTPConfig     `yaml:"ftp"`
}

// GameConfig identifies the game server being watched
type GameConfig struct {
	Address string `yaml:"address" env:"PZWATCH_GAME_ADDRESS"`
	Port    int    `yaml:"port" env:"PZWATCH_GAME_PORT"`
}

// LogConfig describes the console log source and how often to poll it
type LogConfig struct {
	Source       string        `yaml:"source" env:"PZWATCH_LOG_SOURCE"` // "file" or "ftp"
	Path         string        `yaml:"path" env:"PZWATCH_LOG_PATH"`
	PollInterval time.Duration `yaml:"poll_interval" env:"PZWATCH_POLL_INTERVAL"`
}

// StatusConfig holds the online/offline decision thresholds
type StatusConfig struct {
	IdleTolerance     time.Duration `yaml:"idle_tolerance" env:"PZWATCH_IDLE_TOLERANCE"`
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval" env:"PZWATCH_HEARTBEAT_INTERVAL"`
	ProbeTimeout      time.Duration `yaml:"probe_timeout" env:"PZWATCH_PROBE_TIMEOUT"`
	TailLines         int           `yaml:"tail_lines" env:"PZWATCH_TAIL_LINES"`
}

// StorageConfig holds persistence paths. An empty database path disables
// the event archive.
type StorageConfig struct {
	SnapshotPath string `yaml:"snapshot_path" env:"PZWATCH_SNAPSHOT_PATH"`
	DatabasePath string `yaml:"database_path" env:"PZWATCH_DATABASE_PATH"`
}

// FTPConfig holds credentials for the FTP log source
type FTPConfig struct {
	Host     string `yaml:"host" env:"PZWATCH_FTP_HOST"`
	Port     int    `yaml:"port" env:"PZWATCH_FTP_PORT"`
	User     string `yaml:"user" env:"PZWATCH_FTP_USER"`
	Password string `yaml:"password" env:"PZWATCH_FTP_PASSWORD"`
}

// Load reads configuration from a YAML file, then overlays PZWATCH_*
// environment variables and fills in defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment overrides: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Game.Address == "" {
		c.Game.Address = "127.0.0.1"
	}
	if c.Game.Port == 0 {
		c.Game.Port = 16261
	}
	if c.Log.Source == "" {
		c.Log.Source = "file"
	}
	if c.Log.Path == "" {
		c.Log.Path = "/server-data/server-console.txt"
	}
	if c.Log.PollInterval == 0 {
		c.Log.PollInterval = 30 * time.Second
	}
	if c.Status.IdleTolerance == 0 {
		c.Status.IdleTolerance = 15 * time.Minute
	}
	if c.Status.HeartbeatInterval == 0 {
		c.Status.HeartbeatInterval = 5 * time.Minute
	}
	if c.Status.ProbeTimeout == 0 {
		c.Status.ProbeTimeout = 5 * time.Second
	}
	if c.Status.TailLines == 0 {
		c.Status.TailLines = 20
	}
	if c.Storage.SnapshotPath == "" {
		c.Storage.SnapshotPath = "data/stats.json"
	}
	if c.FTP.Port == 0 {
		c.FTP.Port = 21
	}
	// DatabasePath intentionally has no default - empty disables the archive
}

func (c *Config) validate() error {
	switch c.Log.Source {
	case "file", "ftp":
	default:
		return fmt.Errorf("log.source must be \"file\" or \"ftp\", got %q", c.Log.Source)
	}
	if c.Log.Source == "ftp" && c.FTP.Host == "" {
		return fmt.Errorf("log.source is \"ftp\" but ftp.host is empty")
	}
	if c.Game.Port < 1 || c.Game.Port > 65535 {
		return fmt.Errorf("game.port %d out of range", c.Game.Port)
	}
	return nil
}

// GameAddr returns the probe target as host:port.
func (c *Config) GameAddr() string {
	return fmt.Sprintf("%s:%d", c.Game.Address, c.Game.Port)
}
