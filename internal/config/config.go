// Package config loads and normalises naskah configuration files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/penerbit-id/naskah/internal/ui/forms"
	"github.com/penerbit-id/naskah/logging"
)

const (
	defaultAddr       = "127.0.0.1"
	defaultPort       = "8080"
	defaultData       = "data"
	defaultName       = "Penerbit Naskah"
	defaultSessionTTL = 2 * time.Hour
	defaultLogFile    = "naskah.log"
	defaultLogLevel   = "info"
	defaultLogSizeMB  = 10
	defaultLogFiles   = 5
	defaultLogRotate  = 24 * time.Hour

	// DefaultMaxUploadBytes leaves room for the text fields next to a maximum-size manuscript.
	DefaultMaxUploadBytes = forms.MaxManuscriptBytes + 1<<20
)

// Store drivers understood by the serve command.
const (
	StoreJSON     = "json"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
	Port string `json:"port" yaml:"port"`
}

// Listen returns the host:port pair for net.Listen.
func (s ServerConfig) Listen() string {
	return strings.TrimSpace(s.Addr) + ":" + strings.TrimPrefix(strings.TrimSpace(s.Port), ":")
}

// AppConfig configures templates, data locations and the wizard session.
type AppConfig struct {
	Name           string   `json:"name" yaml:"name"`
	Templates      string   `json:"templates" yaml:"templates"`
	Data           string   `json:"data" yaml:"data"`
	SessionTTL     Duration `json:"session_ttl" yaml:"session_ttl"`
	MaxUploadBytes int64    `json:"max_upload_bytes" yaml:"max_upload_bytes"`
}

// StoreConfig selects where submissions and publishers live.
type StoreConfig struct {
	Driver      string `json:"driver" yaml:"driver"`
	DatabaseURL string `json:"database_url" yaml:"database_url"`
	SeedFile    string `json:"seed_file" yaml:"seed_file"`
}

// AdminConfig stores the static bearer token for the admin API.
type AdminConfig struct {
	Token string `json:"token" yaml:"token"`
}

// LogConfig configures the logger and its rotating file output.
type LogConfig struct {
	Level     string `json:"level" yaml:"level"`
	Dir       string `json:"dir" yaml:"dir"`
	File      string `json:"file" yaml:"file"`
	MaxSizeMB int    `json:"max_size_mb" yaml:"max_size_mb"`
	MaxFiles  int    `json:"max_files" yaml:"max_files"`
	// RotateEvery starts a new file at least this often.
	RotateEvery Duration `json:"rotate_every" yaml:"rotate_every"`
}

// Path returns the active log file, or "" when file logging is off.
func (l LogConfig) Path() string {
	if strings.TrimSpace(l.Dir) == "" {
		return ""
	}
	return filepath.Join(l.Dir, l.File)
}

// FileOptions maps the log settings onto the rotating file writer.
func (l LogConfig) FileOptions() logging.FileOptions {
	return logging.FileOptions{
		Dir:         l.Dir,
		Name:        l.File,
		MaxBytes:    int64(l.MaxSizeMB) << 20,
		MaxArchives: l.MaxFiles,
		RotateEvery: time.Duration(l.RotateEvery),
	}
}

// Config represents the combined runtime settings.
type Config struct {
	Server ServerConfig `json:"server" yaml:"server"`
	App    AppConfig    `json:"app" yaml:"app"`
	Store  StoreConfig  `json:"store" yaml:"store"`
	Admin  AdminConfig  `json:"admin" yaml:"admin"`
	Log    LogConfig    `json:"log" yaml:"log"`
}

// Duration accepts either a Go duration string ("90m") or a number of seconds.
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return d.set(raw)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return d.set(raw)
}

func (d *Duration) set(raw any) error {
	switch v := raw.(type) {
	case nil:
		*d = 0
	case float64:
		*d = Duration(time.Duration(v * float64(time.Second)))
	case int:
		*d = Duration(time.Duration(v) * time.Second)
	case string:
		parsed, err := parseDuration(v)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration %v", raw)
	}
	return nil
}

func parseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(raw)
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

// Load reads the config at path (JSON or YAML by extension), applies defaults
// and then environment overrides. An empty path skips the file. A .env file in
// the working directory is loaded first when present.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, &cfg)
		default:
			err = json.Unmarshal(data, &cfg)
		}
		if err != nil {
			return Config{}, fmt.Errorf("decode config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	if c.Server.Port == "" {
		c.Server.Port = defaultPort
	}
	if c.App.Name == "" {
		c.App.Name = defaultName
	}
	if c.App.Data == "" {
		c.App.Data = defaultData
	}
	if c.App.SessionTTL <= 0 {
		c.App.SessionTTL = Duration(defaultSessionTTL)
	}
	if c.App.MaxUploadBytes <= 0 {
		c.App.MaxUploadBytes = DefaultMaxUploadBytes
	}
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	if c.Store.Driver == "" {
		if c.Store.DatabaseURL != "" {
			c.Store.Driver = StorePostgres
		} else {
			c.Store.Driver = StoreJSON
		}
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.File == "" {
		c.Log.File = defaultLogFile
	}
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = defaultLogSizeMB
	}
	if c.Log.MaxFiles <= 0 {
		c.Log.MaxFiles = defaultLogFiles
	}
	if c.Log.RotateEvery <= 0 {
		c.Log.RotateEvery = Duration(defaultLogRotate)
	}
}

func (c *Config) applyEnv() error {
	if v := envValue("NASKAH_LISTEN_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := envValue("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := envValue("NASKAH_DATA_DIR"); v != "" {
		c.App.Data = v
	}
	if v := envValue("NASKAH_STORE"); v != "" {
		c.Store.Driver = v
	}
	if v := envValue("DATABASE_URL"); v != "" {
		c.Store.DatabaseURL = v
	}
	if v := envValue("NASKAH_ADMIN_TOKEN"); v != "" {
		c.Admin.Token = v
	}
	if v := envValue("NASKAH_LOG_DIR"); v != "" {
		c.Log.Dir = v
	}
	if v := envValue("NASKAH_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := envValue("NASKAH_SESSION_TTL"); v != "" {
		ttl, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("NASKAH_SESSION_TTL: %w", err)
		}
		c.App.SessionTTL = Duration(ttl)
	}
	return nil
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Server.Addr) == "" && strings.TrimSpace(c.Server.Port) == "" {
		problems = append(problems, "listen address is empty")
	}
	if _, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(c.Server.Port), ":")); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port %q", c.Server.Port))
	}
	switch c.Store.Driver {
	case StoreJSON, StoreMemory:
	case StorePostgres:
		if strings.TrimSpace(c.Store.DatabaseURL) == "" {
			problems = append(problems, "postgres store requires database_url")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown store driver %q", c.Store.Driver))
	}
	if c.App.MaxUploadBytes < forms.MaxManuscriptBytes {
		problems = append(problems, fmt.Sprintf("max_upload_bytes must be at least %d", forms.MaxManuscriptBytes))
	}
	if c.App.SessionTTL <= 0 {
		problems = append(problems, "session_ttl must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envValue(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
