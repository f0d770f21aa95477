package app

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Storage backends selectable through Config.Storage.
const (
	StorageFile   = "file"
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

const (
	// EnvPassphrase supplies the file storage passphrase when no flag is given.
	EnvPassphrase = "CIPHERGATE_PASSPHRASE"

	configFilename    = "config.toml"
	publicKeyFilename = "server_public.pem"
	homeDirname       = ".ciphergate"
)

// Config holds runtime wiring options for building the client.
type Config struct {
	Home          string        // state directory, e.g. $HOME/.ciphergate
	BaseURL       string        // backend origin, e.g. http://127.0.0.1:8080
	PublicKeyFile string        // armored SPKI RSA key of the backend
	PublicKey     string        // inline armored key, wins over PublicKeyFile
	Storage       string        // file, memory or redis
	Profile       string        // storage namespace
	Passphrase    string        // seals file storage
	RedisAddr     string        // redis storage address
	RedisPassword string        // redis storage password
	RedisDB       int           // redis storage database
	SessionTTL    time.Duration // redis key lifetime
	HTTPTimeout   time.Duration // whole-request timeout
	LogLevel      string        // zerolog level name
	HTTP          *http.Client  // optional; cloned, then given a cookie jar
}

// DefaultHome returns $HOME/.ciphergate.
func DefaultHome() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, homeDirname), nil
}

// DefaultConfigPath returns the config file location inside home.
func DefaultConfigPath(home string) string { return filepath.Join(home, configFilename) }

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig(home string) Config {
	return Config{
		Home:          home,
		BaseURL:       "http://127.0.0.1:8080",
		PublicKeyFile: filepath.Join(home, publicKeyFilename),
		Storage:       StorageFile,
		Profile:       "default",
		Passphrase:    os.Getenv(EnvPassphrase),
		RedisAddr:     "127.0.0.1:6379",
		SessionTTL:    time.Hour,
		HTTPTimeout:   30 * time.Second,
		LogLevel:      "info",
	}
}

type fileConfig struct {
	BaseURL       string `toml:"base_url"`
	PublicKeyFile string `toml:"public_key_file"`
	PublicKey     string `toml:"public_key"`
	Storage       string `toml:"storage"`
	Profile       string `toml:"profile"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	SessionTTL    string `toml:"session_ttl"`
	HTTPTimeout   string `toml:"http_timeout"`
	LogLevel      string `toml:"log_level"`
}

// LoadConfig applies the TOML file at path on top of cfg. A missing file
// leaves cfg unchanged.
func LoadConfig(path string, cfg Config) (Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("base_url") {
		cfg.BaseURL = strings.TrimSpace(raw.BaseURL)
	}
	if meta.IsDefined("public_key_file") {
		cfg.PublicKeyFile = expandHome(strings.TrimSpace(raw.PublicKeyFile), cfg.Home)
	}
	if meta.IsDefined("public_key") {
		cfg.PublicKey = raw.PublicKey
	}
	if meta.IsDefined("storage") {
		cfg.Storage = strings.ToLower(strings.TrimSpace(raw.Storage))
	}
	if meta.IsDefined("profile") {
		cfg.Profile = strings.TrimSpace(raw.Profile)
	}
	if meta.IsDefined("redis_addr") {
		cfg.RedisAddr = strings.TrimSpace(raw.RedisAddr)
	}
	if meta.IsDefined("redis_password") {
		cfg.RedisPassword = raw.RedisPassword
	}
	if meta.IsDefined("redis_db") {
		cfg.RedisDB = raw.RedisDB
	}
	if meta.IsDefined("session_ttl") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.SessionTTL))
		if err != nil {
			return Config{}, fmt.Errorf("parse session_ttl: %w", err)
		}
		cfg.SessionTTL = d
	}
	if meta.IsDefined("http_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.HTTPTimeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse http_timeout: %w", err)
		}
		cfg.HTTPTimeout = d
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("config base_url: required")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("config base_url: %q is not an http(s) URL", c.BaseURL)
	}
	if c.PublicKey == "" && c.PublicKeyFile == "" {
		return fmt.Errorf("config public_key: set public_key or public_key_file")
	}
	if c.Profile == "" || strings.ContainsAny(c.Profile, `/\`) {
		return fmt.Errorf("config profile: %q is not a valid name", c.Profile)
	}
	switch c.Storage {
	case StorageMemory:
	case StorageFile:
		if c.Passphrase == "" {
			return fmt.Errorf("config storage: file storage needs a passphrase (-p or %s)", EnvPassphrase)
		}
	case StorageRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("config redis_addr: required for redis storage")
		}
		if c.SessionTTL < 0 {
			return fmt.Errorf("config session_ttl: must not be negative")
		}
	default:
		return fmt.Errorf("config storage: unknown backend %q", c.Storage)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("config http_timeout: must not be negative")
	}
	return nil
}

// LoadPublicKeyPEM returns the armored backend key, inline or from file.
func (c Config) LoadPublicKeyPEM() (string, error) {
	if c.PublicKey != "" {
		return c.PublicKey, nil
	}
	b, err := os.ReadFile(c.PublicKeyFile)
	if err != nil {
		return "", fmt.Errorf("read public key: %w", err)
	}
	return string(b), nil
}

func expandHome(path, home string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if dir, err := os.UserHomeDir(); err == nil {
			return filepath.Join(dir, rest)
		}
	}
	return filepath.Join(home, path)
}
