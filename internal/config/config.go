package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultPath is the config file looked up when no --config flag is given.
const DefaultPath = "espalier.toml"

// Config holds the full server configuration.
type Config struct {
	CommandBlocking CommandBlocking `toml:"command_blocking"`
	Expect          Expect          `toml:"expect"`
	Store           Store           `toml:"store"`
	Server          Server          `toml:"server"`
}

// CommandBlocking controls the shell command blocklist.
type CommandBlocking struct {
	// ProhibitedCommands are matched against incoming shell commands.
	// Entries keep their trailing spaces on purpose.
	ProhibitedCommands []string `toml:"prohibited_commands"`
	// Override disables blocking entirely when true.
	Override bool `toml:"override"`
}

// Expect tunes the script engine.
type Expect struct {
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Terminator     string `toml:"terminator"`
}

// Store selects and configures transcript persistence.
type Store struct {
	// Backend is one of "memory", "file" or "redis".
	Backend string `toml:"backend"`
	// Path is the directory for the file backend.
	Path string `toml:"path"`

	// EncryptionKey, when set, seals transcripts with AES-256-GCM before
	// they reach the backend. Base64 of exactly 32 bytes.
	EncryptionKey string `toml:"encryption_key"`
	// EncryptionFallbackKeys are tried when decryption with the active
	// key fails, enabling key rotation without re-encrypting the store.
	EncryptionFallbackKeys []string `toml:"encryption_fallback_keys"`

	// PIIPatterns are regular expressions masked out of transcripts
	// before they are persisted.
	PIIPatterns []string `toml:"pii_patterns"`

	Redis Redis `toml:"redis"`
}

// Redis configures the redis store backend.
type Redis struct {
	Address    string `toml:"address"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	Prefix     string `toml:"prefix"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// Server configures the HTTP API listener.
type Server struct {
	Port int `toml:"port"`
}

// Default returns the safe default configuration, used when no config
// file is present or the present one cannot be parsed.
func Default() *Config {
	return &Config{
		CommandBlocking: CommandBlocking{
			ProhibitedCommands: []string{"rm ", "mv ", "sudo ", "su "},
			Override:           false,
		},
		Expect: Expect{
			TimeoutSeconds: 30,
			Terminator:     "\n",
		},
		Store: Store{
			Backend: "memory",
			Redis: Redis{
				Address: "localhost:6379",
			},
		},
		Server: Server{
			Port: 8080,
		},
	}
}

// Load reads and parses the configuration file at path.
// A missing file is not an error: the defaults are returned. A file
// that exists but cannot be parsed also yields the defaults, together
// with the parse error so the caller can log it and carry on.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return Default(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Default(), err
	}

	return cfg, nil
}

// Validate checks the decoded values.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "memory", "file", "redis":
	default:
		return fmt.Errorf("unknown store backend %q (expected memory, file or redis)", c.Store.Backend)
	}
	if c.Expect.TimeoutSeconds <= 0 {
		return fmt.Errorf("expect timeout_seconds must be positive, got %d", c.Expect.TimeoutSeconds)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Store.EncryptionKey != "" {
		if _, err := decodeKey(c.Store.EncryptionKey); err != nil {
			return fmt.Errorf("store encryption_key: %w", err)
		}
	}
	for i, k := range c.Store.EncryptionFallbackKeys {
		if _, err := decodeKey(k); err != nil {
			return fmt.Errorf("store encryption_fallback_keys[%d]: %w", i, err)
		}
	}
	for i, p := range c.Store.PIIPatterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("store pii_patterns[%d]: %w", i, err)
		}
	}
	return nil
}

// EncryptionKeyBytes decodes the active store encryption key. Returns
// nil when encryption is not configured.
func (c *Config) EncryptionKeyBytes() ([]byte, error) {
	if c.Store.EncryptionKey == "" {
		return nil, nil
	}
	return decodeKey(c.Store.EncryptionKey)
}

// EncryptionFallbackKeyBytes decodes the configured fallback keys.
func (c *Config) EncryptionFallbackKeyBytes() ([][]byte, error) {
	keys := make([][]byte, 0, len(c.Store.EncryptionFallbackKeys))
	for _, k := range c.Store.EncryptionFallbackKeys {
		decoded, err := decodeKey(k)
		if err != nil {
			return nil, err
		}
		keys = append(keys, decoded)
	}
	return keys, nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must be 32 bytes (AES-256), got %d", len(key))
	}
	return key, nil
}

// ExpectTimeout returns the engine timeout as a duration.
func (c *Config) ExpectTimeout() time.Duration {
	return time.Duration(c.Expect.TimeoutSeconds) * time.Second
}

// RedisTTL returns the redis transcript TTL as a duration.
func (c *Config) RedisTTL() time.Duration {
	return time.Duration(c.Store.Redis.TTLSeconds) * time.Second
}
