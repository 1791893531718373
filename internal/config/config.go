package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Record source strategies.
const (
	QueryDB   = "db"
	QueryHTTP = "http"
)

// Sprite source strategies.
const (
	SpritesEmbedded = "embedded"
	SpritesHTTP     = "http"
)

// DefaultTemplate is the caption printed under the sprite.
const DefaultTemplate = "Wild {pokemon} appeared!"

// DefaultMaxDimension caps sprites on terminals with an image protocol.
const DefaultMaxDimension = 30

// Environment variables read by Load.
const (
	EnvDBPath     = "POKEMONSAY_DB_PATH"
	EnvSpritesDir = "POKEMONSAY_SPRITES_DIR"
)

const envPrefix = "POKEMONSAY_"

// envKeys maps the supported environment variables to config keys.
var envKeys = map[string]string{
	EnvDBPath:     "db_path",
	EnvSpritesDir: "sprites_dir",
}

// envKey keeps the supported variables that are set to a non-empty value.
func envKey(name, value string) (string, any) {
	key, ok := envKeys[name]
	if !ok || value == "" {
		return "", nil
	}
	return key, value
}

type Config struct {
	QueryMethod   string  `koanf:"query_method"`   // "db" or "http"; inferred when empty
	DBPath        string  `koanf:"db_path"`        // PokeAPI SQLite database
	SpritesMethod string  `koanf:"sprites_method"` // "embedded" or "http"; inferred when empty
	SpritesDir    string  `koanf:"sprites_dir"`    // directory of PNG sprites for "embedded"
	GraphQLURL    string  `koanf:"graphql_url"`    // PokeAPI GraphQL endpoint
	Queries       Queries `koanf:"queries"`

	Template      string `koanf:"template"`       // caption, {pokemon} is replaced
	Crop          bool   `koanf:"crop"`           // crop transparent borders
	MaxDimension  *int   `koanf:"max_dimension"`  // 0 disables; default depends on the terminal
	ImageProtocol string `koanf:"image_protocol"` // "auto", "kitty", "iterm", "sixel", "blocks", "none"
	LogLevel      string `koanf:"log_level"`
}

// Queries overrides the built-in queries. Empty means default.
type Queries struct {
	Pokemon     string `koanf:"pokemon"`
	SpeciesName string `koanf:"species_name"`
	Sprites     string `koanf:"sprites"`
	GraphQL     string `koanf:"graphql"`
}

// Load reads the config files and environment. Call Resolve once flags
// have been applied.
func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given TOML files in order (last wins), skipping those
// that do not exist, then applies the environment.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.ProviderWithValue(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	cfg := &Config{
		Template: DefaultTemplate,
		LogLevel: "warn",
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.DBPath = expandPath(cfg.DBPath)
	cfg.SpritesDir = expandPath(cfg.SpritesDir)
	cfg.GraphQLURL = strings.TrimSpace(cfg.GraphQLURL)

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/pokemonsay/config.toml
		filepath.Join(xdg.ConfigHome, "pokemonsay", "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// Resolve fills in inferred strategies and validates the result.
// The record source defaults to "db" when a database path is set, and the
// sprite source to "embedded" when a sprites directory is set; both fall
// back to "http" otherwise.
func (c *Config) Resolve() error {
	if c.QueryMethod == "" {
		c.QueryMethod = QueryHTTP
		if c.DBPath != "" {
			c.QueryMethod = QueryDB
		}
	}
	if c.SpritesMethod == "" {
		c.SpritesMethod = SpritesHTTP
		if c.SpritesDir != "" {
			c.SpritesMethod = SpritesEmbedded
		}
	}
	if c.ImageProtocol == "" {
		c.ImageProtocol = "auto"
	}

	switch c.QueryMethod {
	case QueryDB:
		if c.DBPath == "" {
			return fmt.Errorf("query method %q requires a database path (db_path or %s)", QueryDB, EnvDBPath)
		}
	case QueryHTTP:
	default:
		return fmt.Errorf("unknown query method %q (want %q or %q)", c.QueryMethod, QueryDB, QueryHTTP)
	}

	switch c.SpritesMethod {
	case SpritesEmbedded:
		if c.SpritesDir == "" {
			return fmt.Errorf("sprites method %q requires a sprites directory (sprites_dir or %s)", SpritesEmbedded, EnvSpritesDir)
		}
	case SpritesHTTP:
	default:
		return fmt.Errorf("unknown sprites method %q (want %q or %q)", c.SpritesMethod, SpritesEmbedded, SpritesHTTP)
	}

	if c.MaxDimension != nil && *c.MaxDimension < 0 {
		return errors.New("max_dimension must not be negative")
	}
	return nil
}

// GetMaxDimension returns the configured cap, or the default for the
// terminal: DefaultMaxDimension when it can display images, 0 otherwise.
func (c *Config) GetMaxDimension(imagesSupported bool) int {
	if c.MaxDimension != nil {
		return *c.MaxDimension
	}
	if imagesSupported {
		return DefaultMaxDimension
	}
	return 0
}
