// Package config loads hush settings from defaults, a YAML file, a .env file
// and HUSH_* environment variables, in that order, and validates the result
// against an embedded CUE schema.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HUSH_"

// Config holds runtime settings.
type Config struct {
	DBPath          string `yaml:"db_path" json:"db_path"`
	LogLevel        string `yaml:"log_level" json:"log_level"`
	LogFormat       string `yaml:"log_format" json:"log_format"`
	BusyTimeoutMS   int    `yaml:"busy_timeout_ms" json:"busy_timeout_ms"`
	ScreenTimeoutMS int    `yaml:"screen_timeout_ms" json:"screen_timeout_ms"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DBPath:          "hush.db",
		LogLevel:        "info",
		LogFormat:       "text",
		BusyTimeoutMS:   5000,
		ScreenTimeoutMS: 2000,
	}
}

// BusyTimeout returns the SQLite busy timeout.
func (c Config) BusyTimeout() time.Duration {
	return time.Duration(c.BusyTimeoutMS) * time.Millisecond
}

// ScreenTimeout returns the per-decision storage deadline.
func (c Config) ScreenTimeout() time.Duration {
	return time.Duration(c.ScreenTimeoutMS) * time.Millisecond
}

// Sources selects where Load reads from. Empty paths are skipped.
type Sources struct {
	// File is a YAML config file. It must exist when set.
	File string

	// EnvFile is a .env file. A missing file is ignored.
	EnvFile string

	// LookupEnv reads process environment. Defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)
}

// Load merges every source over Default and validates the result.
func Load(src Sources) (Config, error) {
	cfg := Default()

	if src.File != "" {
		if err := loadFile(src.File, &cfg); err != nil {
			return Config{}, err
		}
	}

	dotenv := map[string]string{}
	if src.EnvFile != "" {
		vals, err := godotenv.Read(src.EnvFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read env file %s: %w", src.EnvFile, err)
		default:
			dotenv = vals
		}
	}

	lookup := src.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	// Process environment wins over .env, matching godotenv.Load.
	get := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	if err := applyEnv(&cfg, get); err != nil {
		return Config{}, err
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, get func(string) (string, bool)) error {
	strs := map[string]*string{
		"DB_PATH":    &cfg.DBPath,
		"LOG_LEVEL":  &cfg.LogLevel,
		"LOG_FORMAT": &cfg.LogFormat,
	}
	for key, dst := range strs {
		if v, ok := get(EnvPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"BUSY_TIMEOUT_MS":   &cfg.BusyTimeoutMS,
		"SCREEN_TIMEOUT_MS": &cfg.ScreenTimeoutMS,
	}
	for key, dst := range ints {
		v, ok := get(EnvPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: not an integer: %q", EnvPrefix, key, v)
		}
		*dst = n
	}
	return nil
}

// Validate checks cfg against the embedded schema.
func Validate(cfg Config) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	v := def.Unify(ctx.Encode(cfg))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
