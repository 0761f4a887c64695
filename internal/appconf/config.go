// Package appconf loads the service configuration from defaults, an optional
// YAML file, an optional .env file and the process environment.
package appconf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port     int         `yaml:"port" validate:"gte=1,lte=65535"`
	Env      Environment `yaml:"env"`
	ApiKeys  []string    `yaml:"apiKeys" validate:"dive,required"`
	LogLevel string      `yaml:"logLevel" validate:"omitempty,oneof=debug info warn error"`

	// RateLimit is requests per second per API key; zero disables limiting.
	RateLimit int `yaml:"rateLimit" validate:"gte=0"`
	RateBurst int `yaml:"rateBurst" validate:"gte=0"`

	DatabasePath string `yaml:"databasePath" validate:"required"`
	SeedFile     string `yaml:"seedFile"`

	GoogleMapsAPIKey   string        `yaml:"googleMapsApiKey"`
	DirectionsBaseURL  string        `yaml:"directionsBaseUrl" validate:"omitempty,url"`
	DirectionsTimeout  time.Duration `yaml:"directionsTimeout" validate:"gte=0"`
	DirectionsCacheTTL time.Duration `yaml:"directionsCacheTtl" validate:"gte=0"`
	// RouteFile serves a saved directions response instead of calling the API.
	RouteFile string `yaml:"routeFile"`

	SessionIdleTimeout time.Duration `yaml:"sessionIdleTimeout" validate:"gte=0"`
	PreAnnounceDelay   time.Duration `yaml:"preAnnounceDelay" validate:"gte=0"`
	VoiceVolume        float64       `yaml:"voiceVolume" validate:"gte=0,lte=1"`
	VoiceRate          float64       `yaml:"voiceRate" validate:"gt=0,lte=10"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Port:               4000,
		Env:                Development,
		ApiKeys:            []string{"test"},
		LogLevel:           "info",
		RateLimit:          100,
		RateBurst:          10,
		DatabasePath:       "campusnav.db",
		DirectionsTimeout:  10 * time.Second,
		DirectionsCacheTTL: 5 * time.Minute,
		SessionIdleTimeout: 30 * time.Minute,
		PreAnnounceDelay:   2 * time.Second,
		VoiceVolume:        1.0,
		VoiceRate:          1.0,
	}
}

// LoadOptions names the optional files Load reads. Missing files are skipped.
type LoadOptions struct {
	ConfigFile string
	EnvFile    string
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load builds a validated Config. The environment wins over the .env file,
// which wins over the YAML file.
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	if opts.ConfigFile != "" {
		data, err := os.ReadFile(opts.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", opts.ConfigFile, err)
		}
	}

	dotenv := map[string]string{}
	if opts.EnvFile != "" {
		values, err := godotenv.Read(opts.EnvFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("reading env file: %w", err)
		}
		if values != nil {
			dotenv = values
		}
	}

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	getenv := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	if err := applyEnv(&cfg, getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) (string, bool)) error {
	if v, ok := getenv("CAMPUSNAV_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CAMPUSNAV_PORT: %w", err)
		}
		cfg.Port = port
	}
	if v, ok := getenv("CAMPUSNAV_ENV"); ok {
		if err := cfg.Env.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("CAMPUSNAV_ENV: %w", err)
		}
	}
	if v, ok := getenv("CAMPUSNAV_API_KEYS"); ok {
		cfg.ApiKeys = SplitList(v)
	}
	if v, ok := getenv("CAMPUSNAV_DB_PATH"); ok {
		cfg.DatabasePath = v
	}
	if v, ok := getenv("CAMPUSNAV_LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := getenv("GOOGLE_MAPS_API_KEY"); ok {
		cfg.GoogleMapsAPIKey = v
	}
	return nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Env == Test && c.DatabasePath != ":memory:" {
		return fmt.Errorf("invalid configuration: test environment requires an in-memory database")
	}
	return nil
}

// SplitList splits a comma separated value, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
