package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Configuration keys. They double as environment variable names.
const (
	KeyPort          = "PORT"
	KeyGinMode       = "GIN_MODE"
	KeyDevMode       = "DEV_MODE"
	KeyLogLevel      = "LOG_LEVEL"
	KeyFetchTimeout  = "FETCH_TIMEOUT"
	KeyCacheTTL      = "CACHE_TTL"
	KeyRateLimit     = "RATE_LIMIT"
	KeyRateBurst     = "RATE_BURST"
	KeyStopwordsFile = "STOPWORDS_FILE"
)

var (
	errInvalidPort    = errors.New("config: invalid PORT number")
	errInvalidGinMode = errors.New("config: GIN_MODE must be debug, release or test")
	errInvalidTimeout = errors.New("config: FETCH_TIMEOUT must be positive")
	errInvalidTTL     = errors.New("config: CACHE_TTL must not be negative")
	errInvalidRate    = errors.New("config: RATE_LIMIT must be positive")
	errInvalidBurst   = errors.New("config: RATE_BURST must be at least 1")
)

// DotenvFiles are tried in order; the first one found is loaded.
var DotenvFiles = []string{".env.development", ".env"}

// Config holds the application settings.
type Config struct {
	Port          string        `mapstructure:"PORT"`
	GinMode       string        `mapstructure:"GIN_MODE"`
	DevMode       bool          `mapstructure:"DEV_MODE"`
	LogLevel      string        `mapstructure:"LOG_LEVEL"`
	FetchTimeout  time.Duration `mapstructure:"FETCH_TIMEOUT"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`
	RateLimit     float64       `mapstructure:"RATE_LIMIT"`
	RateBurst     int           `mapstructure:"RATE_BURST"`
	StopwordsFile string        `mapstructure:"STOPWORDS_FILE"`
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"port":           KeyPort,
	"dev":            KeyDevMode,
	"log-level":      KeyLogLevel,
	"fetch-timeout":  KeyFetchTimeout,
	"cache-ttl":      KeyCacheTTL,
	"stopwords-file": KeyStopwordsFile,
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyPort, "8082")
	v.SetDefault(KeyGinMode, gin.ReleaseMode)
	v.SetDefault(KeyDevMode, false)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyFetchTimeout, 10*time.Second)
	v.SetDefault(KeyCacheTTL, time.Duration(0))
	v.SetDefault(KeyRateLimit, 2.0)
	v.SetDefault(KeyRateBurst, 5)
	v.SetDefault(KeyStopwordsFile, "")
}

// RegisterFlags adds the overridable settings to fs. Unset flags leave the
// environment value in place.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("port", "8082", "HTTP listen port")
	fs.Bool("dev", false, "development mode: console logs and full statistics")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.Duration("fetch-timeout", 10*time.Second, "timeout for fetching a page")
	fs.Duration("cache-ttl", 0, "keep analysis results in memory for this long (0 disables)")
	fs.String("stopwords-file", "", "stopword list replacing the bundled English list")
}

// LoadEnv loads the first dotenv file that exists. Variables already present
// in the environment are not overridden. It returns the loaded file name, or
// an empty string when none was found.
func LoadEnv(files ...string) string {
	if len(files) == 0 {
		files = DotenvFiles
	}
	for _, f := range files {
		if err := godotenv.Load(f); err == nil {
			return f
		}
	}
	return ""
}

// Load resolves the configuration from defaults, the environment and any
// flags set on fs, in increasing order of precedence. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %q", errInvalidPort, c.Port)
	}

	switch c.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("%w: got %q", errInvalidGinMode, c.GinMode)
	}

	if c.FetchTimeout <= 0 {
		return fmt.Errorf("%w: got %s", errInvalidTimeout, c.FetchTimeout)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("%w: got %s", errInvalidTTL, c.CacheTTL)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("%w: got %v", errInvalidRate, c.RateLimit)
	}
	if c.RateBurst < 1 {
		return fmt.Errorf("%w: got %d", errInvalidBurst, c.RateBurst)
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
