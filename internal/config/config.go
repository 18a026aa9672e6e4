// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pfrederiksen/belle-events/internal/scraper"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	ModeStatic   = scraper.ModeStatic
	ModeRendered = scraper.ModeRendered
)

type Config struct {
	Env     string
	Port    int
	DataDir string

	Source      SourceConfig
	Acquisition AcquisitionConfig
	Extraction  ExtractionConfig
	Calendar    CalendarConfig
	Cache       CacheConfig
	Redis       RedisConfig
	Log         LogConfig
}

// SourceConfig identifies the venue website.
type SourceConfig struct {
	Origin      string
	ListingPath string
	EventPath   string
	UserAgent   string
}

// ListingURL is the absolute URL of the programme page.
func (s SourceConfig) ListingURL() string {
	return strings.TrimRight(s.Origin, "/") + s.ListingPath
}

// AcquisitionConfig controls how the listing document is obtained.
type AcquisitionConfig struct {
	Mode               string
	Timeout            time.Duration
	NavigationTimeout  time.Duration
	ContentWaitTimeout time.Duration
	ScrollStep         int
	ScrollInterval     time.Duration
	SettleDelay        time.Duration
	BrowserPath        string
}

type ExtractionConfig struct {
	VocabularyFile string
}

// CalendarConfig holds the defaults calendar exports fall back on.
type CalendarConfig struct {
	DefaultDuration time.Duration
	DefaultStart    string
	TimeZone        string
	Name            string
}

// CacheConfig drives both the response cache and the Cache-Control header.
type CacheConfig struct {
	TTL                  time.Duration
	StaleWhileRevalidate time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}
	durations := &durationReader{v: v}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.DataDir = v.GetString("DATA_DIR")

	cfg.Source = SourceConfig{
		Origin:      strings.TrimRight(v.GetString("SOURCE_ORIGIN"), "/"),
		ListingPath: v.GetString("SOURCE_LISTING_PATH"),
		EventPath:   v.GetString("SOURCE_EVENT_PATH"),
		UserAgent:   v.GetString("USER_AGENT"),
	}

	cfg.Acquisition = AcquisitionConfig{
		Mode:               strings.ToLower(v.GetString("ACQUISITION_MODE")),
		Timeout:            durations.get("ACQUISITION_TIMEOUT"),
		NavigationTimeout:  durations.get("NAVIGATION_TIMEOUT"),
		ContentWaitTimeout: durations.get("CONTENT_WAIT_TIMEOUT"),
		ScrollStep:         v.GetInt("SCROLL_STEP"),
		ScrollInterval:     durations.get("SCROLL_INTERVAL"),
		SettleDelay:        durations.get("SETTLE_DELAY"),
		BrowserPath:        v.GetString("BROWSER_PATH"),
	}

	cfg.Extraction = ExtractionConfig{
		VocabularyFile: v.GetString("VOCABULARY_FILE"),
	}

	cfg.Calendar = CalendarConfig{
		DefaultDuration: durations.get("CALENDAR_DEFAULT_DURATION"),
		DefaultStart:    v.GetString("CALENDAR_DEFAULT_START"),
		TimeZone:        v.GetString("CALENDAR_TIMEZONE"),
		Name:            v.GetString("CALENDAR_NAME"),
	}

	cfg.Cache = CacheConfig{
		TTL:                  durations.get("CACHE_TTL"),
		StaleWhileRevalidate: durations.get("CACHE_STALE_WHILE_REVALIDATE"),
	}

	cfg.Redis = RedisConfig{
		Addr:     v.GetString("REDIS_ADDR"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	if durations.err != nil {
		return nil, durations.err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the extraction pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Acquisition.Mode != ModeStatic && c.Acquisition.Mode != ModeRendered {
		return fmt.Errorf("invalid ACQUISITION_MODE %q (must be %q or %q)", c.Acquisition.Mode, ModeStatic, ModeRendered)
	}
	if !strings.HasPrefix(c.Source.Origin, "http://") && !strings.HasPrefix(c.Source.Origin, "https://") {
		return fmt.Errorf("invalid SOURCE_ORIGIN %q", c.Source.Origin)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("DATA_DIR", "~/.local/share/belle-events")

	v.SetDefault("SOURCE_ORIGIN", scraper.DefaultOrigin)
	v.SetDefault("SOURCE_LISTING_PATH", scraper.DefaultListingPath)
	v.SetDefault("SOURCE_EVENT_PATH", scraper.DefaultEventPath)
	v.SetDefault("USER_AGENT", scraper.UserAgent)

	render := scraper.DefaultRenderOptions()
	v.SetDefault("ACQUISITION_MODE", ModeStatic)
	v.SetDefault("ACQUISITION_TIMEOUT", scraper.Timeout.String())
	v.SetDefault("NAVIGATION_TIMEOUT", render.NavigationTimeout.String())
	v.SetDefault("CONTENT_WAIT_TIMEOUT", render.ContentWaitTimeout.String())
	v.SetDefault("SCROLL_STEP", render.ScrollStep)
	v.SetDefault("SCROLL_INTERVAL", render.ScrollInterval.String())
	v.SetDefault("SETTLE_DELAY", render.SettleDelay.String())

	v.SetDefault("CALENDAR_DEFAULT_DURATION", "3h")
	v.SetDefault("CALENDAR_DEFAULT_START", "20h")
	v.SetDefault("CALENDAR_TIMEZONE", "Europe/Paris")
	v.SetDefault("CALENDAR_NAME", "La Belle Électrique")

	v.SetDefault("CACHE_TTL", "1h")
	v.SetDefault("CACHE_STALE_WHILE_REVALIDATE", "2h")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// durationReader parses duration settings, keeping the first error.
type durationReader struct {
	v   *viper.Viper
	err error
}

func (r *durationReader) get(key string) time.Duration {
	value := r.v.GetString(key)
	d, err := time.ParseDuration(value)
	if err == nil && d <= 0 {
		err = errors.New("must be positive")
	}
	if err != nil {
		if r.err == nil {
			r.err = fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
		return 0
	}
	return d
}
