package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime settings for the web frontend and the CLI.
type Config struct {
	ListenAddr      string
	APIURL          string
	HistoryLimit    int
	RefreshInterval time.Duration
	RequestTimeout  time.Duration
	APIRPS          float64
	APIBurst        int
	Location        *time.Location
	OTelEnabled     bool
}

const (
	DefaultAPIURL          = "http://127.0.0.1:8000"
	DefaultHistoryLimit    = 5
	DefaultRefreshInterval = 30 * time.Second
)

// Load reads configuration from the process environment.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:      getenvDefault("LISTEN_ADDR", ":8080"),
		APIURL:          strings.TrimRight(getenvDefault("API_URL", DefaultAPIURL), "/"),
		HistoryLimit:    getenvIntDefault("HISTORY_LIMIT", DefaultHistoryLimit),
		RefreshInterval: getenvDurationDefault("REFRESH_INTERVAL", DefaultRefreshInterval),
		RequestTimeout:  getenvDurationDefault("REQUEST_TIMEOUT", 10*time.Second),
		APIRPS:          getenvFloatDefault("API_RPS", 20),
		APIBurst:        getenvIntDefault("API_BURST", 10),
		OTelEnabled:     getenvBoolDefault("OTEL_ENABLED", false),
	}

	loc, err := loadLocation(os.Getenv("TIME_ZONE"))
	if err != nil {
		return Config{}, err
	}
	cfg.Location = loc

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid API_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid API_URL %q: scheme must be http or https", c.APIURL)
	}
	if c.HistoryLimit <= 0 {
		return errors.New("HISTORY_LIMIT must be > 0")
	}
	if c.RefreshInterval <= 0 {
		return errors.New("REFRESH_INTERVAL must be > 0")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be > 0")
	}
	if c.APIRPS <= 0 {
		return errors.New("API_RPS must be > 0")
	}
	if c.APIBurst <= 0 {
		return errors.New("API_BURST must be > 0")
	}
	return nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid TIME_ZONE %q: %w", name, err)
	}
	return loc, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
