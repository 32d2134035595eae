// Package config loads the agent configuration from YAML with
// ${ENV_VAR} placeholder support.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	API struct {
		BaseURL         string `yaml:"base_url"`
		Email           string `yaml:"email"`
		Password        string `yaml:"password"`
		TimeoutSeconds  int    `yaml:"timeout_seconds"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"api"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Search struct {
		RadiusKm float64 `yaml:"radius_km"`
		// Home location for the startup discovery pass. Discovery is
		// skipped when both are zero.
		Lat          float64 `yaml:"lat"`
		Long         float64 `yaml:"long"`
		LocationName string  `yaml:"location_name"`
	} `yaml:"search"`

	Export struct {
		// HistoryPath, when set, is where the booking history XLSX is
		// written after the first refresh.
		HistoryPath string `yaml:"history_path"`
	} `yaml:"export"`

	Booking struct {
		DurationMinutes int `yaml:"duration_minutes"`
	} `yaml:"booking"`

	Reminders struct {
		LeadMinutes            int    `yaml:"lead_minutes"`
		RefreshIntervalMinutes int    `yaml:"refresh_interval_minutes"`
		StorePath              string `yaml:"store_path"`
		// Channel selects the delivery channel: "telegram" or "webpush".
		Channel        string  `yaml:"channel"`
		SendsPerSecond float64 `yaml:"sends_per_second"`
	} `yaml:"reminders"`

	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	WebPush struct {
		VAPIDPublicKey  string `yaml:"vapid_public_key"`
		VAPIDPrivateKey string `yaml:"vapid_private_key"`
		Subscriber      string `yaml:"subscriber"`
		Endpoint        string `yaml:"endpoint"`
		P256DH          string `yaml:"p256dh"`
		Auth            string `yaml:"auth"`
	} `yaml:"webpush"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`
}

// Load reads the config at path; an empty path falls back to
// configs/config.yaml.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) APITimeout() time.Duration {
	if c.API.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.API.CacheTTLSeconds) * time.Second
}

func (c *Config) SearchRadiusKm() float64 {
	if c.Search.RadiusKm <= 0 {
		return 10
	}
	return c.Search.RadiusKm
}

func (c *Config) BookingDuration() time.Duration {
	if c.Booking.DurationMinutes <= 0 {
		return 2 * time.Hour
	}
	return time.Duration(c.Booking.DurationMinutes) * time.Minute
}

func (c *Config) ReminderLead() time.Duration {
	if c.Reminders.LeadMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.Reminders.LeadMinutes) * time.Minute
}

func (c *Config) RefreshInterval() time.Duration {
	if c.Reminders.RefreshIntervalMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(c.Reminders.RefreshIntervalMinutes) * time.Minute
}
