// Package config loads and validates agent configuration via Viper.
//
// Every key can be overridden from the environment with the MENU_ prefix
// and dots replaced by underscores, e.g. MENU_SCHEDULE_CRON. Mail
// credentials are not part of this config; the mailer reads them from the
// environment at send time.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/JakeFAU/weekly-menu-agent/internal/scheduler"
)

// EnvConfigFile names an optional YAML file when no path is passed to Load.
const EnvConfigFile = "MENU_CONFIG_FILE"

// Config captures all agent configuration knobs.
type Config struct {
	Source    SourceConfig    `mapstructure:"source"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Menu      MenuConfig      `mapstructure:"menu"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Mail      MailConfig      `mapstructure:"mail"`
	Server    ServerConfig    `mapstructure:"server"`
	PubSub    PubSubConfig    `mapstructure:"pubsub"`
	Progress  ProgressConfig  `mapstructure:"progress"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// SourceConfig describes the site being scraped.
type SourceConfig struct {
	ListingURL        string `mapstructure:"listing_url"`
	Origin            string `mapstructure:"origin"`
	RecipePath        string `mapstructure:"recipe_path"`
	StructuredDataID  string `mapstructure:"structured_data_id"`
	IngredientHeading string `mapstructure:"ingredient_heading"`
}

// HTTPConfig configures the page fetcher.
type HTTPConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	UserAgent     string        `mapstructure:"user_agent"`
	RespectRobots bool          `mapstructure:"respect_robots"`
}

// MenuConfig controls sampling.
type MenuConfig struct {
	Size int `mapstructure:"size"`
	// Seed fixes the sampling order; zero seeds from the clock.
	Seed uint64 `mapstructure:"seed"`
}

// ScheduleConfig holds the weekly trigger.
type ScheduleConfig struct {
	Cron         string        `mapstructure:"cron"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Timezone     string        `mapstructure:"timezone"`
}

// SMTPConfig is the outgoing mail endpoint.
type SMTPConfig struct {
	Host    string        `mapstructure:"host"`
	Port    int           `mapstructure:"port"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// MailConfig shapes the message.
type MailConfig struct {
	Subject  string   `mapstructure:"subject"`
	Weekdays []string `mapstructure:"weekdays"`
}

// ServerConfig controls the optional ops HTTP server.
type ServerConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	Port       int  `mapstructure:"port"`
	RunHistory int  `mapstructure:"run_history"`
}

// PubSubConfig enables run summary publishing when both fields are set.
type PubSubConfig struct {
	ProjectID string `mapstructure:"project_id"`
	TopicName string `mapstructure:"topic_name"`
}

// ProgressConfig tunes the progress hub.
type ProgressConfig struct {
	BufferSize     int           `mapstructure:"buffer_size"`
	MaxBatchEvents int           `mapstructure:"max_batch_events"`
	MaxBatchWait   time.Duration `mapstructure:"max_batch_wait"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// TelemetryConfig toggles OpenTelemetry tracing.
type TelemetryConfig struct {
	Tracing bool `mapstructure:"tracing"`
}

// LoadDotEnv loads KEY=VALUE files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

// Load builds a Config from defaults, an optional YAML file and the
// environment. An empty path falls back to $MENU_CONFIG_FILE.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MENU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path == "" {
		path = v.GetString("config_file")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("config_file", "")
	v.SetDefault("source.listing_url", "https://panelinha.com.br/blog/ritalobo/post/top-13-cardapios-para-resolver-o-jantar-da-semana")
	v.SetDefault("source.origin", "https://www.panelinha.com.br")
	v.SetDefault("source.recipe_path", "/receita/")
	v.SetDefault("source.structured_data_id", "js_recipe_schema")
	v.SetDefault("source.ingredient_heading", "Ingrediente")
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("http.user_agent", "weekly-menu-agent/1.0")
	v.SetDefault("http.respect_robots", false)
	v.SetDefault("menu.size", 5)
	v.SetDefault("menu.seed", 0)
	v.SetDefault("schedule.cron", scheduler.DefaultSpec)
	v.SetDefault("schedule.poll_interval", scheduler.DefaultPollInterval)
	v.SetDefault("schedule.timezone", "Local")
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 465)
	v.SetDefault("smtp.timeout", 30*time.Second)
	v.SetDefault("mail.subject", "Weekly menu")
	v.SetDefault("mail.weekdays", []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"})
	v.SetDefault("server.enabled", false)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.run_history", 20)
	v.SetDefault("pubsub.project_id", "")
	v.SetDefault("pubsub.topic_name", "")
	v.SetDefault("progress.buffer_size", 256)
	v.SetDefault("progress.max_batch_events", 64)
	v.SetDefault("progress.max_batch_wait", 500*time.Millisecond)
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("telemetry.tracing", false)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if err := validateAbsoluteURL("source.listing_url", c.Source.ListingURL); err != nil {
		return err
	}
	if err := validateAbsoluteURL("source.origin", c.Source.Origin); err != nil {
		return err
	}
	if !strings.HasPrefix(c.Source.RecipePath, "/") {
		return fmt.Errorf("source.recipe_path must start with /")
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be > 0")
	}
	if c.Menu.Size <= 0 {
		return fmt.Errorf("menu.size must be > 0")
	}
	if _, err := scheduler.ParseSpec(c.Schedule.Cron); err != nil {
		return fmt.Errorf("schedule.cron: %w", err)
	}
	if c.Schedule.PollInterval <= 0 {
		return fmt.Errorf("schedule.poll_interval must be > 0")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.SMTP.Host == "" || c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("smtp.host and smtp.port must describe a valid endpoint")
	}
	if len(c.Mail.Weekdays) == 0 {
		return fmt.Errorf("mail.weekdays must not be empty")
	}
	if c.Server.Enabled && c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0 when the server is enabled")
	}
	if (c.PubSub.ProjectID == "") != (c.PubSub.TopicName == "") {
		return fmt.Errorf("pubsub.project_id and pubsub.topic_name must be set together")
	}
	return nil
}

// Location resolves schedule.timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("schedule.timezone: %w", err)
	}
	return loc, nil
}

// PubSubEnabled reports whether run summaries go to Pub/Sub.
func (c Config) PubSubEnabled() bool {
	return c.PubSub.ProjectID != "" && c.PubSub.TopicName != ""
}

func validateAbsoluteURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL", key)
	}
	return nil
}
