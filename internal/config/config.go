package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Gastos"`
		Port     int    `envconfig:"PORT" default:"8080"`
		TimeZone string `envconfig:"APP_TIMEZONE" default:"America/Santiago"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"gastos"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"90s"`
	}

	Gemini struct {
		APIKey  string        `envconfig:"GEMINI_API_KEY"`
		Model   string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
		Timeout time.Duration `envconfig:"GEMINI_TIMEOUT" default:"60s"`
	}

	Auth struct {
		JWTSecret string        `envconfig:"JWT_SECRET"`
		TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"720h"`
		// Either a JSON array or a comma separated list of phone numbers.
		AllowedNumbers string `envconfig:"ALLOWED_NUMBERS"`
	}

	Barcode struct {
		Parallel bool `envconfig:"BARCODE_PARALLEL" default:"false"`
	}

	TUI struct {
		Phone string `envconfig:"TUI_PHONE" default:"local"`
		Name  string `envconfig:"TUI_NAME" default:"Terminal"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Location returns the time zone used to resolve relative dates such as "today".
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.App.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("loading time zone %q: %w", c.App.TimeZone, err)
	}

	return loc, nil
}

// AllowedNumbers parses Auth.AllowedNumbers. An empty value yields an empty list.
func (c *Config) AllowedNumbers() ([]string, error) {
	raw := strings.TrimSpace(c.Auth.AllowedNumbers)
	if raw == "" {
		return nil, nil
	}

	if strings.HasPrefix(raw, "[") {
		var numbers []string
		if err := json.Unmarshal([]byte(raw), &numbers); err != nil {
			return nil, fmt.Errorf("parsing ALLOWED_NUMBERS: %w", err)
		}

		return numbers, nil
	}

	var numbers []string

	for _, n := range strings.Split(raw, ",") {
		if n = strings.TrimSpace(n); n != "" {
			numbers = append(numbers, n)
		}
	}

	return numbers, nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
