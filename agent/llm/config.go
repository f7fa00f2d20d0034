package llm

import (
	"strings"
	"time"

	openrouterx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/pkg/openrouter"
)

type Role string

const (
	RolePlanner  Role = "planner"
	RoleNarrator Role = "narrator"
)

// Config carries the base OpenRouter settings plus per-role overrides for
// the planner and narrator phases.
type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"openai/gpt-4o-mini"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float64       `envconfig:"TEMPERATURE" split_words:"true" default:"0.2"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	PlannerModel        string  `envconfig:"PLANNER_MODEL" split_words:"true"`
	NarratorModel       string  `envconfig:"NARRATOR_MODEL" split_words:"true"`
	PlannerTemperature  float64 `envconfig:"PLANNER_TEMPERATURE" split_words:"true" default:"-1"`
	NarratorTemperature float64 `envconfig:"NARRATOR_TEMPERATURE" split_words:"true" default:"-1"`
}

// Keyless reports whether no API key is configured; the assistant then runs
// on the pattern-matching fallback path.
func (c Config) Keyless() bool {
	return strings.TrimSpace(c.APIKey) == ""
}

// OpenRouter returns the base client configuration.
func (c Config) OpenRouter() openrouterx.Config {
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              strings.TrimSpace(c.Model),
		MaxCompletionToken: c.MaxCompletionToken,
		Temperature:        c.Temperature,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}

func (c Config) ModelFor(role Role) string {
	switch role {
	case RolePlanner:
		if v := strings.TrimSpace(c.PlannerModel); v != "" {
			return v
		}
	case RoleNarrator:
		if v := strings.TrimSpace(c.NarratorModel); v != "" {
			return v
		}
	}
	return strings.TrimSpace(c.Model)
}

func (c Config) TemperatureFor(role Role) float64 {
	switch role {
	case RolePlanner:
		if c.PlannerTemperature >= 0 {
			return c.PlannerTemperature
		}
	case RoleNarrator:
		if c.NarratorTemperature >= 0 {
			return c.NarratorTemperature
		}
	}
	return c.Temperature
}
