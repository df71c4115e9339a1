package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for one jobradar deployment. It is built
// once at process start and handed to the orchestrator; components receive
// only the fields they need, never ambient environment lookups.
type Config struct {
	Query   string
	City    string
	Recency RecencyConfig
	Geo     GeoConfig
	SerpAPI SerpAPIConfig
	JSearch JSearchConfig
	Gemini  GeminiConfig
	Email   EmailConfig
	Server  ServerConfig
	RunLog  string        // path to the SQLite run log, empty disables it
	Timeout time.Duration // per outbound HTTP call
}

// RecencyConfig controls the freshness window applied to posting age text.
type RecencyConfig struct {
	WindowDays     int
	IncludeUnknown bool // keep postings whose age text is missing or unparseable
}

// GeoConfig controls the optional location allow-list applied during merge.
type GeoConfig struct {
	Enabled   bool
	Locations []string // case-insensitive substrings, e.g. "bangalore", "bengaluru"
}

// SerpAPIConfig configures the SerpAPI Google Jobs source (Source A).
type SerpAPIConfig struct {
	APIKey      string
	MaxPages    int
	MaxPostings int
	PageDelay   time.Duration // politeness gap between token-paginated page fetches
}

// JSearchConfig configures the JSearch RapidAPI source (Source B).
type JSearchConfig struct {
	APIKey      string
	Pages       int
	MaxPostings int
}

// GeminiConfig controls the optional AI summary layer.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// EmailConfig holds SMTP delivery settings. An empty Recipient disables
// delivery entirely (the report is logged instead).
type EmailConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	Recipient string
}

// ServerConfig holds the HTTP trigger settings.
type ServerConfig struct {
	Addr string
}

// rawConfig is used for YAML unmarshaling (snake_case fields, durations as strings).
type rawConfig struct {
	Query   string `yaml:"query"`
	City    string `yaml:"city"`
	Recency struct {
		WindowDays     int  `yaml:"window_days"`
		IncludeUnknown bool `yaml:"include_unknown"`
	} `yaml:"recency"`
	Geo struct {
		Enabled   bool     `yaml:"enabled"`
		Locations []string `yaml:"locations"`
	} `yaml:"geo"`
	SerpAPI struct {
		APIKey      string `yaml:"api_key"`
		MaxPages    int    `yaml:"max_pages"`
		MaxPostings int    `yaml:"max_postings"`
		PageDelay   string `yaml:"page_delay"`
	} `yaml:"serpapi"`
	JSearch struct {
		APIKey      string `yaml:"api_key"`
		Pages       int    `yaml:"pages"`
		MaxPostings int    `yaml:"max_postings"`
	} `yaml:"jsearch"`
	Gemini struct {
		APIKey  string `yaml:"api_key"`
		Model   string `yaml:"model"`
		Timeout string `yaml:"timeout"`
	} `yaml:"gemini"`
	Email struct {
		Host      string `yaml:"host"`
		Port      int    `yaml:"port"`
		Username  string `yaml:"username"`
		Password  string `yaml:"password"`
		FromName  string `yaml:"from_name"`
		Recipient string `yaml:"recipient"`
	} `yaml:"email"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	RunLog  string `yaml:"run_log"`
	Timeout string `yaml:"http_timeout"`
}

// Load reads and parses the YAML config file at path, expands ${ENV_VAR}
// references, applies defaults, validates, and returns the Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from raw YAML bytes. Split out from Load for tests.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	pageDelay := 2 * time.Second
	if raw.SerpAPI.PageDelay != "" {
		d, err := time.ParseDuration(raw.SerpAPI.PageDelay)
		if err != nil {
			return nil, fmt.Errorf("parse serpapi.page_delay %q: %w", raw.SerpAPI.PageDelay, err)
		}
		pageDelay = d
	}

	geminiTimeout := 30 * time.Second
	if raw.Gemini.Timeout != "" {
		d, err := time.ParseDuration(raw.Gemini.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse gemini.timeout %q: %w", raw.Gemini.Timeout, err)
		}
		geminiTimeout = d
	}

	httpTimeout := 30 * time.Second
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse http_timeout %q: %w", raw.Timeout, err)
		}
		httpTimeout = d
	}

	cfg := &Config{
		Query: raw.Query,
		City:  raw.City,
		Recency: RecencyConfig{
			WindowDays:     raw.Recency.WindowDays,
			IncludeUnknown: raw.Recency.IncludeUnknown,
		},
		Geo: GeoConfig{
			Enabled:   raw.Geo.Enabled,
			Locations: raw.Geo.Locations,
		},
		SerpAPI: SerpAPIConfig{
			APIKey:      raw.SerpAPI.APIKey,
			MaxPages:    raw.SerpAPI.MaxPages,
			MaxPostings: raw.SerpAPI.MaxPostings,
			PageDelay:   pageDelay,
		},
		JSearch: JSearchConfig{
			APIKey:      raw.JSearch.APIKey,
			Pages:       raw.JSearch.Pages,
			MaxPostings: raw.JSearch.MaxPostings,
		},
		Gemini: GeminiConfig{
			APIKey:  raw.Gemini.APIKey,
			Model:   raw.Gemini.Model,
			Timeout: geminiTimeout,
		},
		Email: EmailConfig{
			Host:      raw.Email.Host,
			Port:      raw.Email.Port,
			Username:  raw.Email.Username,
			Password:  raw.Email.Password,
			FromName:  raw.Email.FromName,
			Recipient: raw.Email.Recipient,
		},
		Server: ServerConfig{Addr: raw.Server.Addr},
		RunLog:  raw.RunLog,
		Timeout: httpTimeout,
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Recency.WindowDays == 0 {
		cfg.Recency.WindowDays = 30
	}
	if cfg.SerpAPI.MaxPages == 0 {
		cfg.SerpAPI.MaxPages = 3
	}
	if cfg.SerpAPI.MaxPostings == 0 {
		cfg.SerpAPI.MaxPostings = 50
	}
	if cfg.JSearch.Pages == 0 {
		cfg.JSearch.Pages = 2
	}
	if cfg.JSearch.MaxPostings == 0 {
		cfg.JSearch.MaxPostings = 50
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-1.5-flash"
	}
	if cfg.Email.FromName == "" {
		cfg.Email.FromName = "AI Job Agent"
	}
	if cfg.Email.Port == 0 {
		cfg.Email.Port = 587
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Query) == "" {
		return fmt.Errorf("query is required")
	}
	if strings.TrimSpace(cfg.City) == "" {
		return fmt.Errorf("city is required")
	}
	if cfg.Recency.WindowDays < 1 || cfg.Recency.WindowDays > 90 {
		return fmt.Errorf("recency.window_days must be between 1 and 90, got %d", cfg.Recency.WindowDays)
	}
	if cfg.Geo.Enabled && len(cfg.Geo.Locations) == 0 {
		return fmt.Errorf("geo.locations must not be empty when geo.enabled is true")
	}
	if cfg.SerpAPI.MaxPages < 1 {
		return fmt.Errorf("serpapi.max_pages must be positive, got %d", cfg.SerpAPI.MaxPages)
	}
	if cfg.JSearch.Pages < 1 {
		return fmt.Errorf("jsearch.pages must be positive, got %d", cfg.JSearch.Pages)
	}

	// Email delivery is optional, but once a recipient is configured the SMTP
	// settings become a hard precondition: failing late inside the notify
	// stage would waste the whole run.
	if cfg.Email.Recipient != "" {
		if cfg.Email.Host == "" {
			return fmt.Errorf("email.host is required when email.recipient is set")
		}
		if cfg.Email.Username == "" || cfg.Email.Password == "" {
			return fmt.Errorf("email.username and email.password are required when email.recipient is set")
		}
	}

	return nil
}
