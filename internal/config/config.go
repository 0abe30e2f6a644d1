package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds runtime settings for the agenda app. Values come from an
// optional YAML file, then AGENDA_* environment variables on top.
type Config struct {
	Gemini   GeminiConfig   `yaml:"gemini"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Calendar CalendarConfig `yaml:"calendar"`
	Reminder ReminderConfig `yaml:"reminder"`
}

type GeminiConfig struct {
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

type CalendarConfig struct {
	// DayCap limits event pills per day cell in the full month grid;
	// CompactDayCap applies to the dashboard mini calendar.
	DayCap        int `yaml:"day_cap"`
	CompactDayCap int `yaml:"compact_day_cap"`
}

type ReminderConfig struct {
	LeadMinutes int `yaml:"lead_minutes"`
}

func Default() Config {
	return Config{
		Gemini: GeminiConfig{
			Model:          "gemini-3-flash-preview",
			BaseURL:        "https://generativelanguage.googleapis.com",
			TimeoutSeconds: 60,
		},
		Database: DatabaseConfig{Path: "agenda.db"},
		Log:      LogConfig{Path: "agenda.log", Level: "info"},
		Calendar: CalendarConfig{DayCap: 3, CompactDayCap: 1},
		Reminder: ReminderConfig{LeadMinutes: 60},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv applies AGENDA_* environment overrides on top of base.
func FromEnv(base Config) Config {
	cfg := base
	if v, ok := getEnvString("AGENDA_GEMINI_API_KEY"); ok {
		cfg.Gemini.APIKey = v
	}
	if v, ok := getEnvString("AGENDA_GEMINI_MODEL"); ok {
		cfg.Gemini.Model = v
	}
	if v, ok := getEnvString("AGENDA_GEMINI_BASE_URL"); ok {
		cfg.Gemini.BaseURL = v
	}
	if v, ok := getEnvInt("AGENDA_GEMINI_TIMEOUT_SECONDS"); ok && v > 0 {
		cfg.Gemini.TimeoutSeconds = v
	}
	if v, ok := getEnvString("AGENDA_DB_PATH"); ok {
		cfg.Database.Path = v
	}
	if v, ok := getEnvString("AGENDA_LOG_PATH"); ok {
		cfg.Log.Path = v
	}
	if v, ok := getEnvString("AGENDA_LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := getEnvInt("AGENDA_CALENDAR_DAY_CAP"); ok && v > 0 {
		cfg.Calendar.DayCap = v
	}
	if v, ok := getEnvInt("AGENDA_CALENDAR_COMPACT_DAY_CAP"); ok && v > 0 {
		cfg.Calendar.CompactDayCap = v
	}
	if v, ok := getEnvInt("AGENDA_REMINDER_LEAD_MINUTES"); ok && v > 0 {
		cfg.Reminder.LeadMinutes = v
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
