package update

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/primecalc/internal/insight"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	DBPath               string
	LogPath              string
	LogLevel             string
	InsightModel         string
	InsightAPIKey        string
	InsightTimeout       time.Duration
	AlarmBuffer          int
	ThemeName            string
	MetricsAddr          string
	DesktopNotifications bool
	ShutdownDelay        time.Duration
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DBPath:               ".primecalc.db",
		LogPath:              "",
		LogLevel:             "info",
		InsightModel:         insight.DefaultModel,
		InsightTimeout:       insight.DefaultTimeout,
		AlarmBuffer:          16,
		ThemeName:            "Verdan Meadow",
		MetricsAddr:          "",
		DesktopNotifications: false,
		ShutdownDelay:        3 * time.Second,
	}
}

type fileConfig struct {
	DBPath               *string `yaml:"db_path"`
	LogPath              *string `yaml:"log_path"`
	LogLevel             *string `yaml:"log_level"`
	InsightModel         *string `yaml:"insight_model"`
	InsightAPIKey        *string `yaml:"insight_api_key"`
	InsightTimeout       *string `yaml:"insight_timeout"`
	AlarmBuffer          *int    `yaml:"alarm_buffer"`
	ThemeName            *string `yaml:"theme"`
	MetricsAddr          *string `yaml:"metrics_addr"`
	DesktopNotifications *bool   `yaml:"desktop_notifications"`
	ShutdownDelay        *string `yaml:"shutdown_delay"`
}

// RuntimeConfigFromFile overlays the YAML file at path on base. Keys absent
// from the file keep their base values.
func RuntimeConfigFromFile(path string, base RuntimeConfig) (RuntimeConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read config %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return base, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg := base
	setString(&cfg.DBPath, fc.DBPath)
	setString(&cfg.LogPath, fc.LogPath)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.InsightModel, fc.InsightModel)
	setString(&cfg.InsightAPIKey, fc.InsightAPIKey)
	setString(&cfg.ThemeName, fc.ThemeName)
	setString(&cfg.MetricsAddr, fc.MetricsAddr)
	if fc.AlarmBuffer != nil && *fc.AlarmBuffer > 0 {
		cfg.AlarmBuffer = *fc.AlarmBuffer
	}
	if fc.DesktopNotifications != nil {
		cfg.DesktopNotifications = *fc.DesktopNotifications
	}
	if fc.InsightTimeout != nil {
		d, err := parsePositiveDuration(*fc.InsightTimeout)
		if err != nil {
			return base, fmt.Errorf("config insight_timeout: %w", err)
		}
		cfg.InsightTimeout = d
	}
	if fc.ShutdownDelay != nil {
		d, err := parsePositiveDuration(*fc.ShutdownDelay)
		if err != nil {
			return base, fmt.Errorf("config shutdown_delay: %w", err)
		}
		cfg.ShutdownDelay = d
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("PRIME_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvString("PRIME_LOG_PATH"); ok {
		cfg.LogPath = v
	}
	if v, ok := getEnvString("PRIME_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvString("PRIME_INSIGHT_MODEL"); ok {
		cfg.InsightModel = v
	}
	if v, ok := getEnvString("GEMINI_API_KEY"); ok {
		cfg.InsightAPIKey = v
	}
	if v, ok := getEnvString("PRIME_INSIGHT_API_KEY"); ok {
		cfg.InsightAPIKey = v
	}
	if v, ok := getEnvDuration("PRIME_INSIGHT_TIMEOUT"); ok {
		cfg.InsightTimeout = v
	}
	if v, ok := getEnvInt("PRIME_ALARM_BUFFER"); ok && v > 0 {
		cfg.AlarmBuffer = v
	}
	if v, ok := getEnvString("PRIME_THEME"); ok {
		cfg.ThemeName = v
	}
	if v, ok := getEnvString("PRIME_METRICS_ADDR"); ok {
		cfg.MetricsAddr = v
	}
	if v, ok := getEnvBool("PRIME_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvDuration("PRIME_SHUTDOWN_DELAY"); ok {
		cfg.ShutdownDelay = v
	}
	return cfg
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func parsePositiveDuration(raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive: %s", raw)
	}
	return d, nil
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvDuration(name string) (time.Duration, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	d, err := parsePositiveDuration(raw)
	if err != nil {
		return 0, false
	}
	return d, true
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

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
