package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/ya3yoni/internal/model"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "ya3yoni.yaml"

type RuntimeConfig struct {
	Interval             time.Duration `yaml:"interval"`
	Countdown            int           `yaml:"countdown"`
	WaitSlice            time.Duration `yaml:"wait_slice"`
	SettingsPath         string        `yaml:"settings_path"`
	HistoryPath          string        `yaml:"history_path"`
	HistoryRetention     time.Duration `yaml:"history_retention"`
	ImagesDir            string        `yaml:"images_dir"`
	SoundsDir            string        `yaml:"sounds_dir"`
	IconSize             int           `yaml:"icon_size"`
	LogPath              string        `yaml:"log_path"`
	LogLevel             string        `yaml:"log_level"`
	DesktopNotifications bool          `yaml:"desktop_notifications"`
	Audio                bool          `yaml:"audio"`
	HandoffBuffer        int           `yaml:"handoff_buffer"`
}

func Default() RuntimeConfig {
	return RuntimeConfig{
		Interval:             model.DefaultReminderInterval,
		Countdown:            model.DefaultCountdownSeconds,
		WaitSlice:            model.DefaultReminderWaitSlice,
		SettingsPath:         "config.json",
		HistoryPath:          "ya3yoni.db",
		HistoryRetention:     30 * 24 * time.Hour,
		ImagesDir:            "images",
		SoundsDir:            "Resources",
		IconSize:             16,
		LogPath:              "ya3yoni.log",
		LogLevel:             "info",
		DesktopNotifications: false,
		Audio:                true,
		HandoffBuffer:        4,
	}
}

// Path returns the config file location, honouring YA3YONI_CONFIG.
func Path() string {
	if v := strings.TrimSpace(os.Getenv("YA3YONI_CONFIG")); v != "" {
		return v
	}
	return DefaultConfigFile
}

// LoadFile overlays the YAML file at path on base. A missing file is not an
// error.
func LoadFile(path string, base RuntimeConfig) (RuntimeConfig, error) {
	cfg := base
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return base, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func FromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvDuration("YA3YONI_INTERVAL"); ok && v > 0 {
		cfg.Interval = v
	}
	if v, ok := getEnvInt("YA3YONI_COUNTDOWN"); ok && v >= 0 {
		cfg.Countdown = v
	}
	if v, ok := getEnvDuration("YA3YONI_WAIT_SLICE"); ok && v > 0 {
		cfg.WaitSlice = v
	}
	if v, ok := getEnvString("YA3YONI_SETTINGS_PATH"); ok {
		cfg.SettingsPath = v
	}
	if v, ok := getEnvString("YA3YONI_HISTORY_PATH"); ok {
		cfg.HistoryPath = v
	}
	if v, ok := getEnvDuration("YA3YONI_HISTORY_RETENTION"); ok && v >= 0 {
		cfg.HistoryRetention = v
	}
	if v, ok := getEnvString("YA3YONI_IMAGES_DIR"); ok {
		cfg.ImagesDir = v
	}
	if v, ok := getEnvString("YA3YONI_SOUNDS_DIR"); ok {
		cfg.SoundsDir = v
	}
	if v, ok := getEnvInt("YA3YONI_ICON_SIZE"); ok && v > 0 {
		cfg.IconSize = v
	}
	if v, ok := getEnvString("YA3YONI_LOG_PATH"); ok {
		cfg.LogPath = v
	}
	if v, ok := getEnvString("YA3YONI_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvBool("YA3YONI_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvBool("YA3YONI_AUDIO"); ok {
		cfg.Audio = v
	}
	if v, ok := getEnvInt("YA3YONI_HANDOFF_BUFFER"); ok && v > 0 {
		cfg.HandoffBuffer = v
	}
	return cfg
}

// Load resolves defaults, then the config file, then the environment.
func Load() (RuntimeConfig, error) {
	cfg, err := LoadFile(Path(), Default())
	if err != nil {
		return cfg, err
	}
	cfg = FromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c RuntimeConfig) Reminder() model.ReminderConfig {
	return model.ReminderConfig{
		Interval:         c.Interval,
		CountdownSeconds: c.Countdown,
	}
}

func (c RuntimeConfig) Validate() error {
	if err := c.Reminder().Validate(); err != nil {
		return err
	}
	if c.WaitSlice <= 0 {
		return fmt.Errorf("config: wait_slice must be positive, got %s", c.WaitSlice)
	}
	if c.WaitSlice > c.Interval {
		return fmt.Errorf("config: wait_slice %s exceeds interval %s", c.WaitSlice, c.Interval)
	}
	if c.HistoryRetention < 0 {
		return fmt.Errorf("config: history_retention must not be negative, got %s", c.HistoryRetention)
	}
	if c.IconSize <= 0 {
		return fmt.Errorf("config: icon_size must be positive, got %d", c.IconSize)
	}
	return nil
}

func getEnvString(name string) (string, bool) {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(raw), true
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

// getEnvDuration accepts Go durations and bare integers as seconds.
func getEnvDuration(name string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if secs > math.MaxInt64/int64(time.Second) || secs < math.MinInt64/int64(time.Second) {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return d, true
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
