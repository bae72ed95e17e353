package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Picker modes describing the capability of the date/time selection flow.
const (
	PickerCombined   = "combined"
	PickerSequential = "sequential"
)

type Config struct {
	Env string

	API     APIConfig
	Session SessionConfig
	Log     LogConfig
	Picker  PickerConfig
	Export  ExportConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig locates the on-device session database.
type SessionConfig struct {
	DBPath string
}

type LogConfig struct {
	Level  string
	Format string
}

// PickerConfig selects the date/time picker capability and the delay
// used to sequence the two-step flow.
type PickerConfig struct {
	Mode        string
	ReopenDelay time.Duration
}

// ExportConfig controls where event list exports are written.
type ExportConfig struct {
	Dir    string
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
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.API = APIConfig{
		BaseURL: strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("API_TIMEOUT"), 15*time.Second),
	}

	cfg.Session = SessionConfig{
		DBPath: v.GetString("SESSION_DB_PATH"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	pickerMode := v.GetString("PICKER_MODE")
	if pickerMode != PickerCombined && pickerMode != PickerSequential {
		pickerMode = PickerSequential
	}
	cfg.Picker = PickerConfig{
		Mode:        pickerMode,
		ReopenDelay: parseDuration(v.GetString("PICKER_REOPEN_DELAY"), 100*time.Millisecond),
	}

	cfg.Export = ExportConfig{
		Dir:    v.GetString("EXPORT_DIR"),
		Format: v.GetString("EXPORT_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("API_BASE_URL", "http://localhost:3000/api")
	v.SetDefault("API_TIMEOUT", "15s")

	v.SetDefault("SESSION_DB_PATH", "./eventzy.db")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("PICKER_MODE", PickerSequential)
	v.SetDefault("PICKER_REOPEN_DELAY", "100ms")

	v.SetDefault("EXPORT_DIR", "./exports")
	v.SetDefault("EXPORT_FORMAT", "csv")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
