package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode         string        `mapstructure:"mode" validate:"oneof=debug release test"`
	Port         int           `mapstructure:"port" validate:"min=1,max=65535"`
	LogLevel     string        `mapstructure:"log_level" validate:"oneof=trace debug info warn error"`
	LogFormat    string        `mapstructure:"log_format" validate:"oneof=console json"`
	DatabaseURL  string        `mapstructure:"database_url"`
	JWTSecret    string        `mapstructure:"jwt_secret" validate:"required,min=16"`
	ReadLimit    int64         `mapstructure:"read_limit" validate:"min=512"`
	PingPeriod   time.Duration `mapstructure:"ping_period" validate:"min=1s"`
	StoreTimeout time.Duration `mapstructure:"store_timeout" validate:"min=100ms"`

	WS   WSConfig   `mapstructure:"ws"`
	Hub  HubConfig  `mapstructure:"hub"`
	Chat ChatConfig `mapstructure:"chat"`

	// Seed populates the in-memory store when no database is configured.
	Seed SeedConfig `mapstructure:"seed"`
}

type WSConfig struct {
	SendTimeout time.Duration `mapstructure:"send_timeout" validate:"min=10ms"`
	SendBuffer  int           `mapstructure:"send_buffer" validate:"min=1"`
}

type HubConfig struct {
	Workers int `mapstructure:"workers" validate:"min=1"`
}

type ChatConfig struct {
	MaxMessageBytes int      `mapstructure:"max_message_bytes" validate:"min=1"`
	RatePerSecond   float64  `mapstructure:"rate_per_second" validate:"min=0"`
	Burst           int      `mapstructure:"burst" validate:"min=0"`
	CensoredWords   []string `mapstructure:"censored_words"`
	CensorChar      string   `mapstructure:"censor_char" validate:"len=1"`
}

type SeedConfig struct {
	Users   []SeedUser   `mapstructure:"users" validate:"dive"`
	Streams []SeedStream `mapstructure:"streams" validate:"dive"`
}

type SeedUser struct {
	ID       int64  `mapstructure:"id" validate:"gt=0"`
	Username string `mapstructure:"username" validate:"required,max=50"`
}

type SeedStream struct {
	ID    int64 `mapstructure:"id" validate:"gt=0"`
	Owner int64 `mapstructure:"owner" validate:"gt=0"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("database_url", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("store_timeout", "3s")
	v.SetDefault("ws.send_timeout", "2s")
	v.SetDefault("ws.send_buffer", 64)
	v.SetDefault("hub.workers", 32)
	v.SetDefault("chat.max_message_bytes", 2048)
	v.SetDefault("chat.rate_per_second", 2)
	v.SetDefault("chat.burst", 5)
	v.SetDefault("chat.censored_words", []string{})
	v.SetDefault("chat.censor_char", "*")
}

// Load reads config/config.<CONFIG_ENV>.yaml, applies LIVECAST_* overrides
// and validates the result.
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.SetEnvPrefix("livecast")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not loaded, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("config loaded")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log.Info().
		Str("module", "config").
		Str("mode", cfg.Mode).
		Int("port", cfg.Port).
		Bool("database", cfg.DatabaseURL != "").
		Msg("config ready")
	return &cfg, nil
}

// SetupLogger configures the global zerolog logger from cfg.
func SetupLogger(cfg *Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogFormat == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
