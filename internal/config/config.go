package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "wallet"

// Config is built once at startup and handed to constructors by value.
// Every field maps to a WALLET_<TAG> environment variable.
type Config struct {
	Debug       bool   `mapstructure:"DEBUG"`
	Title       string `mapstructure:"TITLE" validate:"required"`
	BindHost    string `mapstructure:"BIND_HOST" validate:"required"`
	BindPort    int    `mapstructure:"BIND_PORT" validate:"min=1,max=65535"`
	LogLevel    string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	DB          string `mapstructure:"DB" validate:"required"`
	DBMaxConns  int32  `mapstructure:"DB_MAX_CONNS" validate:"min=1"`
	AutoMigrate bool   `mapstructure:"AUTO_MIGRATE"`

	PublicKey        string `mapstructure:"PUBLIC_KEY" validate:"required"`
	PrivateKey       string `mapstructure:"PRIVATE_KEY"` // dev only, used by walletctl token
	SigningAlgorithm string `mapstructure:"SIGNING_ALGORITHM" validate:"required,oneof=ES256 ES384 ES512 RS256 RS384 RS512 PS256 PS384 PS512 EdDSA HS256 HS384 HS512"`
	Audience         string `mapstructure:"AUDIENCE" validate:"required"`

	NBPURL             string `mapstructure:"NBP_URL" validate:"required,url"`
	NBPTimeout         int    `mapstructure:"NBP_TIMEOUT" validate:"min=1"` // seconds
	NBPConnectionLimit int    `mapstructure:"NBP_CONNECTION_LIMIT" validate:"min=1"`

	RateLimitRPS int    `mapstructure:"RATE_LIMIT_RPS" validate:"min=0"`
	RedisAddr    string `mapstructure:"REDIS_ADDR"`
}

var defaults = map[string]any{
	"DEBUG":                "false",
	"TITLE":                "Wallet API",
	"BIND_HOST":            "127.0.0.1",
	"BIND_PORT":            8080,
	"LOG_LEVEL":            "info",
	"DB_MAX_CONNS":         10,
	"AUTO_MIGRATE":         "false",
	"AUDIENCE":             "wallet-api",
	"NBP_URL":              "https://api.nbp.pl/api",
	"NBP_TIMEOUT":          5,
	"NBP_CONNECTION_LIMIT": 20,
	"RATE_LIMIT_RPS":       100,
}

// Load reads an optional .env file from the working directory and then the
// environment. Real environment variables win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: read .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from WALLET_* environment variables only.
func FromEnv() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	var cfg Config
	t := reflect.TypeOf(cfg)
	for i := 0; i < t.NumField(); i++ {
		if err := v.BindEnv(t.Field(i).Tag.Get("mapstructure")); err != nil {
			return Config{}, err
		}
	}

	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.DecodeHookFuncType(boolHook))); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return net.JoinHostPort(c.BindHost, strconv.Itoa(c.BindPort))
}

func (c Config) NBPTimeoutDuration() time.Duration {
	return time.Duration(c.NBPTimeout) * time.Second
}

// ShouldMigrate reports whether the service applies the schema on start.
func (c Config) ShouldMigrate() bool { return c.Debug || c.AutoMigrate }

// ParseBool accepts true/yes/1 in any case; everything else is false.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true
	}
	return false
}

func boolHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
		return data, nil
	}
	return ParseBool(data.(string)), nil
}

func validate(cfg Config) error {
	vd := validator.New()
	vd.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.ToUpper(EnvPrefix) + "_" + f.Tag.Get("mapstructure")
	})
	err := vd.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag()))
		}
	}
	return errors.New("config: " + strings.Join(msgs, "; "))
}
