package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AuthMode string

const (
	AuthDev  AuthMode = "dev"
	AuthOdin AuthMode = "odin"
	AuthJWT  AuthMode = "jwt"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config del servidor. Orden de carga: defaults, archivo YAML (opcional),
// .env (opcional, no pisa variables ya definidas), variables de entorno.
type Config struct {
	Port  string `yaml:"port"`
	DBDSN string `yaml:"db_dsn"`

	Log  LogConfig  `yaml:"log"`
	Auth AuthConfig `yaml:"auth"`
	HTTP HTTPConfig `yaml:"http"`

	// Zona para decidir "hoy" en la agenda (IANA).
	ScheduleTimezone string `yaml:"schedule_timezone"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	App    string `yaml:"app"`
}

type AuthConfig struct {
	Mode AuthMode `yaml:"mode"`

	JWTKey    string `yaml:"jwt_key"`
	JWTIssuer string `yaml:"jwt_issuer"`

	OdinBaseURL string        `yaml:"odin_base_url"`
	OdinAPIKey  string        `yaml:"odin_api_key"`
	OdinTimeout time.Duration `yaml:"odin_timeout"`

	// Emails con rol admin (catálogos y listado de perfiles).
	AdminEmails []string `yaml:"admin_emails"`
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

func Default() *Config {
	return &Config{
		Port: "8080",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			App:    "pet-care-planner",
		},
		Auth: AuthConfig{
			Mode:        AuthDev,
			OdinTimeout: 5 * time.Second,
		},
		HTTP: HTTPConfig{
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		ScheduleTimezone: "UTC",
	}
}

// Load arma la config. path y envFile vacíos se ignoran; si no existen
// también (se usan defaults + entorno).
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	setString(&c.Port, "PORT")
	setString(&c.DBDSN, "DB_DSN")

	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	setString(&c.Log.App, "APP_NAME")

	if v := strings.TrimSpace(os.Getenv("AUTH_MODE")); v != "" {
		c.Auth.Mode = AuthMode(strings.ToLower(v))
	}
	setString(&c.Auth.JWTKey, "JWT_KEY")
	setString(&c.Auth.JWTIssuer, "JWT_ISSUER")
	setString(&c.Auth.OdinBaseURL, "ODIN_BASE_URL")
	setString(&c.Auth.OdinAPIKey, "ODIN_API_KEY")

	if v := strings.TrimSpace(os.Getenv("ADMIN_EMAILS")); v != "" {
		c.Auth.AdminEmails = splitList(v)
	}

	setString(&c.ScheduleTimezone, "SCHEDULE_TIMEZONE")

	for key, dst := range map[string]*time.Duration{
		"ODIN_TIMEOUT":          &c.Auth.OdinTimeout,
		"HTTP_READ_TIMEOUT":     &c.HTTP.ReadTimeout,
		"HTTP_WRITE_TIMEOUT":    &c.HTTP.WriteTimeout,
		"HTTP_SHUTDOWN_TIMEOUT": &c.HTTP.ShutdownTimeout,
	} {
		if err := setDuration(dst, key); err != nil {
			return err
		}
	}
	return nil
}

// Validate revisa lo que haría fallar el arranque más tarde.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("%w: port required", ErrInvalidConfig)
	}
	switch c.Auth.Mode {
	case AuthDev:
	case AuthJWT:
		if strings.TrimSpace(c.Auth.JWTKey) == "" {
			return fmt.Errorf("%w: JWT_KEY required when AUTH_MODE=jwt", ErrInvalidConfig)
		}
	case AuthOdin:
		if strings.TrimSpace(c.Auth.OdinBaseURL) == "" || strings.TrimSpace(c.Auth.OdinAPIKey) == "" {
			return fmt.Errorf("%w: ODIN_BASE_URL and ODIN_API_KEY required when AUTH_MODE=odin", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown auth mode %q", ErrInvalidConfig, c.Auth.Mode)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resuelve ScheduleTimezone. Vacío = UTC.
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.ScheduleTimezone)
	if tz == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: schedule timezone %q: %v", ErrInvalidConfig, tz, err)
	}
	return loc, nil
}

func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func setDuration(dst *time.Duration, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	*dst = d
	return nil
}
