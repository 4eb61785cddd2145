package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DraftStore indica dónde se persisten los borradores del formulario de adopción.
type DraftStore string

const (
	DraftStoreMemory   DraftStore = "memory"
	DraftStorePostgres DraftStore = "postgres"
	DraftStoreRedis    DraftStore = "redis"
)

type Config struct {
	Port    string `mapstructure:"PORT"`
	AppName string `mapstructure:"APP_NAME"`

	APIBaseURL string        `mapstructure:"API_BASE_URL"`
	APITimeout time.Duration `mapstructure:"API_TIMEOUT"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	DraftStore DraftStore    `mapstructure:"DRAFT_STORE"`
	DraftTTL   time.Duration `mapstructure:"DRAFT_TTL"`
	DBDSN      string        `mapstructure:"DB_DSN"`
	RedisAddr  string        `mapstructure:"REDIS_ADDR"`

	SessionCookie string        `mapstructure:"SESSION_COOKIE"`
	SessionTTL    time.Duration `mapstructure:"SESSION_TTL"`
}

// Load lee .env (si existe), config.yaml opcional y variables de entorno.
// Env siempre gana sobre el archivo.
func Load(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_NAME", "pet-adoption-web")
	v.SetDefault("API_BASE_URL", "http://localhost:5000/api")
	v.SetDefault("API_TIMEOUT", "10s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("DRAFT_STORE", string(DraftStoreMemory))
	v.SetDefault("DRAFT_TTL", "72h")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("SESSION_COOKIE", "adopt_sid")
	v.SetDefault("SESSION_TTL", "12h")
}

func bindEnv(v *viper.Viper) {
	// AutomaticEnv no alcanza para Unmarshal: las keys deben existir explícitamente.
	for _, k := range []string{
		"PORT", "APP_NAME", "API_BASE_URL", "API_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT",
		"DRAFT_STORE", "DRAFT_TTL", "DB_DSN", "REDIS_ADDR", "SESSION_COOKIE", "SESSION_TTL",
	} {
		_ = v.BindEnv(k)
	}
	v.AutomaticEnv()
}

func (c *Config) validate() error {
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if c.APIBaseURL == "" {
		return fmt.Errorf("config: API_BASE_URL is required")
	}

	c.DraftStore = DraftStore(strings.ToLower(strings.TrimSpace(string(c.DraftStore))))
	switch c.DraftStore {
	case DraftStoreMemory:
	case DraftStorePostgres:
		if strings.TrimSpace(c.DBDSN) == "" {
			return fmt.Errorf("config: DB_DSN is required when DRAFT_STORE=postgres")
		}
	case DraftStoreRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("config: REDIS_ADDR is required when DRAFT_STORE=redis")
		}
	default:
		return fmt.Errorf("config: unknown DRAFT_STORE %q", c.DraftStore)
	}
	return nil
}

// Addr devuelve la dirección de escucha del servidor.
func (c *Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// Environment devuelve APP_ENVIRONMENT o "development".
func Environment() string {
	if env := strings.TrimSpace(os.Getenv("APP_ENVIRONMENT")); env != "" {
		return env
	}
	return "development"
}
