// Package config предоставляет структуры и функции для парсинга и загрузки конфига
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"golang.org/x/mod/semver"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	Version                 string `yaml:"version" env:"APP_VERSION" env-default:"v1.0.0"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
	HTTPServer              `yaml:"http_server"`
	GRPCServer              `yaml:"grpc_server"`
	RedisConnection         `yaml:"redis_connection"`
	JWT                     `yaml:"jwt"`
	Password                `yaml:"password"`
	DefaultAdmin            `yaml:"default_admin"`
	RabbitMQ                `yaml:"rabbitmq"`
	Cookie                  `yaml:"cookie"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// GRPCServer настройки gRPC-сервера AccessService
type GRPCServer struct {
	AddressGRPC string `yaml:"address" env:"GRPC_ADDRESS" env-default:":50051"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"address" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env-default:"0"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeout" env-default:"3s"`
	CacheTTL     time.Duration `yaml:"cache_ttl" env-default:"5m"`
}

// JWT настройки выпуска токенов
type JWT struct {
	Secret     string        `yaml:"secret" env:"JWT_SECRET"`
	AccessTTL  time.Duration `yaml:"access_ttl" env:"JWT_ACCESS_TTL" env-default:"15m"`
	RefreshTTL time.Duration `yaml:"refresh_ttl" env:"JWT_REFRESH_TTL" env-default:"168h"`
}

// Password настройки хеширования паролей
type Password struct {
	BcryptCost int `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
}

// DefaultAdmin учётные данные администратора, создаваемого при первом старте
type DefaultAdmin struct {
	Email    string `yaml:"email" env:"ADMIN_EMAIL"`
	Username string `yaml:"username" env:"ADMIN_USERNAME" env-default:"admin"`
	Password string `yaml:"password" env:"ADMIN_PASSWORD"`
}

// RabbitMQ настройки публикации событий
type RabbitMQ struct {
	URL      string `yaml:"url" env:"RABBITMQ_URL"`
	Exchange string `yaml:"exchange" env:"RABBITMQ_EXCHANGE" env-default:"movie-access.events"`
	Enabled  bool   `yaml:"enabled" env:"RABBITMQ_ENABLED" env-default:"false"`
}

// Cookie настройки cookie с refresh-токеном
type Cookie struct {
	Secure bool `yaml:"secure" env:"COOKIE_SECURE" env-default:"false"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке
func MustLoad() *Config {
	// .env необязателен: в контейнере переменные приходят из окружения
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %s", err)
	}
	return cfg
}

// Load читает YAML-файл, применяет переменные окружения и валидирует результат
func Load(path string) (*Config, error) {
	const op = "config.Load"

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: file %s: %w", op, path, err)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is empty")
	}
	if !semver.IsValid(c.Version) {
		return fmt.Errorf("version %q is not a valid semver (expected vMAJOR.MINOR.PATCH)", c.Version)
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("jwt ttl must be positive")
	}
	if c.JWT.AccessTTL >= c.JWT.RefreshTTL {
		return errors.New("jwt access_ttl must be shorter than refresh_ttl")
	}
	return nil
}

// AdminConfigured сообщает, заданы ли учётные данные администратора по умолчанию
func (c *Config) AdminConfigured() bool {
	return c.DefaultAdmin.Email != "" && c.DefaultAdmin.Password != ""
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"Version: %s\n"+
			"HTTPServer: %s (timeout %s, idle %s)\n"+
			"GRPCServer: %s\n"+
			"Redis: %s db=%d\n"+
			"JWT: access_ttl=%s refresh_ttl=%s secret=%s\n"+
			"RabbitMQ: enabled=%t exchange=%s\n",
		c.Env,
		c.Version,
		c.AddressHTTP, c.TimeoutHTTP, c.IdleTimeout,
		c.AddressGRPC,
		c.AddressRedis, c.DB,
		c.AccessTTL, c.RefreshTTL, mask(c.Secret),
		c.RabbitMQ.Enabled, c.Exchange,
	)
}

func mask(s string) string {
	if s == "" {
		return "<empty>"
	}
	return "***"
}
