// Package config предоставляет структуры и функции для парсинга и загрузки конфига.
//
// Конфиг читается из YAML-файла по пути CONFIG_PATH. Секреты (ключ подписи JWT,
// мастер-ключ лицензии, пароли) переопределяются переменными окружения,
// чтобы не хранить их в файле.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitMQ                `yaml:"rabbitmq"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	License                 `yaml:"license"`
	Security                `yaml:"security"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// RabbitMQ структура для настройки публикации событий. Пустой URL отключает публикацию.
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"AMQP_URL"`
	Exchange   string        `yaml:"exchange" env-default:"accounts"`
	Retries    int           `yaml:"retries" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"168h"`
}

// License структура с параметрами выдачи лицензий
type License struct {
	MasterLicenseKey string        `yaml:"master_license_key" env:"MASTER_LICENSE_KEY"`
	TrialPeriod      time.Duration `yaml:"trial_period" env-default:"48h"`
	FullPeriod       time.Duration `yaml:"full_period" env-default:"8760h"`
}

// Security структура с параметрами защиты входа
type Security struct {
	MaxLoginAttempts   int           `yaml:"max_login_attempts" env-default:"5"`
	LoginAttemptWindow time.Duration `yaml:"login_attempt_window" env-default:"15m"`
	LockoutPeriod      time.Duration `yaml:"lockout_period" env-default:"30m"`
	RateLimitRPS       float64       `yaml:"rate_limit_rps" env-default:"5"`
	RateLimitBurst     int           `yaml:"rate_limit_burst" env-default:"10"`
}

// ErrMissingJWTSecret возвращается, если ключ подписи токенов не задан.
var ErrMissingJWTSecret = errors.New("jwt secret key is not set")

// MustLoad функция для загрузки конфига, путь к файлу берётся из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load читает конфиг из файла и переменных окружения и проверяет обязательные поля.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingJWTSecret)
	}
	return &cfg, nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  User: %s\n"+
			"  DB: %d\n"+
			"  MaxRetries: %d\n"+
			"  DialTimeout: %s\n"+
			"  Timeout: %s\n"+
			"RabbitMQ:\n"+
			"  Exchange: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n"+
			"License:\n"+
			"  TrialPeriod: %s\n"+
			"  FullPeriod: %s\n"+
			"Security:\n"+
			"  MaxLoginAttempts: %d\n"+
			"  LoginAttemptWindow: %s\n"+
			"  LockoutPeriod: %s\n",
		c.Env,
		redact(c.StorageConnectionString),
		c.AddressRedis,
		c.User,
		c.DB,
		c.MaxRetries,
		c.DialTimeout,
		c.TimeoutRedis,
		c.Exchange,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.TokenTTL,
		c.TrialPeriod,
		c.FullPeriod,
		c.MaxLoginAttempts,
		c.LoginAttemptWindow,
		c.LockoutPeriod,
	)
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}
