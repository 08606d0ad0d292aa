package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config содержит конфигурацию Workshop Service
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Redis    RedisConfig
	Mongo    MongoConfig
	Kafka    KafkaConfig
	Session  SessionConfig
	LogLevel string
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string
	Port string
}

// StoreConfig - настройки клиента внешнего хранилища товаров
type StoreConfig struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// RedisConfig - настройки подключения к Redis
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// MongoConfig - настройки подключения к MongoDB
type MongoConfig struct {
	URI      string
	Database string
}

// KafkaConfig - настройки Kafka producer
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// SessionConfig - время жизни сессий и расписание их чистки
type SessionConfig struct {
	IdleTTL       time.Duration
	SweepSchedule string
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8082"),
		},
		Store: StoreConfig{
			BaseURL:  getEnv("STORE_BASE_URL", "http://localhost:8081"),
			Timeout:  getEnvDuration("STORE_TIMEOUT", 10*time.Second),
			CacheTTL: getEnvDuration("STORE_CACHE_TTL", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "workshop"),
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKER", "localhost:9092")},
			Topic:   getEnv("KAFKA_TOPIC", "order-events"),
		},
		Session: SessionConfig{
			IdleTTL:       getEnvDuration("SESSION_IDLE_TTL", 30*time.Minute),
			SweepSchedule: getEnv("SESSION_SWEEP_SCHEDULE", "*/5 * * * *"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Address возвращает адрес HTTP сервера в формате host:port
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// Address возвращает адрес Redis в формате host:port
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
