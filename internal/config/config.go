package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Config конфигурация сервиса
type Config struct {
	Server    Server    `toml:"server" validate:"required"`
	Database  Database  `toml:"database" validate:"required"`
	Logs      Logs      `toml:"logs" validate:"required"`
	Metrics   Metrics   `toml:"metrics"`
	Dialogue  Dialogue  `toml:"dialogue" validate:"required"`
	NLU       NLU       `toml:"nlu" validate:"required"`
	Messenger Messenger `toml:"messenger" validate:"required"`
	Sweeps    Sweeps    `toml:"sweeps" validate:"required"`
}

// Server настройки HTTP сервера
type Server struct {
	HTTPPort        int `toml:"http_port" validate:"required,min=1,max=65535"`
	ReadTimeout     int `toml:"read_timeout" validate:"required,min=1"`
	WriteTimeout    int `toml:"write_timeout" validate:"required,min=1"`
	IdleTimeout     int `toml:"idle_timeout" validate:"required,min=1"`
	ShutdownTimeout int `toml:"shutdown_timeout" validate:"required,min=1"`
}

// Database настройки подключения к Postgres
type Database struct {
	Host            string `toml:"host" validate:"required"`
	Port            int    `toml:"port" validate:"required,min=1,max=65535"`
	User            string `toml:"user" validate:"required"`
	Password        string `toml:"password" validate:"required"`
	DBName          string `toml:"dbname" validate:"required"`
	SSLMode         string `toml:"sslmode" validate:"required,oneof=disable require verify-ca verify-full"`
	MaxOpenConns    int    `toml:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int    `toml:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" validate:"required,min=1"`
}

// DSN возвращает строку подключения к базе данных
func (d *Database) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Logs настройки логирования
type Logs struct {
	File  string `toml:"file" validate:"required"`
	Level string `toml:"level" validate:"required,oneof=debug info warn error"`
}

// Metrics настройки prometheus-метрик
type Metrics struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// Dialogue настройки диалогового движка и поиска слотов
type Dialogue struct {
	SlotGranularityMinutes  int     `toml:"slot_granularity_minutes" validate:"required,min=5,max=60"`
	DefaultDurationMinutes  int     `toml:"default_duration_minutes" validate:"required,min=5"`
	MaxOffers               int     `toml:"max_offers" validate:"required,min=1,max=10"`
	SessionTTLMinutes       int     `toml:"session_ttl_minutes" validate:"required,min=1"`
	LanguageConfidence      float64 `toml:"language_confidence" validate:"required,gt=0,lte=1"`
	WaitlistNotifyTTLMinutes int    `toml:"waitlist_notify_ttl_minutes" validate:"required,min=1"`
	SessionLockStripes      int     `toml:"session_lock_stripes" validate:"required,min=1"`
}

// NLU настройки клиента классификатора намерений
type NLU struct {
	URL     string `toml:"url" validate:"required,url"`
	Timeout int    `toml:"timeout" validate:"required,min=1"`
}

// Messenger настройки клиента транспорта сообщений
type Messenger struct {
	URL     string `toml:"url" validate:"required,url"`
	Timeout int    `toml:"timeout" validate:"required,min=1"`
}

// Sweeps cron-расписания фоновых проходов
type Sweeps struct {
	WaitlistSpec      string `toml:"waitlist_spec" validate:"required"`
	SessionExpirySpec string `toml:"session_expiry_spec" validate:"required"`
}

// Load загружает и валидирует конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
