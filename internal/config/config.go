package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// EnvPrefix префикс переменных окружения, переопределяющих файл конфигурации
const EnvPrefix = "BOOKING"

// Драйверы хранилища
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

var (
	// ErrLoad ошибка чтения конфигурации
	ErrLoad = errors.New("config: failed to load configuration")

	// ErrInvalid некорректные значения конфигурации
	ErrInvalid = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Booking       BookingConfig       `toml:"booking"`
	UserDirectory UserDirectoryConfig `toml:"user_directory"`
	Events        EventsConfig        `toml:"events"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Driver          string `toml:"driver"` // postgres | memory
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	MaxTxAttempts   int    `toml:"max_tx_attempts"`
	AutoMigrate     bool   `toml:"auto_migrate"`
	MigrationsPath  string `toml:"migrations_path"`
}

// DSN строка подключения для database/sql
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL строка подключения в формате URL (для golang-migrate)
func (c DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingConfig правила временных окон бронирования
type BookingConfig struct {
	WorkStartHour             int    `toml:"work_start_hour"`
	WorkEndHour               int    `toml:"work_end_hour"`
	WorkEndMinute             int    `toml:"work_end_minute"`
	MinDurationMinutes        int    `toml:"min_duration_minutes"`
	MaxDurationMinutes        int    `toml:"max_duration_minutes"`
	MaxAdvanceDays            int    `toml:"max_advance_days"` // 0 - без ограничения
	CancellationDeadlineHours int    `toml:"cancellation_deadline_hours"`
	Timezone                  string `toml:"timezone"`
}

// Policy собирает domain.BookingPolicy, загружая часовой пояс
func (c BookingConfig) Policy() (domain.BookingPolicy, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return domain.BookingPolicy{}, fmt.Errorf("%w: booking.timezone %q: %v", ErrInvalid, c.Timezone, err)
	}
	return domain.BookingPolicy{
		WorkStartHour:             c.WorkStartHour,
		WorkEndHour:               c.WorkEndHour,
		WorkEndMinute:             c.WorkEndMinute,
		MinDurationMinutes:        c.MinDurationMinutes,
		MaxDurationMinutes:        c.MaxDurationMinutes,
		MaxAdvanceDays:            c.MaxAdvanceDays,
		CancellationDeadlineHours: c.CancellationDeadlineHours,
		Location:                  loc,
	}, nil
}

// UserDirectoryConfig справочник пользователей
// Пустой URL означает статический справочник из ModeratorIDs
type UserDirectoryConfig struct {
	URL          string  `toml:"url"`
	Timeout      int     `toml:"timeout"` // секунды
	ModeratorIDs []int64 `toml:"moderator_ids"`
}

type EventsConfig struct {
	Enabled   bool   `toml:"enabled"`
	RabbitURL string `toml:"rabbit_url"`
	Exchange  string `toml:"exchange"`
}

// envOverrides значения из окружения (BOOKING_DB_PASSWORD и т.д.)
type envOverrides struct {
	HTTPPort         int    `envconfig:"HTTP_PORT"`
	DBDriver         string `envconfig:"DB_DRIVER"`
	DBHost           string `envconfig:"DB_HOST"`
	DBPort           int    `envconfig:"DB_PORT"`
	DBUser           string `envconfig:"DB_USER"`
	DBPassword       string `envconfig:"DB_PASSWORD"`
	DBName           string `envconfig:"DB_NAME"`
	LogLevel         string `envconfig:"LOG_LEVEL"`
	Timezone         string `envconfig:"TIMEZONE"`
	UserDirectoryURL string `envconfig:"USER_DIRECTORY_URL"`
	RabbitURL        string `envconfig:"RABBIT_URL"`
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Database: DatabaseConfig{
			Driver:          StorageDriverPostgres,
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "room_booking",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			MaxTxAttempts:   3,
			MigrationsPath:  "migrations",
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "room-booking-service",
		},
		Booking: BookingConfig{
			WorkStartHour:             domain.DefaultWorkStartHour,
			WorkEndHour:               domain.DefaultWorkEndHour,
			WorkEndMinute:             domain.DefaultWorkEndMinute,
			MinDurationMinutes:        domain.DefaultMinDurationMinutes,
			MaxDurationMinutes:        domain.DefaultMaxDurationMinutes,
			MaxAdvanceDays:            domain.DefaultMaxAdvanceDays,
			CancellationDeadlineHours: domain.DefaultCancellationDeadlineHours,
			Timezone:                  "UTC",
		},
		UserDirectory: UserDirectoryConfig{
			Timeout: 5,
		},
		Events: EventsConfig{
			Exchange: "booking.events",
		},
	}
}

// Load читает .env (если есть), затем TOML файл, затем переменные окружения с префиксом BOOKING
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: .env: %v", ErrLoad, err)
	}

	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoad, path, err)
		}
	}

	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("%w: environment: %v", ErrLoad, err)
	}
	cfg.applyEnv(env)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv(env envOverrides) {
	setInt(&c.Server.HTTPPort, env.HTTPPort)
	setString(&c.Database.Driver, env.DBDriver)
	setString(&c.Database.Host, env.DBHost)
	setInt(&c.Database.Port, env.DBPort)
	setString(&c.Database.User, env.DBUser)
	setString(&c.Database.Password, env.DBPassword)
	setString(&c.Database.DBName, env.DBName)
	setString(&c.Logs.Level, env.LogLevel)
	setString(&c.Booking.Timezone, env.Timezone)
	setString(&c.UserDirectory.URL, env.UserDirectoryURL)
	setString(&c.Events.RabbitURL, env.RabbitURL)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	b := c.Booking
	switch {
	case c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535:
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalid)
	case c.Database.Driver != StorageDriverPostgres && c.Database.Driver != StorageDriverMemory:
		return fmt.Errorf("%w: database.driver must be %q or %q", ErrInvalid, StorageDriverPostgres, StorageDriverMemory)
	case c.Database.MaxTxAttempts < 1:
		return fmt.Errorf("%w: database.max_tx_attempts must be positive", ErrInvalid)
	case b.WorkStartHour < 0 || b.WorkStartHour > 23:
		return fmt.Errorf("%w: booking.work_start_hour must be in 0..23", ErrInvalid)
	case b.WorkEndHour < 0 || b.WorkEndHour > 23:
		return fmt.Errorf("%w: booking.work_end_hour must be in 0..23", ErrInvalid)
	case b.WorkEndMinute < 0 || b.WorkEndMinute > 59:
		return fmt.Errorf("%w: booking.work_end_minute must be in 0..59", ErrInvalid)
	case b.WorkEndHour*60+b.WorkEndMinute <= b.WorkStartHour*60:
		return fmt.Errorf("%w: booking working day must end after it starts", ErrInvalid)
	case b.MinDurationMinutes <= 0:
		return fmt.Errorf("%w: booking.min_duration_minutes must be positive", ErrInvalid)
	case b.MaxDurationMinutes < b.MinDurationMinutes:
		return fmt.Errorf("%w: booking.max_duration_minutes must not be less than min", ErrInvalid)
	case b.MaxAdvanceDays < 0:
		return fmt.Errorf("%w: booking.max_advance_days must not be negative", ErrInvalid)
	case b.CancellationDeadlineHours < 0:
		return fmt.Errorf("%w: booking.cancellation_deadline_hours must not be negative", ErrInvalid)
	case c.Events.Enabled && c.Events.RabbitURL == "":
		return fmt.Errorf("%w: events.rabbit_url is required when events are enabled", ErrInvalid)
	}

	if _, err := b.Policy(); err != nil {
		return err
	}

	return nil
}
