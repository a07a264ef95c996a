package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-RoomBookingService/internal/config"
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/booking"
	historyRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/history"
	"github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/memory"
	roomRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/room"
	"github.com/m04kA/SMC-RoomBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
	"github.com/m04kA/SMC-RoomBookingService/pkg/metrics"
	"github.com/m04kA/SMC-RoomBookingService/pkg/migrator"
	"github.com/m04kA/SMC-RoomBookingService/pkg/txmanager"
)

// Общий набор методов postgres и memory репозиториев

type bookingStore interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	GetByRoomAndStatus(ctx context.Context, filter domain.RoomBookingsFilter) ([]*domain.Booking, error)
	GetByFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	UpdateDetails(ctx context.Context, booking *domain.Booking) error
	UpdateModeration(ctx context.Context, id int64, status domain.BookingStatus, moderatorID int64, comment string) error
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
}

type roomStore interface {
	Create(ctx context.Context, room *domain.Room) (*domain.Room, error)
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	LockForUpdate(ctx context.Context, id int64) (*domain.Room, error)
	List(ctx context.Context, includeInactive bool) ([]*domain.Room, error)
	Update(ctx context.Context, room *domain.Room) (*domain.Room, error)
	HasBookings(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}

type historyStore interface {
	Append(ctx context.Context, entry *domain.HistoryEntry) (*domain.HistoryEntry, error)
	GetByBookingID(ctx context.Context, bookingID int64, limit int) ([]*domain.HistoryEntry, error)
}

type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

type storage struct {
	bookings bookingStore
	rooms    roomStore
	history  historyStore
	tx       txManager
	close    func() error
}

// openStorage поднимает хранилище по database.driver
// m == nil означает выключенные метрики
func openStorage(cfg *config.Config, log *logger.Logger, m *metrics.Metrics, stopMetricsCh <-chan struct{}) (*storage, error) {
	if cfg.Database.Driver == config.StorageDriverMemory {
		log.Warn("Using in-memory storage: data is lost on restart")
		store := memory.NewStore()
		return &storage{
			bookings: store.Bookings(),
			rooms:    store.Rooms(),
			history:  store.History(),
			tx:       store,
			close:    func() error { return nil },
		}, nil
	}

	// Применяем миграции до открытия пула
	if cfg.Database.AutoMigrate {
		if err := migrator.Up(cfg.Database.MigrationsPath, cfg.Database.URL()); err != nil {
			return nil, err
		}
		log.Info("Database migrations applied from %s", cfg.Database.MigrationsPath)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// При выключенных метриках обёртка только пробрасывает вызовы
	var wrapped *dbmetrics.DB
	if m != nil {
		wrapped = dbmetrics.WrapWithDefault(db, m, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrapped = dbmetrics.Wrap(db, nil, cfg.Metrics.ServiceName)
	}

	return &storage{
		bookings: bookingRepo.NewRepository(wrapped),
		rooms:    roomRepo.NewRepository(wrapped),
		history:  historyRepo.NewRepository(wrapped),
		tx:       txmanager.NewTransactionManager(wrapped, txmanager.WithMaxAttempts(cfg.Database.MaxTxAttempts)),
		close:    db.Close,
	}, nil
}
