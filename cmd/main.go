package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	approveBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/approve_booking"
	cancelBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/cancel_booking"
	checkAvailabilityHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/check_availability"
	createBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/create_booking"
	createRoomHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/create_room"
	deleteRoomHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/delete_room"
	getBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/get_booking"
	getBookingHistoryHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/get_booking_history"
	getPendingBookingsHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/get_pending_bookings"
	getRoomHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/get_room"
	getScheduleHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/get_schedule"
	getUserBookingsHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/get_user_bookings"
	listRoomsHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/list_rooms"
	rejectBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/reject_booking"
	updateBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/update_booking"
	updateRoomHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/update_room"
	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomBookingService/internal/config"
	"github.com/m04kA/SMC-RoomBookingService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-RoomBookingService/internal/integrations/userdirectory"
	bookingsService "github.com/m04kA/SMC-RoomBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/conflicts"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/history"
	roomsService "github.com/m04kA/SMC-RoomBookingService/internal/service/rooms"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/timewindow"
	approveBookingUC "github.com/m04kA/SMC-RoomBookingService/internal/usecase/approve_booking"
	cancelBookingUC "github.com/m04kA/SMC-RoomBookingService/internal/usecase/cancel_booking"
	checkAvailabilityUC "github.com/m04kA/SMC-RoomBookingService/internal/usecase/check_availability"
	createBookingUC "github.com/m04kA/SMC-RoomBookingService/internal/usecase/create_booking"
	getScheduleUC "github.com/m04kA/SMC-RoomBookingService/internal/usecase/get_schedule"
	rejectBookingUC "github.com/m04kA/SMC-RoomBookingService/internal/usecase/reject_booking"
	updateBookingUC "github.com/m04kA/SMC-RoomBookingService/internal/usecase/update_booking"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
	"github.com/m04kA/SMC-RoomBookingService/pkg/metrics"
)

// transitionMetrics бизнес-метрики use cases
type transitionMetrics interface {
	ObserveTransition(action, outcome string)
	ObserveConflict(operation string)
}

type eventPublisher interface {
	Publish(ctx context.Context, event eventbus.BookingEvent) error
}

type moderatorDirectory interface {
	IsModerator(ctx context.Context, userID int64) (bool, error)
}

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML configuration file")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-RoomBookingService...")
	log.Info("Configuration loaded from %s", *configPath)

	policyCfg, err := cfg.Booking.Policy()
	if err != nil {
		log.Fatal("Invalid booking policy: %v", err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var bookingMetrics transitionMetrics = metrics.Nop{}
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		bookingMetrics = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище: postgres или память
	store, err := openStorage(cfg, log, metricsCollector, stopMetricsCh)
	if err != nil {
		log.Fatal("Failed to open storage: %v", err)
	}
	defer store.close()

	// Инициализируем интеграции
	var users moderatorDirectory
	if cfg.UserDirectory.URL != "" {
		users = userdirectory.NewClient(
			cfg.UserDirectory.URL,
			time.Duration(cfg.UserDirectory.Timeout)*time.Second,
			log,
		)
		log.Info("User directory client initialized (url=%s, timeout=%ds)", cfg.UserDirectory.URL, cfg.UserDirectory.Timeout)
	} else {
		users = userdirectory.NewStatic(cfg.UserDirectory.ModeratorIDs)
		log.Info("Static user directory with %d moderators", len(cfg.UserDirectory.ModeratorIDs))
	}

	var publisher eventPublisher = eventbus.Nop{}
	if cfg.Events.Enabled {
		p, err := eventbus.NewPublisher(cfg.Events.RabbitURL, cfg.Events.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		defer p.Close()
		publisher = p
		log.Info("Booking events are published to exchange %s", cfg.Events.Exchange)
	}

	// Инициализируем сервисы
	policy := timewindow.NewPolicy(policyCfg)
	detector := conflicts.NewDetector(store.bookings)
	historyLog := history.NewLog(store.history)

	bookingSvc := bookingsService.NewService(store.bookings, historyLog, users, log)
	roomSvc := roomsService.NewService(store.rooms, store.bookings, store.tx, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		store.bookings, store.rooms, detector, policy, historyLog, publisher, bookingMetrics, store.tx, log,
	)
	updateBookingUseCase := updateBookingUC.NewUseCase(
		store.bookings, store.rooms, detector, policy, historyLog, publisher, bookingMetrics, store.tx, log,
	)
	approveBookingUseCase := approveBookingUC.NewUseCase(
		store.bookings, store.rooms, detector, historyLog, publisher, bookingMetrics, store.tx, log,
	)
	rejectBookingUseCase := rejectBookingUC.NewUseCase(
		store.bookings, store.rooms, historyLog, publisher, bookingMetrics, store.tx, log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		store.bookings, store.rooms, policy, historyLog, publisher, bookingMetrics, store.tx, log,
	)
	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(store.rooms, detector, policy, log)
	getScheduleUseCase := getScheduleUC.NewUseCase(store.bookings, store.rooms, policy, store.tx, log)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBooking := updateBookingHandler.NewHandler(updateBookingUseCase, log)
	approveBooking := approveBookingHandler.NewHandler(approveBookingUseCase, log)
	rejectBooking := rejectBookingHandler.NewHandler(rejectBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, cancelBookingUseCase, log)
	getBookingHistory := getBookingHistoryHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getPendingBookings := getPendingBookingsHandler.NewHandler(bookingSvc, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(checkAvailabilityUseCase, log)
	getSchedule := getScheduleHandler.NewHandler(getScheduleUseCase, log)
	listRooms := listRoomsHandler.NewHandler(roomSvc, log)
	getRoom := getRoomHandler.NewHandler(roomSvc, log)
	createRoom := createRoomHandler.NewHandler(roomSvc, log)
	updateRoom := updateRoomHandler.NewHandler(roomSvc, log)
	deleteRoom := deleteRoomHandler.NewHandler(roomSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Справочник комнат
	api.HandleFunc("/rooms", listRooms.Handle).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{roomId}", getRoom.Handle).Methods(http.MethodGet)

	// Доступность интервала и расписание на день
	api.HandleFunc("/availability", checkAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/schedule", getSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/history", getBookingHistory.Handle).Methods(http.MethodGet)

	// Бронирования пользователя со счётчиками по статусам
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// ============================================================
	// MODERATOR ROUTES (роль проверяется в справочнике пользователей)
	// ============================================================

	moderator := protected.PathPrefix("").Subrouter()
	moderator.Use(middleware.RequireModerator(users, log))

	moderator.HandleFunc("/bookings/{bookingId}/approve", approveBooking.Handle).Methods(http.MethodPatch)
	moderator.HandleFunc("/bookings/{bookingId}/reject", rejectBooking.Handle).Methods(http.MethodPatch)
	moderator.HandleFunc("/moderation/pending", getPendingBookings.Handle).Methods(http.MethodGet)

	// --- Управление комнатами ---
	moderator.HandleFunc("/rooms", createRoom.Handle).Methods(http.MethodPost)
	moderator.HandleFunc("/rooms/{roomId}", updateRoom.Handle).Methods(http.MethodPut)
	moderator.HandleFunc("/rooms/{roomId}", deleteRoom.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}
