package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/bookings/models"
)

// Service сервис чтения бронирований
type Service struct {
	bookingRepo BookingRepository
	history     HistoryReader
	users       UserDirectory
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	history HistoryReader,
	users UserDirectory,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		history:     history,
		users:       users,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Видеть бронирование может его автор или модератор
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getAccessible(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// CheckAccess проверяет, что пользователь автор бронирования или модератор
func (s *Service) CheckAccess(ctx context.Context, id int64, userID int64) error {
	_, err := s.getAccessible(ctx, id, userID)
	return err
}

// GetHistory возвращает журнал бронирования, новые записи первыми
// limit <= 0 означает значение по умолчанию, больше MaxHistoryLimit не отдаётся
func (s *Service) GetHistory(ctx context.Context, id int64, userID int64, limit int) (*models.HistoryResponse, error) {
	s.logger.Info("GetHistory: booking id=%d, user=%d, limit=%d", id, userID, limit)

	if _, err := s.getAccessible(ctx, id, userID); err != nil {
		return nil, err
	}

	switch {
	case limit <= 0:
		limit = domain.DefaultHistoryLimit
	case limit > domain.MaxHistoryLimit:
		limit = domain.MaxHistoryLimit
	}

	entries, err := s.history.Query(ctx, id, limit)
	if err != nil {
		s.logger.Error("GetHistory: failed to query history for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetHistory - history error: %v", ErrInternal, err)
	}

	return models.FromDomainHistory(id, entries), nil
}

// GetUserBookings получает бронирования пользователя со счётчиками по статусам
// Счётчики считаются по всем бронированиям пользователя без учёта фильтров
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, viewer=%d", req.UserID, req.ViewerID)

	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if req.From != nil && req.To != nil && !req.From.Before(*req.To) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	if req.ViewerID != req.UserID {
		if err := s.requireModerator(ctx, req.ViewerID); err != nil {
			return nil, err
		}
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetUserBookings: invalid filter for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	all, err := s.bookingRepo.GetByFilter(ctx, domain.BookingsFilter{RequesterID: &req.UserID})
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d stats: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	resp := models.FromDomainBookingList(bookings)
	resp.Stats = models.FromDomainStats(domain.CountByStatus(all))

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return resp, nil
}

// GetPendingBookings очередь модерации: ожидающие заявки по времени начала
func (s *Service) GetPendingBookings(ctx context.Context, roomID *int64) (*models.BookingListResponse, error) {
	s.logger.Info("GetPendingBookings: fetching moderation queue")

	bookings, err := s.bookingRepo.GetByFilter(ctx, domain.BookingsFilter{
		RoomID:   roomID,
		Statuses: []domain.BookingStatus{domain.StatusPending},
		Order:    domain.OrderByStartAsc,
	})
	if err != nil {
		s.logger.Error("GetPendingBookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetPendingBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetPendingBookings: %d bookings awaiting moderation", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// Вспомогательные методы

func (s *Service) getAccessible(ctx context.Context, id int64, userID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("booking id=%d not found", id)
			return nil, fmt.Errorf("%w: booking id=%d", domain.ErrNotFound, id)
		}
		s.logger.Error("repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	if booking.RequesterID == userID {
		return booking, nil
	}

	if err := s.requireModerator(ctx, userID); err != nil {
		s.logger.Warn("access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	return booking, nil
}

// requireModerator возвращает domain.ErrAccessDenied, если пользователь не модератор
func (s *Service) requireModerator(ctx context.Context, userID int64) error {
	ok, err := s.users.IsModerator(ctx, userID)
	if err != nil {
		s.logger.Error("requireModerator: failed to resolve role of user=%d: %v", userID, err)
		return fmt.Errorf("%w: requireModerator - user directory error: %v", ErrInternal, err)
	}
	if !ok {
		return fmt.Errorf("%w: user=%d is not a moderator", domain.ErrAccessDenied, userID)
	}
	return nil
}
