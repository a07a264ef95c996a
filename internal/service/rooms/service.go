package rooms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	roomRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/room"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/rooms/models"
)

// Service сервис справочника комнат
type Service struct {
	roomRepo     RoomRepository
	bookingRepo  BookingRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса комнат
func NewService(
	roomRepo RoomRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		roomRepo:     roomRepo,
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Create создает комнату
func (s *Service) Create(ctx context.Context, req *models.CreateRoomRequest) (*models.RoomResponse, error) {
	s.logger.Info("Create: creating room name=%q, capacity=%d", req.Name, req.Capacity)

	room := req.ToDomainRoom()
	if err := validateRoom(room); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.roomRepo.Create(ctx, room)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created room id=%d", created.ID)
	return models.FromDomainRoom(created), nil
}

// GetByID получает комнату по ID
// Публичный метод - доступен всем
func (s *Service) GetByID(ctx context.Context, id int64) (*models.RoomResponse, error) {
	s.logger.Info("GetByID: fetching room id=%d", id)

	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRoomError("GetByID", id, err)
	}

	return models.FromDomainRoom(room), nil
}

// List возвращает комнаты по имени; неактивные только по запросу
func (s *Service) List(ctx context.Context, includeInactive bool) (*models.RoomListResponse, error) {
	s.logger.Info("List: fetching rooms, includeInactive=%t", includeInactive)

	rooms, err := s.roomRepo.List(ctx, includeInactive)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d rooms", len(rooms))
	return models.FromDomainRoomList(rooms), nil
}

// Update обновляет комнату; IsActive=false деактивирует её
// Уже подтверждённые бронирования деактивированной комнаты остаются в силе
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateRoomRequest) (*models.RoomResponse, error) {
	s.logger.Info("Update: updating room id=%d", id)

	var result *domain.Room

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		room, err := s.roomRepo.LockForUpdate(txCtx, id)
		if err != nil {
			return s.mapRoomError("Update", id, err)
		}

		req.Apply(room)
		if err := validateRoom(room); err != nil {
			s.logger.Warn("Update: validation failed for room id=%d: %v", id, err)
			return err
		}

		updated, err := s.roomRepo.Update(txCtx, room)
		if err != nil {
			return s.mapRoomError("Update", id, err)
		}

		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: successfully updated room id=%d, active=%t", id, result.IsActive)
	return models.FromDomainRoom(result), nil
}

// Delete удаляет комнату
// Комнату с будущими подтверждёнными бронированиями удалить нельзя.
// Комната, на которую ссылаются бронирования, деактивируется: бронирования не удаляются никогда
func (s *Service) Delete(ctx context.Context, id int64) (*models.DeleteRoomResponse, error) {
	s.logger.Info("Delete: deleting room id=%d", id)

	resp := &models.DeleteRoomResponse{ID: id}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		room, err := s.roomRepo.LockForUpdate(txCtx, id)
		if err != nil {
			return s.mapRoomError("Delete", id, err)
		}

		now := s.timeProvider.Now()
		future, err := s.bookingRepo.GetByFilter(txCtx, domain.BookingsFilter{
			RoomID:    &room.ID,
			Statuses:  domain.ApprovedStatuses,
			StartFrom: &now,
		})
		if err != nil {
			s.logger.Error("Delete: failed to get bookings of room id=%d: %v", id, err)
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}
		if len(future) > 0 {
			s.logger.Warn("Delete: room id=%d has %d future approved bookings", id, len(future))
			return fmt.Errorf("%w: room id=%d has %d", domain.ErrRoomHasFutureBookings, id, len(future))
		}

		// Любая ошибка оператора прерывает транзакцию, поэтому ссылки проверяются до DELETE
		inUse, err := s.roomRepo.HasBookings(txCtx, id)
		if err != nil {
			return s.mapRoomError("Delete", id, err)
		}

		if inUse {
			room.IsActive = false
			if _, err := s.roomRepo.Update(txCtx, room); err != nil {
				return s.mapRoomError("Delete", id, err)
			}
			resp.Deactivated = true
			return nil
		}

		if err := s.roomRepo.Delete(txCtx, id); err != nil {
			return s.mapRoomError("Delete", id, err)
		}
		resp.Deleted = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Delete: room id=%d deleted=%t, deactivated=%t", id, resp.Deleted, resp.Deactivated)
	return resp, nil
}

// Вспомогательные методы

func (s *Service) mapRoomError(op string, id int64, err error) error {
	if errors.Is(err, roomRepo.ErrRoomNotFound) {
		s.logger.Warn("%s: room id=%d not found", op, id)
		return fmt.Errorf("%w: room id=%d", domain.ErrNotFound, id)
	}
	s.logger.Error("%s: repository error for room id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

// validateRoom нормализует и проверяет поля комнаты
func validateRoom(room *domain.Room) error {
	room.Name = strings.TrimSpace(room.Name)
	if room.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(room.Name) > domain.MaxRoomNameLength {
		return fmt.Errorf("%w: name is longer than %d characters", ErrInvalidInput, domain.MaxRoomNameLength)
	}
	if utf8.RuneCountInString(room.Description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description is longer than %d characters", ErrInvalidInput, domain.MaxDescriptionLength)
	}
	if room.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", ErrInvalidInput)
	}
	return nil
}
