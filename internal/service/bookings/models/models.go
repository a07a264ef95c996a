package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID   int64      `json:"userId"`
	ViewerID int64      `json:"-"`                // кто запрашивает: сам пользователь или модератор
	Status   *string    `json:"status,omitempty"` // Фильтр по статусу (опционально)
	From     *time.Time `json:"from,omitempty"`   // Начало не раньше (опционально)
	To       *time.Time `json:"to,omitempty"`     // Начало раньше (опционально)
	RoomID   *int64     `json:"roomId,omitempty"` // Фильтр по комнате (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetUserBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		RoomID:      r.RoomID,
		RequesterID: &r.UserID,
		StartFrom:   r.From,
		StartBefore: r.To,
		Order:       domain.OrderByCreatedAtDesc,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Statuses = []domain.BookingStatus{status}
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                int64     `json:"id"`
	RoomID            int64     `json:"roomId"`
	RequesterID       int64     `json:"requesterId"`
	Title             string    `json:"title"`
	Description       string    `json:"description,omitempty"`
	StartTime         time.Time `json:"startTime"`
	EndTime           time.Time `json:"endTime"`
	ParticipantsCount int       `json:"participantsCount"`
	Status            string    `json:"status"`
	ModeratorID       *int64    `json:"moderatorId,omitempty"`
	ModerationComment string    `json:"moderationComment,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// StatsResponse количество бронирований по статусам
type StatsResponse struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
	Cancelled int `json:"cancelled"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Stats    *StatsResponse    `json:"stats,omitempty"`
}

// HistoryEntryResponse запись журнала
type HistoryEntryResponse struct {
	ID        int64          `json:"id"`
	ActorID   *int64         `json:"actorId,omitempty"`
	Action    string         `json:"action"`
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details"`
}

// HistoryResponse журнал бронирования, новые записи первыми
type HistoryResponse struct {
	BookingID int64                  `json:"bookingId"`
	Entries   []HistoryEntryResponse `json:"entries"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:                b.ID,
		RoomID:            b.RoomID,
		RequesterID:       b.RequesterID,
		Title:             b.Title,
		Description:       b.Description,
		StartTime:         b.StartTime,
		EndTime:           b.EndTime,
		ParticipantsCount: b.ParticipantsCount,
		Status:            string(b.Status),
		ModeratorID:       b.ModeratorID,
		ModerationComment: b.ModerationComment,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// FromDomainStats конвертирует счётчики по статусам
func FromDomainStats(c domain.StatusCounts) *StatsResponse {
	return &StatsResponse{
		Total:     c.Total,
		Pending:   c.Pending,
		Approved:  c.Approved,
		Rejected:  c.Rejected,
		Cancelled: c.Cancelled,
	}
}

// FromDomainHistory конвертирует журнал бронирования
func FromDomainHistory(bookingID int64, entries []*domain.HistoryEntry) *HistoryResponse {
	resp := &HistoryResponse{
		BookingID: bookingID,
		Entries:   make([]HistoryEntryResponse, 0, len(entries)),
	}

	for _, e := range entries {
		details := e.Details
		if details == nil {
			details = map[string]any{}
		}
		resp.Entries = append(resp.Entries, HistoryEntryResponse{
			ID:        e.ID,
			ActorID:   e.ActorID,
			Action:    string(e.Action),
			Timestamp: e.Timestamp,
			Details:   details,
		})
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
