package models

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// Request модели

// CreateRoomRequest запрос на создание комнаты
type CreateRoomRequest struct {
	Name               string `json:"name"`
	Location           string `json:"location"`
	Description        string `json:"description"`
	Capacity           int    `json:"capacity"`
	HasProjector       bool   `json:"hasProjector"`
	HasVideoConference bool   `json:"hasVideoConference"`
	HasWhiteboard      bool   `json:"hasWhiteboard"`
	IsActive           *bool  `json:"isActive,omitempty"` // по умолчанию true
}

// ToDomainRoom конвертирует request в domain модель
func (r *CreateRoomRequest) ToDomainRoom() *domain.Room {
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}
	return &domain.Room{
		Name:               r.Name,
		Location:           r.Location,
		Description:        r.Description,
		Capacity:           r.Capacity,
		HasProjector:       r.HasProjector,
		HasVideoConference: r.HasVideoConference,
		HasWhiteboard:      r.HasWhiteboard,
		IsActive:           isActive,
	}
}

// UpdateRoomRequest запрос на обновление комнаты
// Все поля опциональны - обновляются только переданные значения
type UpdateRoomRequest struct {
	Name               *string `json:"name,omitempty"`
	Location           *string `json:"location,omitempty"`
	Description        *string `json:"description,omitempty"`
	Capacity           *int    `json:"capacity,omitempty"`
	HasProjector       *bool   `json:"hasProjector,omitempty"`
	HasVideoConference *bool   `json:"hasVideoConference,omitempty"`
	HasWhiteboard      *bool   `json:"hasWhiteboard,omitempty"`
	IsActive           *bool   `json:"isActive,omitempty"` // false - деактивация
}

// Apply применяет переданные поля к комнате
func (r *UpdateRoomRequest) Apply(room *domain.Room) {
	if r.Name != nil {
		room.Name = *r.Name
	}
	if r.Location != nil {
		room.Location = *r.Location
	}
	if r.Description != nil {
		room.Description = *r.Description
	}
	if r.Capacity != nil {
		room.Capacity = *r.Capacity
	}
	if r.HasProjector != nil {
		room.HasProjector = *r.HasProjector
	}
	if r.HasVideoConference != nil {
		room.HasVideoConference = *r.HasVideoConference
	}
	if r.HasWhiteboard != nil {
		room.HasWhiteboard = *r.HasWhiteboard
	}
	if r.IsActive != nil {
		room.IsActive = *r.IsActive
	}
}

// Response модели

// RoomResponse ответ с данными комнаты
type RoomResponse struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Location           string    `json:"location"`
	Description        string    `json:"description"`
	Capacity           int       `json:"capacity"`
	HasProjector       bool      `json:"hasProjector"`
	HasVideoConference bool      `json:"hasVideoConference"`
	HasWhiteboard      bool      `json:"hasWhiteboard"`
	IsActive           bool      `json:"isActive"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// RoomListResponse ответ со списком комнат
type RoomListResponse struct {
	Rooms []RoomResponse `json:"rooms"`
}

// DeleteRoomResponse результат удаления
type DeleteRoomResponse struct {
	ID          int64 `json:"id"`
	Deleted     bool  `json:"deleted"`
	Deactivated bool  `json:"deactivated"` // у комнаты есть прошедшие бронирования, она только отключена
}

// Методы конвертации

// FromDomainRoom конвертирует domain модель в DTO
func FromDomainRoom(r *domain.Room) *RoomResponse {
	if r == nil {
		return nil
	}
	return &RoomResponse{
		ID:                 r.ID,
		Name:               r.Name,
		Location:           r.Location,
		Description:        r.Description,
		Capacity:           r.Capacity,
		HasProjector:       r.HasProjector,
		HasVideoConference: r.HasVideoConference,
		HasWhiteboard:      r.HasWhiteboard,
		IsActive:           r.IsActive,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

// FromDomainRoomList конвертирует список domain моделей в DTO
func FromDomainRoomList(rooms []*domain.Room) *RoomListResponse {
	resp := &RoomListResponse{Rooms: make([]RoomResponse, 0, len(rooms))}
	for _, r := range rooms {
		resp.Rooms = append(resp.Rooms, *FromDomainRoom(r))
	}
	return resp
}
