package create_booking

import "time"

// Request модель запроса на создание бронирования
type Request struct {
	RoomID            int64     // ID комнаты
	RequesterID       int64     // ID автора заявки
	Title             string    // Тема встречи
	Description       string    // Описание (опционально)
	StartTime         time.Time // Начало (абсолютное время)
	EndTime           time.Time // Конец (абсолютное время, не включается)
	ParticipantsCount int       // Количество участников, 0 - один участник
}
