package get_schedule

import "time"

// Request модель запроса расписания на день
type Request struct {
	Date     time.Time      // используются только год, месяц и день
	RoomID   *int64         // nil - все активные комнаты
	Location *time.Location // nil - часовой пояс политики бронирования
}
