package check_availability

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// Request модель запроса проверки доступности комнаты
type Request struct {
	RoomID    int64
	StartTime time.Time
	EndTime   time.Time
}

// Response результат проверки
// Reason заполняется, если Available == false: первая нарушенная проверка
type Response struct {
	Available   bool
	TimeValid   bool
	Reason      string
	Conflicting bool
	Conflicts   []*domain.Booking
}
