package cancel_booking

// Request запрос на отмену бронирования
// Право на отмену (владелец или модератор) проверяет вызывающая сторона
type Request struct {
	BookingID int64
	ActorID   int64
}
