package reject_booking

// Request запрос на отклонение бронирования модератором
type Request struct {
	BookingID   int64
	ModeratorID int64
	Comment     string
}
