package approve_booking

// Request запрос на подтверждение бронирования модератором
type Request struct {
	BookingID   int64
	ModeratorID int64
	Comment     string
}
