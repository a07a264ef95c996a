package conflicts

import "errors"

// ErrQuery возвращается, когда не удалось прочитать бронирования комнаты
var ErrQuery = errors.New("conflicts: failed to query bookings")
