package domain

// Default booking policy values
const (
	DefaultWorkStartHour             = 7
	DefaultWorkEndHour               = 16
	DefaultWorkEndMinute             = 30
	DefaultMinDurationMinutes        = 30
	DefaultMaxDurationMinutes        = 480 // 8 hours
	DefaultMaxAdvanceDays            = 30
	DefaultCancellationDeadlineHours = 2
)

// Business validation constants
const (
	MaxTitleLength           = 200
	MaxDescriptionLength     = 2000
	MaxRoomNameLength        = 200
	MaxCommentLength         = 1000
	DefaultHistoryLimit      = 10
	MaxHistoryLimit          = 100
	DefaultParticipantsCount = 1
)

// Time format constants
const (
	TimeFormat     = "15:04"      // HH:MM
	DateFormat     = "2006-01-02" // YYYY-MM-DD
	DateTimeFormat = "2006-01-02T15:04:05Z07:00"
)

// LiveStatuses bookings that block a time range for new or edited requests
var LiveStatuses = []BookingStatus{
	StatusPending,
	StatusApproved,
}

// ApprovedStatuses bookings that block a time range for approval and availability
var ApprovedStatuses = []BookingStatus{
	StatusApproved,
}
