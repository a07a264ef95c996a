package domain

import "time"

// BookingPolicy holds the time-window rules every booking must satisfy.
// Working hours are expressed in Location; a zero MaxAdvanceDays means no limit.
type BookingPolicy struct {
	WorkStartHour             int
	WorkEndHour               int
	WorkEndMinute             int
	MinDurationMinutes        int
	MaxDurationMinutes        int
	MaxAdvanceDays            int
	CancellationDeadlineHours int
	Location                  *time.Location
}

// DefaultBookingPolicy returns the policy with default values in UTC
func DefaultBookingPolicy() BookingPolicy {
	return BookingPolicy{
		WorkStartHour:             DefaultWorkStartHour,
		WorkEndHour:               DefaultWorkEndHour,
		WorkEndMinute:             DefaultWorkEndMinute,
		MinDurationMinutes:        DefaultMinDurationMinutes,
		MaxDurationMinutes:        DefaultMaxDurationMinutes,
		MaxAdvanceDays:            DefaultMaxAdvanceDays,
		CancellationDeadlineHours: DefaultCancellationDeadlineHours,
		Location:                  time.UTC,
	}
}

// Loc returns the policy location, UTC if not set
func (p BookingPolicy) Loc() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// HasAdvanceLimit returns true if there's a limit on how far ahead bookings can be made
func (p BookingPolicy) HasAdvanceLimit() bool {
	return p.MaxAdvanceDays > 0
}

// MinDuration returns the minimal booking length
func (p BookingPolicy) MinDuration() time.Duration {
	return time.Duration(p.MinDurationMinutes) * time.Minute
}

// MaxDuration returns the maximal booking length
func (p BookingPolicy) MaxDuration() time.Duration {
	return time.Duration(p.MaxDurationMinutes) * time.Minute
}

// CancellationDeadline returns how long before start an approved booking can still be cancelled
func (p BookingPolicy) CancellationDeadline() time.Duration {
	return time.Duration(p.CancellationDeadlineHours) * time.Hour
}

// WorkingHoursIn returns the hours of day, in day's location, that overlap the
// working window. With day in Location it is WorkStartHour up to the last hour
// that has working time in it
func (p BookingPolicy) WorkingHoursIn(day time.Time) []int {
	y, m, d := day.Date()
	loc := day.Location()

	hours := make([]int, 0, 24)
	for h := 0; h < 24; h++ {
		from := time.Date(y, m, d, h, 0, 0, 0, loc)
		if from.Hour() != h {
			// skipped by a DST transition
			continue
		}
		if p.overlapsWorkingTime(from, from.Add(time.Hour)) {
			hours = append(hours, h)
		}
	}
	return hours
}

// overlapsWorkingTime reports whether [from, to) intersects the working window
// of the policy days containing from or to
func (p BookingPolicy) overlapsWorkingTime(from, to time.Time) bool {
	loc := p.Loc()
	for _, t := range []time.Time{from, to} {
		y, m, d := t.In(loc).Date()
		start := time.Date(y, m, d, p.WorkStartHour, 0, 0, 0, loc)
		end := time.Date(y, m, d, p.WorkEndHour, p.WorkEndMinute, 0, 0, loc)
		if from.Before(end) && start.Before(to) {
			return true
		}
	}
	return false
}
