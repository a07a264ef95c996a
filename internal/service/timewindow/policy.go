package timewindow

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// Policy проверяет интервалы бронирований по правилам рабочего времени
// Не хранит состояния и не обращается к часам: текущее время передаётся явно
type Policy struct {
	cfg domain.BookingPolicy
}

// NewPolicy создает политику временных окон
func NewPolicy(cfg domain.BookingPolicy) *Policy {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Policy{cfg: cfg}
}

// Config возвращает параметры политики
func (p *Policy) Config() domain.BookingPolicy {
	return p.cfg
}

// Validate проверяет интервал относительно now
// Проверки выполняются по порядку, возвращается первая нарушенная
func (p *Policy) Validate(interval domain.Interval, now time.Time) error {
	if err := p.checkInterval(interval); err != nil {
		return err
	}

	if interval.Start.Before(now) {
		return fmt.Errorf("%w: start %s is before now %s",
			domain.ErrPastDate, p.format(interval.Start), p.format(now))
	}

	if p.cfg.HasAdvanceLimit() {
		limit := now.AddDate(0, 0, p.cfg.MaxAdvanceDays)
		if interval.Start.After(limit) {
			return fmt.Errorf("%w: bookings are allowed at most %d days ahead",
				domain.ErrAdvanceLimitExceeded, p.cfg.MaxAdvanceDays)
		}
	}

	duration := interval.Duration()
	if duration < p.cfg.MinDuration() {
		return fmt.Errorf("%w: minimum duration is %d minutes, got %d",
			domain.ErrDurationOutOfRange, p.cfg.MinDurationMinutes, int(duration.Minutes()))
	}
	if duration > p.cfg.MaxDuration() {
		return fmt.Errorf("%w: maximum duration is %d minutes, got %d",
			domain.ErrDurationOutOfRange, p.cfg.MaxDurationMinutes, int(duration.Minutes()))
	}

	return p.checkWorkingHours(interval)
}

// ValidateTimeOfDay проверяет только корректность интервала и рабочие часы
// Используется там, где дата и длительность уже не важны (расписание)
func (p *Policy) ValidateTimeOfDay(interval domain.Interval) error {
	if err := p.checkInterval(interval); err != nil {
		return err
	}
	return p.checkWorkingHours(interval)
}

// CanCancel проверяет, можно ли отменить бронирование в момент now
// Подтверждённое бронирование отменяется не позже чем за CancellationDeadlineHours до начала
func (p *Policy) CanCancel(booking *domain.Booking, now time.Time) error {
	if !booking.CanBeCancelled() {
		return fmt.Errorf("%w: cannot cancel %s booking", domain.ErrInvalidTransition, booking.Status)
	}
	if booking.Status != domain.StatusApproved {
		return nil
	}

	deadline := booking.StartTime.Add(-p.cfg.CancellationDeadline())
	if now.After(deadline) {
		return fmt.Errorf("%w: approved bookings can be cancelled at least %d hours before start",
			domain.ErrCancellationWindowClosed, p.cfg.CancellationDeadlineHours)
	}
	return nil
}

func (p *Policy) checkInterval(interval domain.Interval) error {
	if !interval.IsValid() {
		return fmt.Errorf("%w: start %s, end %s",
			domain.ErrInvalidInterval, p.format(interval.Start), p.format(interval.End))
	}
	return nil
}

func (p *Policy) checkWorkingHours(interval domain.Interval) error {
	local := interval.In(p.cfg.Loc())

	if local.Start.Hour() < p.cfg.WorkStartHour {
		return fmt.Errorf("%w: bookings start no earlier than %02d:00",
			domain.ErrOutsideWorkingHours, p.cfg.WorkStartHour)
	}

	y, m, d := local.Start.Date()
	workEnd := time.Date(y, m, d, p.cfg.WorkEndHour, p.cfg.WorkEndMinute, 0, 0, p.cfg.Loc())
	if local.End.After(workEnd) {
		return fmt.Errorf("%w: bookings end no later than %02d:%02d",
			domain.ErrOutsideWorkingHours, p.cfg.WorkEndHour, p.cfg.WorkEndMinute)
	}

	return nil
}

func (p *Policy) format(t time.Time) string {
	return t.In(p.cfg.Loc()).Format(time.RFC3339)
}
