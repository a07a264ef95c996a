// Package usecasetest собирает сценарии жизненного цикла поверх хранилища в памяти
package usecasetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-RoomBookingService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/conflicts"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/history"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/timewindow"
)

// Now понедельник 10 марта 2025, 08:00 UTC
var Now = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

// At время завтрашнего дня (11 марта) в UTC
func At(hour, minute int) time.Time {
	return time.Date(2025, 3, 11, hour, minute, 0, 0, time.UTC)
}

// Clock управляемые часы
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set переводит часы
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Env окружение сценария
type Env struct {
	Store    *memory.Store
	Policy   *timewindow.Policy
	Detector *conflicts.Detector
	History  *history.Log
	Events   *eventbus.Recorder
	Clock    *Clock
}

// NewEnv создает окружение с политикой по умолчанию (UTC), изменённой mutate
func NewEnv(mutate ...func(*domain.BookingPolicy)) *Env {
	cfg := domain.DefaultBookingPolicy()
	for _, m := range mutate {
		m(&cfg)
	}

	clock := &Clock{now: Now}
	store := memory.NewStore().WithClock(clock.Now)

	return &Env{
		Store:    store,
		Policy:   timewindow.NewPolicy(cfg),
		Detector: conflicts.NewDetector(store.Bookings()),
		History:  history.NewLog(store.History()),
		Events:   &eventbus.Recorder{},
		Clock:    clock,
	}
}

// Room создает активную комнату
func (e *Env) Room(t testing.TB, name string, capacity int) *domain.Room {
	t.Helper()
	room, err := e.Store.Rooms().Create(context.Background(), &domain.Room{Name: name, Capacity: capacity, IsActive: true})
	require.NoError(t, err)
	return room
}

// Booking сохраняет бронирование напрямую, минуя проверки жизненного цикла
func (e *Env) Booking(t testing.TB, roomID, requesterID int64, status domain.BookingStatus, start, end time.Time) *domain.Booking {
	t.Helper()
	b, err := e.Store.Bookings().Create(context.Background(), &domain.Booking{
		RoomID:            roomID,
		RequesterID:       requesterID,
		Title:             "Meeting",
		StartTime:         start,
		EndTime:           end,
		ParticipantsCount: 1,
		Status:            status,
	})
	require.NoError(t, err)
	return b
}

// Get перечитывает бронирование из хранилища
func (e *Env) Get(t testing.TB, id int64) *domain.Booking {
	t.Helper()
	b, err := e.Store.Bookings().GetByID(context.Background(), id)
	require.NoError(t, err)
	return b
}

// HistoryOf возвращает журнал бронирования, новые записи сверху
func (e *Env) HistoryOf(t testing.TB, id int64) []*domain.HistoryEntry {
	t.Helper()
	entries, err := e.History.Query(context.Background(), id, 0)
	require.NoError(t, err)
	return entries
}
