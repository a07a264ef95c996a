package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// Store хранилище в памяти с теми же контрактами, что и репозитории PostgreSQL
// Транзакции выполняются строго по одной (глобальная блокировка), при ошибке
// состояние откатывается к снимку. Операции вне транзакции тоже берут блокировку.
type Store struct {
	mu sync.Mutex

	rooms    map[int64]*domain.Room
	bookings map[int64]*domain.Booking
	history  []*domain.HistoryEntry

	nextRoomID    int64
	nextBookingID int64
	nextHistoryID int64

	now func() time.Time
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		rooms:    make(map[int64]*domain.Room),
		bookings: make(map[int64]*domain.Booking),
		now:      time.Now,
	}
}

// WithClock подменяет источник времени для created_at/updated_at и истории
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Bookings репозиторий бронирований поверх хранилища
func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{s: s}
}

// Rooms репозиторий комнат поверх хранилища
func (s *Store) Rooms() *RoomRepository {
	return &RoomRepository{s: s}
}

// History журнал изменений поверх хранилища
func (s *Store) History() *HistoryRepository {
	return &HistoryRepository{s: s}
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// lock берёт блокировку хранилища, если вызов не внутри его транзакции
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// DoSerializable выполняет fn атомарно и изолированно от остальных операций
func (s *Store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.restore(snap)
		return err
	}
	if err := ctx.Err(); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// Do то же, что DoSerializable
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.DoSerializable(ctx, fn)
}

// DoReadOnly выполняет fn на согласованном снимке хранилища
func (s *Store) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.DoSerializable(ctx, fn)
}

type snapshot struct {
	rooms         map[int64]*domain.Room
	bookings      map[int64]*domain.Booking
	historyLen    int
	nextRoomID    int64
	nextBookingID int64
	nextHistoryID int64
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		rooms:         make(map[int64]*domain.Room, len(s.rooms)),
		bookings:      make(map[int64]*domain.Booking, len(s.bookings)),
		historyLen:    len(s.history),
		nextRoomID:    s.nextRoomID,
		nextBookingID: s.nextBookingID,
		nextHistoryID: s.nextHistoryID,
	}
	for id, r := range s.rooms {
		snap.rooms[id] = copyRoom(r)
	}
	for id, b := range s.bookings {
		snap.bookings[id] = copyBooking(b)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.rooms = snap.rooms
	s.bookings = snap.bookings
	// журнал только дописывается, поэтому достаточно отрезать хвост
	s.history = s.history[:snap.historyLen]
	s.nextRoomID = snap.nextRoomID
	s.nextBookingID = snap.nextBookingID
	s.nextHistoryID = snap.nextHistoryID
}

func copyRoom(r *domain.Room) *domain.Room {
	c := *r
	return &c
}

func copyBooking(b *domain.Booking) *domain.Booking {
	c := *b
	if b.ModeratorID != nil {
		id := *b.ModeratorID
		c.ModeratorID = &id
	}
	return &c
}

func copyEntry(e *domain.HistoryEntry) *domain.HistoryEntry {
	c := *e
	if e.ActorID != nil {
		id := *e.ActorID
		c.ActorID = &id
	}
	c.Details = make(map[string]any, len(e.Details))
	for k, v := range e.Details {
		c.Details[k] = v
	}
	return &c
}
