package memory

import (
	"context"
	"sort"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	roomRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/room"
)

// RoomRepository комнаты в памяти
type RoomRepository struct {
	s *Store
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	defer r.s.lock(ctx)()

	r.s.nextRoomID++
	now := r.s.now()

	room.ID = r.s.nextRoomID
	room.CreatedAt = now
	room.UpdatedAt = now
	r.s.rooms[room.ID] = copyRoom(room)

	return room, nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	defer r.s.lock(ctx)()

	room, ok := r.s.rooms[id]
	if !ok {
		return nil, roomRepo.ErrRoomNotFound
	}
	return copyRoom(room), nil
}

// LockForUpdate в памяти совпадает с GetByID: транзакции и так выполняются по одной
func (r *RoomRepository) LockForUpdate(ctx context.Context, id int64) (*domain.Room, error) {
	return r.GetByID(ctx, id)
}

func (r *RoomRepository) List(ctx context.Context, includeInactive bool) ([]*domain.Room, error) {
	defer r.s.lock(ctx)()

	rooms := make([]*domain.Room, 0, len(r.s.rooms))
	for _, room := range r.s.rooms {
		if !includeInactive && !room.IsActive {
			continue
		}
		rooms = append(rooms, copyRoom(room))
	}

	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].Name != rooms[j].Name {
			return rooms[i].Name < rooms[j].Name
		}
		return rooms[i].ID < rooms[j].ID
	})
	return rooms, nil
}

func (r *RoomRepository) Update(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	defer r.s.lock(ctx)()

	stored, ok := r.s.rooms[room.ID]
	if !ok {
		return nil, roomRepo.ErrRoomNotFound
	}

	room.CreatedAt = stored.CreatedAt
	room.UpdatedAt = r.s.now()
	r.s.rooms[room.ID] = copyRoom(room)

	return room, nil
}

// HasBookings сообщает, ссылается ли на комнату хотя бы одно бронирование
func (r *RoomRepository) HasBookings(ctx context.Context, id int64) (bool, error) {
	defer r.s.lock(ctx)()

	for _, b := range r.s.bookings {
		if b.RoomID == id {
			return true, nil
		}
	}
	return false, nil
}

// Delete удаляет комнату; как и внешний ключ в PostgreSQL, не даёт удалить комнату с бронированиями
func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.rooms[id]; !ok {
		return roomRepo.ErrRoomNotFound
	}
	for _, b := range r.s.bookings {
		if b.RoomID == id {
			return roomRepo.ErrRoomInUse
		}
	}

	delete(r.s.rooms, id)
	return nil
}
