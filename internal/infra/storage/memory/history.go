package memory

import (
	"context"
	"sort"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// HistoryRepository журнал изменений в памяти
type HistoryRepository struct {
	s *Store
}

func (r *HistoryRepository) Append(ctx context.Context, entry *domain.HistoryEntry) (*domain.HistoryEntry, error) {
	defer r.s.lock(ctx)()

	if entry.Details == nil {
		entry.Details = map[string]any{}
	}

	r.s.nextHistoryID++
	entry.ID = r.s.nextHistoryID
	entry.Timestamp = r.s.now()
	r.s.history = append(r.s.history, copyEntry(entry))

	return entry, nil
}

func (r *HistoryRepository) GetByBookingID(ctx context.Context, bookingID int64, limit int) ([]*domain.HistoryEntry, error) {
	defer r.s.lock(ctx)()

	entries := make([]*domain.HistoryEntry, 0)
	for _, e := range r.s.history {
		if e.BookingID == bookingID {
			entries = append(entries, copyEntry(e))
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].Timestamp.After(entries[j].Timestamp)
		}
		return entries[i].ID > entries[j].ID
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
