package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomBookingService/pkg/psqlbuilder"
)

const tableName = "booking_history"

// Repository журнал изменений бронирований
// Только добавление и чтение: записи журнала не изменяются и не удаляются
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория истории
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append добавляет запись в журнал
// Вызывается внутри транзакции перехода, чтобы запись и новое состояние фиксировались вместе
func (r *Repository) Append(ctx context.Context, entry *domain.HistoryEntry) (*domain.HistoryEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	details := entry.Details
	if details == nil {
		details = map[string]any{}
	}
	payload, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("%w: Append: %v", ErrEncodeDetails, err)
	}

	var actorID sql.NullInt64
	if entry.ActorID != nil {
		actorID = sql.NullInt64{Int64: *entry.ActorID, Valid: true}
	}

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("booking_id", "actor_id", "action", "details").
		Values(entry.BookingID, actorID, entry.Action, string(payload)).
		Suffix("RETURNING id, timestamp").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Append - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: Append - execute insert: %w", ErrExecQuery, err)
	}

	entry.Details = details
	return entry, nil
}

// GetByBookingID возвращает записи журнала бронирования, новые сверху
// limit <= 0 означает без ограничения
func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64, limit int) ([]*domain.HistoryEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "booking_id", "actor_id", "action", "timestamp", "details").
		From(tableName).
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("timestamp DESC", "id DESC")

	if limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.HistoryEntry, 0)
	for rows.Next() {
		var (
			entry   domain.HistoryEntry
			actorID sql.NullInt64
			payload []byte
		)
		if err := rows.Scan(&entry.ID, &entry.BookingID, &actorID, &entry.Action, &entry.Timestamp, &payload); err != nil {
			return nil, fmt.Errorf("%w: GetByBookingID - scan row: %w", ErrScanRow, err)
		}
		if actorID.Valid {
			id := actorID.Int64
			entry.ActorID = &id
		}
		if err := json.Unmarshal(payload, &entry.Details); err != nil {
			return nil, fmt.Errorf("%w: GetByBookingID - decode details: %v", ErrScanRow, err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - rows error: %w", ErrScanRow, err)
	}

	return entries, nil
}
