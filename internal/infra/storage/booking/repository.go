package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomBookingService/pkg/psqlbuilder"
)

const tableName = "bookings"

// SQLSTATE ошибок, которые имеют доменный смысл
const (
	codeExclusionViolation  = "23P01"
	codeForeignKeyViolation = "23503"
)

var columns = []string{
	"id",
	"room_id",
	"requester_id",
	"title",
	"description",
	"start_time",
	"end_time",
	"participants_count",
	"status",
	"moderator_id",
	"moderation_comment",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её.
// Ошибки сериализации PostgreSQL сохраняются в цепочке (errors.As *pq.Error),
// чтобы менеджер транзакций мог повторить попытку.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if !booking.Status.IsValid() {
		return nil, fmt.Errorf("%w: Create - %q", ErrInvalidStatus, booking.Status)
	}

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"room_id",
			"requester_id",
			"title",
			"description",
			"start_time",
			"end_time",
			"participants_count",
			"status",
		).
		Values(
			booking.RoomID,
			booking.RequesterID,
			booking.Title,
			booking.Description,
			booking.StartTime,
			booking.EndTime,
			booking.ParticipantsCount,
			booking.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, mapWriteError("Create - execute insert", err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID без блокировки
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate получает бронирование по ID и блокирует строку до конца транзакции
// Вне транзакции ведёт себя как GetByID
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getByID(ctx, id, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) getByID(ctx context.Context, id int64, forUpdate bool) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id})

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetByRoomAndStatus возвращает бронирования комнаты с указанными статусами
// Используется детектором конфликтов. Внутри транзакции строки блокируются (FOR UPDATE).
func (r *Repository) GetByRoomAndStatus(ctx context.Context, filter domain.RoomBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := roomBookingsQuery(filter, dbmetrics.IsInTransaction(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: GetByRoomAndStatus - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByRoomAndStatus - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// roomBookingsQuery строит запрос детектора конфликтов
// При заданном окне в выборку попадают только бронирования, пересекающие его:
// start_time < window.End AND end_time > window.Start
func roomBookingsQuery(filter domain.RoomBookingsFilter, forUpdate bool) (string, []interface{}, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"room_id": filter.RoomID}).
		Where(squirrel.Eq{"status": statusStrings(filter.Statuses)})

	if filter.ExcludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *filter.ExcludeID})
	}

	if filter.Window != nil {
		selectBuilder = selectBuilder.
			Where(squirrel.Lt{"start_time": filter.Window.End}).
			Where(squirrel.Gt{"end_time": filter.Window.Start})
	}

	selectBuilder = selectBuilder.OrderBy("start_time ASC", "id ASC")

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	return selectBuilder.ToSql()
}

// GetByFilter получает бронирования с гибкой фильтрацией
//
// Примеры использования:
//
// 1. Бронирования пользователя, новые сверху:
//    filter := domain.BookingsFilter{RequesterID: &userID, Order: domain.OrderByCreatedAtDesc}
//
// 2. Очередь модерации:
//    filter := domain.BookingsFilter{Statuses: []domain.BookingStatus{domain.StatusPending}, Order: domain.OrderByStartAsc}
//
// 3. Подтверждённые бронирования за сутки:
//    filter := domain.BookingsFilter{Statuses: domain.ApprovedStatuses, StartFrom: &dayStart, StartBefore: &dayEnd}
func (r *Repository) GetByFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := filterQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFilter - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func filterQuery(filter domain.BookingsFilter) (string, []interface{}, error) {
	selectBuilder := psqlbuilder.Select(columns...).From(tableName)

	if filter.RoomID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"room_id": *filter.RoomID})
	}
	if filter.RequesterID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"requester_id": *filter.RequesterID})
	}
	if len(filter.Statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(filter.Statuses)})
	}
	if filter.StartFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_time": *filter.StartFrom})
	}
	if filter.StartBefore != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_time": *filter.StartBefore})
	}

	switch filter.Order {
	case domain.OrderByCreatedAtDesc:
		selectBuilder = selectBuilder.OrderBy("created_at DESC", "id DESC")
	default:
		selectBuilder = selectBuilder.OrderBy("start_time ASC", "id ASC")
	}

	return selectBuilder.ToSql()
}

// UpdateDetails обновляет редактируемые поля бронирования
func (r *Repository) UpdateDetails(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("room_id", booking.RoomID).
		Set("title", booking.Title).
		Set("description", booking.Description).
		Set("start_time", booking.StartTime).
		Set("end_time", booking.EndTime).
		Set("participants_count", booking.ParticipantsCount).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": booking.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateDetails - build update query: %v", ErrBuildQuery, err)
	}

	return r.execUpdate(ctx, executor, "UpdateDetails", query, args)
}

// UpdateModeration записывает решение модератора
func (r *Repository) UpdateModeration(ctx context.Context, id int64, status domain.BookingStatus, moderatorID int64, comment string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if status != domain.StatusApproved && status != domain.StatusRejected {
		return fmt.Errorf("%w: UpdateModeration - %q", ErrInvalidStatus, status)
	}

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", status).
		Set("moderator_id", moderatorID).
		Set("moderation_comment", comment).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateModeration - build update query: %v", ErrBuildQuery, err)
	}

	return r.execUpdate(ctx, executor, "UpdateModeration", query, args)
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if !status.IsValid() {
		return fmt.Errorf("%w: UpdateStatus - %q", ErrInvalidStatus, status)
	}

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execUpdate(ctx, executor, "UpdateStatus", query, args)
}

func (r *Repository) execUpdate(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(op+" - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// mapWriteError переводит нарушения ограничений БД в ошибки репозитория
func mapWriteError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeExclusionViolation:
			return fmt.Errorf("%w: %s: %w", ErrSlotNotAvailable, op, err)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s: %w", ErrRoomNotFound, op, err)
		}
	}
	return fmt.Errorf("%w: %s: %w", ErrExecQuery, op, err)
}

func statusStrings(statuses []domain.BookingStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var moderatorID sql.NullInt64

	err := row.Scan(
		&booking.ID,
		&booking.RoomID,
		&booking.RequesterID,
		&booking.Title,
		&booking.Description,
		&booking.StartTime,
		&booking.EndTime,
		&booking.ParticipantsCount,
		&booking.Status,
		&moderatorID,
		&booking.ModerationComment,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if moderatorID.Valid {
		id := moderatorID.Int64
		booking.ModeratorID = &id
	}

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}
