package waitlist

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ChatBookingService/internal/domain"
	"github.com/m04kA/SMC-ChatBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ChatBookingService/pkg/txmanager"
)

// Repository репозиторий очереди ожидания
type Repository struct {
	db txmanager.Executor
}

// NewRepository создает новый экземпляр репозитория очереди ожидания
func NewRepository(db txmanager.Executor) *Repository {
	return &Repository{db: db}
}

// Create создает запись очереди со следующей позицией в рамках (бизнес, дата)
// Позиция монотонно растет: MAX(position)+1 считается тем же запросом,
// поэтому Create должен вызываться внутри транзакции, чтобы два
// одновременных enqueue не получили одну позицию
func (r *Repository) Create(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("waitlist_entries").
		Columns(
			"business_id",
			"customer_id",
			"service_id",
			"staff_id",
			"desired_date",
			"status",
			"position",
		).
		Values(
			entry.BusinessID,
			entry.CustomerID,
			entry.ServiceID,
			entry.StaffID,
			entry.DesiredDate,
			entry.Status,
			squirrel.Expr(
				"(SELECT COALESCE(MAX(position), 0) + 1 FROM waitlist_entries WHERE business_id = ? AND desired_date = ?)",
				entry.BusinessID, entry.DesiredDate,
			),
		).
		Suffix("RETURNING id, position, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&entry.ID,
		&entry.Position,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time

	return entry, nil
}

// ListByBusinessAndDate получает записи очереди на дату в порядке позиций
// Опционально фильтрует по статусу; ForUpdate используется sweep'ом
func (r *Repository) ListByBusinessAndDate(ctx context.Context, businessID int64, date time.Time, status *domain.WaitlistStatus, forUpdate bool) ([]*domain.WaitlistEntry, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := selectEntries().
		Where(squirrel.Eq{"business_id": businessID, "desired_date": date}).
		OrderBy("position ASC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	if forUpdate && txmanager.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBusinessAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBusinessAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// UpdateStatus обновляет статус записи и окно подтверждения
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.WaitlistStatus, notifyExpiresAt *time.Time) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("waitlist_entries").
		Set("status", status).
		Set("notify_expires_at", notifyExpiresAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// RequeueAtTail возвращает запись в статус active в конец очереди
// Запись теряет исходный приоритет: позиция назначается заново как MAX+1
func (r *Repository) RequeueAtTail(ctx context.Context, id int64) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("waitlist_entries").
		Set("status", domain.WaitlistActive).
		Set("notify_expires_at", nil).
		Set("position", squirrel.Expr(
			"(SELECT COALESCE(MAX(w.position), 0) + 1 FROM waitlist_entries w WHERE w.business_id = waitlist_entries.business_id AND w.desired_date = waitlist_entries.desired_date)",
		)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RequeueAtTail - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: RequeueAtTail - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: RequeueAtTail - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// ExpireOverdue переводит живые записи на прошедшие даты в статус expired
// Возвращает число закрытых записей
func (r *Repository) ExpireOverdue(ctx context.Context, before time.Time) (int64, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("waitlist_entries").
		Set("status", domain.WaitlistExpired).
		Set("notify_expires_at", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Lt{"desired_date": before}).
		Where(squirrel.Eq{"status": []string{
			string(domain.WaitlistActive),
			string(domain.WaitlistNotified),
		}}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: ExpireOverdue - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: ExpireOverdue - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: ExpireOverdue - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// ListPendingBuckets возвращает пары (бизнес, дата) с живыми записями очереди
// начиная с указанной даты. Используется периодическим sweep'ом
func (r *Repository) ListPendingBuckets(ctx context.Context, fromDate time.Time) ([]domain.WaitlistBucket, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("business_id", "desired_date").
		From("waitlist_entries").
		Where(squirrel.GtOrEq{"desired_date": fromDate}).
		Where(squirrel.Eq{"status": []string{
			string(domain.WaitlistActive),
			string(domain.WaitlistNotified),
		}}).
		GroupBy("business_id", "desired_date").
		OrderBy("business_id ASC, desired_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListPendingBuckets - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListPendingBuckets - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	buckets := make([]domain.WaitlistBucket, 0)
	for rows.Next() {
		var bucket domain.WaitlistBucket
		if err := rows.Scan(&bucket.BusinessID, &bucket.Date); err != nil {
			return nil, fmt.Errorf("%w: ListPendingBuckets - scan row: %v", ErrScanRow, err)
		}
		buckets = append(buckets, bucket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListPendingBuckets - rows error: %v", ErrScanRow, err)
	}

	return buckets, nil
}

// GetActiveByPair возвращает живую (active/notified) запись клиента на дату, если есть
// Используется для идемпотентности enqueue
func (r *Repository) GetActiveByPair(ctx context.Context, businessID, customerID int64, date time.Time) (*domain.WaitlistEntry, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := selectEntries().
		Where(squirrel.Eq{"business_id": businessID, "customer_id": customerID, "desired_date": date}).
		Where(squirrel.Eq{"status": []string{
			string(domain.WaitlistActive),
			string(domain.WaitlistNotified),
		}}).
		OrderBy("position ASC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByPair - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByPair - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrEntryNotFound
	}

	return entries[0], nil
}

// Helpers

func selectEntries() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"business_id",
		"customer_id",
		"service_id",
		"staff_id",
		"desired_date",
		"status",
		"position",
		"notify_expires_at",
		"created_at",
		"updated_at",
	).From("waitlist_entries")
}

func scanEntries(rows *sql.Rows) ([]*domain.WaitlistEntry, error) {
	entries := make([]*domain.WaitlistEntry, 0)

	for rows.Next() {
		var entry domain.WaitlistEntry
		var notifyExpiresAt sql.NullTime
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&entry.ID,
			&entry.BusinessID,
			&entry.CustomerID,
			&entry.ServiceID,
			&entry.StaffID,
			&entry.DesiredDate,
			&entry.Status,
			&entry.Position,
			&notifyExpiresAt,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanEntries - scan row: %v", ErrScanRow, err)
		}

		if notifyExpiresAt.Valid {
			entry.NotifyExpiresAt = &notifyExpiresAt.Time
		}
		entry.CreatedAt = createdAt.Time
		entry.UpdatedAt = updatedAt.Time

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanEntries - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}
