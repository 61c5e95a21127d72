package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ChatBookingService/internal/domain"
	"github.com/m04kA/SMC-ChatBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ChatBookingService/pkg/txmanager"
)

// Repository read-only репозиторий каталога: бизнесы, мастера, услуги
// Данные принадлежат административному контуру, ядро бронирования их не меняет
type Repository struct {
	db txmanager.Executor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db txmanager.Executor) *Repository {
	return &Repository{db: db}
}

// GetBusiness получает бизнес с его недельным расписанием
func (r *Repository) GetBusiness(ctx context.Context, businessID int64) (*domain.Business, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "timezone", "working_schedule").
		From("businesses").
		Where(squirrel.Eq{"id": businessID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBusiness - build select query: %v", ErrBuildQuery, err)
	}

	var business domain.Business
	var scheduleRaw []byte

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&business.ID,
		&business.Name,
		&business.Timezone,
		&scheduleRaw,
	)

	if err == sql.ErrNoRows {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusiness - scan business: %v", ErrScanRow, err)
	}

	if err := json.Unmarshal(scheduleRaw, &business.Schedule); err != nil {
		return nil, fmt.Errorf("%w: GetBusiness - unmarshal schedule: %v", ErrScanRow, err)
	}

	return &business, nil
}

// GetStaff получает мастера по ID в рамках бизнеса
func (r *Repository) GetStaff(ctx context.Context, businessID, staffID int64) (*domain.Staff, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "business_id", "name", "active", "working_schedule").
		From("staff").
		Where(squirrel.Eq{"id": staffID, "business_id": businessID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetStaff - build select query: %v", ErrBuildQuery, err)
	}

	staff, err := scanStaff(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaff - scan staff: %v", ErrScanRow, err)
	}

	return staff, nil
}

// ListActiveStaff получает всех активных мастеров бизнеса в порядке id
// Детерминированный порядок важен для слияния слотов "любой мастер"
func (r *Repository) ListActiveStaff(ctx context.Context, businessID int64) ([]*domain.Staff, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "business_id", "name", "active", "working_schedule").
		From("staff").
		Where(squirrel.Eq{"business_id": businessID, "active": true}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveStaff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveStaff - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Staff, 0)
	for rows.Next() {
		staff, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActiveStaff - scan row: %v", ErrScanRow, err)
		}
		result = append(result, staff)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveStaff - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// GetService получает услугу по ID в рамках бизнеса
func (r *Repository) GetService(ctx context.Context, businessID, serviceID int64) (*domain.ServiceSpec, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "business_id", "name", "duration_minutes", "buffer_minutes", "active").
		From("services").
		Where(squirrel.Eq{"id": serviceID, "business_id": businessID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var service domain.ServiceSpec
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.BusinessID,
		&service.Name,
		&service.DurationMinutes,
		&service.BufferMinutes,
		&service.Active,
	)

	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}

	return &service, nil
}

// ListActiveServices получает все активные услуги бизнеса в порядке id
func (r *Repository) ListActiveServices(ctx context.Context, businessID int64) ([]*domain.ServiceSpec, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "business_id", "name", "duration_minutes", "buffer_minutes", "active").
		From("services").
		Where(squirrel.Eq{"business_id": businessID, "active": true}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.ServiceSpec, 0)
	for rows.Next() {
		var service domain.ServiceSpec
		err := rows.Scan(
			&service.ID,
			&service.BusinessID,
			&service.Name,
			&service.DurationMinutes,
			&service.BufferMinutes,
			&service.Active,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActiveServices - scan row: %v", ErrScanRow, err)
		}
		result = append(result, &service)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveServices - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// FindServiceByName ищет активную услугу по точному названию (без учета регистра)
// Используется диалоговым движком для сопоставления подсказок NLU с каталогом
func (r *Repository) FindServiceByName(ctx context.Context, businessID int64, name string) (*domain.ServiceSpec, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "business_id", "name", "duration_minutes", "buffer_minutes", "active").
		From("services").
		Where(squirrel.Eq{"business_id": businessID, "active": true}).
		Where(squirrel.Expr("LOWER(name) = LOWER(?)", name)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindServiceByName - build select query: %v", ErrBuildQuery, err)
	}

	var service domain.ServiceSpec
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.BusinessID,
		&service.Name,
		&service.DurationMinutes,
		&service.BufferMinutes,
		&service.Active,
	)

	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindServiceByName - scan service: %v", ErrScanRow, err)
	}

	return &service, nil
}

// FindStaffByName ищет активного мастера по точному имени (без учета регистра)
func (r *Repository) FindStaffByName(ctx context.Context, businessID int64, name string) (*domain.Staff, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "business_id", "name", "active", "working_schedule").
		From("staff").
		Where(squirrel.Eq{"business_id": businessID, "active": true}).
		Where(squirrel.Expr("LOWER(name) = LOWER(?)", name)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindStaffByName - build select query: %v", ErrBuildQuery, err)
	}

	staff, err := scanStaff(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindStaffByName - scan staff: %v", ErrScanRow, err)
	}

	return staff, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStaff(row rowScanner) (*domain.Staff, error) {
	var staff domain.Staff
	var scheduleRaw []byte

	err := row.Scan(
		&staff.ID,
		&staff.BusinessID,
		&staff.Name,
		&staff.Active,
		&scheduleRaw,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(scheduleRaw, &staff.Schedule); err != nil {
		return nil, err
	}

	return &staff, nil
}
