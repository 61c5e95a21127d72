package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ChatBookingService/internal/domain"
	"github.com/m04kA/SMC-ChatBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ChatBookingService/pkg/txmanager"
)

// Repository репозиторий диалоговых сессий
// На пару (бизнес, клиент) хранится одна строка; новая сессия замещает
// завершённую или истёкшую через Replace
type Repository struct {
	db txmanager.Executor
}

// NewRepository создает новый экземпляр репозитория сессий
func NewRepository(db txmanager.Executor) *Repository {
	return &Repository{db: db}
}

// GetByPair получает сессию по ключу (бизнес, клиент)
func (r *Repository) GetByPair(ctx context.Context, businessID, customerID int64) (*domain.DialogueSession, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"customer_id",
		"state",
		"pending_offers",
		"selected_offer",
		"known_service_id",
		"known_staff_id",
		"requested_date",
		"language",
		"created_at",
		"last_activity_at",
	).
		From("dialogue_sessions").
		Where(squirrel.Eq{"business_id": businessID, "customer_id": customerID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByPair - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.DialogueSession
	var pendingRaw, selectedRaw []byte
	var requestedDate sql.NullTime
	var createdAt, lastActivityAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.BusinessID,
		&s.CustomerID,
		&s.State,
		&pendingRaw,
		&selectedRaw,
		&s.KnownServiceID,
		&s.KnownStaffID,
		&requestedDate,
		&s.Language,
		&createdAt,
		&lastActivityAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPair - scan session: %v", ErrScanRow, err)
	}

	if len(pendingRaw) > 0 {
		if err := json.Unmarshal(pendingRaw, &s.PendingOffers); err != nil {
			return nil, fmt.Errorf("%w: GetByPair - unmarshal pending offers: %v", ErrScanRow, err)
		}
	}
	if len(selectedRaw) > 0 {
		if err := json.Unmarshal(selectedRaw, &s.SelectedOffer); err != nil {
			return nil, fmt.Errorf("%w: GetByPair - unmarshal selected offer: %v", ErrScanRow, err)
		}
	}
	if requestedDate.Valid {
		s.RequestedDate = &requestedDate.Time
	}
	s.CreatedAt = createdAt.Time
	s.LastActivityAt = lastActivityAt.Time

	return &s, nil
}

// Replace создает новую сессию, замещая существующую строку пары
// Используется при первом событии пары и при замене истёкшей сессии
func (r *Repository) Replace(ctx context.Context, s *domain.DialogueSession) (*domain.DialogueSession, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	pendingRaw, selectedRaw, err := marshalOffers(s)
	if err != nil {
		return nil, fmt.Errorf("%w: Replace - marshal offers: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Insert("dialogue_sessions").
		Columns(
			"business_id",
			"customer_id",
			"state",
			"pending_offers",
			"selected_offer",
			"known_service_id",
			"known_staff_id",
			"requested_date",
			"language",
			"created_at",
			"last_activity_at",
		).
		Values(
			s.BusinessID,
			s.CustomerID,
			s.State,
			pendingRaw,
			selectedRaw,
			s.KnownServiceID,
			s.KnownStaffID,
			s.RequestedDate,
			s.Language,
			s.CreatedAt,
			s.LastActivityAt,
		).
		Suffix(`ON CONFLICT (business_id, customer_id) DO UPDATE SET
			state = EXCLUDED.state,
			pending_offers = EXCLUDED.pending_offers,
			selected_offer = EXCLUDED.selected_offer,
			known_service_id = EXCLUDED.known_service_id,
			known_staff_id = EXCLUDED.known_staff_id,
			requested_date = EXCLUDED.requested_date,
			language = EXCLUDED.language,
			created_at = EXCLUDED.created_at,
			last_activity_at = EXCLUDED.last_activity_at
			RETURNING id`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Replace - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.ID); err != nil {
		return nil, fmt.Errorf("%w: Replace - execute insert: %v", ErrExecQuery, err)
	}

	return s, nil
}

// Update сохраняет изменённое состояние существующей сессии
func (r *Repository) Update(ctx context.Context, s *domain.DialogueSession) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	pendingRaw, selectedRaw, err := marshalOffers(s)
	if err != nil {
		return fmt.Errorf("%w: Update - marshal offers: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Update("dialogue_sessions").
		Set("state", s.State).
		Set("pending_offers", pendingRaw).
		Set("selected_offer", selectedRaw).
		Set("known_service_id", s.KnownServiceID).
		Set("known_staff_id", s.KnownStaffID).
		Set("requested_date", s.RequestedDate).
		Set("language", s.Language).
		Set("last_activity_at", s.LastActivityAt).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// MarkAbandoned переводит в abandoned все незавершённые сессии,
// неактивные дольше порога. Возвращает число затронутых сессий
// Вызывается периодическим sweep'ом; строки не удаляются
func (r *Repository) MarkAbandoned(ctx context.Context, inactiveSince time.Time) (int64, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("dialogue_sessions").
		Set("state", domain.StateAbandoned).
		Where(squirrel.Lt{"last_activity_at": inactiveSince}).
		Where(squirrel.NotEq{"state": []string{
			string(domain.StateDone),
			string(domain.StateWaitlisted),
			string(domain.StateAbandoned),
		}}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: MarkAbandoned - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: MarkAbandoned - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: MarkAbandoned - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

func marshalOffers(s *domain.DialogueSession) ([]byte, []byte, error) {
	pendingRaw, err := json.Marshal(s.PendingOffers)
	if err != nil {
		return nil, nil, err
	}

	var selectedRaw []byte
	if s.SelectedOffer != nil {
		selectedRaw, err = json.Marshal(s.SelectedOffer)
		if err != nil {
			return nil, nil, err
		}
	}

	return pendingRaw, selectedRaw, nil
}
