package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hymn-fly/pm-po-newsletter/internal/domain"
)

// TriggerMappingRepo reads the day to provider trigger table.
type TriggerMappingRepo struct{ db *sql.DB }

// NewTriggerMappingRepo creates a Postgres-backed trigger mapping repository.
func NewTriggerMappingRepo(db *sql.DB) *TriggerMappingRepo { return &TriggerMappingRepo{db: db} }

// Get returns the mapping for a progress day.
func (r *TriggerMappingRepo) Get(ctx context.Context, progressDay int) (domain.TriggerMapping, error) {
	var m domain.TriggerMapping
	err := r.db.QueryRowContext(ctx, `
		SELECT progress_day, automated_email_ext_id, automated_email_trigger_ext_id
		FROM email_triggers
		WHERE progress_day = $1
	`, progressDay).Scan(&m.ProgressDay, &m.AutomatedEmailExtID, &m.TriggerExtID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TriggerMapping{}, fmt.Errorf("trigger mapping for day %d: %w", progressDay, domain.ErrNotFound)
	}
	if err != nil {
		return domain.TriggerMapping{}, &domain.StoreError{Op: "get trigger mapping", Err: err}
	}
	return m, nil
}
