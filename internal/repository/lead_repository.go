package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/calmaflow/calma-bot/internal/domain"
)

// LeadRepository defines persistence operations for leads.
type LeadRepository interface {
	Upsert(ctx context.Context, userID int64, patch domain.LeadPatch) error
	FindByID(ctx context.Context, userID int64) (*domain.Lead, error)
}

type leadRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewLeadRepository creates a new SQL-backed lead repository.
func NewLeadRepository(db *sql.DB, log *slog.Logger) LeadRepository {
	return &leadRepository{
		db:  db,
		log: log,
	}
}

// Upsert merges patch into the lead identified by userID, inserting the row
// when absent. Display metadata is refreshed on every write; status and
// frequency are only overwritten when the patch carries them. Last write
// wins, no history is retained.
func (r *leadRepository) Upsert(ctx context.Context, userID int64, patch domain.LeadPatch) error {
	const query = `
		INSERT INTO leads (user_id, username, first_name, last_name, status, frequency, last_step, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), now(), now())
		ON CONFLICT (user_id) DO UPDATE SET
			username   = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name  = EXCLUDED.last_name,
			status     = COALESCE(EXCLUDED.status, leads.status),
			frequency  = COALESCE(EXCLUDED.frequency, leads.frequency),
			last_step  = COALESCE(EXCLUDED.last_step, leads.last_step),
			updated_at = now()
	`

	var status, frequency *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}
	if patch.Frequency != nil {
		f := string(*patch.Frequency)
		frequency = &f
	}

	if _, err := r.db.ExecContext(
		ctx,
		query,
		userID,
		patch.Username,
		patch.FirstName,
		patch.LastName,
		status,
		frequency,
		patch.LastStep,
	); err != nil {
		if r.log != nil {
			r.log.Error("failed to upsert lead", slog.Int64("user_id", userID), slog.Any("error", err))
		}
		return fmt.Errorf("upsert lead: %w", err)
	}

	return nil
}

// FindByID retrieves a lead from the database by the user's Telegram
// identifier.
func (r *leadRepository) FindByID(ctx context.Context, userID int64) (*domain.Lead, error) {
	const query = `
		SELECT user_id, username, first_name, last_name, status, frequency, last_step, created_at, updated_at
		FROM leads
		WHERE user_id = $1
	`

	row := r.db.QueryRowContext(ctx, query, userID)

	var (
		lead      domain.Lead
		status    sql.NullString
		frequency sql.NullString
		lastStep  sql.NullString
	)
	if err := row.Scan(
		&lead.UserID,
		&lead.Username,
		&lead.FirstName,
		&lead.LastName,
		&status,
		&frequency,
		&lastStep,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}

		if r.log != nil {
			r.log.Error("failed to fetch lead", slog.Int64("user_id", userID), slog.Any("error", err))
		}
		return nil, fmt.Errorf("select lead: %w", err)
	}

	if status.Valid {
		s := domain.Status(status.String)
		lead.Status = &s
	}
	if frequency.Valid {
		f := domain.Frequency(frequency.String)
		lead.Frequency = &f
	}
	lead.LastStep = lastStep.String

	return &lead, nil
}
