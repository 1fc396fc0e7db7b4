package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Kim2783/Kidstodolist/internal/models"
)

// EarningsRepository stores each child's derived total in pence. Totals are
// always replaced by a full recompute, never incremented.
type EarningsRepository interface {
	Find(ctx context.Context, sessionID string, child models.Child) (models.Amount, error)
	Set(ctx context.Context, sessionID string, child models.Child, total models.Amount) error
}

type SQLiteEarningsRepository struct {
	database *sql.DB
}

func NewEarningsRepository(database *sql.DB) *SQLiteEarningsRepository {
	return &SQLiteEarningsRepository{database: database}
}

func (repository *SQLiteEarningsRepository) Find(ctx context.Context, sessionID string, child models.Child) (models.Amount, error) {
	var pence int64
	err := repository.database.QueryRowContext(ctx,
		"SELECT pence FROM earnings WHERE session_id = ? AND child = ?",
		sessionID, child,
	).Scan(&pence)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("finding earnings: %w", err)
	}
	return models.Amount(pence), nil
}

func (repository *SQLiteEarningsRepository) Set(ctx context.Context, sessionID string, child models.Child, total models.Amount) error {
	_, err := repository.database.ExecContext(ctx,
		`INSERT INTO earnings (session_id, child, pence, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (session_id, child) DO UPDATE SET pence = excluded.pence, updated_at = excluded.updated_at`,
		sessionID, child, int64(total), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("setting earnings: %w", err)
	}
	return nil
}
