package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Kim2783/Kidstodolist/internal/models"
)

// CompletionRepository stores per-child, per-task completion flags, keyed by
// session. An absent row reads as false. The store does not cross-check the
// catalog; callers own the applicability precondition.
type CompletionRepository interface {
	Find(ctx context.Context, sessionID string, child models.Child, taskID string) (bool, error)
	FindByChild(ctx context.Context, sessionID string, child models.Child) (map[models.Frequency]map[string]bool, error)
	Set(ctx context.Context, sessionID string, child models.Child, frequency models.Frequency, taskID string, completed bool) error
	DeletePartition(ctx context.Context, sessionID string, frequency models.Frequency) error
	DeleteAll(ctx context.Context, sessionID string) error
}

type SQLiteCompletionRepository struct {
	database *sql.DB
}

func NewCompletionRepository(database *sql.DB) *SQLiteCompletionRepository {
	return &SQLiteCompletionRepository{database: database}
}

func (repository *SQLiteCompletionRepository) Find(ctx context.Context, sessionID string, child models.Child, taskID string) (bool, error) {
	var completed bool
	err := repository.database.QueryRowContext(ctx,
		"SELECT completed FROM completions WHERE session_id = ? AND child = ? AND task_id = ?",
		sessionID, child, taskID,
	).Scan(&completed)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("finding completion: %w", err)
	}
	return completed, nil
}

func (repository *SQLiteCompletionRepository) FindByChild(ctx context.Context, sessionID string, child models.Child) (map[models.Frequency]map[string]bool, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT frequency, task_id, completed FROM completions WHERE session_id = ? AND child = ?",
		sessionID, child,
	)
	if err != nil {
		return nil, fmt.Errorf("finding completions for child: %w", err)
	}
	defer rows.Close()

	flags := map[models.Frequency]map[string]bool{
		models.FrequencyDaily:  {},
		models.FrequencyWeekly: {},
	}
	for rows.Next() {
		var frequency models.Frequency
		var taskID string
		var completed bool
		if err := rows.Scan(&frequency, &taskID, &completed); err != nil {
			return nil, fmt.Errorf("scanning completion: %w", err)
		}
		if flags[frequency] == nil {
			flags[frequency] = map[string]bool{}
		}
		flags[frequency][taskID] = completed
	}
	return flags, rows.Err()
}

func (repository *SQLiteCompletionRepository) Set(ctx context.Context, sessionID string, child models.Child, frequency models.Frequency, taskID string, completed bool) error {
	_, err := repository.database.ExecContext(ctx,
		`INSERT INTO completions (session_id, child, frequency, task_id, completed, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (session_id, child, frequency, task_id)
		DO UPDATE SET completed = excluded.completed, updated_at = excluded.updated_at`,
		sessionID, child, frequency, taskID, completed, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("setting completion: %w", err)
	}
	return nil
}

func (repository *SQLiteCompletionRepository) DeletePartition(ctx context.Context, sessionID string, frequency models.Frequency) error {
	_, err := repository.database.ExecContext(ctx,
		"DELETE FROM completions WHERE session_id = ? AND frequency = ?",
		sessionID, frequency,
	)
	if err != nil {
		return fmt.Errorf("deleting %s completions: %w", frequency, err)
	}
	return nil
}

func (repository *SQLiteCompletionRepository) DeleteAll(ctx context.Context, sessionID string) error {
	_, err := repository.database.ExecContext(ctx,
		"DELETE FROM completions WHERE session_id = ?",
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("deleting completions: %w", err)
	}
	return nil
}
