package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Kim2783/Kidstodolist/internal/models"
)

// WatermarkRepository stores the last-observed day and ISO-week keys per
// session. A session with no row reads as zero watermarks, which forces the
// first reconcile to initialize both partitions.
type WatermarkRepository interface {
	Find(ctx context.Context, sessionID string) (models.Watermarks, error)
	SetDaily(ctx context.Context, sessionID string, key string) error
	SetWeekly(ctx context.Context, sessionID string, key string) error
	Clear(ctx context.Context, sessionID string, frequency models.Frequency) error
}

type SQLiteWatermarkRepository struct {
	database *sql.DB
}

func NewWatermarkRepository(database *sql.DB) *SQLiteWatermarkRepository {
	return &SQLiteWatermarkRepository{database: database}
}

func (repository *SQLiteWatermarkRepository) Find(ctx context.Context, sessionID string) (models.Watermarks, error) {
	var marks models.Watermarks
	err := repository.database.QueryRowContext(ctx,
		"SELECT daily_key, weekly_key FROM watermarks WHERE session_id = ?", sessionID,
	).Scan(&marks.DailyKey, &marks.WeeklyKey)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Watermarks{}, nil
	}
	if err != nil {
		return models.Watermarks{}, fmt.Errorf("finding watermarks: %w", err)
	}
	return marks, nil
}

func (repository *SQLiteWatermarkRepository) SetDaily(ctx context.Context, sessionID string, key string) error {
	return repository.set(ctx, sessionID, "daily_key", key)
}

func (repository *SQLiteWatermarkRepository) SetWeekly(ctx context.Context, sessionID string, key string) error {
	return repository.set(ctx, sessionID, "weekly_key", key)
}

func (repository *SQLiteWatermarkRepository) set(ctx context.Context, sessionID string, column string, key string) error {
	_, err := repository.database.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO watermarks (session_id, %s, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (session_id) DO UPDATE SET %s = excluded.%s, updated_at = excluded.updated_at`,
			column, column, column),
		sessionID, key, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("setting %s watermark: %w", column, err)
	}
	return nil
}

func (repository *SQLiteWatermarkRepository) Clear(ctx context.Context, sessionID string, frequency models.Frequency) error {
	column := "daily_key"
	if frequency == models.FrequencyWeekly {
		column = "weekly_key"
	}
	_, err := repository.database.ExecContext(ctx,
		fmt.Sprintf("UPDATE watermarks SET %s = '', updated_at = ? WHERE session_id = ?", column),
		time.Now(), sessionID,
	)
	if err != nil {
		return fmt.Errorf("clearing %s watermark: %w", frequency, err)
	}
	return nil
}
