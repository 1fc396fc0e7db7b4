package repository_test

import (
	"context"
	"testing"

	"github.com/Kim2783/Kidstodolist/internal/repository"
	"github.com/Kim2783/Kidstodolist/internal/testutil"
)

func TestEarningsRepository_UnseenChildReadsZero(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewEarningsRepository(db)

	total, err := repo.Find(context.Background(), "session-1", "ben")
	if err != nil {
		t.Fatalf("finding earnings: %v", err)
	}
	if total != 0 {
		t.Errorf("expected 0 for an unseen child, got %s", total)
	}
}

func TestEarningsRepository_SetReplacesTotal(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewEarningsRepository(db)
	ctx := context.Background()

	if err := repo.Set(ctx, "session-1", "ben", 75); err != nil {
		t.Fatalf("setting earnings: %v", err)
	}
	if err := repo.Set(ctx, "session-1", "ben", 275); err != nil {
		t.Fatalf("replacing earnings: %v", err)
	}

	total, _ := repo.Find(ctx, "session-1", "ben")
	if total != 275 {
		t.Errorf("expected replaced total 2.75, got %s", total)
	}

	other, _ := repo.Find(ctx, "session-2", "ben")
	if other != 0 {
		t.Errorf("another session's total leaked: %s", other)
	}
}
