package services_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/Kim2783/Kidstodolist/internal/models"
	"github.com/Kim2783/Kidstodolist/internal/repository"
	"github.com/Kim2783/Kidstodolist/internal/services"
	"github.com/Kim2783/Kidstodolist/internal/testutil"
)

type testClock struct {
	now time.Time
}

func (clock *testClock) advance(d time.Duration) {
	clock.now = clock.now.Add(d)
}

// setupChecklist wires a service against an in-memory database with the
// clock pinned to Wednesday 2026-08-26 (ISO week 2026-W35).
func setupChecklist(t *testing.T, catalog models.Catalog, children ...models.Child) (*services.ChecklistService, *services.Session, *testClock, *sql.DB) {
	t.Helper()
	db := testutil.NewTestDatabase(t)
	service := services.NewChecklistService(
		repository.NewCompletionRepository(db),
		repository.NewWatermarkRepository(db),
		repository.NewEarningsRepository(db),
	)
	clock := &testClock{now: time.Date(2026, time.August, 26, 9, 0, 0, 0, time.UTC)}
	service.Clock = func() time.Time { return clock.now }
	session := services.NewSession(children, catalog)
	return service, session, clock, db
}

func testCatalog() models.Catalog {
	return models.Catalog{Tasks: []models.Task{
		{ID: "md1", Description: "Brush teeth", Type: models.TaskTypeMustDo, Frequency: models.FrequencyDaily, AppliesTo: []models.Child{"ben", "chloe"}},
		{ID: "cd3", Description: "Feed the cat", Type: models.TaskTypeCouldDo, Frequency: models.FrequencyDaily, AppliesTo: []models.Child{"ben"}, Value: 75},
		{ID: "cd4", Description: "Wash the car", Type: models.TaskTypeCouldDo, Frequency: models.FrequencyWeekly, AppliesTo: []models.Child{"ben", "chloe"}, Value: 200},
		{ID: "md2", Description: "Tidy bedroom", Type: models.TaskTypeMustDo, Frequency: models.FrequencyWeekly, AppliesTo: []models.Child{"chloe"}},
	}}
}

func mustView(t *testing.T, service *services.ChecklistService, session *services.Session) models.ChecklistView {
	t.Helper()
	view, err := service.View(context.Background(), session)
	if err != nil {
		t.Fatalf("building view: %v", err)
	}
	return view
}

func TestChecklistService_UpdateStatus_CouldDoEarnsValue(t *testing.T) {
	service, session, _, _ := setupChecklist(t, testCatalog(), "ben", "chloe")
	ctx := context.Background()

	if total := mustView(t, service, session)["ben"].TotalEarned; total != 0 {
		t.Fatalf("expected 0 earned before completion, got %s", total)
	}

	if err := service.UpdateStatus(ctx, session, "ben", "cd3", models.FrequencyDaily, true); err != nil {
		t.Fatalf("completing cd3: %v", err)
	}
	view := mustView(t, service, session)
	if total := view["ben"].TotalEarned; total != 75 {
		t.Errorf("expected 0.75 earned after completing cd3, got %s", total)
	}
	if total := view["chloe"].TotalEarned; total != 0 {
		t.Errorf("ben's completion changed chloe's earnings: %s", total)
	}

	if err := service.UpdateStatus(ctx, session, "ben", "cd3", models.FrequencyDaily, false); err != nil {
		t.Fatalf("unticking cd3: %v", err)
	}
	if total := mustView(t, service, session)["ben"].TotalEarned; total != 0 {
		t.Errorf("expected 0 earned after unticking cd3, got %s", total)
	}
}

func TestChecklistService_UpdateStatus_MustDoNeverEarns(t *testing.T) {
	// A MustDo with a non-zero value is against convention but the sum must
	// ignore it regardless.
	catalog := models.Catalog{Tasks: []models.Task{
		{ID: "md9", Description: "Homework", Type: models.TaskTypeMustDo, Frequency: models.FrequencyDaily, AppliesTo: []models.Child{"ben"}, Value: 500},
	}}
	service, session, _, _ := setupChecklist(t, catalog, "ben")
	ctx := context.Background()

	if err := service.UpdateStatus(ctx, session, "ben", "md9", models.FrequencyDaily, true); err != nil {
		t.Fatalf("completing md9: %v", err)
	}
	if total := mustView(t, service, session)["ben"].TotalEarned; total != 0 {
		t.Errorf("must-do completion earned %s, want 0.00", total)
	}

	if err := service.UpdateStatus(ctx, session, "ben", "md9", models.FrequencyDaily, false); err != nil {
		t.Fatalf("unticking md9: %v", err)
	}
	if total := mustView(t, service, session)["ben"].TotalEarned; total != 0 {
		t.Errorf("must-do untick earned %s, want 0.00", total)
	}
}

func TestChecklistService_UpdateStatus_UnknownTask(t *testing.T) {
	service, session, _, _ := setupChecklist(t, testCatalog(), "ben")

	err := service.UpdateStatus(context.Background(), session, "ben", "nope", models.FrequencyDaily, true)
	var notFound models.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.TaskID != "nope" {
		t.Errorf("expected task id 'nope' in error, got %q", notFound.TaskID)
	}
}

func TestChecklistService_UpdateStatus_FrequencyMismatch(t *testing.T) {
	service, session, _, _ := setupChecklist(t, testCatalog(), "ben")

	err := service.UpdateStatus(context.Background(), session, "ben", "cd3", models.FrequencyWeekly, true)
	var invalid models.ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ValidationError for frequency mismatch, got %v", err)
	}

	// The rejected write must not leak into state.
	if total := mustView(t, service, session)["ben"].TotalEarned; total != 0 {
		t.Errorf("rejected update changed earnings to %s", total)
	}
}

func TestChecklistService_UpdateStatus_TaskNotApplicableToChild(t *testing.T) {
	service, session, _, _ := setupChecklist(t, testCatalog(), "ben", "chloe")

	err := service.UpdateStatus(context.Background(), session, "chloe", "cd3", models.FrequencyDaily, true)
	var invalid models.ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ValidationError for non-applicable child, got %v", err)
	}
}

func TestChecklistService_View_NoCouldDoTasksMeansZeroEarned(t *testing.T) {
	catalog := models.Catalog{Tasks: []models.Task{
		{ID: "md1", Description: "Brush teeth", Type: models.TaskTypeMustDo, Frequency: models.FrequencyDaily, AppliesTo: []models.Child{"chloe"}},
		{ID: "md2", Description: "Tidy bedroom", Type: models.TaskTypeMustDo, Frequency: models.FrequencyWeekly, AppliesTo: []models.Child{"chloe"}},
	}}
	service, session, _, _ := setupChecklist(t, catalog, "chloe")
	ctx := context.Background()

	for _, taskID := range []string{"md1"} {
		if err := service.UpdateStatus(ctx, session, "chloe", taskID, models.FrequencyDaily, true); err != nil {
			t.Fatalf("completing %s: %v", taskID, err)
		}
	}
	if err := service.UpdateStatus(ctx, session, "chloe", "md2", models.FrequencyWeekly, true); err != nil {
		t.Fatalf("completing md2: %v", err)
	}

	checklist := mustView(t, service, session)["chloe"]
	if checklist.TotalEarned != 0 {
		t.Errorf("expected 0 earned with no could-do tasks, got %s", checklist.TotalEarned)
	}
	if checklist.PotentialTotal != 0 {
		t.Errorf("expected 0 potential with no could-do tasks, got %s", checklist.PotentialTotal)
	}
}

func TestChecklistService_Reconcile_SameDayIsIdle(t *testing.T) {
	service, session, _, _ := setupChecklist(t, testCatalog(), "ben")
	ctx := context.Background()

	daily, weekly, err := service.Reconcile(ctx, session)
	if err != nil {
		t.Fatalf("first reconcile: %v", err)
	}
	if !daily || !weekly {
		t.Fatalf("first reconcile should initialize both partitions, got daily=%v weekly=%v", daily, weekly)
	}

	if err := service.UpdateStatus(ctx, session, "ben", "cd3", models.FrequencyDaily, true); err != nil {
		t.Fatalf("completing cd3: %v", err)
	}

	daily, weekly, err = service.Reconcile(ctx, session)
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if daily || weekly {
		t.Errorf("same-day reconcile signalled a reset: daily=%v weekly=%v", daily, weekly)
	}
	if total := mustView(t, service, session)["ben"].TotalEarned; total != 75 {
		t.Errorf("same-day reconcile disturbed flags, earned %s want 0.75", total)
	}
}

func TestChecklistService_Reconcile_DayBoundaryClearsDailyOnly(t *testing.T) {
	service, session, clock, _ := setupChecklist(t, testCatalog(), "ben")
	ctx := context.Background()

	if err := service.UpdateStatus(ctx, session, "ben", "cd3", models.FrequencyDaily, true); err != nil {
		t.Fatalf("completing cd3: %v", err)
	}
	if err := service.UpdateStatus(ctx, session, "ben", "cd4", models.FrequencyWeekly, true); err != nil {
		t.Fatalf("completing cd4: %v", err)
	}

	// Wednesday to Thursday, same ISO week.
	clock.advance(24 * time.Hour)

	daily, weekly, err := service.Reconcile(ctx, session)
	if err != nil {
		t.Fatalf("reconciling across the day boundary: %v", err)
	}
	if !daily {
		t.Error("expected a daily reset after the day boundary")
	}
	if weekly {
		t.Error("did not expect a weekly reset within the same ISO week")
	}

	checklist := mustView(t, service, session)["ben"]
	for _, entry := range checklist.DailyCouldDo {
		if entry.Completed {
			t.Errorf("daily task %s still completed after daily reset", entry.ID)
		}
	}
	for _, entry := range checklist.WeeklyCouldDo {
		if !entry.Completed {
			t.Errorf("weekly task %s lost its flag in a daily-only reset", entry.ID)
		}
	}
	if checklist.TotalEarned != 200 {
		t.Errorf("expected earnings 2.00 from the surviving weekly task, got %s", checklist.TotalEarned)
	}
}

func TestChecklistService_Reconcile_WeekBoundaryClearsWeekly(t *testing.T) {
	service, session, clock, _ := setupChecklist(t, testCatalog(), "ben")
	ctx := context.Background()

	if err := service.UpdateStatus(ctx, session, "ben", "cd4", models.FrequencyWeekly, true); err != nil {
		t.Fatalf("completing cd4: %v", err)
	}

	// Wednesday 2026-08-26 (W35) to Monday 2026-08-31 (W36).
	clock.advance(5 * 24 * time.Hour)

	daily, weekly, err := service.Reconcile(ctx, session)
	if err != nil {
		t.Fatalf("reconciling across the week boundary: %v", err)
	}
	if !daily || !weekly {
		t.Errorf("expected both resets crossing into a new week, got daily=%v weekly=%v", daily, weekly)
	}

	checklist := mustView(t, service, session)["ben"]
	for _, entry := range checklist.WeeklyCouldDo {
		if entry.Completed {
			t.Errorf("weekly task %s survived the week boundary", entry.ID)
		}
	}
	if checklist.TotalEarned != 0 {
		t.Errorf("expected 0 earned after the weekly reset, got %s", checklist.TotalEarned)
	}
}

func TestChecklistService_ForceReset_DailyLeavesWeekly(t *testing.T) {
	service, session, _, _ := setupChecklist(t, testCatalog(), "ben")
	ctx := context.Background()

	if err := service.UpdateStatus(ctx, session, "ben", "cd3", models.FrequencyDaily, true); err != nil {
		t.Fatalf("completing cd3: %v", err)
	}
	if err := service.UpdateStatus(ctx, session, "ben", "cd4", models.FrequencyWeekly, true); err != nil {
		t.Fatalf("completing cd4: %v", err)
	}

	if err := service.ForceReset(ctx, session, models.FrequencyDaily); err != nil {
		t.Fatalf("forcing daily reset: %v", err)
	}

	checklist := mustView(t, service, session)["ben"]
	for _, entry := range checklist.DailyCouldDo {
		if entry.Completed {
			t.Errorf("daily task %s survived a forced daily reset", entry.ID)
		}
	}
	for _, entry := range checklist.WeeklyCouldDo {
		if !entry.Completed {
			t.Errorf("weekly task %s was cleared by a forced daily reset", entry.ID)
		}
	}
	if checklist.TotalEarned != 200 {
		t.Errorf("expected 2.00 earned after forced daily reset, got %s", checklist.TotalEarned)
	}
}

func TestChecklistService_ForceReset_WeeklyLeavesDaily(t *testing.T) {
	service, session, _, _ := setupChecklist(t, testCatalog(), "ben")
	ctx := context.Background()

	if err := service.UpdateStatus(ctx, session, "ben", "cd3", models.FrequencyDaily, true); err != nil {
		t.Fatalf("completing cd3: %v", err)
	}
	if err := service.UpdateStatus(ctx, session, "ben", "cd4", models.FrequencyWeekly, true); err != nil {
		t.Fatalf("completing cd4: %v", err)
	}

	if err := service.ForceReset(ctx, session, models.FrequencyWeekly); err != nil {
		t.Fatalf("forcing weekly reset: %v", err)
	}

	checklist := mustView(t, service, session)["ben"]
	for _, entry := range checklist.WeeklyCouldDo {
		if entry.Completed {
			t.Errorf("weekly task %s survived a forced weekly reset", entry.ID)
		}
	}
	for _, entry := range checklist.DailyCouldDo {
		if !entry.Completed {
			t.Errorf("daily task %s was cleared by a forced weekly reset", entry.ID)
		}
	}
	if checklist.TotalEarned != 75 {
		t.Errorf("expected 0.75 earned after forced weekly reset, got %s", checklist.TotalEarned)
	}
}

func TestChecklistService_ForceReset_InvalidScope(t *testing.T) {
	service, session, _, _ := setupChecklist(t, testCatalog(), "ben")

	err := service.ForceReset(context.Background(), session, models.Frequency("monthly"))
	var invalid models.ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ValidationError for invalid scope, got %v", err)
	}
}

func TestChecklistService_ReplaceCatalog_DropsStaleIds(t *testing.T) {
	service, session, _, db := setupChecklist(t, testCatalog(), "ben")
	ctx := context.Background()

	if err := service.UpdateStatus(ctx, session, "ben", "cd3", models.FrequencyDaily, true); err != nil {
		t.Fatalf("completing cd3: %v", err)
	}

	replacement := models.Catalog{Tasks: []models.Task{
		{ID: "nd1", Description: "Water the plants", Type: models.TaskTypeCouldDo, Frequency: models.FrequencyDaily, AppliesTo: []models.Child{"ben"}, Value: 30},
	}}
	if err := service.ReplaceCatalog(ctx, session, replacement); err != nil {
		t.Fatalf("replacing catalog: %v", err)
	}

	checklist := mustView(t, service, session)["ben"]
	if checklist.TotalTasks != 1 {
		t.Errorf("expected 1 task from replacement catalog, got %d", checklist.TotalTasks)
	}
	for _, entry := range checklist.DailyCouldDo {
		if entry.ID != "nd1" {
			t.Errorf("stale task id %s leaked into the view", entry.ID)
		}
		if entry.Completed {
			t.Errorf("task %s completed in a freshly replaced catalog", entry.ID)
		}
	}
	if checklist.TotalEarned != 0 {
		t.Errorf("expected 0 earned after catalog replacement, got %s", checklist.TotalEarned)
	}

	completions := repository.NewCompletionRepository(db)
	stale, err := completions.Find(ctx, session.ID, "ben", "cd3")
	if err != nil {
		t.Fatalf("checking stale flag: %v", err)
	}
	if stale {
		t.Error("stale completion row for cd3 survived catalog replacement")
	}
}

func TestChecklistService_View_PotentialTotalAndProgress(t *testing.T) {
	service, session, _, _ := setupChecklist(t, testCatalog(), "ben")
	ctx := context.Background()

	if err := service.UpdateStatus(ctx, session, "ben", "md1", models.FrequencyDaily, true); err != nil {
		t.Fatalf("completing md1: %v", err)
	}
	if err := service.UpdateStatus(ctx, session, "ben", "cd3", models.FrequencyDaily, true); err != nil {
		t.Fatalf("completing cd3: %v", err)
	}

	checklist := mustView(t, service, session)["ben"]
	// ben has md1, cd3, cd4 -> potential 0.75 + 2.00.
	if checklist.PotentialTotal != 275 {
		t.Errorf("expected potential total 2.75, got %s", checklist.PotentialTotal)
	}
	if checklist.TotalTasks != 3 {
		t.Errorf("expected 3 applicable tasks, got %d", checklist.TotalTasks)
	}
	if checklist.CompletedTasks != 2 {
		t.Errorf("expected 2 completed tasks, got %d", checklist.CompletedTasks)
	}
}

// The completion store trusts the gateway's precondition: rows for ids the
// catalog no longer knows can exist, and the view and earnings must simply
// ignore them. This documents the accepted looseness rather than hiding it.
func TestChecklistService_View_IgnoresUncataloguedFlags(t *testing.T) {
	service, session, _, db := setupChecklist(t, testCatalog(), "ben")
	ctx := context.Background()

	if _, _, err := service.Reconcile(ctx, session); err != nil {
		t.Fatalf("initial reconcile: %v", err)
	}

	completions := repository.NewCompletionRepository(db)
	if err := completions.Set(ctx, session.ID, "ben", models.FrequencyDaily, "ghost", true); err != nil {
		t.Fatalf("planting uncatalogued flag: %v", err)
	}

	if err := service.UpdateStatus(ctx, session, "ben", "cd3", models.FrequencyDaily, true); err != nil {
		t.Fatalf("completing cd3: %v", err)
	}

	checklist := mustView(t, service, session)["ben"]
	if checklist.TotalEarned != 75 {
		t.Errorf("uncatalogued flag leaked into earnings: %s", checklist.TotalEarned)
	}
	for _, entry := range checklist.DailyCouldDo {
		if entry.ID == "ghost" {
			t.Error("uncatalogued task id appeared in the view")
		}
	}
}

func TestChecklistService_View_RepeatedReadsAreStable(t *testing.T) {
	service, session, _, _ := setupChecklist(t, testCatalog(), "ben")
	ctx := context.Background()

	if err := service.UpdateStatus(ctx, session, "ben", "cd3", models.FrequencyDaily, true); err != nil {
		t.Fatalf("completing cd3: %v", err)
	}

	first := mustView(t, service, session)["ben"].TotalEarned
	second := mustView(t, service, session)["ben"].TotalEarned
	if first != second {
		t.Errorf("back-to-back views disagree: %s then %s", first, second)
	}
}
