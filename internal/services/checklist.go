package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Kim2783/Kidstodolist/internal/models"
	"github.com/Kim2783/Kidstodolist/internal/repository"
)

// ChecklistService is the task-status state machine: it reconciles day and
// week boundaries before every read or write, flips completion flags, and
// keeps each child's earned total as a pure recomputation of completion
// state.
type ChecklistService struct {
	completions repository.CompletionRepository
	watermarks  repository.WatermarkRepository
	earnings    repository.EarningsRepository

	// Clock returns the current wall-clock time. Tests swap it out to cross
	// day and week boundaries.
	Clock func() time.Time
}

func NewChecklistService(
	completions repository.CompletionRepository,
	watermarks repository.WatermarkRepository,
	earnings repository.EarningsRepository,
) *ChecklistService {
	return &ChecklistService{
		completions: completions,
		watermarks:  watermarks,
		earnings:    earnings,
		Clock:       time.Now,
	}
}

// Reconcile compares the session's watermarks against the current day and
// ISO-week keys and rebuilds any partition whose boundary has been crossed.
// A missing watermark counts as a crossing, so a fresh session initializes
// both partitions on first access. Daily and weekly resets are independent
// and can both fire in the same call. Earnings are recomputed for every
// child after any reset.
func (service *ChecklistService) Reconcile(ctx context.Context, session *Session) (dailyReset bool, weeklyReset bool, err error) {
	now := service.Clock()

	marks, err := service.watermarks.Find(ctx, session.ID)
	if err != nil {
		return false, false, fmt.Errorf("finding watermarks: %w", err)
	}

	if day := dayKey(now); marks.DailyKey != day {
		if err := service.completions.DeletePartition(ctx, session.ID, models.FrequencyDaily); err != nil {
			return false, false, fmt.Errorf("resetting daily partition: %w", err)
		}
		if err := service.watermarks.SetDaily(ctx, session.ID, day); err != nil {
			return false, false, err
		}
		dailyReset = true
	}

	if week := weekKey(now); marks.WeeklyKey != week {
		if err := service.completions.DeletePartition(ctx, session.ID, models.FrequencyWeekly); err != nil {
			return dailyReset, false, fmt.Errorf("resetting weekly partition: %w", err)
		}
		if err := service.watermarks.SetWeekly(ctx, session.ID, week); err != nil {
			return dailyReset, false, err
		}
		weeklyReset = true
	}

	if dailyReset || weeklyReset {
		if err := service.recomputeAllEarnings(ctx, session); err != nil {
			return dailyReset, weeklyReset, err
		}
	}

	return dailyReset, weeklyReset, nil
}

// UpdateStatus is the single mutation entry point for completion flags. The
// task must exist in the active catalog, apply to the child, and carry the
// frequency the caller claims; anything else fails the operation without
// touching state. The affected child's earnings are recomputed; other
// children are left alone.
func (service *ChecklistService) UpdateStatus(ctx context.Context, session *Session, child models.Child, taskID string, frequency models.Frequency, completed bool) error {
	if _, _, err := service.Reconcile(ctx, session); err != nil {
		return fmt.Errorf("reconciling resets: %w", err)
	}

	catalog := session.Catalog()
	task, ok := catalog.Find(taskID)
	if !ok {
		return models.NotFoundError{TaskID: taskID}
	}
	if !session.hasChild(child) {
		return models.ValidationError{Field: "child", Message: fmt.Sprintf("unknown child %q", child)}
	}
	if !task.AppliesToChild(child) {
		return models.ValidationError{Field: "child", Message: fmt.Sprintf("task %q does not apply to %q", taskID, child)}
	}
	if task.Frequency != frequency {
		return models.ValidationError{Field: "frequency", Message: fmt.Sprintf("task %q is %s, not %s", taskID, task.Frequency, frequency)}
	}

	if err := service.completions.Set(ctx, session.ID, child, frequency, taskID, completed); err != nil {
		return fmt.Errorf("updating completion: %w", err)
	}
	return service.recomputeEarnings(ctx, session, child)
}

// View reconciles pending resets and assembles the per-child read model from
// the active catalog: the four frequency/type task lists, the earned total,
// the potential total, and progress counts.
func (service *ChecklistService) View(ctx context.Context, session *Session) (models.ChecklistView, error) {
	if _, _, err := service.Reconcile(ctx, session); err != nil {
		return nil, fmt.Errorf("reconciling resets: %w", err)
	}

	catalog := session.Catalog()
	view := models.ChecklistView{}

	for _, child := range session.Children {
		flags, err := service.completions.FindByChild(ctx, session.ID, child)
		if err != nil {
			return nil, err
		}
		total, err := service.earnings.Find(ctx, session.ID, child)
		if err != nil {
			return nil, err
		}

		checklist := models.ChildChecklist{TotalEarned: total}
		for _, task := range catalog.Tasks {
			if !task.AppliesToChild(child) {
				continue
			}
			entry := models.TaskStatus{
				ID:          task.ID,
				Description: task.Description,
				Value:       task.Value,
				Completed:   flags[task.Frequency][task.ID],
			}

			switch {
			case task.Frequency == models.FrequencyDaily && task.Type == models.TaskTypeMustDo:
				checklist.DailyMustDo = append(checklist.DailyMustDo, entry)
			case task.Frequency == models.FrequencyDaily:
				checklist.DailyCouldDo = append(checklist.DailyCouldDo, entry)
			case task.Type == models.TaskTypeMustDo:
				checklist.WeeklyMustDo = append(checklist.WeeklyMustDo, entry)
			default:
				checklist.WeeklyCouldDo = append(checklist.WeeklyCouldDo, entry)
			}

			checklist.TotalTasks++
			if entry.Completed {
				checklist.CompletedTasks++
			}
			if task.Type == models.TaskTypeCouldDo {
				checklist.PotentialTotal += task.Value
			}
		}
		view[child] = checklist
	}

	return view, nil
}

// ForceReset invalidates the watermark for one partition and reconciles,
// which rebuilds that partition regardless of the clock.
func (service *ChecklistService) ForceReset(ctx context.Context, session *Session, scope models.Frequency) error {
	if !scope.IsValid() {
		return models.ValidationError{Field: "scope", Message: fmt.Sprintf("scope must be %q or %q, got %q", models.FrequencyDaily, models.FrequencyWeekly, scope)}
	}
	if err := service.watermarks.Clear(ctx, session.ID, scope); err != nil {
		return err
	}
	if _, _, err := service.Reconcile(ctx, session); err != nil {
		return fmt.Errorf("reconciling forced reset: %w", err)
	}
	return nil
}

// ReplaceCatalog swaps the session's catalog and rebuilds all derived state
// from scratch, since task ids may have changed entirely. Equivalent to
// forcing both a daily and a weekly reset.
func (service *ChecklistService) ReplaceCatalog(ctx context.Context, session *Session, catalog models.Catalog) error {
	session.setCatalog(catalog)

	if err := service.completions.DeleteAll(ctx, session.ID); err != nil {
		return fmt.Errorf("clearing completions for new catalog: %w", err)
	}

	now := service.Clock()
	if err := service.watermarks.SetDaily(ctx, session.ID, dayKey(now)); err != nil {
		return err
	}
	if err := service.watermarks.SetWeekly(ctx, session.ID, weekKey(now)); err != nil {
		return err
	}

	return service.recomputeAllEarnings(ctx, session)
}

// recomputeEarnings derives the child's total from scratch: the sum of
// values of completed CouldDo tasks that apply to the child, each looked up
// in the partition matching its frequency. The result replaces the stored
// total, so repeated calls with unchanged flags are idempotent.
func (service *ChecklistService) recomputeEarnings(ctx context.Context, session *Session, child models.Child) error {
	catalog := session.Catalog()

	flags, err := service.completions.FindByChild(ctx, session.ID, child)
	if err != nil {
		return err
	}

	var total models.Amount
	for _, task := range catalog.Tasks {
		if task.Type != models.TaskTypeCouldDo || !task.AppliesToChild(child) {
			continue
		}
		if flags[task.Frequency][task.ID] {
			total += task.Value
		}
	}

	return service.earnings.Set(ctx, session.ID, child, total)
}

func (service *ChecklistService) recomputeAllEarnings(ctx context.Context, session *Session) error {
	for _, child := range session.Children {
		if err := service.recomputeEarnings(ctx, session, child); err != nil {
			return err
		}
	}
	return nil
}
