package models

// Child identifies one member of the household roster. The roster is fixed
// configuration, not derived from the task catalog.
type Child string

type TaskType string

const (
	TaskTypeMustDo  TaskType = "must_do"
	TaskTypeCouldDo TaskType = "could_do"
)

func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypeMustDo, TaskTypeCouldDo:
		return true
	default:
		return false
	}
}

type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly:
		return true
	default:
		return false
	}
}

// Task is one immutable catalog entry. MustDo tasks are expected to carry a
// zero Value by convention; the earnings calculation ignores their Value
// either way.
type Task struct {
	ID          string
	Description string
	Type        TaskType
	AppliesTo   []Child
	Frequency   Frequency
	Value       Amount
}

func (t Task) AppliesToChild(child Child) bool {
	for _, c := range t.AppliesTo {
		if c == child {
			return true
		}
	}
	return false
}

// Catalog is the active task list for a session. It is replaced wholesale,
// never edited in place.
type Catalog struct {
	Tasks []Task
}

func (c Catalog) Find(id string) (Task, bool) {
	for _, task := range c.Tasks {
		if task.ID == id {
			return task, true
		}
	}
	return Task{}, false
}

// Watermarks holds the last-observed reset keys for a session. A zero value
// means the session has never been reconciled.
type Watermarks struct {
	DailyKey  string
	WeeklyKey string
}

type TaskStatus struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Value       Amount `json:"value"`
	Completed   bool   `json:"completed"`
}

type ChildChecklist struct {
	DailyMustDo    []TaskStatus `json:"daily_must_do"`
	DailyCouldDo   []TaskStatus `json:"daily_could_do"`
	WeeklyMustDo   []TaskStatus `json:"weekly_must_do"`
	WeeklyCouldDo  []TaskStatus `json:"weekly_could_do"`
	TotalEarned    Amount       `json:"total_earned"`
	PotentialTotal Amount       `json:"potential_total"`
	CompletedTasks int          `json:"completed_tasks"`
	TotalTasks     int          `json:"total_tasks"`
}

// ChecklistView is the read model handed to the presentation layer: one
// checklist per child under the active catalog.
type ChecklistView map[Child]ChildChecklist
