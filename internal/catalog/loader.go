package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Kim2783/Kidstodolist/internal/models"
)

var requiredColumns = []string{"id", "description", "type", "applies_to", "frequency", "value"}

// Load parses a full task catalog from CSV. The load is atomic: any record
// that fails validation rejects the whole catalog and the caller keeps the
// one it had. An unparseable value column is the one lenient case: it
// defaults to zero and is reported back as a warning.
//
// Expected columns: id, description, type, applies_to, frequency, value,
// where applies_to is a comma-joined list of roster children.
func Load(r io.Reader, roster []models.Child) (models.Catalog, []string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return models.Catalog{}, nil, models.ValidationError{Message: fmt.Sprintf("reading catalog header: %v", err)}
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return models.Catalog{}, nil, models.ValidationError{
				Field:   name,
				Message: fmt.Sprintf("missing required column %q", name),
			}
		}
	}

	inRoster := make(map[models.Child]bool, len(roster))
	for _, child := range roster {
		inRoster[child] = true
	}

	seen := map[string]bool{}
	var tasks []models.Task
	var warnings []string

	for row := 2; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return models.Catalog{}, nil, models.ValidationError{Message: fmt.Sprintf("row %d: %v", row, err)}
		}
		field := func(name string) string {
			return strings.TrimSpace(record[columns[name]])
		}

		id := field("id")
		if id == "" {
			return models.Catalog{}, nil, models.ValidationError{Field: "id", Message: fmt.Sprintf("row %d: id is required", row)}
		}
		if seen[id] {
			return models.Catalog{}, nil, models.ValidationError{Field: "id", Message: fmt.Sprintf("row %d: duplicate task id %q", row, id)}
		}

		taskType := models.TaskType(strings.ToLower(field("type")))
		if !taskType.IsValid() {
			return models.Catalog{}, nil, models.ValidationError{
				Field:   "type",
				Message: fmt.Sprintf("row %d: type must be %q or %q, got %q", row, models.TaskTypeMustDo, models.TaskTypeCouldDo, field("type")),
			}
		}

		frequency := models.Frequency(strings.ToLower(field("frequency")))
		if !frequency.IsValid() {
			return models.Catalog{}, nil, models.ValidationError{
				Field:   "frequency",
				Message: fmt.Sprintf("row %d: frequency must be %q or %q, got %q", row, models.FrequencyDaily, models.FrequencyWeekly, field("frequency")),
			}
		}

		var appliesTo []models.Child
		for _, part := range strings.Split(field("applies_to"), ",") {
			name := strings.ToLower(strings.TrimSpace(part))
			if name == "" {
				continue
			}
			child := models.Child(name)
			if !inRoster[child] {
				return models.Catalog{}, nil, models.ValidationError{
					Field:   "applies_to",
					Message: fmt.Sprintf("row %d: unknown child %q", row, name),
				}
			}
			appliesTo = append(appliesTo, child)
		}
		if len(appliesTo) == 0 {
			return models.Catalog{}, nil, models.ValidationError{
				Field:   "applies_to",
				Message: fmt.Sprintf("row %d: applies_to must name at least one child", row),
			}
		}

		value, err := models.ParseAmount(field("value"))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("row %d: task %q: value %q is not a monetary amount, using 0", row, id, field("value")))
			value = 0
		}

		seen[id] = true
		tasks = append(tasks, models.Task{
			ID:          id,
			Description: field("description"),
			Type:        taskType,
			AppliesTo:   appliesTo,
			Frequency:   frequency,
			Value:       value,
		})
	}

	if len(tasks) == 0 {
		return models.Catalog{}, nil, models.ValidationError{Message: "catalog has no tasks"}
	}

	return models.Catalog{Tasks: tasks}, warnings, nil
}
