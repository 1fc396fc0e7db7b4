package models

import "fmt"

// ValidationError reports input that breaks a catalog or gateway contract:
// a malformed catalog record, an unknown child, or a frequency that does not
// match the task. It fails the single operation, never the session.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError reports a task id that is not in the active catalog.
type NotFoundError struct {
	TaskID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("task %q is not in the active catalog", e.TaskID)
}
