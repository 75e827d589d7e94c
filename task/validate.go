package task

import (
	"fmt"
)

const (
	ErrCodeRequired    = "required"
	ErrCodeInvalidEnum = "invalid_enum"
	ErrCodeBadDates    = "bad_dates"
)

// ValidationError describes one invalid field on a loaded task record.
type ValidationError struct {
	Field   string
	Value   interface{}
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a task record loaded from a fixture file.
// Returns nil when the record is usable by the evaluator.
func Validate(t *Task) *ValidationError {
	if t.RawText == "" && t.Text == "" {
		return &ValidationError{
			Field:   "text",
			Value:   "",
			Code:    ErrCodeRequired,
			Message: "task has no text",
		}
	}

	if t.Priority != "" {
		if _, ok := ParsePriority(string(t.Priority)); !ok {
			return &ValidationError{
				Field:   "priority",
				Value:   t.Priority,
				Code:    ErrCodeInvalidEnum,
				Message: fmt.Sprintf("invalid priority value: %s", t.Priority),
			}
		}
	}

	if t.ScheduledDate != nil && t.DeadlineDate != nil && t.DeadlineDate.Before(*t.ScheduledDate) {
		return &ValidationError{
			Field:   "deadline",
			Value:   t.DeadlineDate.Format("2006-01-02"),
			Code:    ErrCodeBadDates,
			Message: "deadline is before the scheduled date",
		}
	}

	return nil
}
