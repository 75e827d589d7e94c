package store

import (
	"log/slog"
	"strings"

	"github.com/boolean-maybe/taskq/query"
	"github.com/boolean-maybe/taskq/task"
)

// Filter runs a query over the whole store. The query is parsed once;
// evaluation is independent per task. A syntax error comes back to the
// caller; per-task evaluation errors follow the policy in the settings.
func (s *MemoryStore) Filter(q string, settings query.Settings) ([]*task.Task, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return s.All(), nil
	}

	node, err := query.ParseQuery(q)
	if err != nil {
		return nil, err
	}
	slog.Debug("filtering tasks", "query", q)

	s.mu.RLock()
	var matched []*task.Task
	for _, t := range s.tasks {
		ok, err := query.Evaluate(node, t, settings)
		if err != nil {
			s.mu.RUnlock()
			return nil, err
		}
		if ok {
			matched = append(matched, t)
		}
	}
	s.mu.RUnlock()

	sortTasks(matched)
	return matched, nil
}

// Search returns tasks whose display or raw text contains the term,
// case-insensitively. Empty terms match nothing.
func (s *MemoryStore) Search(text string) []*task.Task {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return nil
	}

	s.mu.RLock()
	var matched []*task.Task
	for _, t := range s.tasks {
		if strings.Contains(strings.ToLower(t.Text), needle) ||
			strings.Contains(strings.ToLower(t.RawText), needle) {
			matched = append(matched, t)
		}
	}
	s.mu.RUnlock()

	sortTasks(matched)
	return matched
}
