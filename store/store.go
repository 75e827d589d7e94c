package store

import (
	"github.com/boolean-maybe/taskq/query"
	"github.com/boolean-maybe/taskq/task"
)

// Store is the interface for task collections the query engine runs over.
// Implementations must be safe for concurrent use and notify listeners on
// changes.
type Store interface {
	// AddListener registers a callback for change notifications.
	// returns a listener ID that can be used to remove the listener.
	AddListener(listener ChangeListener) int

	// RemoveListener removes a previously registered listener by ID
	RemoveListener(id int)

	// Add puts a task into the store, assigning an ID if it has none.
	Add(t *task.Task) error

	// Get retrieves a task by ID, or nil.
	Get(id string) *task.Task

	// All returns every task, sorted by path then ID.
	All() []*task.Task

	// Delete removes a task from the store.
	Delete(id string)

	// Filter parses a query string once and returns the tasks it matches.
	Filter(q string, settings query.Settings) ([]*task.Task, error)

	// Search returns tasks whose text contains the given term,
	// case-insensitively. The free-text fallback for callers that don't
	// need the query language.
	Search(text string) []*task.Task
}

// ChangeListener is called when the store's data changes
type ChangeListener func()
