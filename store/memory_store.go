package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/boolean-maybe/taskq/task"
)

// MemoryStore is an in-memory task repository guarded by a read-write
// mutex. Reads (All, Filter, Search) hold the read lock for the duration of
// the scan.
type MemoryStore struct {
	mu             sync.RWMutex
	tasks          map[string]*task.Task
	listeners      map[int]ChangeListener
	nextListenerID int
}

// NewMemoryStore creates an empty in-memory task store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks:          make(map[string]*task.Task),
		listeners:      make(map[int]ChangeListener),
		nextListenerID: 1, // Start at 1 to avoid conflict with zero-value sentinel
	}
}

// AddListener registers a callback for change notifications.
// returns a listener ID that can be used to remove the listener.
func (s *MemoryStore) AddListener(listener ChangeListener) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextListenerID
	s.nextListenerID++
	s.listeners[id] = listener
	return id
}

// RemoveListener removes a previously registered listener by ID
func (s *MemoryStore) RemoveListener(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listeners, id)
}

// notifyListeners calls all registered listeners
func (s *MemoryStore) notifyListeners() {
	s.mu.RLock()
	listeners := make([]ChangeListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.RUnlock()

	for _, l := range listeners {
		l()
	}
}

// Add puts a task into the store. Tasks without an ID get a generated one.
func (s *MemoryStore) Add(t *task.Task) error {
	s.mu.Lock()

	t.ID = strings.TrimSpace(t.ID)
	if t.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("generating task id: %w", err)
		}
		t.ID = id
	}
	if _, exists := s.tasks[t.ID]; exists {
		s.mu.Unlock()
		return fmt.Errorf("task already exists: %s", t.ID)
	}
	s.tasks[t.ID] = t
	s.mu.Unlock()
	s.notifyListeners()
	return nil
}

// Get retrieves a task by ID
func (s *MemoryStore) Get(id string) *task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks[strings.TrimSpace(id)]
}

// All returns every task, sorted by path then ID
func (s *MemoryStore) All() []*task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t)
	}
	sortTasks(tasks)
	return tasks
}

// Delete removes a task from the store
func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	delete(s.tasks, strings.TrimSpace(id))
	s.mu.Unlock()
	s.notifyListeners()
}

func sortTasks(tasks []*task.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].Path != tasks[j].Path {
			return tasks[i].Path < tasks[j].Path
		}
		return tasks[i].ID < tasks[j].ID
	})
}
