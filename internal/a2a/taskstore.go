package a2a

import (
	"context"
	"sync"
)

// TaskStore is an in-memory task registry. Tasks are kept for the
// lifetime of the process; there is no persistence, matching the
// discard-after-delivery task model.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*taskEntry
}

type taskEntry struct {
	task     Task
	cancel   context.CancelFunc
	watchers []chan StatusUpdateEvent
}

// NewTaskStore creates an empty store.
func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[string]*taskEntry)}
}

// Create registers a new task together with the cancel function that
// aborts its in-flight work.
func (s *TaskStore) Create(task Task, cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = &taskEntry{task: task, cancel: cancel}
}

// List returns a snapshot of all tasks, in no particular order.
func (s *TaskStore) List() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tasks := make([]Task, 0, len(s.tasks))
	for _, entry := range s.tasks {
		tasks = append(tasks, entry.task)
	}
	return tasks
}

// Get returns a snapshot of the task.
func (s *TaskStore) Get(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.tasks[id]
	if !ok {
		return Task{}, false
	}
	return entry.task, true
}

// UpdateStatus moves the task to a new status and notifies watchers.
// Once a task is terminal no further transitions are applied; the
// update reports whether it took effect. A status message is appended
// to the task history.
func (s *TaskStore) UpdateStatus(id string, status TaskStatus, final bool) bool {
	s.mu.Lock()
	entry, ok := s.tasks[id]
	if !ok || IsTerminalState(entry.task.Status.State) {
		s.mu.Unlock()
		return false
	}

	entry.task.Status = status
	if status.Message != nil {
		entry.task.History = append(entry.task.History, *status.Message)
	}

	event := StatusUpdateEvent{
		Kind:      "status-update",
		TaskID:    entry.task.ID,
		ContextID: entry.task.ContextID,
		Status:    status,
		Final:     final,
	}
	watchers := entry.watchers
	if final {
		entry.watchers = nil
	}
	s.mu.Unlock()

	for _, w := range watchers {
		w <- event
		if final {
			close(w)
		}
	}
	return true
}

// SetMetadata attaches metadata to the task, used to record the
// failure reason of failed tasks.
func (s *TaskStore) SetMetadata(id, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.tasks[id]
	if !ok {
		return
	}
	if entry.task.Metadata == nil {
		entry.task.Metadata = make(map[string]any)
	}
	entry.task.Metadata[key] = value
}

// AddArtifact appends an output artifact to the task.
func (s *TaskStore) AddArtifact(id string, artifact Artifact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.tasks[id]; ok {
		entry.task.Artifacts = append(entry.task.Artifacts, artifact)
	}
}

// Cancel aborts a non-terminal task's in-flight work. It reports
// found (the task exists) and cancelled (the task was still running
// and its cancel function was invoked).
func (s *TaskStore) Cancel(id string) (found, cancelled bool) {
	s.mu.Lock()
	entry, ok := s.tasks[id]
	if !ok {
		s.mu.Unlock()
		return false, false
	}
	if IsTerminalState(entry.task.Status.State) {
		s.mu.Unlock()
		return true, false
	}
	cancel := entry.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	return true, true
}

// Watch subscribes to the task's status updates. The channel is
// buffered for the full lifecycle and closed after the final event.
// The returned stop function abandons the subscription.
func (s *TaskStore) Watch(id string) (<-chan StatusUpdateEvent, func()) {
	ch := make(chan StatusUpdateEvent, 8)

	s.mu.Lock()
	entry, ok := s.tasks[id]
	if !ok || IsTerminalState(entry.task.Status.State) {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	entry.watchers = append(entry.watchers, ch)
	s.mu.Unlock()

	stop := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		entry, ok := s.tasks[id]
		if !ok {
			return
		}
		for i, w := range entry.watchers {
			if w == ch {
				entry.watchers = append(entry.watchers[:i], entry.watchers[i+1:]...)
				break
			}
		}
	}
	return ch, stop
}
