package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/josephgoksu/taskapi/models"
	"github.com/josephgoksu/taskapi/store"
)

var (
	// ErrNotFound is returned when no task has the requested id.
	ErrNotFound = errors.New("task not found")
	// ErrRead wraps failures loading the collection.
	ErrRead = errors.New("read tasks")
	// ErrWrite wraps failures saving the collection.
	ErrWrite = errors.New("write tasks")
)

// Service runs every task operation as load → transform → (save) against
// the store. Operations are serialized so two writers cannot both read the
// same collection and overwrite each other.
type Service struct {
	store  store.TaskStore
	logger *slog.Logger
	mu     sync.Mutex
}

// NewService creates a new Task Service.
func NewService(s store.TaskStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  s,
		logger: logger,
	}
}

// exclusive holds the in-process mutex and, when the store supports it,
// the cross-process lock for the duration of fn.
func (s *Service) exclusive(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if locker, ok := s.store.(store.Locker); ok {
		unlock, err := locker.Lock(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrRead, err)
		}
		defer unlock()
	}
	return fn()
}

func (s *Service) load(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return tasks, nil
}

func (s *Service) save(ctx context.Context, tasks []models.Task) error {
	if err := s.store.Save(ctx, tasks); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// List returns the full collection.
func (s *Service) List(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	err := s.exclusive(ctx, func() error {
		var err error
		tasks, err = s.load(ctx)
		return err
	})
	return tasks, err
}

// Get returns the task with id.
func (s *Service) Get(ctx context.Context, id int) (models.Task, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return models.Task{}, err
	}
	idx := IndexOf(tasks, id)
	if idx == -1 {
		return models.Task{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return tasks[idx], nil
}

// Create appends a new task with the next id and persists the collection.
func (s *Service) Create(ctx context.Context, in models.TaskInput) (models.Task, error) {
	var created models.Task
	err := s.exclusive(ctx, func() error {
		tasks, err := s.load(ctx)
		if err != nil {
			return err
		}

		created = NewTask(NextID(tasks), in)
		if err := s.save(ctx, append(tasks, created)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}

	s.logger.Debug("task created", "id", created.ID, "priority", created.Priority)
	return created, nil
}

// Update merges in onto the task with id and persists the collection.
// See Merge for how falsy fields are treated.
func (s *Service) Update(ctx context.Context, id int, in models.TaskInput) (models.Task, error) {
	var updated models.Task
	err := s.exclusive(ctx, func() error {
		tasks, err := s.load(ctx)
		if err != nil {
			return err
		}

		idx := IndexOf(tasks, id)
		if idx == -1 {
			return fmt.Errorf("%w: id %d", ErrNotFound, id)
		}

		updated = Merge(tasks[idx], in)
		tasks[idx] = updated
		return s.save(ctx, tasks)
	})
	if err != nil {
		return models.Task{}, err
	}

	s.logger.Debug("task updated", "id", id)
	return updated, nil
}

// Delete removes the task with id and persists the collection.
func (s *Service) Delete(ctx context.Context, id int) error {
	err := s.exclusive(ctx, func() error {
		tasks, err := s.load(ctx)
		if err != nil {
			return err
		}

		idx := IndexOf(tasks, id)
		if idx == -1 {
			return fmt.Errorf("%w: id %d", ErrNotFound, id)
		}

		return s.save(ctx, slices.Delete(tasks, idx, idx+1))
	})
	if err != nil {
		return err
	}

	s.logger.Debug("task deleted", "id", id)
	return nil
}

// ByPriority returns tasks whose priority equals level.
func (s *Service) ByPriority(ctx context.Context, level string) ([]models.Task, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByPriority(tasks, level), nil
}

// ByCompletion returns tasks whose completed flag matches status.
func (s *Service) ByCompletion(ctx context.Context, status string) ([]models.Task, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByCompletion(tasks, status), nil
}
