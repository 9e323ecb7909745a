package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/josephgoksu/taskapi/models"
)

var (
	// ErrIO marks failures reading or writing the underlying storage.
	ErrIO = errors.New("task storage I/O failure")
	// ErrParse marks stored content that is not a valid task document.
	ErrParse = errors.New("task storage content is not a valid task document")
)

// TaskStore persists the whole task collection at once.
// Implementations keep no state between calls: every Load reads the
// backing storage and every Save overwrites it in full.
type TaskStore interface {
	// Load reads the complete collection in insertion order.
	// Errors wrap ErrIO or ErrParse.
	Load(ctx context.Context) ([]models.Task, error)

	// Save replaces the complete collection. Errors wrap ErrIO.
	Save(ctx context.Context, tasks []models.Task) error
}

// Locker is implemented by stores that can serialize access across
// processes. The returned function releases the lock.
type Locker interface {
	Lock(ctx context.Context) (unlock func(), err error)
}

// Init writes an empty collection. When force is false it refuses to
// replace a store that already holds tasks.
func Init(ctx context.Context, s TaskStore, force bool) error {
	if !force {
		if tasks, err := s.Load(ctx); err == nil && len(tasks) > 0 {
			return &ExistsError{Count: len(tasks)}
		}
	}
	return s.Save(ctx, []models.Task{})
}

// ExistsError is returned by Init when a collection is already present.
type ExistsError struct {
	Count int
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("task store already holds %d tasks", e.Count)
}
