package task

import (
	"slices"

	"github.com/josephgoksu/taskapi/models"
)

// NextID returns max(existing ids)+1, or 1 for an empty collection.
func NextID(tasks []models.Task) int {
	next := 1
	for _, t := range tasks {
		if t.ID >= next {
			next = t.ID + 1
		}
	}
	return next
}

// NewTask builds a task from a validated body, applying the defaults
// completed=false and priority=medium.
func NewTask(id int, in models.TaskInput) models.Task {
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	return models.Task{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
		Priority:    priority,
	}
}

// Merge applies an update body onto an existing task. Any falsy submitted
// value (empty string, false, omitted) keeps the stored value, so an update
// cannot clear completed back to false.
func Merge(existing models.Task, in models.TaskInput) models.Task {
	merged := existing
	if in.Title != "" {
		merged.Title = in.Title
	}
	if in.Description != "" {
		merged.Description = in.Description
	}
	if in.Completed {
		merged.Completed = true
	}
	if in.Priority != "" {
		merged.Priority = in.Priority
	}
	return merged
}

// IndexOf returns the position of the task with id, or -1.
func IndexOf(tasks []models.Task, id int) int {
	return slices.IndexFunc(tasks, func(t models.Task) bool { return t.ID == id })
}

// FilterByPriority keeps tasks whose priority equals level. The level is
// not checked against the enum: unknown levels simply match nothing.
func FilterByPriority(tasks []models.Task, level string) []models.Task {
	out := []models.Task{}
	for _, t := range tasks {
		if string(t.Priority) == level {
			out = append(out, t)
		}
	}
	return out
}

// FilterByCompletion keeps tasks whose completed flag matches status.
// Only "true" and "false" match anything; other values yield no tasks.
func FilterByCompletion(tasks []models.Task, status string) []models.Task {
	out := []models.Task{}
	want, ok := ParseCompletion(status)
	if !ok {
		return out
	}
	for _, t := range tasks {
		if t.Completed == want {
			out = append(out, t)
		}
	}
	return out
}

// ParseCompletion maps the completion path parameter to a flag.
func ParseCompletion(status string) (completed bool, ok bool) {
	switch status {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}
