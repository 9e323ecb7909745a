package models

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// TaskPriority represents the priority levels of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Task is a single record of the task collection.
type Task struct {
	ID          int          `json:"id" yaml:"id" toml:"id"`
	Title       string       `json:"title" yaml:"title" toml:"title"`
	Description string       `json:"description" yaml:"description" toml:"description"`
	Completed   bool         `json:"completed" yaml:"completed" toml:"completed"`
	Priority    TaskPriority `json:"priority" yaml:"priority" toml:"priority"`
}

// TaskList is the persisted document: one field holding the ordered collection.
type TaskList struct {
	Tasks []Task `json:"tasks" yaml:"tasks" toml:"tasks"`
}

// TaskInput is the body accepted by the create and update endpoints.
type TaskInput struct {
	Title       string       `json:"title" validate:"required"`
	Description string       `json:"description" validate:"required"`
	Completed   bool         `json:"completed"`
	Priority    TaskPriority `json:"priority" validate:"omitempty,oneof=high medium low"`
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
	// Report JSON names so field errors line up with the request body.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
