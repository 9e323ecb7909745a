package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidJSON is returned when a request body is not a JSON object.
var ErrInvalidJSON = errors.New("invalid JSON data")

// FieldError describes one rejected field of a request body.
type FieldError struct {
	Type     string `json:"type"`
	Value    any    `json:"value,omitempty"`
	Msg      string `json:"msg"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

// ValidationErrors collects every field error found in a request body.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Path, e.Msg))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// inputFields lists the body fields in reporting order.
var inputFields = []string{"title", "description", "completed", "priority"}

// typeMessages are reported when a field has the wrong JSON type.
var typeMessages = map[string]string{
	"title":       "Invalid value",
	"description": "Invalid value",
	"completed":   "Completed must be a boolean",
	"priority":    "Priority must be among high, medium, low. Default value is medium",
}

// ruleMessages are keyed by "<field>.<validator tag>".
var ruleMessages = map[string]string{
	"title.required":       "Title is required",
	"description.required": "Description is required",
	"priority.oneof":       "Priority must be among high, medium, low. Default value is medium",
}

// DecodeTaskInput parses and validates a create/update body. It returns
// ErrInvalidJSON when the body is not an object and ValidationErrors when
// one or more fields are rejected.
func DecodeTaskInput(data []byte) (TaskInput, error) {
	var in TaskInput

	raw := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
			return in, ErrInvalidJSON
		}
	}

	found := make(map[string]FieldError)

	targets := map[string]any{
		"title":       &in.Title,
		"description": &in.Description,
		"completed":   &in.Completed,
		"priority":    &in.Priority,
	}
	for _, name := range inputFields {
		value, ok := raw[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, targets[name]); err != nil {
			found[name] = newFieldError(name, rawValue(value), typeMessages[name])
		}
	}

	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return in, err
		}
		for _, fe := range verrs {
			name := fe.Field()
			if _, dup := found[name]; dup {
				continue
			}
			msg, ok := ruleMessages[name+"."+fe.Tag()]
			if !ok {
				msg = "Invalid value"
			}
			var value any
			if v, present := raw[name]; present {
				value = rawValue(v)
			}
			found[name] = newFieldError(name, value, msg)
		}
	}

	if len(found) == 0 {
		return in, nil
	}
	errs := make(ValidationErrors, 0, len(found))
	for _, name := range inputFields {
		if fe, ok := found[name]; ok {
			errs = append(errs, fe)
		}
	}
	return in, errs
}

func newFieldError(path string, value any, msg string) FieldError {
	return FieldError{
		Type:     "field",
		Value:    value,
		Msg:      msg,
		Path:     path,
		Location: "body",
	}
}

// rawValue echoes the submitted value back in its decoded form.
func rawValue(v json.RawMessage) any {
	var out any
	if err := json.Unmarshal(v, &out); err != nil {
		return string(v)
	}
	return out
}
