package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/josephgoksu/taskapi/internal/task"
	"github.com/josephgoksu/taskapi/models"
)

const maxBodyBytes = 1 << 20

// handleListTasks
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.List(r.Context())
	if err != nil {
		s.writeTaskError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, tasks)
}

// handleGetTask
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	t, err := s.tasks.Get(r.Context(), id)
	if err != nil {
		s.writeTaskError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, t)
}

// handleCreateTask
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeTaskInput(w, r)
	if !ok {
		return
	}

	created, err := s.tasks.Create(r.Context(), in)
	if err != nil {
		s.writeTaskError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusCreated, created)
}

// handleUpdateTask validates the body before looking at the id, so an
// invalid body on an unknown id is a 400, not a 404.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeTaskInput(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	updated, err := s.tasks.Update(r.Context(), id, in)
	if err != nil {
		s.writeTaskError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, updated)
}

// handleDeleteTask
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := s.tasks.Delete(r.Context(), id); err != nil {
		s.writeTaskError(w, r, err)
		return
	}
	writeText(w, http.StatusOK, "Task deleted successfully")
}

// handleTasksByPriority does not reject levels outside high/medium/low;
// they filter to an empty list.
func (s *Server) handleTasksByPriority(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.ByPriority(r.Context(), r.PathValue("level"))
	if err != nil {
		s.writeTaskError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, tasks)
}

// handleTasksByCompletion answers 404 when nothing matches, including for
// status values other than true/false.
func (s *Server) handleTasksByCompletion(w http.ResponseWriter, r *http.Request) {
	status := r.PathValue("status")

	tasks, err := s.tasks.ByCompletion(r.Context(), status)
	if err != nil {
		s.writeTaskError(w, r, err)
		return
	}
	if len(tasks) == 0 {
		writeText(w, http.StatusNotFound, fmt.Sprintf("No Task found with completion status as %s", completionLabel(status)))
		return
	}
	writeAPIJSON(w, http.StatusOK, tasks)
}

// handleNotFound
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusNotFound, "Invalid api request")
}

func completionLabel(status string) string {
	if completed, ok := task.ParseCompletion(status); ok && completed {
		return "Done"
	}
	return "Pending"
}

// parseID reads the {id} path value. Anything that is not an integer can
// never match a stored task, so it is answered as not found.
func parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeText(w, http.StatusNotFound, "Task not found")
		return 0, false
	}
	return id, true
}

func (s *Server) decodeTaskInput(w http.ResponseWriter, r *http.Request) (models.TaskInput, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeAPIJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Request body too large"})
			return models.TaskInput{}, false
		}
		writeAPIJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON data"})
		return models.TaskInput{}, false
	}

	in, err := models.DecodeTaskInput(body)
	if err != nil {
		var verrs models.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			writeAPIJSON(w, http.StatusBadRequest, ValidationErrorResponse{Errors: verrs})
		default:
			writeAPIJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON data"})
		}
		return models.TaskInput{}, false
	}
	return in, true
}

// writeTaskError maps service errors onto status codes and plain-text bodies.
func (s *Server) writeTaskError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, task.ErrNotFound):
		writeText(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, task.ErrWrite):
		s.logger.Error("write tasks failed", "request_id", RequestID(r.Context()), "error", err)
		writeText(w, http.StatusInternalServerError, "Error writing tasks file")
	default:
		s.logger.Error("read tasks failed", "request_id", RequestID(r.Context()), "error", err)
		writeText(w, http.StatusInternalServerError, "Error reading tasks file")
	}
}

func writeAPIJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, msg)
}
