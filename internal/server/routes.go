package server

import "net/http"

// registerRoutes sets up all API endpoints
func (s *Server) registerRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /tasks", s.handleListTasks)
	mux.HandleFunc("GET /tasks/{id}", s.handleGetTask)
	mux.HandleFunc("POST /tasks", s.handleCreateTask)
	// PUT and DELETE use the singular /task path.
	mux.HandleFunc("PUT /task/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /task/{id}", s.handleDeleteTask)
	mux.HandleFunc("GET /tasks/priority/{level}", s.handleTasksByPriority)
	mux.HandleFunc("GET /tasks/completion/{status}", s.handleTasksByCompletion)

	// Matches every method and path the patterns above do not.
	mux.HandleFunc("/", s.handleNotFound)

	return s.requestIDMiddleware(s.accessLogMiddleware(s.recoverMiddleware(s.corsMiddleware(mux))))
}
