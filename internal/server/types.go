package server

import "github.com/josephgoksu/taskapi/models"

// ErrorResponse is the body for malformed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse is the 400 body listing rejected fields.
type ValidationErrorResponse struct {
	Errors models.ValidationErrors `json:"errors"`
}
