// Package apierror defines the error envelope returned by every API route.
// Services report failures as ErrorResponse values instead of raw errors so
// that nothing unexpected leaks across the HTTP boundary.
package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

type ErrorResponse interface {
	Code() int
	Message() string
}

// response serialises to the wire envelope:
// {"success": false, "message": "...", "errors": [...]}
type response struct {
	Success bool     `json:"success"`
	Msg     string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`

	code int
}

func (r *response) Code() int       { return r.code }
func (r *response) Message() string { return r.Msg }

func NewSimple(code int, message string) ErrorResponse {
	return &response{Success: false, Msg: message, code: code}
}

func NewMissingParamError(name string) ErrorResponse {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Missing required parameter %q", name))
}

func NewInvalidParamTypeError(name, expected string) ErrorResponse {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Parameter %q must be of type %s", name, expected))
}

// FromValidationError turns validator field errors into a 400 response with
// one entry per offending field.
func FromValidationError(err error) ErrorResponse {
	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		return MalformedBodyError
	}

	details := make([]string, len(verr))
	for i, fe := range verr {
		details[i] = fmt.Sprintf("field %q failed on %q", fe.Field(), fe.Tag())
	}
	return &response{
		Success: false,
		Msg:     "Request validation failed",
		Errors:  details,
		code:    http.StatusBadRequest,
	}
}

var (
	InternalServerError   = NewSimple(http.StatusInternalServerError, "Something went wrong on our side")
	MalformedBodyError    = NewSimple(http.StatusBadRequest, "Could not understand request body")
	NotFoundError         = NewSimple(http.StatusNotFound, "Resource not found")
	InvalidAuthTokenError = NewSimple(http.StatusUnauthorized, "Missing or invalid authorization token")
	ForbiddenError        = NewSimple(http.StatusForbidden, "You do not have access to this resource")

	// Scheduling
	SlotConflictError      = NewSimple(http.StatusConflict, "The requested time slot overlaps an existing appointment")
	InvalidTransitionError = NewSimple(http.StatusConflict, "The requested status change is not allowed from the current status")
	PastAppointmentError   = NewSimple(http.StatusBadRequest, "The appointment has already taken place")
)
