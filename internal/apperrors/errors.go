package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrAlreadyProcessed indicates that a file already has a ledger entry.
var ErrAlreadyProcessed = errors.New("file already processed")

// ErrFileTooLarge indicates that a remote file cannot be buffered in memory.
var ErrFileTooLarge = errors.New("file too large")

// ErrMalformedLine marks a data line that is dropped without failing the file.
var ErrMalformedLine = errors.New("malformed line")

// ErrInvalidDate marks a date field that could not be parsed. It fails the whole file.
var ErrInvalidDate = errors.New("invalid date")

// ErrConnection indicates that the remote channel could not be established.
var ErrConnection = errors.New("connection error")

// AppError carries an HTTP-ish status code along with the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
