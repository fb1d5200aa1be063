package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrInputUnavailable  = errors.New("input unavailable")
	ErrInvalidInputShape = errors.New("invalid input shape")
	ErrEmptyInput        = errors.New("empty input")
	ErrMalformedAccount  = errors.New("malformed account")
	ErrInvalidOption     = errors.New("invalid option")
)

type AppError struct {
	Err     error  // sentinel kind
	Message string // human-readable message
	Field   string // optional: offending field
	Cause   error  // optional: underlying error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *AppError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

func InputUnavailable(source string, cause error) *AppError {
	return &AppError{
		Err:     ErrInputUnavailable,
		Message: fmt.Sprintf("account source %s is unavailable", source),
		Cause:   cause,
	}
}

func InvalidInputShape(message string) *AppError {
	return &AppError{
		Err:     ErrInvalidInputShape,
		Message: message,
	}
}

func EmptyInput() *AppError {
	return &AppError{
		Err:     ErrEmptyInput,
		Message: "account list is empty",
	}
}

// MalformedAccount reports an account record that breaks the input contract.
// index is the account's position in the input.
func MalformedAccount(index int, field, message string) *AppError {
	return &AppError{
		Err:     ErrMalformedAccount,
		Message: fmt.Sprintf("account %d: %s", index, message),
		Field:   field,
	}
}

// InvalidOption reports a merge option (flag, query parameter) with a bad value.
func InvalidOption(field, message string) *AppError {
	return &AppError{
		Err:     ErrInvalidOption,
		Message: message,
		Field:   field,
	}
}

// IsNoop reports whether err only signals that there was nothing to do.
func IsNoop(err error) bool {
	return errors.Is(err, ErrEmptyInput)
}
