// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"
)

// Domain errors. Services return these (possibly wrapped); transports map them.
var (
	ErrAlreadyLiked       = errors.New("user already liked")
	ErrAlreadyDisliked    = errors.New("user already disliked")
	ErrSelfInteraction    = errors.New("cannot interact with yourself")
	ErrInvalidUser        = errors.New("invalid user")
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("too many requests")
)

// ValidationError carries per-field messages for a rejected request.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }

func (e *ValidationError) Unwrap() error { return ErrInvalidArgument }

// Validation starts an empty ValidationError; use Add and Err.
func Validation() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) Add(field, msg string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Err returns nil when no field failed.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// HTTPStatus maps an error onto the status code the REST layer answers with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrAlreadyLiked), errors.Is(err, ErrAlreadyDisliked), errors.Is(err, ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, ErrSelfInteraction), errors.Is(err, ErrInvalidUser), errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Map converts repo/infra errors into gRPC-friendly status errors.
func Map(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, ErrNotFound):
		return status.Error(codes.NotFound, "record not found")

	case errors.Is(err, ErrAlreadyLiked), errors.Is(err, ErrAlreadyDisliked), errors.Is(err, ErrEmailTaken):
		return status.Error(codes.AlreadyExists, err.Error())

	case errors.Is(err, ErrSelfInteraction), errors.Is(err, ErrInvalidUser), errors.Is(err, ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, err.Error())

	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request timed out")

	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request was canceled")

	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// Is and As re-export the standard helpers so callers importing this package
// under an alias do not need a second errors import.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }
