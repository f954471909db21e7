package service

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrValidation        = errors.New("validation")
	ErrRoleLimitExceeded = errors.New("role limit exceeded")
	ErrImmutableRole     = errors.New("immutable role")
	ErrRoleNotInChannel  = errors.New("role not in channel")
	ErrConflict          = errors.New("conflict")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrGateDenied        = errors.New("gate denied")
	ErrInternal          = errors.New("internal")
)

// ServiceError wraps a sentinel error with a specific code and message for the handler to use.
type ServiceError struct {
	Err     error
	Code    string
	Message string
}

func (e *ServiceError) Error() string { return e.Message }
func (e *ServiceError) Unwrap() error { return e.Err }

// NewError creates a ServiceError wrapping the given sentinel.
func NewError(sentinel error, code, message string) *ServiceError {
	return &ServiceError{Err: sentinel, Code: code, Message: message}
}

// Convenience constructors for the error taxonomy.

func NotFound(code, message string) *ServiceError {
	return NewError(ErrNotFound, code, message)
}

func Forbidden(code, message string) *ServiceError {
	return NewError(ErrForbidden, code, message)
}

func Validation(code, message string) *ServiceError {
	return NewError(ErrValidation, code, message)
}

func RoleLimitExceeded(message string) *ServiceError {
	return NewError(ErrRoleLimitExceeded, "ROLE_LIMIT_EXCEEDED", message)
}

func ImmutableRole(message string) *ServiceError {
	return NewError(ErrImmutableRole, "IMMUTABLE_ROLE", message)
}

func RoleNotInChannel(message string) *ServiceError {
	return NewError(ErrRoleNotInChannel, "ROLE_NOT_IN_CHANNEL", message)
}

func Conflict(code, message string) *ServiceError {
	return NewError(ErrConflict, code, message)
}

func Unauthorized(code, message string) *ServiceError {
	return NewError(ErrUnauthorized, code, message)
}

func GateDenied(message string) *ServiceError {
	return NewError(ErrGateDenied, "GATE_DENIED", message)
}

func Internal(code, message string) *ServiceError {
	return NewError(ErrInternal, code, message)
}
