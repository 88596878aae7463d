package errors

import (
	"fmt"
	"net/http"
)

// Service error codes. They are part of the API and never change meaning.
const (
	CodeDuplicatedUsername    = 100
	CodeInvalidRsaToken       = 101
	CodeDecryptPasswordError  = 102
	CodeInvalidPasswordLength = 103
	CodeLoginFailed           = 104
	CodeValidation            = 105
	CodeLoginRequired         = 106
	CodeNotFound              = 107
	CodePermissionDenied      = 403
	CodeInternal              = 500
	CodeDatabase              = 501
	CodePassword              = 502
	CodeCrypto                = 503
	CodeInvalidInput          = 504
)

// ServiceError is an error with a stable numeric code that is safe to show to
// clients. Err carries the underlying cause for logging and is never rendered.
type ServiceError struct {
	Code    int
	Status  int
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Is matches any ServiceError with the same code, so callers can write
// errors.Is(err, serrors.ErrLoginFailed).
func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	return ok && t.Code == e.Code
}

// Internal reports whether the error is an infrastructure failure whose
// cause must be logged rather than shown.
func (e *ServiceError) Internal() bool {
	return e.Status >= http.StatusInternalServerError
}

var (
	ErrDuplicatedUsername = &ServiceError{Code: CodeDuplicatedUsername, Status: http.StatusBadRequest, Message: "Username has been registered"}
	ErrInvalidRsaToken    = &ServiceError{Code: CodeInvalidRsaToken, Status: http.StatusBadRequest, Message: "Invalid Rsa token"}
	ErrDecryptPassword    = &ServiceError{Code: CodeDecryptPasswordError, Status: http.StatusBadRequest, Message: "Failed to decrypt password"}
	ErrInvalidPassword    = &ServiceError{Code: CodeInvalidPasswordLength, Status: http.StatusBadRequest, Message: "Password format is invalid"}
	ErrLoginFailed        = &ServiceError{Code: CodeLoginFailed, Status: http.StatusBadRequest, Message: "Login failed"}
	ErrLoginRequired      = &ServiceError{Code: CodeLoginRequired, Status: http.StatusUnauthorized, Message: "Login required"}
	ErrNotFound           = &ServiceError{Code: CodeNotFound, Status: http.StatusNotFound, Message: "Record not found"}
	ErrPermissionDenied   = &ServiceError{Code: CodePermissionDenied, Status: http.StatusForbidden, Message: "Permission Denied"}
	ErrValidation         = &ServiceError{Code: CodeValidation, Status: http.StatusBadRequest, Message: "Input validation error"}
)

// NewValidationError returns a ValidationError naming the offending input.
func NewValidationError(format string, args ...any) *ServiceError {
	return &ServiceError{
		Code:    CodeValidation,
		Status:  http.StatusBadRequest,
		Message: "Input validation error: " + fmt.Sprintf(format, args...),
	}
}

// NewInvalidInput is returned for request bodies that cannot be decoded.
func NewInvalidInput(err error) *ServiceError {
	return &ServiceError{Code: CodeInvalidInput, Status: http.StatusBadRequest, Message: "Invalid input", Err: err}
}

func NewDatabaseError(err error) *ServiceError {
	return &ServiceError{Code: CodeDatabase, Status: http.StatusInternalServerError, Message: "Database error", Err: err}
}

func NewPasswordError(err error) *ServiceError {
	return &ServiceError{Code: CodePassword, Status: http.StatusInternalServerError, Message: "Internal error", Err: err}
}

func NewCryptoError(err error) *ServiceError {
	return &ServiceError{Code: CodeCrypto, Status: http.StatusInternalServerError, Message: "Crypto error", Err: err}
}

func NewInternalError(err error) *ServiceError {
	return &ServiceError{Code: CodeInternal, Status: http.StatusInternalServerError, Message: "Internal error", Err: err}
}
