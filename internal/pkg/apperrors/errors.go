package apperrors

import "errors"

// Resource errors
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrInvalidFormat      = errors.New("invalid token format")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Authorization errors
var (
	ErrPermissionDenied = errors.New("permission denied")
)

// Validation errors
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Application lifecycle errors
var (
	ErrAlreadyApplied    = errors.New("already applied to this job")
	ErrInvalidStatus     = errors.New("invalid application status")
	ErrInvalidTransition = errors.New("invalid application status transition")
)

// Messaging errors
var (
	ErrRecruiterMustLead = errors.New("the recruiter must send the first message")
	// ErrConflictRace reports that a concurrent writer won a uniqueness race; callers re-read instead of failing.
	ErrConflictRace = errors.New("concurrent write conflict")
	ErrRateLimited  = errors.New("too many requests")
)

// Error codes carried by CustomError
const (
	CodeNotFound          = "NOT_FOUND"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeAlreadyApplied    = "ALREADY_APPLIED"
	CodeInvalidStatus     = "INVALID_STATUS"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeRecruiterMustLead = "RECRUITER_MUST_LEAD"
	CodeRateLimited       = "RATE_LIMITED"
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return NewCustomError(ErrResourceNotFound, message).WithCode(CodeNotFound)
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return NewCustomError(ErrPermissionDenied, message).WithCode(CodeUnauthorized)
}

// NewInvalidInputError creates a validation error with a message
func NewInvalidInputError(message string) error {
	return NewCustomError(ErrValidationFailed, message).WithCode(CodeInvalidInput)
}

// NewBadRequestError reports a malformed request parameter, recording which one
func NewBadRequestError(field, message string) error {
	return NewCustomError(ErrBadRequest, message).
		WithCode(CodeInvalidInput).
		WithDetails(map[string]interface{}{"field": field})
}

// NewAlreadyAppliedError reports a duplicate application
func NewAlreadyAppliedError(message string) error {
	return NewCustomError(ErrAlreadyApplied, message).WithCode(CodeAlreadyApplied)
}

// NewInvalidStatusError reports an unknown target status
func NewInvalidStatusError(message string) error {
	return NewCustomError(ErrInvalidStatus, message).WithCode(CodeInvalidStatus)
}

// NewInvalidTransitionError reports a disallowed move between known statuses
func NewInvalidTransitionError(message string) error {
	return NewCustomError(ErrInvalidTransition, message).WithCode(CodeInvalidTransition)
}

// NewRecruiterMustLeadError reports an attempt by a student to open a conversation
func NewRecruiterMustLeadError(message string) error {
	return NewCustomError(ErrRecruiterMustLead, message).WithCode(CodeRecruiterMustLead)
}

// NewRateLimitedError reports that the caller exceeded a rate limit
func NewRateLimitedError(message string) error {
	return NewCustomError(ErrRateLimited, message).WithCode(CodeRateLimited)
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// FieldOf returns the request field recorded on err, if any
func FieldOf(err error) string {
	var custom *CustomError
	if errors.As(err, &custom) {
		if field, ok := custom.Details["field"].(string); ok {
			return field
		}
	}
	return ""
}

// MessageOf returns the user-facing message of err, falling back to fallback
func MessageOf(err error, fallback string) string {
	var custom *CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	return fallback
}
