package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Kind classifies a rejection independently of its HTTP status.
type Kind string

const (
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindForbidden       Kind = "FORBIDDEN"
	KindNotFound        Kind = "NOT_FOUND"
	KindInvalidRequest  Kind = "INVALID_REQUEST"
	KindConflict        Kind = "CONFLICT"
	KindQuotaExceeded   Kind = "QUOTA_EXCEEDED"
	KindRateLimited     Kind = "RATE_LIMITED"
	KindInternal        Kind = "INTERNAL"
)

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int

	// Kind is the rejection category, used by callers that need to branch
	// on the failure without caring about transport details.
	Kind() Kind
}

type APIError struct {
	Message string `json:"error"`
	Status  int    `json:"-"`
	kind    Kind
}

func (a *APIError) Code() int {
	return a.Status
}

func (a *APIError) Kind() Kind {
	return a.kind
}

type StructuredError struct {
	Message string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
	Status  int                 `json:"-"`
}

func (s *StructuredError) Code() int {
	return s.Status
}

func (s *StructuredError) Kind() Kind {
	return KindInvalidRequest
}

func (s *StructuredError) Add(field, problem string) {
	s.Errors[field] = append(s.Errors[field], problem)
}

var (
	MalformedBodyError  = NewInvalidRequest("Malformed request body")
	InternalServerError = New(KindInternal, "Internal server error")

	// UnauthorizedError is returned for missing, malformed, tampered and
	// expired tokens alike.
	UnauthorizedError = NewUnauthenticated("Unauthorized")

	// InvalidCredentialsError is shared by the unknown-email and the
	// wrong-password cases so both produce the same body.
	InvalidCredentialsError = NewUnauthenticated("Invalid credentials")

	NoteNotFoundError   = NewNotFound("Note not found")
	UserNotFoundError   = NewNotFound("User not found")
	TenantNotFoundError = NewNotFound("Tenant not found")

	UserAlreadyExistsError = New(KindConflict, "User with this email already exists")

	TooManyRequestsError = New(KindRateLimited, "Too many login attempts, please try again later")
)

var kindStatus = map[Kind]int{
	KindUnauthenticated: http.StatusUnauthorized,
	KindForbidden:       http.StatusForbidden,
	KindNotFound:        http.StatusNotFound,
	KindInvalidRequest:  http.StatusBadRequest,
	KindConflict:        http.StatusConflict,
	KindQuotaExceeded:   http.StatusPaymentRequired,
	KindRateLimited:     http.StatusTooManyRequests,
	KindInternal:        http.StatusInternalServerError,
}

// StatusOf maps a Kind to its HTTP status code.
func StatusOf(kind Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func FromValidationError(err error) *StructuredError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}

	problems := map[string][]string{}
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())

		switch fe.Tag() {
		case "required":
			problems[field] = append(problems[field], "This field is required")
		case "min":
			problems[field] = append(problems[field], "Value is too short, min: "+fe.Param())
		case "max":
			problems[field] = append(problems[field], "Value is too long, max: "+fe.Param())
		case "email":
			problems[field] = append(problems[field], "Value must be a valid email address")
		case "oneof":
			problems[field] = append(problems[field], "Value must be one of: "+fe.Param())
		case "nospaces":
			problems[field] = append(problems[field], "Value must not contain whitespace")

		default:
			problems[field] = append(problems[field], "Invalid value provided")
		}
	}

	return &StructuredError{
		Message: "Validation failed",
		Errors:  problems,
		Status:  http.StatusBadRequest,
	}
}

func New(kind Kind, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: StatusOf(kind), Message: msg, kind: kind}
}

func NewStructured(code int) *StructuredError {
	return &StructuredError{
		Message: "Validation failed",
		Errors:  make(map[string][]string),
		Status:  code,
	}
}

func NewUnauthenticated(msg string, args ...any) *APIError {
	return New(KindUnauthenticated, msg, args...)
}

func NewForbidden(msg string, args ...any) *APIError {
	return New(KindForbidden, msg, args...)
}

func NewNotFound(msg string, args ...any) *APIError {
	return New(KindNotFound, msg, args...)
}

func NewInvalidRequest(msg string, args ...any) *APIError {
	return New(KindInvalidRequest, msg, args...)
}

func NewQuotaExceeded(limit int) *APIError {
	return New(KindQuotaExceeded,
		"Free plan is limited to %d notes per user. Upgrade to Pro for unlimited notes.", limit)
}

func NewMissingParamError(name string) *APIError {
	return NewInvalidRequest("Missing required parameter '%s'", name)
}
