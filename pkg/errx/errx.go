package errx

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// Type classifies an error independently of the context that raised it
type Type string

const (
	TypeValidation    Type = "VALIDATION"
	TypeNotFound      Type = "NOT_FOUND"
	TypeConflict      Type = "CONFLICT"
	TypeAuthorization Type = "AUTHORIZATION"
	TypeBusiness      Type = "BUSINESS"
	TypeInternal      Type = "INTERNAL"
	TypeExternal      Type = "EXTERNAL"
)

// Code is the fully qualified error code, e.g. "APPLICANT.NOT_FOUND"
type Code string

func (c Code) String() string { return string(c) }

type definition struct {
	errType    Type
	httpStatus int
	message    string
}

// Registry holds the error codes of one bounded context
type Registry struct {
	prefix string
	mu     sync.RWMutex
	codes  map[Code]definition
}

// NewRegistry creates a registry whose codes are prefixed with prefix
func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		codes:  make(map[Code]definition),
	}
}

// Register declares a new code and returns its qualified form
func (r *Registry) Register(name string, errType Type, httpStatus int, message string) Code {
	code := Code(r.prefix + "." + name)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[code] = definition{errType: errType, httpStatus: httpStatus, message: message}

	return code
}

// New builds an error for a registered code
func (r *Registry) New(code Code) *Error {
	r.mu.RLock()
	def, ok := r.codes[code]
	r.mu.RUnlock()

	if !ok {
		return &Error{
			Code:       code,
			Type:       TypeInternal,
			HTTPStatus: http.StatusInternalServerError,
			Message:    "unregistered error code",
		}
	}

	return &Error{
		Code:       code,
		Type:       def.errType,
		HTTPStatus: def.httpStatus,
		Message:    def.message,
	}
}

// NewWithCause builds an error for a registered code wrapping cause
func (r *Registry) NewWithCause(code Code, cause error) *Error {
	e := r.New(code)
	e.Cause = cause
	return e
}

// Error is the structured error carried across layers
type Error struct {
	Code       Code           `json:"code"`
	Type       Type           `json:"type"`
	HTTPStatus int            `json:"-"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail attaches a single key/value to the error
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithDetails merges details into the error
func (e *Error) WithDetails(details map[string]any) *Error {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// WithCause sets the underlying error
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// ToHTTPResponse renders the error as a JSON body
func (e *Error) ToHTTPResponse() map[string]any {
	resp := map[string]any{
		"error":   e.Message,
		"type":    e.Type,
		"code":    e.Code,
		"message": e.Message,
	}
	if len(e.Details) > 0 {
		resp["details"] = e.Details
	}
	return resp
}

// Wrap converts any error into an *Error of the given type.
// An *Error is returned untouched.
func Wrap(err error, message string, errType Type) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{
		Type:       errType,
		HTTPStatus: statusForType(errType),
		Message:    message,
		Cause:      err,
	}
}

// IsCode reports whether err, or any error it wraps, carries code
func IsCode(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// IsType reports whether the outermost *Error in err has the given type
func IsType(err error, errType Type) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == errType
	}
	return false
}

func statusForType(t Type) int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeAuthorization:
		return http.StatusForbidden
	case TypeBusiness:
		return http.StatusUnprocessableEntity
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
