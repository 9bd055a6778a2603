package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrMissingCredential = errors.New("missing credential")
	ErrNoText            = errors.New("no extractable text")
	ErrParse             = errors.New("unparseable provider reply")
	ErrProvider          = errors.New("provider call failed")
)

// Error codes used in AppError.Code.
const (
	CodeConfig   = "CONFIG_ERROR"
	CodeInput    = "INPUT_ERROR"
	CodeProvider = "PROVIDER_ERROR"
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// ConfigError reports a fatal pre-flight problem (bad schema, bad config file).
func ConfigError(message string, cause error) error {
	if cause == nil {
		cause = ErrInvalidInput
	}
	return NewAppError(CodeConfig, message, cause)
}

// IsConfigError reports whether err is (or wraps) a configuration AppError.
func IsConfigError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae) && ae.Code == CodeConfig
}

// ErrorKind returns a short label for the error class, for log attributes.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingCredential):
		return "credential"
	case errors.Is(err, ErrNoText):
		return "empty_text"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrInvalidInput):
		return "input"
	default:
		return "transport"
	}
}

// KindError carries a message meant for the result channel while still
// matching its class sentinel with errors.Is.
type KindError struct {
	Kind error
	Msg  string
}

func (e *KindError) Error() string { return e.Msg }

func (e *KindError) Unwrap() error { return e.Kind }

// NewKindError formats a KindError of the given class.
func NewKindError(kind error, format string, args ...any) error {
	return &KindError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
