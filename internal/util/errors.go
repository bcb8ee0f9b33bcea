package util

import (
	"errors"
	"fmt"
)

type ErrorCode int

// Error is the failure type returned by every pipeline stage. Code says which
// stage failed; Err keeps the underlying cause for errors.Is/As.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

const (
	// 1000-1099: the inbound event could not be turned into a batch
	ErrCodeDecode ErrorCode = 1000
	ErrCodeSchema ErrorCode = 1010

	// 1100-1199: operator configuration is broken
	ErrCodeConfig ErrorCode = 1100

	// 1200-1299: the notification could not be delivered
	ErrCodeDelivery ErrorCode = 1200

	ErrCodeUnknown ErrorCode = 9999
)

var (
	ErrCodes = map[ErrorCode]string{
		ErrCodeDecode:   "decode error",
		ErrCodeSchema:   "schema error",
		ErrCodeConfig:   "config error",
		ErrCodeDelivery: "delivery error",
	}

	// ErrCodeKinds are the short labels used in log fields and metric labels.
	ErrCodeKinds = map[ErrorCode]string{
		ErrCodeDecode:   "decode",
		ErrCodeSchema:   "schema",
		ErrCodeConfig:   "config",
		ErrCodeDelivery: "delivery",
	}
)

func (e ErrorCode) Error() string {
	if msg, ok := ErrCodes[e]; ok {
		return msg
	}
	return "Unknown error"
}

// Kind returns the short label of the code, "unknown" if it has none.
func (e ErrorCode) Kind() string {
	if kind, ok := ErrCodeKinds[e]; ok {
		return kind
	}
	return "unknown"
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets callers match on the code alone: errors.Is(err, util.ErrCodeDecode).
func (e *Error) Is(target error) bool {
	code, ok := target.(ErrorCode)
	return ok && code == e.Code
}

func NewError(code ErrorCode, cause error, appendToMessage ...string) *Error {
	e := &Error{
		Code:    code,
		Message: code.Error(),
		Err:     cause,
	}
	for _, appendMsg := range appendToMessage {
		e.Message += " : " + appendMsg
	}
	return e
}

func NewDecodeError(cause error, context string) *Error {
	return NewError(ErrCodeDecode, cause, context)
}

// NewSchemaError reports a required field of the batch that is absent or mistyped.
func NewSchemaError(field string, reason string) *Error {
	return NewError(ErrCodeSchema, nil, fmt.Sprintf("%s %s", field, reason))
}

func NewConfigError(cause error, context string) *Error {
	return NewError(ErrCodeConfig, cause, context)
}

func NewDeliveryError(cause error, context string) *Error {
	return NewError(ErrCodeDelivery, cause, context)
}

// CodeOf digs the ErrorCode out of err, ErrCodeUnknown when err carries none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var code ErrorCode
	if errors.As(err, &code) {
		return code
	}
	return ErrCodeUnknown
}
