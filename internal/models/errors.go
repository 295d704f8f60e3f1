package models

import "errors"

// Error codes carried by AppError.
const (
	CodeCalibrationOutOfBounds = "CALIBRATION_OUT_OF_BOUNDS"
	CodeInputValidation        = "INPUT_VALIDATION"
	CodeDisplayStillRouted     = "DISPLAY_STILL_ROUTED"
	CodePrivilegeDenied        = "PRIVILEGE_DENIED"
	CodeHardware               = "HARDWARE"
	CodeUnsupportedChip        = "UNSUPPORTED_CHIP"
)

// AppError is a structured error with a stable code. Every AppError makes the
// CLI exit with status 1; the code tells callers and tests which failure
// happened.
type AppError struct {
	Code    string
	Message string
	Field   string // offending argument, for input errors
	Err     error  // underlying cause, if any
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches any *AppError with the same code, so errors.Is(err,
// ErrDisplayStillRouted) works on wrapped values.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Error constructors.
var (
	ErrInputValidation = func(field, msg string) *AppError {
		return &AppError{Code: CodeInputValidation, Message: msg, Field: field}
	}
	ErrDisplayStillRouted = &AppError{
		Code:    CodeDisplayStillRouted,
		Message: "display is still on discrete GPU",
	}
	ErrPrivilegeDenied = func(err error) *AppError {
		return &AppError{Code: CodePrivilegeDenied, Message: "no I/O port access (are you running as root?)", Err: err}
	}
	ErrHardware = func(msg string, err error) *AppError {
		return &AppError{Code: CodeHardware, Message: msg, Err: err}
	}
	ErrUnsupportedChip = func(msg string) *AppError {
		return &AppError{Code: CodeUnsupportedChip, Message: msg}
	}
	ErrCalibrationOutOfBounds = func(msg string) *AppError {
		return &AppError{Code: CodeCalibrationOutOfBounds, Message: msg}
	}
)

// HasCode reports whether err is, or wraps, an AppError with the given code.
func HasCode(err error, code string) bool {
	return errors.Is(err, &AppError{Code: code})
}
