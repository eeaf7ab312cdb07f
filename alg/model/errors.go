package model

import "fmt"

// FormatError reports a malformed or truncated model file. Readers never
// return a partially loaded model together with a FormatError.
type FormatError struct {
	Format Format
	Msg    string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v model format: %s: %v", e.Format, e.Msg, e.Err)
	}
	return fmt.Sprintf("%v model format: %s", e.Format, e.Msg)
}

func (e *FormatError) Cause() error {
	return e.Err
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func formatErrorf(format Format, err error, msg string, args ...interface{}) *FormatError {
	return &FormatError{Format: format, Msg: fmt.Sprintf(msg, args...), Err: err}
}
