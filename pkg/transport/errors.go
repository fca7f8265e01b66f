package transport

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUploadFailed  = errors.New("upload failed")
	ErrInflateFailed = errors.New("inflate failed")
	ErrCommandFailed = errors.New("remote command failed")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// NoExitCode marks failures that never produced a process exit status
const NoExitCode = -1

// ExitError is a failed upload or remote command. errors.Is matches Kind.
type ExitError struct {
	Kind error // ErrUploadFailed, ErrCommandFailed or ErrInflateFailed
	Code int   // exit status, NoExitCode when there is none
	Err  error // underlying cause, if any
}

func (e *ExitError) Error() string {
	msg := capitalize(e.Kind.Error())
	if e.Code != NoExitCode {
		msg = fmt.Sprintf("%s (exit code %d)", msg, e.Code)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ExitError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// UploadFailed builds an upload error
func UploadFailed(code int, err error) error {
	return &ExitError{Kind: ErrUploadFailed, Code: code, Err: err}
}

// CommandFailed builds a remote command error
func CommandFailed(code int, err error) error {
	return &ExitError{Kind: ErrCommandFailed, Code: code, Err: err}
}

// InflateFailed builds a remote unpack error
func InflateFailed(code int, err error) error {
	return &ExitError{Kind: ErrInflateFailed, Code: code, Err: err}
}

// ExitCode extracts the exit status from err, NoExitCode if it has none
func ExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return NoExitCode
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
