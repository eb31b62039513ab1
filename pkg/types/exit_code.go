// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// Exit statuses reported by the modrepo CLI. Scripts can tell a lookup
// miss apart from a malformed request or a broken environment.
const (
	// ExitOK reports a successful command.
	ExitOK ExitCode = 0
	// ExitFailure reports an environment problem such as an unreadable
	// configuration file or repository.
	ExitFailure ExitCode = 1
	// ExitUsage reports a malformed argument: an invalid module identifier,
	// locator, config key or position.
	ExitUsage ExitCode = 2
	// ExitNotFound reports that no registered repository could resolve the
	// requested module or contains the requested locator.
	ExitNotFound ExitCode = 3
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode is a process exit status. POSIX truncates statuses to 0-255.
	ExitCode int

	// InvalidExitCodeError is returned for an ExitCode outside 0-255.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if the ExitCode does not fit in a process status.
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess reports whether c is ExitOK.
func (c ExitCode) IsSuccess() bool { return c == ExitOK }

// IsMiss reports whether c means the lookup ran and found nothing.
func (c ExitCode) IsMiss() bool { return c == ExitNotFound }

// String returns the decimal form of c.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
