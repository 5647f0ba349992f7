package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/doxyrst/internal/configloader"
	"github.com/yaklabco/doxyrst/pkg/fsutil"
	"github.com/yaklabco/doxyrst/pkg/rst"
)

// Exit codes for doxyrst.
const (
	// ExitSuccess indicates a completed run. Warnings do not change it.
	ExitSuccess = 0

	// ExitStructuralError indicates a run aborted on a malformed document.
	ExitStructuralError = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrInvalidUsage marks errors in flags and arguments.
var ErrInvalidUsage = errors.New("invalid usage")

// ExitCode maps the error returned by a command to the process exit code.
func ExitCode(err error) int {
	var pathErr *fs.PathError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, rst.ErrStructural):
		return ExitStructuralError
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.Is(err, configloader.ErrConfig):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.As(err, &pathErr):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
