// Package errors provides structured error handling for the icon packager.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Source errors
	CodeSourceNotFound Code = "SOURCE_NOT_FOUND"
	CodeDecodeError    Code = "DECODE_ERROR"

	// Output errors
	CodeWriteError Code = "WRITE_ERROR"

	// Input validation errors
	CodeInvalidSizeList Code = "INVALID_SIZE_LIST"
	CodeInvalidConfig   Code = "INVALID_CONFIG"
)

// ExitCode maps domain codes to process exit codes for CLI entry points.
// Every failure exits non-zero; the distinct values let build scripts tell
// a missing asset apart from a broken one.
func (c Code) ExitCode() int {
	switch c {
	case CodeSourceNotFound:
		return 2
	case CodeDecodeError:
		return 3
	case CodeWriteError:
		return 4
	case CodeInvalidSizeList, CodeInvalidConfig:
		return 5
	default:
		return 1
	}
}
