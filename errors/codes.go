// Package errors provides the pipeline's coded error type.
// Codes are string-based so they read well in logs and classify a failure
// into a process exit status at the command boundary.
package errors

// ErrorCode represents a specific failure class of an extract run.
type ErrorCode string

const (
	// Resource errors.

	// CodeNotFound indicates a requested bucket, object or folder does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// Permission errors.

	// CodeUnauthorized indicates missing or rejected storage credentials.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// CodeForbidden indicates the credentials lack permission for the operation.
	CodeForbidden ErrorCode = "FORBIDDEN"

	// Validation errors.

	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates a configuration error prevents the run.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// Data errors.

	// CodeNoData indicates a step had nothing to work on, e.g. no readable CSV files to merge.
	CodeNoData ErrorCode = "NO_DATA"

	// Infrastructure errors.

	// CodeStorage indicates a remote object-storage call failed.
	CodeStorage ErrorCode = "STORAGE_ERROR"

	// CodeFilesystem indicates a local filesystem operation failed.
	CodeFilesystem ErrorCode = "FILESYSTEM_ERROR"

	// CodeTimeout indicates an operation exceeded its time limit or was cancelled.
	CodeTimeout ErrorCode = "TIMEOUT"

	// System errors.

	// CodeInternal indicates an internal error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// Generic errors.

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)

// exitCodes maps codes to process exit statuses. Unlisted codes exit with 1.
var exitCodes = map[ErrorCode]int{
	CodeInvalidConfig: 2,
	CodeInvalidInput:  2,
	CodeNotFound:      3,
	CodeUnauthorized:  4,
	CodeForbidden:     4,
	CodeNoData:        5,
	CodeStorage:       6,
	CodeFilesystem:    7,
	CodeTimeout:       8,
}

// ExitCode returns the process exit status for the code.
func (c ErrorCode) ExitCode() int {
	if status, ok := exitCodes[c]; ok {
		return status
	}
	return 1
}
