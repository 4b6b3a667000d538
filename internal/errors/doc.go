// Package errors provides classified error primitives used across assetstager.
//
// A ClassifiedError carries a category, a severity and structured context. The
// category drives the process exit code through CLIErrorAdapter, so automated
// callers can tell a configuration problem from a failed staging run without
// parsing text output.
//
// Example usage:
//
//	err := errors.FileSystemError("failed to create directory").
//		WithContext("path", dir).
//		WithCause(cause).
//		Build()
package errors
