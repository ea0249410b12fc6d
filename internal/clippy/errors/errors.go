// Package errors holds the sentinel errors shared across evilclippy packages
package errors

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrNoWatchPaths    = errors.New("no folders or files to watch")
	ErrNoFileTypes     = errors.New("no file types enabled")
	ErrUnknownProvider = errors.New("unknown remote provider")

	// Remote analysis errors
	ErrRemoteNotInitialized = errors.New("remote analyzer not initialized")
	ErrRemoteResponse       = errors.New("invalid remote response")
	ErrRateLimited          = errors.New("rate limited")

	// File system errors
	ErrFileNotFound = errors.New("file not found")
	ErrInvalidPath  = errors.New("invalid path")

	// Watcher errors
	ErrWatcherRunning    = errors.New("watcher already running")
	ErrWatcherNotRunning = errors.New("watcher not running")
	ErrDatabaseDisabled  = errors.New("database logging is disabled")
)

// Wrap wraps an error with additional context
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is checks if the error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As checks if the error can be unwrapped to the target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
