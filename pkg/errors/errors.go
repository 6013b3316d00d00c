// Package errors defines the sentinel errors shared across modhaven and small
// helpers for wrapping them with context.
package errors

import "fmt"

// Install pipeline errors.
var (
	// ErrExtractionFailed is returned when an archive cannot be unpacked.
	ErrExtractionFailed = fmt.Errorf("archive extraction failed")

	// ErrNoModFound is returned when no manifest exists anywhere in an
	// extracted tree or dropped folder.
	ErrNoModFound = fmt.Errorf("no mod found")

	// ErrConflictRemoval is returned when the existing mod blocking an
	// overwrite cannot be removed.
	ErrConflictRemoval = fmt.Errorf("failed to remove conflicting mod")

	// ErrPlacementFailed is returned when the staged mod cannot be moved
	// into the mods directory.
	ErrPlacementFailed = fmt.Errorf("failed to place mod")

	// ErrStaleResume is returned when a resumed install refers to a staged
	// directory that no longer exists (e.g. the resume was issued twice).
	ErrStaleResume = fmt.Errorf("stale resume: staged mod no longer exists")
)

// Manifest errors.
var (
	ErrManifestMalformed    = fmt.Errorf("manifest is malformed")
	ErrManifestMissingField = fmt.Errorf("manifest is missing a required field")
)

// Version check errors.
var (
	ErrVersionCheckFailed  = fmt.Errorf("version check failed")
	ErrNoVersionCheckerURL = fmt.Errorf("mod declares no version checker URL")
	ErrNoDownloadURL       = fmt.Errorf("remote version declares no download URL")
)

// Download errors.
var (
	ErrDownloadFailed   = fmt.Errorf("download failed")
	ErrFileHashMismatch = fmt.Errorf("file hash mismatch")
	ErrInvalidPath      = fmt.Errorf("invalid path")
)

// Config errors.
var (
	ErrConfigParse      = fmt.Errorf("failed to parse config")
	ErrConfigValidation = fmt.Errorf("invalid configuration")
)

// Hook errors.
var (
	ErrHookTypeEmpty = fmt.Errorf("hook type cannot be empty")
	ErrHookExecution = fmt.Errorf("error executing hook")
	ErrHookScript    = fmt.Errorf("hook script error")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
