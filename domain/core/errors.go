package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrCellNotFound   = fmt.Errorf("%w: grid cell", ErrNotFound)
	ErrReflexNotFound = fmt.Errorf("%w: reflex verdict", ErrNotFound)
	ErrReactNotFound  = fmt.Errorf("%w: react verdict", ErrNotFound)

	// Evidence collection errors
	ErrLocationUnresolved = errors.New("unable to resolve location")
	ErrImageUnavailable   = errors.New("failed to download or process image")
	ErrProviderFailed     = errors.New("evidence provider failed")

	// Analysis errors
	ErrReasoningFailed = errors.New("reasoning model call failed")
	ErrReactTerminal   = errors.New("react verdict already terminal")
)

// IsNotFoundError reports whether err is any not-found variant
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsFatalEvidenceError reports whether err aborts the whole evidence request.
// Only the two load-bearing providers (geocoding, image fetch) are fatal;
// everything else degrades to neutral evidence.
func IsFatalEvidenceError(err error) bool {
	return errors.Is(err, ErrLocationUnresolved) || errors.Is(err, ErrImageUnavailable)
}
