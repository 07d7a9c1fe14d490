package snapshot

import (
	"errors"
	"fmt"
)

// ErrInvalidRoot reports that the project root is missing or not a directory.
// It is fatal and detected before traversal begins.
var ErrInvalidRoot = errors.New("invalid project root")

// TraversalError reports that the project root became inaccessible mid-walk.
// It is fatal; no partial artifact is produced.
type TraversalError struct {
	Path string
	Err  error
}

func (traversalError *TraversalError) Error() string {
	return fmt.Sprintf("traversal failed at %s: %v", traversalError.Path, traversalError.Err)
}

func (traversalError *TraversalError) Unwrap() error {
	return traversalError.Err
}
