package globals

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrAttributeNotFound indicates an attribute was read before being set
	// in the current scope.
	ErrAttributeNotFound = errors.New("attribute not found")

	// ErrScopeUnbound indicates the globals facade was used outside any
	// request lifecycle. This is a programming error: the scope middleware
	// was not applied, or the context escaped its request.
	ErrScopeUnbound = errors.New("no globals scope bound to context")
)

// AttributeNotFoundError carries the missing attribute name for diagnostics.
type AttributeNotFoundError struct {
	Name string
}

// Error implements the error interface.
func (e *AttributeNotFoundError) Error() string {
	return fmt.Sprintf("%q does not exist in globals, make sure to set it before trying to use it", e.Name)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *AttributeNotFoundError) Unwrap() error {
	return ErrAttributeNotFound
}
