package types

import (
	"errors"
	"fmt"
)

// Error kinds shared by the graph, definition and membership models. Callers
// detect them with errors.Is; the message carries the context.
var (
	// ErrUnknownVertex is returned when a vertex id does not exist in the graph.
	ErrUnknownVertex = errors.New("unknown vertex")

	// ErrUnknownEdge is returned when an edge id does not exist in the graph.
	ErrUnknownEdge = errors.New("unknown edge")

	// ErrUnknownDefinition is returned when a shared step definition cannot be resolved.
	ErrUnknownDefinition = errors.New("unknown definition")

	// ErrObjectNotFound is returned when a named or versioned resource, or a member, cannot be resolved.
	ErrObjectNotFound = errors.New("object not found")

	// ErrObjectAlreadyExists signals a uniqueness violation on collection membership
	// or an attempt to overwrite a stored version.
	ErrObjectAlreadyExists = errors.New("object already exists")

	// ErrInvalidCollectionModification signals a violated structural or typing rule of a collection.
	ErrInvalidCollectionModification = errors.New("invalid collection modification")

	// ErrInvalidData signals inconsistent or missing data, e.g. an underivable version.
	ErrInvalidData = errors.New("invalid data")

	// ErrAbstractPropertyNotOverridden is returned by instantiation when an abstract property survives.
	ErrAbstractPropertyNotOverridden = errors.New("abstract property not overridden")

	// ErrVersionConflict is returned when one composite references a shared definition at two versions.
	ErrVersionConflict = errors.New("version conflict")
)

// NewObjectNotFoundError returns ErrObjectNotFound annotated with the formatted message.
func NewObjectNotFoundError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrObjectNotFound, fmt.Sprintf(format, args...))
}

// NewInvalidDataError returns ErrInvalidData annotated with the formatted message.
func NewInvalidDataError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidData, fmt.Sprintf(format, args...))
}

// NewInvalidCollectionModificationError returns ErrInvalidCollectionModification annotated with the formatted message.
func NewInvalidCollectionModificationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidCollectionModification, fmt.Sprintf(format, args...))
}

// Wrap annotates a collaborator error with kind unless it already carries one of the
// known kinds.
func Wrap(kind error, err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	if IsKnown(err) {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
	}
	return fmt.Errorf("%w: %s: %w", kind, fmt.Sprintf(format, args...), err)
}

// IsKnown reports whether err wraps one of the error kinds defined by this package.
func IsKnown(err error) bool {
	for _, kind := range []error{ErrUnknownVertex, ErrUnknownEdge, ErrUnknownDefinition, ErrObjectNotFound,
		ErrObjectAlreadyExists, ErrInvalidCollectionModification, ErrInvalidData,
		ErrAbstractPropertyNotOverridden, ErrVersionConflict} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
