package trapmap

import "errors"

var (
	// ErrInvalidBounds is returned by [New] when the bounding rectangle has no
	// positive area.
	ErrInvalidBounds = errors.New("bounds must have positive width and height")

	// ErrVerticalSegment is returned by [Map.Insert] for a segment whose
	// endpoints share an x-coordinate. The endpoint test is undefined for it.
	ErrVerticalSegment = errors.New("vertical segment")

	// ErrZeroLengthSegment is returned by [Map.Insert] for a segment whose
	// endpoints coincide.
	ErrZeroLengthSegment = errors.New("zero-length segment")

	// ErrOutOfBounds is returned by [Map.Insert] when an endpoint does not lie
	// strictly inside the bounding rectangle.
	ErrOutOfBounds = errors.New("segment endpoint outside bounds")

	// ErrCrossingSegment is returned by [Map.Insert] when a segment meets
	// another segment anywhere but at a shared endpoint.
	ErrCrossingSegment = errors.New("segment crosses another segment")

	// ErrDegenerateGeometry is returned by [Map.Insert] when the walk across
	// the regions a segment crosses cannot be completed. The map is left
	// partially updated and must be rebuilt.
	ErrDegenerateGeometry = errors.New("degenerate geometry")

	// ErrInvariant is returned by [Map.Validate] when the structure is
	// inconsistent. The wrapping error names the violated property.
	ErrInvariant = errors.New("invariant violated")
)

// IsInvalidInput reports whether err rejected input before the map was
// modified.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrVerticalSegment) ||
		errors.Is(err, ErrZeroLengthSegment) ||
		errors.Is(err, ErrOutOfBounds) ||
		errors.Is(err, ErrCrossingSegment)
}
