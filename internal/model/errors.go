package model

import "errors"

var (
	// ErrInvalidOffset is returned when an alignment offset is neither a
	// number nor one of "odd" or "even".
	ErrInvalidOffset = errors.New("invalid offset: value must be 'odd', 'even', or a number")

	// ErrInvalidOffsetPair is returned when an offset container does not hold
	// exactly two elements.
	ErrInvalidOffsetPair = errors.New("invalid offset pair: value must have exactly two elements")

	// ErrInvalidParams is returned for non-physical wafer or die dimensions.
	ErrInvalidParams = errors.New("invalid wafer parameters")
)
