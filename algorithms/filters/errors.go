package filters

import "errors"

var (
	// ErrInvalidSampleInterval is returned for a non-positive or non-finite T
	ErrInvalidSampleInterval = errors.New("sample interval must be positive and finite")
	// ErrInvalidLengthScale is returned for a non-positive or non-finite L
	ErrInvalidLengthScale = errors.New("length scale must be positive and finite")
	// ErrUnknownKind is returned for an unsupported filter design
	ErrUnknownKind = errors.New("unknown filter kind")
	// ErrUnstable is returned when a pole leaves the unit circle or a gain overflows
	ErrUnstable = errors.New("filter is unstable")
	// ErrEmptySignal is returned for zero-length input
	ErrEmptySignal = errors.New("empty signal")
	// ErrNonFinite is returned when input or output contains NaN or Inf
	ErrNonFinite = errors.New("non-finite sample")
	// ErrInvalidWidth is returned for a non-positive averaging width or cutoff
	ErrInvalidWidth = errors.New("invalid filter width")
)
