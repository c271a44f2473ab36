package anim

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedInterpolation is returned when a channel asks for an
	// interpolation mode the resampler cannot evaluate (cubic spline).
	ErrUnsupportedInterpolation = errors.New("unsupported interpolation")

	// ErrMalformedChannel marks a channel whose keyframes cannot be read.
	// It never fails a merge; the channel is skipped and reported.
	ErrMalformedChannel = errors.New("malformed channel")

	// ErrAlreadyRemapped is returned when a target-space transform is
	// remapped again.
	ErrAlreadyRemapped = errors.New("transform already in target coordinates")

	// ErrNumericDomain is returned when a conversion produced a non-finite
	// value from non-finite input.
	ErrNumericDomain = errors.New("non-finite rotation")

	// ErrEmptyTrack is returned when sampling a track with no frames.
	ErrEmptyTrack = errors.New("track has no frames")
)

// Warning is a recoverable problem found while extracting a clip.
type Warning struct {
	Clip string
	Node int
	Kind PropertyKind
	Err  error
}

func (w Warning) Error() string {
	return fmt.Sprintf("clip %q node %d %s: %v", w.Clip, w.Node, w.Kind, w.Err)
}

func (w Warning) Unwrap() error { return w.Err }
