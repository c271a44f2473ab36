package anim

import (
	"fmt"

	"github.com/Faultbox/gltfanim/pkg/math"
)

// BlendFunc mixes two values of one property kind. f is 0 at prev and 1 at
// next.
type BlendFunc[T any] func(prev, next T, f float32) T

// Combine produces the value of a property between two keyframes.
//
// None yields next and Step yields prev, both unmodified. Linear defers to
// blend. Cubic fails with ErrUnsupportedInterpolation.
func Combine[T any](prev, next T, mode Interpolation, f float32, blend BlendFunc[T]) (T, error) {
	switch mode {
	case InterpolationNone:
		return next, nil
	case InterpolationStep:
		return prev, nil
	case InterpolationLinear:
		return blend(prev, next, f), nil
	}
	var zero T
	return zero, fmt.Errorf("%w: %s", ErrUnsupportedInterpolation, mode)
}

// LerpVec3 is the blend for translation and scale.
func LerpVec3(prev, next math.Vec3, f float32) math.Vec3 {
	return prev.Lerp(next, f)
}

// SlerpRotation is the blend for rotations. It never lerps components.
func SlerpRotation(prev, next Rotation, f float32) Rotation {
	return prev.Slerp(next, f)
}

// LerpWeights is the blend for morph weight vectors. The result has the
// length of prev; missing entries in next count as zero.
func LerpWeights(prev, next []float32, f float32) []float32 {
	out := make([]float32, len(prev))
	s := 1 - f
	for i, p := range prev {
		var n float32
		if i < len(next) {
			n = next[i]
		}
		out[i] = p*s + n*f
	}
	return out
}
