package anim

import (
	"fmt"
	"sort"
)

// Sample evaluates the track at time t using the interpolation recorded for
// each property. Before the first frame the first frame is returned; at or
// past the last frame the last one is. A track with no frames fails with
// ErrEmptyTrack, and a property recorded as cubic with
// ErrUnsupportedInterpolation.
func (tr Track) Sample(t float32) (Value, error) {
	n := len(tr.Frames)
	if n == 0 {
		return Value{}, ErrEmptyTrack
	}
	modes := tr.Interpolation
	for _, kind := range []PropertyKind{KindTranslation, KindRotation, KindScale, KindWeights} {
		if modes.Get(kind) == InterpolationCubic {
			return Value{}, fmt.Errorf("clip %q node %d %s: %w", tr.Clip, tr.Node, kind, ErrUnsupportedInterpolation)
		}
	}

	// Index of the first frame strictly after t.
	next := sort.Search(n, func(i int) bool { return tr.Frames[i].Time > t })
	if next == 0 {
		return tr.Frames[0].Value.Clone(), nil
	}
	if next == n {
		return tr.Frames[n-1].Value.Clone(), nil
	}

	k0 := tr.Frames[next-1]
	k1 := tr.Frames[next]
	if k0.Time == t {
		return k0.Value.Clone(), nil
	}

	f := float32(0)
	if k1.Time != k0.Time {
		f = (t - k0.Time) / (k1.Time - k0.Time)
	}

	var (
		v   Value
		w   []float32
		err error
	)
	v.Transform = k0.Value.Transform
	if v.Translation, err = Combine(k0.Value.Translation, k1.Value.Translation, modes.Translation, f, LerpVec3); err != nil {
		return Value{}, err
	}
	if v.Rotation, err = Combine(k0.Value.Rotation, k1.Value.Rotation, modes.Rotation, f, SlerpRotation); err != nil {
		return Value{}, err
	}
	if v.Scale, err = Combine(k0.Value.Scale, k1.Value.Scale, modes.Scale, f, LerpVec3); err != nil {
		return Value{}, err
	}
	if w, err = Combine(k0.Value.Weights, k1.Value.Weights, modes.Weights, f, LerpWeights); err != nil {
		return Value{}, err
	}
	v.Weights = append([]float32(nil), w...)
	return v, nil
}

// Animated reports whether the track moves at all. A single frame is a
// static pose.
func (tr Track) Animated() bool {
	return len(tr.Frames) > 1
}
