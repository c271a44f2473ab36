// Package anim resamples glTF animation channels onto one timeline per node.
//
// A clip arrives as raw channels, each animating one property of one node
// on its own keyframe times. Extract groups and decodes them, Merge walks
// the grouped channels of a node as a k-way merge over their keyframe times
// and emits fully composed frames, and Resample does both for many clips in
// parallel.
package anim

import (
	"fmt"
)

// WeightWidth is the fixed number of morph target weights carried by every
// frame value and node default.
const WeightWidth = 4

// PropertyKind is the node property a channel animates.
type PropertyKind int

const (
	KindTranslation PropertyKind = iota
	KindRotation
	KindScale
	KindWeights
)

// String returns the glTF path name of the property.
func (k PropertyKind) String() string {
	switch k {
	case KindTranslation:
		return "translation"
	case KindRotation:
		return "rotation"
	case KindScale:
		return "scale"
	case KindWeights:
		return "weights"
	default:
		return fmt.Sprintf("PropertyKind(%d)", int(k))
	}
}

// Interpolation is how values between two keyframes are produced.
type Interpolation int

const (
	// InterpolationNone is the zero value. It yields the upcoming keyframe
	// value unchanged.
	InterpolationNone Interpolation = iota
	InterpolationStep
	InterpolationLinear
	// InterpolationCubic is recognised but not supported.
	InterpolationCubic
)

// String returns a lower-case mode name.
func (i Interpolation) String() string {
	switch i {
	case InterpolationNone:
		return "none"
	case InterpolationStep:
		return "step"
	case InterpolationLinear:
		return "linear"
	case InterpolationCubic:
		return "cubic"
	default:
		return fmt.Sprintf("Interpolation(%d)", int(i))
	}
}

// ParseInterpolation is the inverse of Interpolation.String.
func ParseInterpolation(s string) (Interpolation, error) {
	switch s {
	case "none", "":
		return InterpolationNone, nil
	case "step":
		return InterpolationStep, nil
	case "linear":
		return InterpolationLinear, nil
	case "cubic":
		return InterpolationCubic, nil
	}
	return InterpolationNone, fmt.Errorf("unknown interpolation %q", s)
}

// Channel is one raw animation channel as read from an asset.
// Output is the flat accessor data; nil means the output could not be read.
type Channel struct {
	Node          int
	Kind          PropertyKind
	Interpolation Interpolation
	Times         []float32
	Output        []float32
}

// Clip is one named animation: its channels plus the rest pose of every
// node the asset defines. Nodes missing from Defaults rest at identity.
type Clip struct {
	Name     string
	Channels []Channel
	Defaults map[int]NodeDefaults
}

// NodeDefaults is the rest pose of a node.
type NodeDefaults struct {
	Transform Transform
	Weights   []float32
}

// IdentityDefaults returns the rest pose used for nodes without one.
func IdentityDefaults() NodeDefaults {
	return NodeDefaults{Transform: IdentityTransform()}
}

// Value returns the defaults as a frame value with weights at WeightWidth.
func (d NodeDefaults) Value() Value {
	return Value{Transform: d.Transform, Weights: fitWeights(d.Weights)}
}

// Value is the fully composed state of a node at one instant.
type Value struct {
	Transform
	Weights []float32
}

// Clone returns a copy that shares no memory with v.
func (v Value) Clone() Value {
	out := v
	out.Weights = append([]float32(nil), v.Weights...)
	return out
}

// Frame is one output sample of a track.
type Frame struct {
	Time  float32
	Value Value
}

// InterpolationTargets records the interpolation mode of each property as
// supplied by the channel that animated it.
type InterpolationTargets struct {
	Translation Interpolation
	Rotation    Interpolation
	Scale       Interpolation
	Weights     Interpolation
}

func (it *InterpolationTargets) set(kind PropertyKind, mode Interpolation) {
	switch kind {
	case KindTranslation:
		it.Translation = mode
	case KindRotation:
		it.Rotation = mode
	case KindScale:
		it.Scale = mode
	case KindWeights:
		it.Weights = mode
	}
}

// Get returns the mode recorded for kind.
func (it InterpolationTargets) Get(kind PropertyKind) Interpolation {
	switch kind {
	case KindTranslation:
		return it.Translation
	case KindRotation:
		return it.Rotation
	case KindScale:
		return it.Scale
	case KindWeights:
		return it.Weights
	}
	return InterpolationNone
}

// Track is the merged animation of one node within one clip. Frame times
// are strictly increasing and Duration equals the last frame time.
// ClipIndex is the position of the clip in its asset; names need not be
// unique.
type Track struct {
	Clip          string
	ClipIndex     int
	Node          int
	Frames        []Frame
	Interpolation InterpolationTargets
	Duration      float32
}

// fitWeights pads or truncates w to WeightWidth, always returning a new slice.
func fitWeights(w []float32) []float32 {
	out := make([]float32, WeightWidth)
	copy(out, w)
	return out
}
