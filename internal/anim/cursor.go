package anim

import "github.com/Faultbox/gltfanim/pkg/math"

// cursor walks the keyframes of one property track during a merge.
type cursor interface {
	kind() PropertyKind
	interpolation() Interpolation
	finished() bool
	peekTime() float32
	// advance moves the cursor toward frame time t and writes its property
	// into v.
	advance(v *Value, t float32, mode SamplingMode) error
}

type channelCursor[T any] struct {
	prop  PropertyKind
	mode  Interpolation
	times []float32
	vals  []T
	index int
	done  bool

	// anchor is the last consumed keyframe, or the node default at t=0.
	anchorTime float32
	anchor     T

	blend BlendFunc[T]
	set   func(*Value, T)
	get   func(*Value) T
}

func newChannelCursor[T any](pt *PropertyTrack, vals []T, def T, blend BlendFunc[T], get func(*Value) T, set func(*Value, T)) *channelCursor[T] {
	n := pt.Len()
	return &channelCursor[T]{
		prop:   pt.Kind,
		mode:   pt.Interpolation,
		times:  pt.Times[:n],
		vals:   vals[:n],
		done:   n == 0,
		anchor: def,
		blend:  blend,
		set:    set,
		get:    get,
	}
}

func (c *channelCursor[T]) kind() PropertyKind           { return c.prop }
func (c *channelCursor[T]) interpolation() Interpolation { return c.mode }
func (c *channelCursor[T]) finished() bool               { return c.done }
func (c *channelCursor[T]) peekTime() float32            { return c.times[c.index] }

func (c *channelCursor[T]) step() {
	c.index++
	if c.index >= len(c.times) {
		c.done = true
	}
}

func (c *channelCursor[T]) advance(v *Value, t float32, mode SamplingMode) error {
	if c.done {
		return nil
	}
	if mode == SampleLegacy {
		return c.advanceLegacy(v, t)
	}

	key := c.times[c.index]
	if key == t {
		// Keyframes sharing a time collapse; the last one wins.
		val := c.vals[c.index]
		c.step()
		for !c.done && c.times[c.index] == t {
			val = c.vals[c.index]
			c.step()
		}
		c.anchor, c.anchorTime = val, t
		c.set(v, val)
		return nil
	}

	f := float32(1)
	if span := key - c.anchorTime; span > 0 {
		f = clamp01((t - c.anchorTime) / span)
	}
	val, err := Combine(c.anchor, c.vals[c.index], c.mode, f, c.blend)
	if err != nil {
		return err
	}
	c.set(v, val)
	return nil
}

// advanceLegacy contributes the current keyframe and always moves on by one.
// Off-key frames blend the carried value toward the keyframe by
// keyTime/frameTime.
func (c *channelCursor[T]) advanceLegacy(v *Value, t float32) error {
	key := c.times[c.index]
	next := c.vals[c.index]
	defer c.step()

	if key == t {
		c.set(v, next)
		return nil
	}

	var f float32
	if t != 0 {
		f = key / t
	}
	val, err := Combine(c.get(v), next, c.mode, f, c.blend)
	if err != nil {
		return err
	}
	c.set(v, val)
	return nil
}

func clamp01(f float32) float32 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// newCursor builds the cursor for one property track, anchored at the node
// default.
func newCursor(pt *PropertyTrack, def Value) cursor {
	switch pt.Kind {
	case KindTranslation:
		return newChannelCursor(pt, pt.Vectors, def.Translation, LerpVec3,
			func(v *Value) math.Vec3 { return v.Translation },
			func(v *Value, x math.Vec3) { v.Translation = x })
	case KindScale:
		return newChannelCursor(pt, pt.Vectors, def.Scale, LerpVec3,
			func(v *Value) math.Vec3 { return v.Scale },
			func(v *Value, x math.Vec3) { v.Scale = x })
	case KindRotation:
		return newChannelCursor(pt, pt.Rotations, def.Rotation, SlerpRotation,
			func(v *Value) Rotation { return v.Rotation },
			func(v *Value, r Rotation) { v.Rotation = r })
	default:
		return newChannelCursor(pt, pt.Weights, def.Weights, LerpWeights,
			func(v *Value) []float32 { return v.Weights },
			func(v *Value, w []float32) { v.Weights = fitWeights(w) })
	}
}
