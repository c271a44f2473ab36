package anim

import (
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/gltfanim/pkg/math"
)

// PropertyTrack is one decoded channel. Exactly one of the value slices is
// populated, chosen by Kind.
type PropertyTrack struct {
	Kind          PropertyKind
	Interpolation Interpolation
	Times         []float32

	Vectors   []math.Vec3 // translation, scale
	Rotations []Rotation
	Weights   [][]float32 // each WeightWidth long

	// Malformed tracks carry no keyframes and never contribute.
	Malformed bool
}

// Len is the number of usable keyframes: times and values paired up.
func (p *PropertyTrack) Len() int {
	var n int
	switch p.Kind {
	case KindTranslation, KindScale:
		n = len(p.Vectors)
	case KindRotation:
		n = len(p.Rotations)
	case KindWeights:
		n = len(p.Weights)
	}
	return min(n, len(p.Times))
}

// NodeChannels is every track of one node in one clip plus its rest pose.
type NodeChannels struct {
	Node     int
	Defaults NodeDefaults
	Tracks   []PropertyTrack
}

// Extract groups the channels of clip by target node and decodes them.
//
// A channel whose data cannot be read is kept as an empty, malformed track
// and reported in the returned warnings. Extraction itself never fails.
func Extract(clip Clip, log *zap.Logger) (map[int]*NodeChannels, []Warning) {
	if log == nil {
		log = zap.NewNop()
	}

	nodes := make(map[int]*NodeChannels)
	var warnings []Warning

	for i := range clip.Channels {
		ch := &clip.Channels[i]

		nc, ok := nodes[ch.Node]
		if !ok {
			def, ok := clip.Defaults[ch.Node]
			if !ok {
				def = IdentityDefaults()
			}
			nc = &NodeChannels{Node: ch.Node, Defaults: def}
			nodes[ch.Node] = nc
		}

		pt, err := decodeChannel(ch)
		if err != nil {
			w := Warning{Clip: clip.Name, Node: ch.Node, Kind: ch.Kind, Err: err}
			warnings = append(warnings, w)
			log.Warn("skipping channel",
				zap.String("clip", clip.Name),
				zap.Int("node", ch.Node),
				zap.Stringer("property", ch.Kind),
				zap.Error(err))
			pt = PropertyTrack{Kind: ch.Kind, Interpolation: ch.Interpolation, Malformed: true}
		} else if n := pt.Len(); n != len(pt.Times) {
			log.Debug("keyframe count mismatch",
				zap.String("clip", clip.Name),
				zap.Int("node", ch.Node),
				zap.Stringer("property", ch.Kind),
				zap.Int("times", len(pt.Times)),
				zap.Int("used", n))
		}
		nc.Tracks = append(nc.Tracks, pt)
	}

	return nodes, warnings
}

func decodeChannel(ch *Channel) (PropertyTrack, error) {
	pt := PropertyTrack{
		Kind:          ch.Kind,
		Interpolation: ch.Interpolation,
		Times:         ch.Times,
	}

	if ch.Output == nil {
		return pt, fmt.Errorf("%w: no output data", ErrMalformedChannel)
	}
	if len(ch.Times) == 0 {
		return pt, fmt.Errorf("%w: no keyframe times", ErrMalformedChannel)
	}
	for i, t := range ch.Times {
		if gomath.IsNaN(float64(t)) || gomath.IsInf(float64(t), 0) {
			return pt, fmt.Errorf("%w: time %d is not finite", ErrMalformedChannel, i)
		}
		if i > 0 && t < ch.Times[i-1] {
			return pt, fmt.Errorf("%w: times decrease at index %d", ErrMalformedChannel, i)
		}
	}

	out := ch.Output
	switch ch.Kind {
	case KindTranslation, KindScale:
		pt.Vectors = make([]math.Vec3, len(out)/3)
		for i := range pt.Vectors {
			pt.Vectors[i] = math.Vec3{X: out[i*3], Y: out[i*3+1], Z: out[i*3+2]}
		}
	case KindRotation:
		pt.Rotations = make([]Rotation, len(out)/4)
		for i := range pt.Rotations {
			pt.Rotations[i] = QuaternionRotation(math.Quat{X: out[i*4], Y: out[i*4+1], Z: out[i*4+2], W: out[i*4+3]})
		}
	case KindWeights:
		pt.Weights = reshapeWeights(out, len(ch.Times))
	default:
		return pt, fmt.Errorf("%w: unknown property %s", ErrMalformedChannel, ch.Kind)
	}
	return pt, nil
}

// reshapeWeights splits a flat weight buffer into one vector per keyframe.
// The per-frame count is len(flat)/frames rounded up; every vector is then
// padded or truncated to WeightWidth.
func reshapeWeights(flat []float32, frames int) [][]float32 {
	if frames == 0 || len(flat) == 0 {
		return nil
	}
	per := (len(flat) + frames - 1) / frames

	out := make([][]float32, 0, frames)
	for start := 0; start < len(flat); start += per {
		end := min(start+per, len(flat))
		out = append(out, fitWeights(flat[start:end]))
	}
	return out
}
