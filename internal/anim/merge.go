package anim

import (
	"fmt"
	"strings"
)

// SamplingMode selects how a channel contributes to frames that fall
// between its own keyframes.
type SamplingMode int

const (
	// SampleBracketed interpolates between the two keyframes of the channel
	// that bracket the frame time. Before its first keyframe a channel is
	// anchored at its node default at t=0.
	SampleBracketed SamplingMode = iota
	// SampleLegacy advances every channel by one keyframe per frame and
	// blends the carried value toward that keyframe by keyTime/frameTime.
	// It is kept for compatibility with earlier exports; its frame count is
	// not always the union of channel times.
	SampleLegacy
)

func (m SamplingMode) String() string {
	if m == SampleLegacy {
		return "legacy"
	}
	return "bracketed"
}

// ParseSamplingMode parses the names produced by SamplingMode.String.
func ParseSamplingMode(s string) (SamplingMode, error) {
	switch strings.ToLower(s) {
	case "bracketed", "":
		return SampleBracketed, nil
	case "legacy":
		return SampleLegacy, nil
	}
	return SampleBracketed, fmt.Errorf("unknown sampling mode %q", s)
}

// Merge resamples the tracks of one node onto a single timeline.
//
// Frames are produced in time order by repeatedly taking the smallest next
// keyframe time among unfinished tracks; on equal times the first track in
// nc.Tracks wins, which does not change the result. Frame zero starts from
// the node defaults and every later frame starts from a copy of the previous
// one, so properties no track touches are carried forward.
//
// Merge fails with ErrUnsupportedInterpolation before producing any frame if
// a track uses cubic interpolation.
func Merge(clip string, nc *NodeChannels, mode SamplingMode) (Track, error) {
	track := Track{Clip: clip, Node: nc.Node}
	def := nc.Defaults.Value()

	cursors := make([]cursor, 0, len(nc.Tracks))
	for i := range nc.Tracks {
		pt := &nc.Tracks[i]
		if pt.Interpolation == InterpolationCubic {
			return Track{}, fmt.Errorf("clip %q node %d %s: %w", clip, nc.Node, pt.Kind, ErrUnsupportedInterpolation)
		}
		c := newCursor(pt, def)
		if !c.finished() {
			track.Interpolation.set(pt.Kind, pt.Interpolation)
		}
		cursors = append(cursors, c)
	}

	for {
		next := nextDue(cursors)
		if next == nil {
			break
		}
		t := next.peekTime()

		var v Value
		last := len(track.Frames) - 1
		if last < 0 {
			v = def.Clone()
		} else {
			v = track.Frames[last].Value.Clone()
		}

		for _, c := range cursors {
			if err := c.advance(&v, t, mode); err != nil {
				return Track{}, fmt.Errorf("clip %q node %d %s at %g: %w", clip, nc.Node, c.kind(), t, err)
			}
		}

		// Only legacy sampling can revisit a time, via repeated keyframes.
		if last >= 0 && track.Frames[last].Time == t {
			track.Frames[last].Value = v
			continue
		}
		track.Frames = append(track.Frames, Frame{Time: t, Value: v})
	}

	if n := len(track.Frames); n > 0 {
		track.Duration = track.Frames[n-1].Time
	}
	return track, nil
}

// nextDue returns the unfinished cursor with the smallest next time, the
// earliest one on ties, or nil when all are finished.
func nextDue(cursors []cursor) cursor {
	var best cursor
	for _, c := range cursors {
		if c.finished() {
			continue
		}
		if best == nil || c.peekTime() < best.peekTime() {
			best = c
		}
	}
	return best
}
