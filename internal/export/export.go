// Package export encodes resampled tracks as YAML documents.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/gltfanim/internal/anim"
	"github.com/Faultbox/gltfanim/pkg/math"
)

// ErrInvalidDocument is returned when a decoded document does not describe
// valid tracks.
var ErrInvalidDocument = errors.New("invalid animation document")

// Document is the on-disk form of a resampled asset.
type Document struct {
	Source   string          `yaml:"source,omitempty"`
	Sampling string          `yaml:"sampling"`
	Coords   string          `yaml:"coords"`
	Clips    []Clip          `yaml:"clips"`
	Static   []NodeTransform `yaml:"static,omitempty"`
}

// Clip groups the tracks of one animation.
type Clip struct {
	Name     string  `yaml:"name"`
	Duration float32 `yaml:"duration"`
	Tracks   []Track `yaml:"tracks"`
}

// Track is one node's frames within a clip.
type Track struct {
	Node          int           `yaml:"node"`
	Duration      float32       `yaml:"duration"`
	Interpolation Interpolation `yaml:"interpolation"`
	Frames        []Frame       `yaml:"frames"`
}

// Interpolation names the mode of each property.
type Interpolation struct {
	Translation string `yaml:"translation"`
	Rotation    string `yaml:"rotation"`
	Scale       string `yaml:"scale"`
	Weights     string `yaml:"weights"`
}

// Frame is one sample. Rotation holds x, y, z, w for a quaternion or
// x, y, z in degrees for ZYX Euler angles.
type Frame struct {
	Time        float32    `yaml:"t"`
	Translation [3]float32 `yaml:"translation,flow"`
	Rotation    []float32  `yaml:"rotation,flow"`
	Scale       [3]float32 `yaml:"scale,flow"`
	Weights     []float32  `yaml:"weights,flow"`
}

// NodeTransform is the rest pose of one node.
type NodeTransform struct {
	Node        int        `yaml:"node"`
	Translation [3]float32 `yaml:"translation,flow"`
	Rotation    []float32  `yaml:"rotation,flow"`
	Scale       [3]float32 `yaml:"scale,flow"`
}

// Options describes how the tracks were produced.
type Options struct {
	Source       string
	Mode         anim.SamplingMode
	TargetCoords bool
}

// FromLibrary builds a document holding every track of lib.
func FromLibrary(lib *anim.Library, opts Options) *Document {
	doc := &Document{
		Source:   opts.Source,
		Sampling: opts.Mode.String(),
		Coords:   coordsName(opts.TargetCoords),
	}

	for _, name := range lib.Clips {
		doc.Clips = append(doc.Clips, Clip{Name: name})
	}
	for _, tr := range lib.Tracks {
		c := &doc.Clips[tr.ClipIndex]
		c.Tracks = append(c.Tracks, FromTrack(tr))
		if tr.Duration > c.Duration {
			c.Duration = tr.Duration
		}
	}
	return doc
}

// AddStatic appends rest poses sorted by node id.
func (d *Document) AddStatic(nodes []int, poses map[int]anim.Transform) {
	for _, id := range nodes {
		p, ok := poses[id]
		if !ok {
			continue
		}
		d.Static = append(d.Static, NodeTransform{
			Node:        id,
			Translation: p.Translation.Array(),
			Rotation:    rotationSlice(p.Rotation),
			Scale:       p.Scale.Array(),
		})
	}
}

// FromTrack converts one merged track.
func FromTrack(tr anim.Track) Track {
	out := Track{
		Node:     tr.Node,
		Duration: tr.Duration,
		Interpolation: Interpolation{
			Translation: tr.Interpolation.Translation.String(),
			Rotation:    tr.Interpolation.Rotation.String(),
			Scale:       tr.Interpolation.Scale.String(),
			Weights:     tr.Interpolation.Weights.String(),
		},
		Frames: make([]Frame, len(tr.Frames)),
	}
	for i, f := range tr.Frames {
		out.Frames[i] = Frame{
			Time:        f.Time,
			Translation: f.Value.Translation.Array(),
			Rotation:    rotationSlice(f.Value.Rotation),
			Scale:       f.Value.Scale.Array(),
			Weights:     f.Value.Weights,
		}
	}
	return out
}

// Decode turns a track back into its merged form.
func (t Track) Decode(clip string, target bool) (anim.Track, error) {
	out := anim.Track{Clip: clip, Node: t.Node, Duration: t.Duration}

	modes := []struct {
		name string
		dst  *anim.Interpolation
	}{
		{t.Interpolation.Translation, &out.Interpolation.Translation},
		{t.Interpolation.Rotation, &out.Interpolation.Rotation},
		{t.Interpolation.Scale, &out.Interpolation.Scale},
		{t.Interpolation.Weights, &out.Interpolation.Weights},
	}
	for _, m := range modes {
		mode, err := anim.ParseInterpolation(m.name)
		if err != nil {
			return anim.Track{}, fmt.Errorf("%w: node %d: %v", ErrInvalidDocument, t.Node, err)
		}
		if mode == anim.InterpolationCubic {
			return anim.Track{}, fmt.Errorf("%w: node %d: %w", ErrInvalidDocument, t.Node, anim.ErrUnsupportedInterpolation)
		}
		*m.dst = mode
	}

	space := anim.SpaceSource
	if target {
		space = anim.SpaceTarget
	}

	out.Frames = make([]anim.Frame, len(t.Frames))
	for i, f := range t.Frames {
		if i > 0 && f.Time <= t.Frames[i-1].Time {
			return anim.Track{}, fmt.Errorf("%w: node %d: frame %d time %g not increasing", ErrInvalidDocument, t.Node, i, f.Time)
		}
		rot, err := parseRotation(f.Rotation, target)
		if err != nil {
			return anim.Track{}, fmt.Errorf("%w: node %d frame %d: %v", ErrInvalidDocument, t.Node, i, err)
		}
		out.Frames[i] = anim.Frame{
			Time: f.Time,
			Value: anim.Value{
				Transform: anim.Transform{
					Translation: math.Vec3FromArray(f.Translation),
					Rotation:    rot,
					Scale:       math.Vec3FromArray(f.Scale),
					Space:       space,
				},
				Weights: append([]float32(nil), f.Weights...),
			},
		}
	}
	return out, nil
}

// Tracks decodes every track of the document.
func (d *Document) Tracks() ([]anim.Track, error) {
	var out []anim.Track
	for ci, c := range d.Clips {
		for _, t := range c.Tracks {
			tr, err := t.Decode(c.Name, d.Coords == coordsName(true))
			if err != nil {
				return nil, fmt.Errorf("clip %q: %w", c.Name, err)
			}
			tr.ClipIndex = ci
			out = append(out, tr)
		}
	}
	return out, nil
}

// Encode writes the document as YAML.
func (d *Document) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return enc.Close()
}

// Marshal returns the YAML encoding of d.
func Marshal(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes and validates a document.
func Unmarshal(data []byte) (*Document, error) {
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if _, err := anim.ParseSamplingMode(d.Sampling); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if d.Coords != coordsName(false) && d.Coords != coordsName(true) {
		return nil, fmt.Errorf("%w: unknown coords %q", ErrInvalidDocument, d.Coords)
	}
	if _, err := d.Tracks(); err != nil {
		return nil, err
	}
	return &d, nil
}

func coordsName(target bool) string {
	if target {
		return anim.SpaceTarget.String()
	}
	return anim.SpaceSource.String()
}

func rotationSlice(r anim.Rotation) []float32 {
	if r.IsEuler() {
		return []float32{r.Euler.X, r.Euler.Y, r.Euler.Z}
	}
	q := r.Quat.Array()
	return q[:]
}

// parseRotation reads angles as ZYX in target documents and XYZ in source
// documents.
func parseRotation(v []float32, target bool) (anim.Rotation, error) {
	switch len(v) {
	case 4:
		return anim.QuaternionRotation(math.QuatFromArray([4]float32{v[0], v[1], v[2], v[3]})), nil
	case 3:
		e := math.Euler{X: v[0], Y: v[1], Z: v[2]}
		if target {
			return anim.EulerRotation(e), nil
		}
		return anim.EulerXYZRotation(e), nil
	}
	return anim.Rotation{}, fmt.Errorf("rotation has %d components", len(v))
}
