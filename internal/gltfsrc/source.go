// Package gltfsrc reads animation clips and node rest poses out of glTF and
// GLB files.
package gltfsrc

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/gltfanim/internal/anim"
)

// ErrClipIndex is returned for an animation index the document lacks.
var ErrClipIndex = errors.New("animation index out of range")

// Source wraps a decoded glTF document.
type Source struct {
	doc  *gltf.Document
	name string
	log  *zap.Logger

	defaults map[int]anim.NodeDefaults
}

// Open decodes a .gltf or .glb file.
func Open(path string, log *zap.Logger) (*Source, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return FromDocument(doc, path, log), nil
}

// FromDocument wraps an already decoded document. name is only used in
// logs and errors.
func FromDocument(doc *gltf.Document, name string, log *zap.Logger) *Source {
	if log == nil {
		log = zap.NewNop()
	}
	return &Source{doc: doc, name: name, log: log.With(zap.String("asset", name))}
}

// Document returns the underlying document.
func (s *Source) Document() *gltf.Document { return s.doc }

// NumClips returns the number of animations in the document.
func (s *Source) NumClips() int { return len(s.doc.Animations) }

// Clips reads every animation in document order.
func (s *Source) Clips() ([]anim.Clip, error) {
	clips := make([]anim.Clip, 0, len(s.doc.Animations))
	for i := range s.doc.Animations {
		c, err := s.Clip(i)
		if err != nil {
			return nil, err
		}
		clips = append(clips, c)
	}
	return clips, nil
}

// Clip reads animation i. Channels whose accessors cannot be read are
// returned without output so that extraction reports them; channels
// without a target node are dropped.
func (s *Source) Clip(i int) (anim.Clip, error) {
	if i < 0 || i >= len(s.doc.Animations) {
		return anim.Clip{}, errors.Wrapf(ErrClipIndex, "%s: animation %d of %d", s.name, i, len(s.doc.Animations))
	}
	a := s.doc.Animations[i]

	name := a.Name
	if name == "" {
		name = fmt.Sprintf("animation_%d", i)
	}
	clip := anim.Clip{Name: name, Defaults: s.NodeDefaults()}

	for ci, ch := range a.Channels {
		if ch.Target.Node == nil {
			s.log.Debug("channel without target node", zap.String("clip", name), zap.Int("channel", ci))
			continue
		}
		kind, ok := propertyKind(ch.Target.Path)
		if !ok {
			s.log.Warn("unknown channel path", zap.String("clip", name), zap.Int("channel", ci))
			continue
		}

		out := anim.Channel{Node: int(*ch.Target.Node), Kind: kind}
		sampler, err := s.sampler(a, ch)
		if err != nil {
			s.log.Warn("bad sampler", zap.String("clip", name), zap.Int("channel", ci), zap.Error(err))
			clip.Channels = append(clip.Channels, out)
			continue
		}
		out.Interpolation = interpolation(sampler.Interpolation)

		if out.Times, err = s.readFloats(sampler.Input); err != nil {
			s.log.Warn("unreadable keyframe times", zap.String("clip", name), zap.Int("channel", ci), zap.Error(err))
		} else if out.Output, err = s.readFloats(sampler.Output); err != nil {
			s.log.Warn("unreadable keyframe values", zap.String("clip", name), zap.Int("channel", ci), zap.Error(err))
		}
		clip.Channels = append(clip.Channels, out)
	}
	return clip, nil
}

func (s *Source) sampler(a *gltf.Animation, ch *gltf.Channel) (*gltf.AnimationSampler, error) {
	if ch.Sampler == nil {
		return nil, errors.New("channel has no sampler")
	}
	idx := int(*ch.Sampler)
	if idx >= len(a.Samplers) {
		return nil, errors.Errorf("sampler %d of %d", idx, len(a.Samplers))
	}
	return a.Samplers[idx], nil
}

func propertyKind(p gltf.TRSProperty) (anim.PropertyKind, bool) {
	switch p {
	case gltf.TRSTranslation:
		return anim.KindTranslation, true
	case gltf.TRSRotation:
		return anim.KindRotation, true
	case gltf.TRSScale:
		return anim.KindScale, true
	case gltf.TRSWeights:
		return anim.KindWeights, true
	}
	return 0, false
}

func interpolation(i gltf.Interpolation) anim.Interpolation {
	switch i {
	case gltf.InterpolationStep:
		return anim.InterpolationStep
	case gltf.InterpolationCubicSpline:
		return anim.InterpolationCubic
	default:
		return anim.InterpolationLinear
	}
}
