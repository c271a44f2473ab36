package gltfsrc

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/gltfanim/internal/anim"
	"github.com/Faultbox/gltfanim/pkg/math"
)

// NodeDefaults returns the rest pose of every node, keyed by node index.
// Nodes given as a matrix are decomposed into TRS. A node without weights
// takes the default weights of its mesh.
func (s *Source) NodeDefaults() map[int]anim.NodeDefaults {
	if s.defaults != nil {
		return s.defaults
	}

	out := make(map[int]anim.NodeDefaults, len(s.doc.Nodes))
	for i, n := range s.doc.Nodes {
		d := anim.NodeDefaults{Transform: nodeTransform(n), Weights: n.Weights}
		if len(d.Weights) == 0 && n.Mesh != nil && int(*n.Mesh) < len(s.doc.Meshes) {
			d.Weights = s.doc.Meshes[*n.Mesh].Weights
		}
		out[i] = d
	}
	s.defaults = out
	return out
}

// StaticTransforms returns every node rest pose remapped to the engine
// convention, with rotations as ZYX Euler angles.
func (s *Source) StaticTransforms() (map[int]anim.Transform, error) {
	out := make(map[int]anim.Transform, len(s.doc.Nodes))
	for i, d := range s.NodeDefaults() {
		t, err := d.Transform.ToTargetCoords(false)
		if err != nil {
			s.log.Warn("rest pose not convertible", zap.Int("node", i), zap.Error(err))
			continue
		}
		out[i] = t
	}
	return out, nil
}

var identityMatrix = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

func nodeTransform(n *gltf.Node) anim.Transform {
	if n.Matrix != identityMatrix && n.Matrix != ([16]float32{}) {
		return decompose(mgl32.Mat4(n.Matrix))
	}

	t := anim.IdentityTransform()
	t.Translation = math.Vec3FromArray(n.Translation)
	if n.Rotation != ([4]float32{}) {
		t.Rotation = anim.QuaternionRotation(math.QuatFromArray(n.Rotation))
	}
	if n.Scale != ([3]float32{}) {
		t.Scale = math.Vec3FromArray(n.Scale)
	}
	return t
}

// decompose splits an affine column-major matrix into translation, rotation
// and scale. A negative determinant is folded into the X scale.
func decompose(m mgl32.Mat4) anim.Transform {
	c0, c1, c2 := m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()
	sx, sy, sz := c0.Len(), c1.Len(), c2.Len()
	if m.Det() < 0 {
		sx = -sx
	}

	t := anim.IdentityTransform()
	t.Translation = math.Vec3FromArray(m.Col(3).Vec3())
	t.Scale = math.Vec3{X: sx, Y: sy, Z: sz}
	if sx == 0 || sy == 0 || sz == 0 {
		return t
	}

	rot := mgl32.Mat4FromCols(
		c0.Mul(1/sx).Vec4(0),
		c1.Mul(1/sy).Vec4(0),
		c2.Mul(1/sz).Vec4(0),
		mgl32.Vec4{0, 0, 0, 1},
	)
	q := mgl32.Mat4ToQuat(rot).Normalize()
	t.Rotation = anim.QuaternionRotation(math.Quat{X: q.V[0], Y: q.V[1], Z: q.V[2], W: q.W})
	return t
}
