package anim

import (
	gomath "math"

	"github.com/Faultbox/gltfanim/pkg/math"
)

// RotationForm tags which representation a Rotation holds.
type RotationForm int

const (
	FormQuaternion RotationForm = iota
	// FormEuler holds ZYX angles, the engine convention.
	FormEuler
	// FormEulerXYZ holds XYZ angles, the source asset convention.
	FormEulerXYZ
)

// Rotation is either a quaternion or Euler angles in degrees. Values read
// from an asset are quaternions; Euler values produced by ToTargetCoords are
// ZYX intrinsic.
type Rotation struct {
	Form  RotationForm
	Quat  math.Quat
	Euler math.Euler
}

// QuaternionRotation wraps q.
func QuaternionRotation(q math.Quat) Rotation {
	return Rotation{Form: FormQuaternion, Quat: q}
}

// EulerRotation wraps ZYX Euler angles in degrees.
func EulerRotation(e math.Euler) Rotation {
	return Rotation{Form: FormEuler, Euler: e}
}

// EulerXYZRotation wraps XYZ Euler angles in degrees.
func EulerXYZRotation(e math.Euler) Rotation {
	return Rotation{Form: FormEulerXYZ, Euler: e}
}

// IsEuler reports whether r holds angles rather than a quaternion.
func (r Rotation) IsEuler() bool {
	return r.Form == FormEuler || r.Form == FormEulerXYZ
}

// Quaternion returns r as a quaternion, decoding angles in the order their
// form names.
func (r Rotation) Quaternion() math.Quat {
	switch r.Form {
	case FormEuler:
		return math.EulerZYXToQuat(r.Euler)
	case FormEulerXYZ:
		return math.EulerXYZToQuat(r.Euler)
	}
	return r.Quat
}

// Slerp interpolates along the shortest arc. The result is a quaternion.
func (r Rotation) Slerp(other Rotation, t float32) Rotation {
	return QuaternionRotation(r.Quaternion().Slerp(other.Quaternion(), t))
}

// Mul returns the rotation r followed by other, as a quaternion.
func (r Rotation) Mul(other Rotation) Rotation {
	return QuaternionRotation(r.Quaternion().Mul(other.Quaternion()).Normalize())
}

// IsIdentity reports whether r is exactly no rotation.
func (r Rotation) IsIdentity() bool {
	if r.IsEuler() {
		return r.Euler == math.Euler{}
	}
	return r.Quat.IsIdentity()
}

// Space is the coordinate convention a Transform is expressed in.
type Space int

const (
	// SpaceSource is the glTF convention: right handed, Y up.
	SpaceSource Space = iota
	// SpaceTarget is the engine convention: Y down, clockwise angles.
	SpaceTarget
)

func (s Space) String() string {
	if s == SpaceTarget {
		return "target"
	}
	return "source"
}

// Transform is a decomposed node transform.
type Transform struct {
	Translation math.Vec3
	Rotation    Rotation
	Scale       math.Vec3
	Space       Space
}

// IdentityTransform returns the rest transform in source space.
func IdentityTransform() Transform {
	return Transform{
		Rotation: QuaternionRotation(math.QuatIdentity()),
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
	}
}

// IsIdentity reports whether t leaves points unchanged.
func (t Transform) IsIdentity() bool {
	return t.Translation == math.Vec3{} &&
		t.Rotation.IsIdentity() &&
		t.Scale == math.Vec3{X: 1, Y: 1, Z: 1}
}

// Compose stacks child on top of t: translations add, rotations multiply
// and scales multiply component-wise. Both must be in the same space.
func (t Transform) Compose(child Transform) Transform {
	return Transform{
		Translation: t.Translation.Add(child.Translation),
		Rotation:    t.Rotation.Mul(child.Rotation),
		Scale:       t.Scale.Mul(child.Scale),
		Space:       t.Space,
	}
}

// ToTargetCoords remaps a source-space transform to the engine convention.
// The vertical translation is negated. Quaternions have X and Z negated and
// stay quaternions when keepQuat is set, otherwise they become ZYX Euler
// angles. XYZ Euler rotations go to ZYX, then roll and yaw are negated; ZYX
// Euler rotations are remapped as the quaternion they describe.
//
// A transform can be remapped once; a second call returns ErrAlreadyRemapped.
func (t Transform) ToTargetCoords(keepQuat bool) (Transform, error) {
	if t.Space == SpaceTarget {
		return t, ErrAlreadyRemapped
	}

	out := t
	out.Space = SpaceTarget
	out.Translation.Y = -t.Translation.Y

	if t.Rotation.Form == FormEulerXYZ {
		e := math.QuatToEulerZYX(math.EulerXYZToQuat(t.Rotation.Euler))
		e.X, e.Z = -e.X, -e.Z
		out.Rotation = EulerRotation(e)
	} else {
		q := t.Rotation.Quaternion()
		q.X, q.Z = -q.X, -q.Z
		if keepQuat {
			out.Rotation = QuaternionRotation(q)
		} else {
			out.Rotation = EulerRotation(math.QuatToEulerZYX(q))
		}
	}

	if !finiteRotation(out.Rotation) {
		return t, ErrNumericDomain
	}
	return out, nil
}

// ToTargetCoords remaps every frame of the track. Rotations stay quaternions
// so that playback can keep slerping them.
func (tr Track) ToTargetCoords() (Track, error) {
	out := tr
	out.Frames = make([]Frame, len(tr.Frames))
	for i, f := range tr.Frames {
		t, err := f.Value.Transform.ToTargetCoords(true)
		if err != nil {
			return tr, err
		}
		v := f.Value.Clone()
		v.Transform = t
		out.Frames[i] = Frame{Time: f.Time, Value: v}
	}
	return out, nil
}

func finiteRotation(r Rotation) bool {
	var comps []float32
	if r.IsEuler() {
		comps = []float32{r.Euler.X, r.Euler.Y, r.Euler.Z}
	} else {
		comps = []float32{r.Quat.X, r.Quat.Y, r.Quat.Z, r.Quat.W}
	}
	for _, c := range comps {
		if gomath.IsNaN(float64(c)) || gomath.IsInf(float64(c), 0) {
			return false
		}
	}
	return true
}
