package anim

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/gltfanim/pkg/math"
)

func eulerNear(a, b math.Euler, tol float64) bool {
	return gomath.Abs(float64(a.X-b.X)) <= tol &&
		gomath.Abs(float64(a.Y-b.Y)) <= tol &&
		gomath.Abs(float64(a.Z-b.Z)) <= tol
}

func TestToTargetCoordsKeepsQuaternion(t *testing.T) {
	src := Transform{
		Translation: math.Vec3{X: 1, Y: 2, Z: 3},
		Rotation:    QuaternionRotation(math.Quat{X: 0.1, Y: 0.2, Z: 0.3, W: 0.9}),
		Scale:       math.Vec3{X: 1, Y: 1, Z: 1},
	}

	got, err := src.ToTargetCoords(true)
	if err != nil {
		t.Fatalf("ToTargetCoords() error = %v", err)
	}
	if got.Translation != (math.Vec3{X: 1, Y: -2, Z: 3}) {
		t.Errorf("translation = %v, want Y negated", got.Translation)
	}
	want := math.Quat{X: -0.1, Y: 0.2, Z: -0.3, W: 0.9}
	if got.Rotation.Form != FormQuaternion || got.Rotation.Quat != want {
		t.Errorf("rotation = %+v, want quaternion %+v", got.Rotation, want)
	}
	if got.Space != SpaceTarget {
		t.Errorf("space = %v, want target", got.Space)
	}
	if src.Space != SpaceSource {
		t.Error("source transform must not be modified")
	}
}

func TestToTargetCoordsStaticEuler(t *testing.T) {
	tests := []struct {
		name string
		rot  Rotation
		want math.Euler
	}{
		{
			name: "identity quaternion",
			rot:  QuaternionRotation(math.QuatIdentity()),
			want: math.Euler{},
		},
		{
			name: "mixed quaternion",
			rot:  QuaternionRotation(math.Quat{X: 0.4304593, Y: 0.092296, Z: 0.7010574, W: 0.5609855}),
			want: math.Euler{X: -45, Y: -30, Z: -90},
		},
		{
			name: "source euler",
			rot:  EulerXYZRotation(math.Euler{X: 45, Y: 45, Z: 45}),
			want: math.Euler{X: -59.6388, Y: -8.4211, Z: -59.6388},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := IdentityTransform()
			src.Rotation = tt.rot

			got, err := src.ToTargetCoords(false)
			if err != nil {
				t.Fatalf("ToTargetCoords() error = %v", err)
			}
			if got.Rotation.Form != FormEuler {
				t.Fatalf("rotation form = %v, want Euler", got.Rotation.Form)
			}
			if !eulerNear(got.Rotation.Euler, tt.want, 0.01) {
				t.Errorf("euler = %+v, want %+v", got.Rotation.Euler, tt.want)
			}
		})
	}
}

func TestToTargetCoordsOnlyOnce(t *testing.T) {
	src := IdentityTransform()
	src.Translation.Y = 4

	once, err := src.ToTargetCoords(true)
	if err != nil {
		t.Fatalf("first remap failed: %v", err)
	}
	twice, err := once.ToTargetCoords(true)
	if !errors.Is(err, ErrAlreadyRemapped) {
		t.Fatalf("expected ErrAlreadyRemapped, got %v", err)
	}
	if twice.Translation.Y != -4 {
		t.Errorf("second remap changed the value: %v", twice.Translation)
	}
}

func TestTrackToTargetCoords(t *testing.T) {
	tr := Track{Frames: []Frame{
		{Time: 0, Value: Value{Transform: IdentityTransform(), Weights: []float32{1, 0, 0, 0}}},
		{Time: 1, Value: Value{Transform: Transform{Translation: math.Vec3{Y: 2}, Rotation: QuaternionRotation(math.QuatIdentity())}}},
	}}

	out, err := tr.ToTargetCoords()
	if err != nil {
		t.Fatalf("ToTargetCoords() error = %v", err)
	}
	if out.Frames[1].Value.Translation.Y != -2 {
		t.Errorf("frame 1 translation = %v", out.Frames[1].Value.Translation)
	}
	if tr.Frames[1].Value.Translation.Y != 2 {
		t.Error("input track was modified")
	}
	if _, err := out.ToTargetCoords(); !errors.Is(err, ErrAlreadyRemapped) {
		t.Errorf("expected ErrAlreadyRemapped on second remap, got %v", err)
	}
}

func TestTransformIdentityAndCompose(t *testing.T) {
	id := IdentityTransform()
	if !id.IsIdentity() {
		t.Fatal("IdentityTransform() is not identity")
	}

	a := Transform{
		Translation: math.Vec3{X: 1},
		Rotation:    QuaternionRotation(math.QuatFromAxisAngle(math.Vec3{Z: 1}, gomath.Pi/4)),
		Scale:       math.Vec3{X: 2, Y: 2, Z: 2},
	}
	if a.IsIdentity() {
		t.Error("non-trivial transform reported as identity")
	}

	c := a.Compose(a)
	if c.Translation != (math.Vec3{X: 2}) {
		t.Errorf("composed translation = %v", c.Translation)
	}
	if c.Scale != (math.Vec3{X: 4, Y: 4, Z: 4}) {
		t.Errorf("composed scale = %v", c.Scale)
	}
	want := math.QuatFromAxisAngle(math.Vec3{Z: 1}, gomath.Pi/2)
	if angle := c.Rotation.Quaternion().AngleTo(want); angle > 0.01 {
		t.Errorf("composed rotation is %v degrees off", angle)
	}

	if got := id.Compose(a); got.Translation != a.Translation || got.Scale != a.Scale {
		t.Errorf("identity.Compose(a) = %+v, want %+v", got, a)
	}
}

func TestEulerRotationQuaternion(t *testing.T) {
	r := EulerRotation(math.Euler{X: 45, Y: 45, Z: 45})
	q := r.Quaternion()
	want := math.Quat{X: 0.1913417, Y: 0.4619398, Z: 0.1913417, W: 0.8446232}
	if angle := q.AngleTo(want); angle > 0.05 {
		t.Errorf("Quaternion() = %+v, want %+v", q, want)
	}
}

func TestEulerXYZRotationQuaternion(t *testing.T) {
	e := math.Euler{X: 45, Y: 45, Z: 45}
	xyz := EulerXYZRotation(e)

	if angle := xyz.Quaternion().AngleTo(math.EulerXYZToQuat(e)); angle > 0.01 {
		t.Errorf("XYZ angles decoded as %+v, off by %v degrees", xyz.Quaternion(), angle)
	}
	if angle := xyz.Quaternion().AngleTo(EulerRotation(e).Quaternion()); angle < 1 {
		t.Error("XYZ and ZYX angles should describe different rotations")
	}

	// Blending angles goes through the quaternion of the right order.
	id := QuaternionRotation(math.QuatIdentity())
	got := id.Slerp(xyz, 1).Quat
	if angle := got.AngleTo(math.EulerXYZToQuat(e)); angle > 0.01 {
		t.Errorf("Slerp toward XYZ rotation = %+v, off by %v degrees", got, angle)
	}
	if !EulerXYZRotation(math.Euler{}).IsIdentity() {
		t.Error("zero XYZ angles should be identity")
	}
}

func TestToTargetCoordsZYXEuler(t *testing.T) {
	q := math.Quat{X: 0.4304593, Y: 0.092296, Z: 0.7010574, W: 0.5609855}
	fromQuat := IdentityTransform()
	fromQuat.Rotation = QuaternionRotation(q)
	fromAngles := IdentityTransform()
	fromAngles.Rotation = EulerRotation(math.QuatToEulerZYX(q))

	a, err := fromQuat.ToTargetCoords(false)
	if err != nil {
		t.Fatalf("ToTargetCoords() error = %v", err)
	}
	b, err := fromAngles.ToTargetCoords(false)
	if err != nil {
		t.Fatalf("ToTargetCoords() error = %v", err)
	}
	if !eulerNear(a.Rotation.Euler, b.Rotation.Euler, 0.01) {
		t.Errorf("ZYX angles remapped to %+v, quaternion to %+v", b.Rotation.Euler, a.Rotation.Euler)
	}
}
