package anim

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/gltfanim/pkg/math"
)

func TestCombineModes(t *testing.T) {
	prev := math.Vec3{X: 1, Y: 2, Z: 3}
	next := math.Vec3{X: 5, Y: 6, Z: 7}

	tests := []struct {
		name string
		mode Interpolation
		f    float32
		want math.Vec3
	}{
		{"none yields next", InterpolationNone, 0.25, next},
		{"step yields prev", InterpolationStep, 0.99, prev},
		{"linear at 0", InterpolationLinear, 0, prev},
		{"linear at 1", InterpolationLinear, 1, next},
		{"linear at half", InterpolationLinear, 0.5, math.Vec3{X: 3, Y: 4, Z: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Combine(prev, next, tt.mode, tt.f, LerpVec3)
			if err != nil {
				t.Fatalf("Combine() error = %v", err)
			}
			if !vecNear(got, tt.want, 1e-5) {
				t.Errorf("Combine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCombineCubicFails(t *testing.T) {
	_, err := Combine(1.0, 2.0, InterpolationCubic, 0.5, func(a, b float64, f float32) float64 { return a })
	if !errors.Is(err, ErrUnsupportedInterpolation) {
		t.Fatalf("expected ErrUnsupportedInterpolation, got %v", err)
	}
}

func TestSlerpRotationEndpoints(t *testing.T) {
	a := QuaternionRotation(math.QuatIdentity())
	b := QuaternionRotation(math.QuatFromAxisAngle(math.Vec3{Z: 1}, gomath.Pi/2))

	got0, _ := Combine(a, b, InterpolationLinear, 0, SlerpRotation)
	got1, _ := Combine(a, b, InterpolationLinear, 1, SlerpRotation)
	if angle := got0.Quaternion().AngleTo(a.Quat); angle > 0.01 {
		t.Errorf("slerp at 0 is %v degrees off start", angle)
	}
	if angle := got1.Quaternion().AngleTo(b.Quat); angle > 0.01 {
		t.Errorf("slerp at 1 is %v degrees off end", angle)
	}

	// Slerp must keep unit length where component lerp would not.
	mid, _ := Combine(a, b, InterpolationLinear, 0.5, SlerpRotation)
	q := mid.Quaternion()
	length := gomath.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W))
	if gomath.Abs(length-1) > 1e-5 {
		t.Errorf("slerp midpoint length = %v, want 1", length)
	}
	if angle := q.AngleTo(a.Quat); gomath.Abs(float64(angle)-45) > 0.01 {
		t.Errorf("slerp midpoint is %v degrees from start, want 45", angle)
	}
}

func TestLerpWeights(t *testing.T) {
	prev := []float32{0, 1, 0.5, 0}
	next := []float32{1, 0, 0.5, 1}

	got := LerpWeights(prev, next, 0.25)
	want := []float32{0.25, 0.75, 0.5, 0.25}
	for i := range want {
		if gomath.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("weight %d = %v, want %v", i, got[i], want[i])
		}
	}

	got[0] = 9
	if prev[0] != 0 {
		t.Error("LerpWeights must not alias its input")
	}

	short := LerpWeights(prev, []float32{1}, 1)
	if short[0] != 1 || short[1] != 0 {
		t.Errorf("missing next entries should count as zero, got %v", short)
	}
}

func vecNear(a, b math.Vec3, tol float64) bool {
	return gomath.Abs(float64(a.X-b.X)) <= tol &&
		gomath.Abs(float64(a.Y-b.Y)) <= tol &&
		gomath.Abs(float64(a.Z-b.Z)) <= tol
}
