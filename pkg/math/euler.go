package math

import "math"

// Euler holds a rotation as three angles in degrees: X (roll), Y (pitch)
// and Z (yaw). The order the angles are applied in depends on the function
// that produced the value: the *XYZ functions follow the source asset
// convention, the *ZYX functions the target engine convention.
type Euler struct {
	X, Y, Z float32
}

// gimbalEpsilon is how close |sin(roll)·cos(pitch)| must get to 1 before the
// ZYX decomposition treats the rotation as gimbal locked.
const gimbalEpsilon = 1e-6

func deg(rad float64) float32 { return float32(rad * 180 / math.Pi) }

func rad(deg float32) float64 { return float64(deg) * math.Pi / 180 }

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

func quat64(q Quat) (w, x, y, z float64) {
	q = q.Normalize()
	return float64(q.W), float64(q.X), float64(q.Y), float64(q.Z)
}

// QuatToEulerZYX decomposes q into ZYX (yaw, pitch, roll) Euler angles.
//
// Both sine terms are clamped to [-1, 1] before asin/atan2 so float drift
// never turns into NaN. When |sin(roll)·cos(pitch)| reaches 1 the yaw is
// forced to 0; rotations in that neighbourhood do not round-trip.
func QuatToEulerZYX(q Quat) Euler {
	qw, qx, qy, qz := quat64(q)
	sqx, sqy, sqz := qx*qx, qy*qy, qz*qz

	sinRollCosPitch := clampUnit(2 * (qw*qx + qy*qz))
	cosRollCosPitch := 1 - 2*(sqx+sqy)
	sinPitch := clampUnit(2 * (qw*qy - qz*qx))

	roll := math.Atan2(sinRollCosPitch, cosRollCosPitch)
	pitch := math.Asin(sinPitch)

	var yaw float64
	if math.Abs(sinRollCosPitch) < 1-gimbalEpsilon {
		yaw = math.Atan2(2*(qw*qz+qx*qy), 1-2*(sqy+sqz))
	}

	return Euler{X: deg(roll), Y: deg(pitch), Z: deg(yaw)}
}

// QuatToEulerZYXAlt is the engine-side decomposition: at ±90° pitch the
// roll is pinned to 0 and the yaw absorbs the remaining rotation. Away from
// that singularity it agrees with QuatToEulerZYX.
func QuatToEulerZYXAlt(q Quat) Euler {
	qw, qx, qy, qz := quat64(q)

	sinY := 2 * (qw*qy - qz*qx)
	sinZCosP1 := 2 * (qx*qy - qw*qz)
	cosZCosP1 := 1 - 2*(qx*qx+qz*qz)

	switch {
	case sinY >= 1:
		return Euler{X: 0, Y: 90, Z: deg(math.Atan2(sinZCosP1, cosZCosP1))}
	case sinY <= -1:
		return Euler{X: 0, Y: -90, Z: deg(math.Atan2(sinZCosP1, cosZCosP1))}
	}

	x := math.Atan2(2*(qw*qx+qy*qz), 1-2*(qx*qx+qy*qy))
	y := math.Asin(sinY)
	z := math.Atan2(2*(qw*qz+qx*qy), 1-2*(qy*qy+qz*qz))
	return Euler{X: deg(x), Y: deg(y), Z: deg(z)}
}

// EulerZYXToQuat builds a quaternion from ZYX Euler angles in degrees.
// Each angle is reduced modulo 360 first.
func EulerZYXToQuat(e Euler) Quat {
	hx := rad(float32(math.Mod(float64(e.X), 360))) / 2
	hy := rad(float32(math.Mod(float64(e.Y), 360))) / 2
	hz := rad(float32(math.Mod(float64(e.Z), 360))) / 2

	cx, sx := math.Cos(hx), math.Sin(hx)
	cy, sy := math.Cos(hy), math.Sin(hy)
	cz, sz := math.Cos(hz), math.Sin(hz)

	return Quat{
		X: float32(sx*cy*cz - cx*sy*sz),
		Y: float32(cx*sy*cz + sx*cy*sz),
		Z: float32(cx*cy*sz - sx*sy*cz),
		W: float32(cx*cy*cz + sx*sy*sz),
	}
}

// QuatToEulerXYZ decomposes q into XYZ Euler angles, the convention the
// source asset math uses for angle-only rotations.
func QuatToEulerXYZ(q Quat) Euler {
	qw, qx, qy, qz := float64(q.W), float64(q.X), float64(q.Y), float64(q.Z)
	sqw, sqx, sqy, sqz := qw*qw, qx*qx, qy*qy, qz*qz
	unit := sqx + sqy + sqz + sqw
	test := qx*qz + qy*qw

	const sig = 0.499
	switch {
	case test > sig*unit:
		return Euler{X: 0, Y: 90, Z: deg(2 * math.Atan2(qx, qw))}
	case test < -sig*unit:
		return Euler{X: 0, Y: -90, Z: deg(-2 * math.Atan2(qx, qw))}
	}

	return Euler{
		X: deg(math.Atan2(2*(-qy*qz+qx*qw), 1-2*(sqx+sqy))),
		Y: deg(math.Asin(clampUnit(2 * (qx*qz + qy*qw) / unit))),
		Z: deg(math.Atan2(2*(-qx*qy+qz*qw), 1-2*(sqy+sqz))),
	}
}

// EulerXYZToQuat is the inverse of QuatToEulerXYZ.
func EulerXYZToQuat(e Euler) Quat {
	sx, cx := math.Sincos(rad(e.X) / 2)
	sy, cy := math.Sincos(rad(e.Y) / 2)
	sz, cz := math.Sincos(rad(e.Z) / 2)

	return Quat{
		X: float32(sx*cy*cz + sy*sz*cx),
		Y: float32(-sx*sz*cy + sy*cx*cz),
		Z: float32(sx*sy*cz + sz*cx*cy),
		W: float32(-sx*sy*sz + cx*cy*cz),
	}
}
