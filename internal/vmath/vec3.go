// Package vmath holds the small amount of 3-D vector math the simulation
// needs: vectors, colours, boxes and swept hit tests.
package vmath

import "math"

// Vec3 is a 3-D vector in world units. Y is up.
type Vec3 struct {
	X, Y, Z float64
}

// V3 is shorthand for Vec3{x, y, z}.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

var (
	Zero    = Vec3{}
	Up      = Vec3{Y: 1}
	Forward = Vec3{Z: 1}
)

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) LenSq() float64 {
	return v.Dot(v)
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// Normalized returns v scaled to unit length. The zero vector stays zero.
func (v Vec3) Normalized() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Vec3) float64 {
	return a.Sub(b).Len()
}

// Reflect mirrors d about the plane with unit normal n: d' = d − 2(d·n)n.
// Applying it twice with the same n returns d.
func Reflect(d, n Vec3) Vec3 {
	return d.Sub(n.Scale(2 * d.Dot(n)))
}

// ApproxEqual reports whether every component of a and b differs by at most eps.
func ApproxEqual(a, b Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}

// IsFinite reports whether no component is NaN or ±Inf.
func (v Vec3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Array returns the components as a fixed array (X, Y, Z).
func (v Vec3) Array() [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// FromArray is the inverse of Array.
func FromArray(a [3]float64) Vec3 {
	return Vec3{a[0], a[1], a[2]}
}

// --- Orientation ---

// YawTo returns the heading in degrees that faces from→to on the XZ plane,
// measured from +Z toward +X. Pitch and roll are not involved.
func YawTo(from, to Vec3) float64 {
	d := to.Sub(from)
	return math.Atan2(d.X, d.Z) * 180 / math.Pi
}

// ForwardFromYaw returns the unit forward vector for a yaw in degrees with
// zero pitch (Y component always 0).
func ForwardFromYaw(yawDeg float64) Vec3 {
	r := yawDeg * math.Pi / 180
	return Vec3{X: math.Sin(r), Z: math.Cos(r)}
}

// SnapXZ rounds X and Z to the nearest multiple of grid, leaving Y alone.
func SnapXZ(p Vec3, grid float64) Vec3 {
	if grid <= 0 {
		return p
	}
	return Vec3{
		X: math.Round(p.X/grid) * grid,
		Y: p.Y,
		Z: math.Round(p.Z/grid) * grid,
	}
}
