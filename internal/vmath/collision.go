package vmath

import "math"

// AABB is an axis-aligned box given by its min and max corners.
type AABB struct {
	Min, Max Vec3
}

// BoxAt returns the box centred on c with the given half extents.
func BoxAt(c, half Vec3) AABB {
	return AABB{Min: c.Sub(half), Max: c.Add(half)}
}

// Contains reports whether p lies inside or on the box.
func (b AABB) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Center returns the box midpoint.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Hit describes where a swept segment first touches a volume.
type Hit struct {
	T      float64 // segment fraction in [0,1]
	Point  Vec3
	Normal Vec3 // unit surface normal facing the incoming segment
}

// SweepAABB returns the first point where the segment from→to enters box.
// A segment that starts inside the box does not hit it, so a body resting
// on (or just bounced off) a face is free to leave.
func SweepAABB(from, to Vec3, box AABB) (Hit, bool) {
	if box.Contains(from) {
		return Hit{}, false
	}
	d := to.Sub(from)

	tMin := 0.0
	tMax := 1.0
	axis := -1

	o := from.Array()
	dir := d.Array()
	lo := box.Min.Array()
	hi := box.Max.Array()

	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < 1e-12 {
			if o[i] < lo[i] || o[i] > hi[i] {
				return Hit{}, false
			}
			continue
		}
		inv := 1.0 / dir[i]
		t1 := (lo[i] - o[i]) * inv
		t2 := (hi[i] - o[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
			axis = i
		}
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return Hit{}, false
		}
	}
	if axis < 0 || tMin > 1 {
		return Hit{}, false
	}

	var n [3]float64
	if dir[axis] > 0 {
		n[axis] = -1
	} else {
		n[axis] = 1
	}
	return Hit{T: tMin, Point: from.Add(d.Scale(tMin)), Normal: FromArray(n)}, true
}

// SweepSolidAABB is SweepAABB for solid bodies: a segment that starts inside
// the box hits it at T=0, with the normal facing back along the segment.
func SweepSolidAABB(from, to Vec3, box AABB) (Hit, bool) {
	if box.Contains(from) {
		return Hit{T: 0, Point: from, Normal: from.Sub(to).Normalized()}, true
	}
	return SweepAABB(from, to, box)
}

// SweepSphere returns the first point where the segment from→to comes within
// radius r of centre. A segment that starts inside the sphere hits at T=0.
func SweepSphere(from, to, centre Vec3, r float64) (Hit, bool) {
	d := to.Sub(from)
	m := from.Sub(centre)
	c := m.LenSq() - r*r
	if c <= 0 {
		return Hit{T: 0, Point: from, Normal: m.Normalized()}, true
	}
	a := d.LenSq()
	if a < 1e-18 {
		return Hit{}, false
	}
	b := m.Dot(d)
	if b > 0 {
		// Moving away from the centre.
		return Hit{}, false
	}
	disc := b*b - a*c
	if disc < 0 {
		return Hit{}, false
	}
	t := (-b - math.Sqrt(disc)) / a
	if t < 0 || t > 1 {
		return Hit{}, false
	}
	p := from.Add(d.Scale(t))
	return Hit{T: t, Point: p, Normal: p.Sub(centre).Normalized()}, true
}
