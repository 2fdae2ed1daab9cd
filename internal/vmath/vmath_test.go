package vmath

import (
	"math"
	"math/rand"
	"testing"
)

func TestReflect_Involution(t *testing.T) {
	rng := rand.New(rand.NewSource(7)) // #nosec G404 -- test only
	for i := 0; i < 200; i++ {
		d := V3(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1).Normalized()
		n := V3(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1).Normalized()
		if n == Zero {
			continue
		}
		back := Reflect(Reflect(d, n), n)
		if !ApproxEqual(back, d, 1e-9) {
			t.Fatalf("reflect twice: got %+v, want %+v (n=%+v)", back, d, n)
		}
	}
}

func TestReflect_FlipsNormalComponentOnly(t *testing.T) {
	d := V3(1, -1, 0).Normalized()
	got := Reflect(d, Up)
	want := V3(1, 1, 0).Normalized()
	if !ApproxEqual(got, want, 1e-12) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if math.Abs(got.Len()-1) > 1e-12 {
		t.Fatalf("reflection changed length: %f", got.Len())
	}
}

func TestNormalized_Zero(t *testing.T) {
	if Zero.Normalized() != Zero {
		t.Fatal("zero vector should stay zero")
	}
}

func TestYawTo_Forward(t *testing.T) {
	yaw := YawTo(Zero, V3(0, 5, 10))
	if math.Abs(yaw) > 1e-9 {
		t.Fatalf("yaw toward +Z should be 0, got %f", yaw)
	}
	f := ForwardFromYaw(YawTo(Zero, V3(10, 0, 0)))
	if !ApproxEqual(f, V3(1, 0, 0), 1e-9) {
		t.Fatalf("forward toward +X: got %+v", f)
	}
}

func TestSnapXZ(t *testing.T) {
	got := SnapXZ(V3(1.4, 3.3, -2.6), 1)
	if got != V3(1, 3.3, -3) {
		t.Fatalf("got %+v", got)
	}
}

func TestSweepAABB_TopFace(t *testing.T) {
	box := AABB{Min: V3(-1, -1, -1), Max: V3(1, 1, 1)}
	h, ok := SweepAABB(V3(0, 3, 0), V3(0, -3, 0), box)
	if !ok {
		t.Fatal("expected hit")
	}
	if math.Abs(h.T-1.0/3.0) > 1e-9 {
		t.Fatalf("t = %f, want 1/3", h.T)
	}
	if h.Normal != Up {
		t.Fatalf("normal = %+v, want up", h.Normal)
	}
}

func TestSweepAABB_SideFace(t *testing.T) {
	box := AABB{Min: V3(4, 0, -1), Max: V3(6, 2, 1)}
	h, ok := SweepAABB(V3(0, 1, 0), V3(10, 1, 0), box)
	if !ok {
		t.Fatal("expected hit")
	}
	if h.Normal != V3(-1, 0, 0) {
		t.Fatalf("normal = %+v", h.Normal)
	}
	if !ApproxEqual(h.Point, V3(4, 1, 0), 1e-9) {
		t.Fatalf("point = %+v", h.Point)
	}
}

func TestSweepAABB_Miss(t *testing.T) {
	box := AABB{Min: V3(4, 0, -1), Max: V3(6, 2, 1)}
	if _, ok := SweepAABB(V3(0, 5, 0), V3(10, 5, 0), box); ok {
		t.Fatal("segment above box should miss")
	}
	if _, ok := SweepAABB(V3(0, 1, 0), V3(3, 1, 0), box); ok {
		t.Fatal("segment ending before box should miss")
	}
}

func TestSweepAABB_StartInsideIgnored(t *testing.T) {
	box := AABB{Min: V3(-1, -1, -1), Max: V3(1, 1, 1)}
	if _, ok := SweepAABB(V3(0, 0, 0), V3(0, 5, 0), box); ok {
		t.Fatal("segment leaving the box should not register a hit")
	}
}

func TestSweepSolidAABB_StartInsideHitsAtZero(t *testing.T) {
	box := AABB{Min: V3(-0.5, 6, 1.8), Max: V3(0.5, 8, 2.8)}
	h, ok := SweepSolidAABB(V3(0, 6.5, 2), V3(0, 6.5, 2.3), box)
	if !ok {
		t.Fatal("segment starting inside a solid box should hit it")
	}
	if h.T != 0 || h.Point != V3(0, 6.5, 2) {
		t.Fatalf("hit = %+v, want T=0 at the start point", h)
	}
	if _, ok := SweepSolidAABB(V3(0, 6.5, -5), V3(0, 6.5, -4), box); ok {
		t.Fatal("segment outside the box should miss")
	}
}

func TestSweepSphere(t *testing.T) {
	h, ok := SweepSphere(V3(-10, 0, 0), V3(10, 0, 0), Zero, 2)
	if !ok {
		t.Fatal("expected hit")
	}
	if math.Abs(h.T-0.4) > 1e-9 {
		t.Fatalf("t = %f, want 0.4", h.T)
	}
	if _, ok := SweepSphere(V3(-10, 3, 0), V3(10, 3, 0), Zero, 2); ok {
		t.Fatal("segment passing above should miss")
	}
	h, ok = SweepSphere(V3(1, 0, 0), V3(5, 0, 0), Zero, 2)
	if !ok || h.T != 0 {
		t.Fatalf("start inside should hit at t=0, got ok=%v t=%f", ok, h.T)
	}
}

func TestRGBA_Color(t *testing.T) {
	c := RGBA{R: 1, G: 0.5, B: -1, A: 2}.Color()
	if c.R != 255 || c.G != 128 || c.B != 0 || c.A != 255 {
		t.Fatalf("got %+v", c)
	}
}
