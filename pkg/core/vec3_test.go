package core

import (
	"math"
	"testing"
)

func vecNear(a, b Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

func TestVec3_OperatorChaining(t *testing.T) {
	a := NewVec3(1, -2, 3)
	b := NewVec3(-4, 1, 2)
	c := NewVec3(0.5, -1.5, 0.25)

	result := a.Add(b.Multiply(2)).Subtract(c.Divide(2)).Subtract(c).Multiply(0.25)

	expected := NewVec3(-1.9375, 0.5625, 1.65625)
	if !vecNear(result, expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestVec3_RoundTrips(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Vec3
		scalar float64
	}{
		{"unit axes", NewVec3(1, 0, 0), NewVec3(0, 1, 0), 2},
		{"mixed signs", NewVec3(-3.5, 2.25, 7), NewVec3(0.1, -0.2, 0.3), -4.5},
		{"large values", NewVec3(1e6, -2e6, 3e5), NewVec3(12345, 678, -9), 1e-3},
		{"small values", NewVec3(1e-6, 3e-7, -5e-8), NewVec3(2e-6, -1e-6, 4e-7), 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tolerance := 1e-9 * math.Max(1, tt.a.Length())

			sumBack := tt.a.Add(tt.b).Subtract(tt.b)
			if !vecNear(sumBack, tt.a, tolerance) {
				t.Errorf("(a + b) - b = %v, expected %v", sumBack, tt.a)
			}

			scaleBack := tt.a.Multiply(tt.scalar).Divide(tt.scalar)
			if !vecNear(scaleBack, tt.a, tolerance) {
				t.Errorf("(a * s) / s = %v, expected %v", scaleBack, tt.a)
			}

			cross := tt.a.Cross(tt.b)
			crossTolerance := 1e-9 * math.Max(1, tt.a.Length()*tt.b.Length()*cross.Length())
			if d := math.Abs(cross.Dot(tt.a)); d > crossTolerance {
				t.Errorf("cross(a, b) not orthogonal to a: dot = %g", d)
			}
			if d := math.Abs(cross.Dot(tt.b)); d > crossTolerance {
				t.Errorf("cross(a, b) not orthogonal to b: dot = %g", d)
			}
		})
	}
}

func TestVec3_Normalize(t *testing.T) {
	vectors := []Vec3{
		NewVec3(3, 4, 0),
		NewVec3(-1, -1, -1),
		NewVec3(1e-5, 0, 0),
		NewVec3(13, 2, 3),
		NewVec3(1e8, -1e8, 5),
	}

	for _, v := range vectors {
		length := v.Normalize().Length()
		if math.Abs(length-1) > 1e-12 {
			t.Errorf("Normalize(%v) has length %g", v, length)
		}
	}
}

func TestVec3_CameraBasis(t *testing.T) {
	w := NewVec3(13, 2, 3).Normalize()
	u := NewVec3(0, 1, 0).Cross(w).Normalize()
	v := w.Cross(u)

	const tolerance = 1e-6
	if expected := NewVec3(0.9636241, 0.14824986, 0.2223748); !vecNear(w, expected, tolerance) {
		t.Errorf("w: expected %v, got %v", expected, w)
	}
	if expected := NewVec3(0.2248595, 0, -0.9743912); !vecNear(u, expected, tolerance) {
		t.Errorf("u: expected %v, got %v", expected, u)
	}
	if expected := NewVec3(-0.14445336, 0.98894995, -0.03333539); !vecNear(v, expected, tolerance) {
		t.Errorf("v: expected %v, got %v", expected, v)
	}
}

func TestVec3_NearZero(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec3
		expected bool
	}{
		{"zero", NewVec3(0, 0, 0), true},
		{"tiny components", NewVec3(1e-9, -1e-9, 5e-9), true},
		{"one component at threshold", NewVec3(1e-8, 0, 0), false},
		{"one large component", NewVec3(0, 0, 0.1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.NearZero(); got != tt.expected {
				t.Errorf("NearZero(%v) = %t, expected %t", tt.v, got, tt.expected)
			}
		})
	}
}

func TestReflect(t *testing.T) {
	v := NewVec3(1, -1, 0)
	n := NewVec3(0, 1, 0)

	reflected := Reflect(v, n)
	expected := NewVec3(1, 1, 0)
	if !vecNear(reflected, expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, reflected)
	}
}

func TestRefract_StraightThrough(t *testing.T) {
	uv := NewVec3(0, -1, 0)
	n := NewVec3(0, 1, 0)

	refracted := Refract(uv, n, 1.0/1.5)
	if !vecNear(refracted, uv, 1e-12) {
		t.Errorf("Normal incidence should not bend: expected %v, got %v", uv, refracted)
	}
}

func TestRefract_SnellsLaw(t *testing.T) {
	// 45 degree incidence from air into glass
	uv := NewVec3(1, -1, 0).Normalize()
	n := NewVec3(0, 1, 0)
	ratio := 1.0 / 1.5

	refracted := Refract(uv, n, ratio)

	sinIn := math.Sqrt(0.5)
	sinOut := refracted.X / refracted.Length()
	if math.Abs(sinOut-sinIn*ratio) > 1e-12 {
		t.Errorf("Expected sin(theta_t) = %g, got %g", sinIn*ratio, sinOut)
	}
	if math.Abs(refracted.Length()-1) > 1e-12 {
		t.Errorf("Refracted unit vector has length %g", refracted.Length())
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(1, 2, 3), NewVec3(0, 0, -2))

	if p := ray.At(0); !p.Equals(ray.Origin) {
		t.Errorf("At(0) should be the origin, got %v", p)
	}
	if p := ray.At(1.5); !vecNear(p, NewVec3(1, 2, 0), 1e-12) {
		t.Errorf("At(1.5) expected (1, 2, 0), got %v", p)
	}
}
