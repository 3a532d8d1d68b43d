package renderer

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

func TestCameraGetCameraForward(t *testing.T) {
	config := DefaultCameraConfig()
	config.LookFrom = core.NewVec3(13, 2, 3)
	config.LookAt = core.NewVec3(0, 0, 0)
	camera := NewCamera(config)

	forward := camera.GetCameraForward()
	expected := core.NewVec3(-13, -2, -3).Normalize()

	if !vecNear(forward, expected, 1e-9) {
		t.Errorf("Expected forward direction %v, got %v", expected, forward)
	}
}

func TestCamera_ImageHeight(t *testing.T) {
	tests := []struct {
		name        string
		width       int
		aspectRatio float64
		expected    int
	}{
		{"default 16:9", 400, 16.0 / 9.0, 225},
		{"random spheres 16:9", 300, 16.0 / 9.0, 168},
		{"square", 64, 1.0, 64},
		{"clamped to one row", 1, 16.0 / 9.0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultCameraConfig()
			config.Width = tt.width
			config.AspectRatio = tt.aspectRatio

			if h := NewCamera(config).Height(); h != tt.expected {
				t.Errorf("Expected height %d, got %d", tt.expected, h)
			}
		})
	}
}

func TestCamera_GetRayThroughPixelCenters(t *testing.T) {
	camera := NewCamera(squareCamera())

	tests := []struct {
		i, j      int
		direction core.Vec3
	}{
		{0, 0, core.NewVec3(-0.5, 0.5, -1)},
		{1, 0, core.NewVec3(0.5, 0.5, -1)},
		{0, 1, core.NewVec3(-0.5, -0.5, -1)},
		{1, 1, core.NewVec3(0.5, -0.5, -1)},
	}

	for _, tt := range tests {
		// 0.5 jitter maps to the pixel center
		ray := camera.GetRay(tt.i, tt.j, newFixedSampler(0.5))

		if !ray.Origin.Equals(core.NewVec3(0, 0, 0)) {
			t.Errorf("Pixel (%d,%d): pinhole origin should be the camera center, got %v", tt.i, tt.j, ray.Origin)
		}
		if !vecNear(ray.Direction, tt.direction, 1e-12) {
			t.Errorf("Pixel (%d,%d): expected direction %v, got %v", tt.i, tt.j, tt.direction, ray.Direction)
		}
	}
}

func TestCamera_GetRayJitterStaysInPixel(t *testing.T) {
	camera := NewCamera(squareCamera())
	sampler := core.NewSeededSampler(5)

	for n := 0; n < 500; n++ {
		ray := camera.GetRay(0, 0, sampler)
		// Pixel (0,0) covers x in [-1, 0] and y in [0, 1] on the z = -1 plane
		d := ray.Direction
		if d.X < -1 || d.X > 0 || d.Y < 0 || d.Y > 1 || d.Z != -1 {
			t.Fatalf("Jittered direction %v left pixel (0,0)", d)
		}
	}
}

func TestCamera_DefocusDisk(t *testing.T) {
	config := DefaultCameraConfig()
	config.LookFrom = core.NewVec3(13, 2, 3)
	config.LookAt = core.NewVec3(0, 0, 0)
	config.VFov = 20
	config.DefocusAngle = 0.6
	config.FocusDistance = 10
	camera := NewCamera(config)

	radius := config.FocusDistance * math.Tan(core.DegreesToRadians(config.DefocusAngle/2))
	w := camera.GetCameraForward()
	sampler := core.NewSeededSampler(9)

	moved := false
	for n := 0; n < 500; n++ {
		ray := camera.GetRay(100, 80, sampler)
		offset := ray.Origin.Subtract(config.LookFrom)

		if offset.Length() >= radius {
			t.Fatalf("Origin offset %v outside defocus radius %g", offset, radius)
		}
		if d := math.Abs(offset.Dot(w)); d > 1e-9 {
			t.Fatalf("Origin offset %v leaves the lens plane (dot %g)", offset, d)
		}
		if offset.Length() > 0 {
			moved = true
		}
	}
	if !moved {
		t.Error("Expected defocus blur to move ray origins")
	}
}

func TestCamera_PinholeIgnoresDefocusDisk(t *testing.T) {
	for _, angle := range []float64{0, -1} {
		config := squareCamera()
		config.DefocusAngle = angle
		camera := NewCamera(config)
		sampler := newFixedSampler(0.5)

		ray := camera.GetRay(0, 0, sampler)
		if !ray.Origin.Equals(config.LookFrom) {
			t.Errorf("Angle %g: expected origin %v, got %v", angle, config.LookFrom, ray.Origin)
		}
		if sampler.index != 2 {
			t.Errorf("Angle %g: pinhole ray should draw only the pixel jitter, drew %d values", angle, sampler.index)
		}
	}
}

func TestCameraConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CameraConfig)
		valid  bool
	}{
		{"default", func(c *CameraConfig) {}, true},
		{"zero width", func(c *CameraConfig) { c.Width = 0 }, false},
		{"negative aspect", func(c *CameraConfig) { c.AspectRatio = -1 }, false},
		{"zero samples", func(c *CameraConfig) { c.SamplesPerPixel = 0 }, false},
		{"zero depth", func(c *CameraConfig) { c.MaxDepth = 0 }, false},
		{"flat fov", func(c *CameraConfig) { c.VFov = 180 }, false},
		{"zero focus", func(c *CameraConfig) { c.FocusDistance = 0 }, false},
		{"coincident look points", func(c *CameraConfig) { c.LookAt = c.LookFrom }, false},
		{"up along view", func(c *CameraConfig) { c.VUp = core.NewVec3(0, 0, 1) }, false},
		{"negative defocus is a pinhole", func(c *CameraConfig) { c.DefocusAngle = -2 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultCameraConfig()
			tt.modify(&config)

			err := config.Validate()
			if tt.valid && err != nil {
				t.Errorf("Expected valid config, got %v", err)
			}
			if !tt.valid {
				if err == nil {
					t.Error("Expected validation error")
				} else if !errors.Is(err, ErrInvalidCamera) {
					t.Errorf("Expected ErrInvalidCamera, got %v", err)
				}
			}
		})
	}
}

func TestMergeCameraConfig(t *testing.T) {
	base := DefaultCameraConfig()
	override := CameraConfig{
		Width:        300,
		LookFrom:     core.NewVec3(13, 2, 3),
		DefocusAngle: 0.6,
	}

	merged := MergeCameraConfig(base, override)

	if merged.Width != 300 {
		t.Errorf("Expected width 300, got %d", merged.Width)
	}
	if !merged.LookFrom.Equals(override.LookFrom) {
		t.Errorf("Expected look-from %v, got %v", override.LookFrom, merged.LookFrom)
	}
	if merged.DefocusAngle != 0.6 {
		t.Errorf("Expected defocus angle 0.6, got %g", merged.DefocusAngle)
	}
	// Zero fields keep the base values
	if merged.SamplesPerPixel != base.SamplesPerPixel || merged.VFov != base.VFov || merged.AspectRatio != base.AspectRatio {
		t.Errorf("Expected unset fields to keep base values, got %+v", merged)
	}
	if !merged.LookAt.Equals(base.LookAt) {
		t.Errorf("Expected look-at %v, got %v", base.LookAt, merged.LookAt)
	}
}
