package scene

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// RandomSpheresCameraConfig is the camera of the random spheres cover scene
func RandomSpheresCameraConfig() renderer.CameraConfig {
	return renderer.CameraConfig{
		AspectRatio:     16.0 / 9.0,
		Width:           300,
		SamplesPerPixel: 50,
		MaxDepth:        40,
		VFov:            20,
		LookFrom:        core.NewVec3(13, 2, 3),
		LookAt:          core.NewVec3(0, 0, 0),
		VUp:             core.NewVec3(0, 1, 0),
		DefocusAngle:    0.6,
		FocusDistance:   10,
	}
}

// NewRandomSpheresScene creates the cover scene: a gray ground sphere under a
// field of small random spheres and three large feature spheres. All random
// choices are drawn from sampler.
func NewRandomSpheresScene(sampler core.Sampler, cameraOverrides ...renderer.CameraConfig) *Scene {
	s := newScene("random-spheres", RandomSpheresCameraConfig(), cameraOverrides)

	ground := material.NewLambertian(core.NewColor(0.5, 0.5, 0.5))
	s.AddSphere(core.NewVec3(0, -1000, 0), 1000, ground)

	clearing := core.NewVec3(4, 0.2, 0)
	for a := -11; a <= 10; a++ {
		for b := -11; b <= 10; b++ {
			chooseMat := sampler.Get1D()
			x := float64(a) + 0.9*sampler.Get1D()
			z := float64(b) + 0.9*sampler.Get1D()
			center := core.NewVec3(x, 0.2, z)

			// Keep the space around the big metal sphere clear
			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			var mat material.Material
			switch {
			case chooseMat < 0.8:
				// Diffuse
				albedo := core.RandomColor(sampler, 0, 1).MultiplyColor(core.RandomColor(sampler, 0, 1))
				mat = material.NewLambertian(albedo)
			case chooseMat < 0.95:
				// Metal
				albedo := core.RandomColor(sampler, 0.5, 1)
				fuzz := core.RandomRange(sampler, 0, 0.5)
				mat = material.NewMetal(albedo, fuzz)
			default:
				// Glass
				mat = material.NewDielectric(1.5)
			}
			s.AddSphere(center, 0.2, mat)
		}
	}

	s.AddSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5))
	s.AddSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewColor(0.4, 0.2, 0.1)))
	s.AddSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewColor(0.7, 0.6, 0.5), 0.0))

	return s
}
