package renderer

import (
	"image"
	"math"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
)

// shadowAcneEpsilon is the minimum hit distance for secondary rays
const shadowAcneEpsilon = 0.001

var skyBlue = core.NewColor(0.5, 0.7, 1.0)

// Raytracer handles the rendering process
type Raytracer struct {
	camera   *Camera
	world    geometry.Shape
	logger   core.Logger
	progress ProgressReporter
}

// NewRaytracer creates a new raytracer for world as seen by camera
func NewRaytracer(camera *Camera, world geometry.Shape) *Raytracer {
	return &Raytracer{
		camera:   camera,
		world:    world,
		logger:   nopLogger{},
		progress: nopProgress{},
	}
}

// SetLogger sets the logger used for render summaries
func (rt *Raytracer) SetLogger(logger core.Logger) {
	if logger == nil {
		logger = nopLogger{}
	}
	rt.logger = logger
}

// SetProgress sets the reporter notified after each completed row, in pixels
func (rt *Raytracer) SetProgress(progress ProgressReporter) {
	if progress == nil {
		progress = nopProgress{}
	}
	rt.progress = progress
}

// Camera returns the camera the raytracer renders through
func (rt *Raytracer) Camera() *Camera {
	return rt.camera
}

// RayColor returns the radiance carried back along r with at most depth bounces
func (rt *Raytracer) RayColor(r core.Ray, depth int, sampler core.Sampler) core.Color {
	var rays int64
	return rt.rayColor(r, depth, sampler, &rays)
}

// rayColor is RayColor with a counter of evaluated rays
func (rt *Raytracer) rayColor(r core.Ray, depth int, sampler core.Sampler, rays *int64) core.Color {
	*rays++

	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Black
	}

	hit, isHit := rt.world.Hit(r, core.NewInterval(shadowAcneEpsilon, math.Inf(1)))
	if !isHit {
		return backgroundGradient(r)
	}

	scatter, didScatter := hit.Material.Scatter(r, *hit, sampler)
	if !didScatter {
		return core.Black // Material absorbed the ray
	}

	return scatter.Attenuation.MultiplyColor(rt.rayColor(scatter.Scattered, depth-1, sampler, rays))
}

// backgroundGradient blends white at the horizon to sky blue overhead
func backgroundGradient(r core.Ray) core.Color {
	unitDirection := r.Direction.Normalize()
	a := 0.5 * (unitDirection.Y + 1.0)
	return core.White.Lerp(skyBlue, a)
}

// renderRow renders every pixel of row j into img and returns its stats.
// Rows never share pixels, so concurrent calls for distinct rows are safe.
func (rt *Raytracer) renderRow(j int, img *image.RGBA, sampler core.Sampler) RenderStats {
	samples := rt.camera.Config().SamplesPerPixel
	maxDepth := rt.camera.Config().MaxDepth
	width := rt.camera.Width()

	stats := RenderStats{TotalPixels: width, TotalSamples: width * samples}
	for i := 0; i < width; i++ {
		var pixel PixelStats
		for sample := 0; sample < samples; sample++ {
			ray := rt.camera.GetRay(i, j, sampler)
			pixel.AddSample(rt.rayColor(ray, maxDepth, sampler, &stats.Rays))
		}
		img.SetRGBA(i, j, pixel.Scaled(rt.camera.PixelSamplesScale()).ToRGBA())
	}
	return stats
}

// Render renders the full image top to bottom, left to right, drawing every
// random number from sampler in that order
func (rt *Raytracer) Render(sampler core.Sampler) (*image.RGBA, RenderStats) {
	start := time.Now()
	img := image.NewRGBA(image.Rect(0, 0, rt.camera.Width(), rt.camera.Height()))

	var stats RenderStats
	for j := 0; j < rt.camera.Height(); j++ {
		stats.add(rt.renderRow(j, img, sampler))
		rt.progress.Add(rt.camera.Width())
	}
	rt.progress.Finish()

	stats.finish(start)
	rt.logger.Printf("Render complete: %s\n", stats)
	return img, stats
}
