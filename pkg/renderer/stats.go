package renderer

import (
	"fmt"
	"image"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int           // Total number of pixels rendered
	TotalSamples   int           // Total number of samples taken
	AverageSamples float64       // Average samples per pixel
	Rays           int64         // Number of ray evaluations, bounces included
	Elapsed        time.Duration // Wall time of the render
}

// add folds the counters of another partial render into s
func (s *RenderStats) add(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.TotalSamples += other.TotalSamples
	s.Rays += other.Rays
}

// finish computes the derived fields once all partial stats are in
func (s *RenderStats) finish(start time.Time) {
	if s.TotalPixels > 0 {
		s.AverageSamples = float64(s.TotalSamples) / float64(s.TotalPixels)
	}
	s.Elapsed = time.Since(start)
}

// String formats the stats for log output
func (s RenderStats) String() string {
	raysPerSecond := 0.0
	if secs := s.Elapsed.Seconds(); secs > 0 {
		raysPerSecond = float64(s.Rays) / secs
	}
	return fmt.Sprintf("%d pixels, %.1f samples/pixel, %d rays in %v (%.0f rays/s)",
		s.TotalPixels, s.AverageSamples, s.Rays, s.Elapsed.Round(time.Millisecond), raysPerSecond)
}

// PixelStats accumulates the samples of a single pixel
type PixelStats struct {
	ColorAccum  core.Color // Sum of all sample colors
	SampleCount int        // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Color) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Color {
	if ps.SampleCount == 0 {
		return core.Black
	}
	return ps.Scaled(1.0 / float64(ps.SampleCount))
}

// Scaled returns the accumulated color multiplied by scale
func (ps *PixelStats) Scaled(scale float64) core.Color {
	return ps.ColorAccum.Multiply(scale)
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of an 8-bit
// image, with channels read as values in [0, 1]
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			total += core.NewColor(float64(c.R), float64(c.G), float64(c.B)).Divide(255).Luminance()
		}
	}
	return total / float64(pixels)
}
