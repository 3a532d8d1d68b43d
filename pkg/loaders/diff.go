package loaders

import (
	"errors"
	"fmt"
	"image"
)

// ErrSizeMismatch is returned when compared images have different dimensions
var ErrSizeMismatch = errors.New("image sizes differ")

// DiffStats summarizes the per-channel differences between two images
type DiffStats struct {
	Channels      int     // Number of compared channels (3 per pixel)
	MeanAbsDiff   float64 // Mean absolute channel difference
	MaxDiff       int     // Largest absolute channel difference
	HighDiffCount int     // Channels differing by at least the high-diff threshold
}

// Compare compares the RGB channels of two equally sized images. Alpha is ignored.
func Compare(expected, actual *image.RGBA, highDiffThreshold int) (DiffStats, error) {
	eb, ab := expected.Bounds(), actual.Bounds()
	if eb.Dx() != ab.Dx() || eb.Dy() != ab.Dy() {
		return DiffStats{}, fmt.Errorf("%w: expected %dx%d, got %dx%d",
			ErrSizeMismatch, eb.Dx(), eb.Dy(), ab.Dx(), ab.Dy())
	}

	var stats DiffStats
	sum := 0
	for y := 0; y < eb.Dy(); y++ {
		for x := 0; x < eb.Dx(); x++ {
			e := expected.RGBAAt(eb.Min.X+x, eb.Min.Y+y)
			a := actual.RGBAAt(ab.Min.X+x, ab.Min.Y+y)

			for _, d := range [3]int{absDiff(e.R, a.R), absDiff(e.G, a.G), absDiff(e.B, a.B)} {
				sum += d
				if d > stats.MaxDiff {
					stats.MaxDiff = d
				}
				if d >= highDiffThreshold {
					stats.HighDiffCount++
				}
				stats.Channels++
			}
		}
	}

	if stats.Channels > 0 {
		stats.MeanAbsDiff = float64(sum) / float64(stats.Channels)
	}
	return stats, nil
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
