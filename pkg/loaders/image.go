package loaders

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // JPEG decoder
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LoadImage loads a PNG, JPEG or PPM image into an RGBA buffer. PPM files
// (optionally gzipped) are recognized by extension, everything else by header.
func LoadImage(filename string) (*image.RGBA, error) {
	if isPPM(filename) {
		return LoadPPM(filename)
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// Decode image (auto-detects PNG/JPEG from file header)
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba, nil
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba, nil
}

// SaveImage writes img to filename, creating parent directories. The format
// follows the extension: .ppm, .ppm.gz or .png.
func SaveImage(filename string, img image.Image) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	switch {
	case isPPM(filename):
		return SavePPM(filename, img)
	case strings.EqualFold(filepath.Ext(filename), ".png"):
		return savePNG(filename, img)
	default:
		return fmt.Errorf("unsupported image format for %s (want .ppm, .ppm.gz or .png)", filename)
	}
}

func savePNG(filename string, img image.Image) error {
	return writeFile(filename, func(w io.Writer) error {
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("failed to encode PNG: %w", err)
		}
		return nil
	})
}

// writeFile creates filename and runs encode on it. A failed Close is
// reported when encode itself succeeded.
func writeFile(filename string, encode func(io.Writer) error) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", filename, cerr)
		}
	}()

	return encode(file)
}

func isPPM(filename string) bool {
	lower := strings.ToLower(filename)
	return strings.HasSuffix(lower, ".ppm") || strings.HasSuffix(lower, ".ppm.gz")
}
