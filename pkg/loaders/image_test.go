package loaders

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// TestLoadImage creates a test PNG and verifies loading
func TestLoadImage(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.png")

	// NRGBA input exercises the conversion path
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	src.Set(1, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	src.Set(0, 1, color.RGBA{R: 0, G: 255, B: 0, A: 255})
	src.Set(1, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})

	f, err := os.Create(testFile)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := png.Encode(f, src); err != nil {
		f.Close()
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	f.Close()

	img, err := LoadImage(testFile)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}

	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("Expected 2x2 image, got %v", img.Bounds())
	}
	if !bytes.Equal(img.Pix, testImage().Pix) {
		t.Errorf("Loaded pixels %v, expected %v", img.Pix, testImage().Pix)
	}
}

func TestLoadImage_NonExistent(t *testing.T) {
	_, err := LoadImage("nonexistent.png")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestSaveImage_Formats(t *testing.T) {
	tmpDir := t.TempDir()

	for _, name := range []string{"out.png", "out.ppm", "out.ppm.gz", "nested/dir/out.png"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(tmpDir, name)
			if err := SaveImage(path, testImage()); err != nil {
				t.Fatalf("SaveImage failed: %v", err)
			}

			img, err := LoadImage(path)
			if err != nil {
				t.Fatalf("LoadImage failed: %v", err)
			}
			if !bytes.Equal(img.Pix, testImage().Pix) {
				t.Errorf("Round trip through %s changed pixels", name)
			}
		})
	}
}

func TestSaveImage_UnsupportedFormat(t *testing.T) {
	if err := SaveImage(filepath.Join(t.TempDir(), "out.bmp"), testImage()); err == nil {
		t.Error("Expected error for unsupported extension")
	}
}

func TestSaveImage_EncodeError(t *testing.T) {
	empty := image.NewRGBA(image.Rect(0, 0, 0, 0))
	if err := SaveImage(filepath.Join(t.TempDir(), "empty.png"), empty); err == nil {
		t.Error("Expected an error encoding an empty PNG")
	}
}

func TestWriteFile_Errors(t *testing.T) {
	errEncode := errors.New("encode failed")

	tests := []struct {
		name   string
		encode func(io.Writer) error
		want   error
	}{
		{"encode error", func(io.Writer) error { return errEncode }, errEncode},
		{"close error", func(w io.Writer) error { return w.(*os.File).Close() }, os.ErrClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := writeFile(filepath.Join(t.TempDir(), "out.bin"), tt.encode)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}
