package loaders

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrMalformedPPM is wrapped by every PPM decoding error
var ErrMalformedPPM = errors.New("malformed PPM")

// maxPPMPixels bounds the image a header may declare (256 MiB of RGBA)
const maxPPMPixels = 1 << 26

// EncodePPM writes img as an ASCII (P3) PPM with a max value of 255, one
// "R G B" line per pixel in row-major order
func EncodePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "P3\n%d %d\n255\n", bounds.Dx(), bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			fmt.Fprintf(bw, "%d %d %d\n", c.R, c.G, c.B)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write PPM: %w", err)
	}
	return nil
}

// DecodePPM reads an ASCII (P3) or binary (P6) PPM. Channels are rescaled
// from the file's max value to 8 bits.
func DecodePPM(r io.Reader) (*image.RGBA, error) {
	br := bufio.NewReader(r)

	magic, err := nextToken(br)
	if err != nil {
		return nil, fmt.Errorf("%w: missing magic number: %v", ErrMalformedPPM, err)
	}
	if magic != "P3" && magic != "P6" {
		return nil, fmt.Errorf("%w: unsupported magic number %q", ErrMalformedPPM, magic)
	}

	width, err := nextInt(br, "width")
	if err != nil {
		return nil, err
	}
	height, err := nextInt(br, "height")
	if err != nil {
		return nil, err
	}
	maxVal, err := nextInt(br, "max value")
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrMalformedPPM, width, height)
	}
	// Compared by division so width*height cannot overflow
	if width > maxPPMPixels/height {
		return nil, fmt.Errorf("%w: dimensions %dx%d exceed %d pixels", ErrMalformedPPM, width, height, maxPPMPixels)
	}
	if maxVal <= 0 || maxVal > 255 {
		return nil, fmt.Errorf("%w: unsupported max value %d", ErrMalformedPPM, maxVal)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scale := func(v int) uint8 {
		return uint8(v * 255 / maxVal)
	}

	if magic == "P6" {
		raw := make([]byte, width*height*3)
		if _, err := io.ReadFull(br, raw); err != nil {
			return nil, fmt.Errorf("%w: not enough pixel data: %v", ErrMalformedPPM, err)
		}
		for i := 0; i < width*height; i++ {
			img.Pix[i*4] = scale(int(raw[i*3]))
			img.Pix[i*4+1] = scale(int(raw[i*3+1]))
			img.Pix[i*4+2] = scale(int(raw[i*3+2]))
			img.Pix[i*4+3] = 255
		}
		return img, nil
	}

	for i := 0; i < width*height; i++ {
		for ch := 0; ch < 3; ch++ {
			v, err := nextInt(br, "pixel value")
			if err != nil {
				return nil, err
			}
			if v < 0 || v > maxVal {
				return nil, fmt.Errorf("%w: pixel value %d outside [0, %d]", ErrMalformedPPM, v, maxVal)
			}
			img.Pix[i*4+ch] = scale(v)
		}
		img.Pix[i*4+3] = 255
	}
	return img, nil
}

// nextToken returns the next whitespace-delimited token, skipping # comments.
// For P6 the single whitespace byte after the max value is consumed here.
func nextToken(br *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF && sb.Len() > 0 {
				return sb.String(), nil
			}
			return "", err
		}

		switch {
		case b == '#' && sb.Len() == 0:
			if _, err := br.ReadString('\n'); err != nil && err != io.EOF {
				return "", err
			}
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			if sb.Len() > 0 {
				return sb.String(), nil
			}
		default:
			sb.WriteByte(b)
		}
	}
}

func nextInt(br *bufio.Reader, what string) (int, error) {
	token, err := nextToken(br)
	if err != nil {
		return 0, fmt.Errorf("%w: missing %s: %v", ErrMalformedPPM, what, err)
	}
	v, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", ErrMalformedPPM, what, token)
	}
	return v, nil
}

// LoadPPM reads a PPM file, transparently decompressing it when the name ends in .gz
func LoadPPM(filename string) (*image.RGBA, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PPM file: %w", err)
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(filename, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream %s: %w", filename, err)
		}
		defer gz.Close()
		r = gz
	}

	img, err := DecodePPM(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, err)
	}
	return img, nil
}

// SavePPM writes img as an ASCII PPM, gzip-compressed when the name ends in .gz
func SavePPM(filename string, img image.Image) error {
	return writeFile(filename, func(w io.Writer) error {
		if !strings.HasSuffix(filename, ".gz") {
			return EncodePPM(w, img)
		}

		gz := gzip.NewWriter(w)
		if err := EncodePPM(gz, img); err != nil {
			gz.Close()
			return err
		}
		if err := gz.Close(); err != nil {
			return fmt.Errorf("failed to finish gzip stream %s: %w", filename, err)
		}
		return nil
	})
}
