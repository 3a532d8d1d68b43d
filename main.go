package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/loaders"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	sceneType string
	width     int
	samples   int
	depth     int
	seed      int64
	workers   int
	output    string
	quiet     bool
	list      bool
	help      bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code. Logs go to stderr
// so that the image can be streamed to stdout with -o -.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts, err := parseFlags(fs, args)
	if err != nil {
		return 2
	}

	if opts.help {
		printHelp(fs, stdout)
		return 0
	}
	if opts.list {
		for _, info := range scene.ListScenes() {
			fmt.Fprintf(stdout, "  %-16s %s\n", info.ID, info.Description)
		}
		return 0
	}

	if err := render(opts, stdout, renderer.NewWriterLogger(stderr), stderr); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var opts options
	fs.StringVar(&opts.sceneType, "scene", "random-spheres", "Scene to render (see -list)")
	fs.IntVar(&opts.width, "width", 0, "Image width in pixels (0 = scene default)")
	fs.IntVar(&opts.samples, "samples", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&opts.depth, "depth", 0, "Maximum bounce depth (0 = scene default)")
	fs.Int64Var(&opts.seed, "seed", 0, "Random seed (0 = seed from the clock)")
	fs.IntVar(&opts.workers, "workers", 1, "Parallel row workers (1 = sequential, 0 = one per CPU)")
	fs.StringVar(&opts.output, "o", "", "Output file (.ppm, .ppm.gz or .png; - = PPM on stdout)")
	fs.BoolVar(&opts.quiet, "quiet", false, "Suppress progress and log output")
	fs.BoolVar(&opts.list, "list", false, "List available scenes")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.width < 0 || opts.samples < 0 || opts.depth < 0 || opts.workers < 0 {
		err := errors.New("width, samples, depth and workers must not be negative")
		fmt.Fprintln(fs.Output(), err)
		return opts, err
	}
	return opts, nil
}

func printHelp(fs *flag.FlagSet, out io.Writer) {
	fmt.Fprintln(out, "Weekend Raytracer")
	fmt.Fprintln(out, "Usage: raytracer [options]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	fs.SetOutput(out)
	fs.PrintDefaults()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Available scenes:")
	for _, info := range scene.ListScenes() {
		fmt.Fprintf(out, "  %-16s %s\n", info.ID, info.Description)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Output defaults to output/<scene>/render_<timestamp>.ppm")
}

// createScene builds the named scene with the command line overrides applied
func createScene(sceneType string, seed int64, override renderer.CameraConfig) (*scene.Scene, error) {
	if sceneType == "" {
		return nil, errors.New("scene name must not be empty")
	}
	return scene.Create(sceneType, seed, override)
}

func render(opts options, stdout io.Writer, logger core.Logger, progressOut io.Writer) error {
	if opts.quiet {
		logger = renderer.NewWriterLogger(io.Discard)
		progressOut = io.Discard
	}

	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s, err := createScene(opts.sceneType, seed, renderer.CameraConfig{
		Width:           opts.width,
		SamplesPerPixel: opts.samples,
		MaxDepth:        opts.depth,
	})
	if err != nil {
		return err
	}

	rt, err := s.NewRaytracer()
	if err != nil {
		return fmt.Errorf("scene %s: %w", s.Name, err)
	}
	camera := rt.Camera()

	logger.Printf("Rendering %s: %dx%d, %d samples/pixel, depth %d, seed %d, %d shapes\n",
		s.Name, camera.Width(), camera.Height(), s.CameraConfig.SamplesPerPixel,
		s.CameraConfig.MaxDepth, seed, s.GetPrimitiveCount())

	rt.SetLogger(logger)
	rt.SetProgress(renderer.NewProgressBar(progressOut, camera.Width()*camera.Height()))

	var img *image.RGBA
	if opts.workers == 1 {
		img, _ = rt.Render(core.NewSeededSampler(seed))
	} else {
		img, _, err = rt.RenderParallel(context.Background(), seed, opts.workers)
		if err != nil {
			return err
		}
	}
	logger.Printf("Average luminance: %.4f\n", renderer.CalculateAverageLuminance(img))

	if opts.output == "-" {
		return loaders.EncodePPM(stdout, img)
	}

	filename := opts.output
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = filepath.Join("output", s.Name, fmt.Sprintf("render_%s.ppm", timestamp))
	}
	if err := loaders.SaveImage(filename, img); err != nil {
		return fmt.Errorf("failed to save render: %w", err)
	}

	logger.Printf("Render saved as %s\n", filename)
	return nil
}
