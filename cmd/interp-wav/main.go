// Command interp-wav resamples WAV audio by loading every frame into a
// numeric list and interpolating it at a new sample rate.
//
// Usage:
//
//	interp-wav -rate 48 input.wav output.wav
//	interp-wav -rate 22.05 -order parabolic input.wav output.wav
//	interp-wav -sg-window 9 -sg-degree 2 noisy.wav smooth.wav    # Savitzky-Golay pass first
//	interp-wav -dump list.txt input.wav output.wav               # Also write the list text
//
// Interpolation is polynomial, so downsampling runs a Kaiser-windowed
// lowpass over each channel first unless -antialias=false.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	interp "github.com/tphakala/go-curve-interp"
)

const (
	// Sample format constants
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	// Full-scale values
	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	// WAV audio format tag for integer PCM
	wavFormatPCM = 1

	// Conversion constants
	kHzToHz    = 1000
	frameSlack = 1e-9 // absorbs rounding in span*rate

	// Anti-alias prefilter design
	antiAliasAttenuation = 80.0 // stopband attenuation in dB
	antiAliasPassband    = 0.9  // passband edge as a fraction of the output Nyquist

	// CLI defaults
	defaultRateKHz  = 48.0
	defaultOrder    = "Cubic"
	defaultSGDegree = 2
	minRequiredArgs = 2
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	rateKHz := flag.Float64("rate", defaultRateKHz, "Target sample rate in kHz (e.g., 16, 44.1, 48)")
	order := flag.String("order", defaultOrder, "Interpolation order: step, linear, parabolic, cubic, cubicstep")
	avgWindow := flag.Int("avg-window", 0, "Moving-average window in frames (0 disables)")
	sgWindow := flag.Int("sg-window", 0, "Savitzky-Golay window in frames (0 disables)")
	sgDegree := flag.Int("sg-degree", defaultSGDegree, "Savitzky-Golay polynomial degree")
	antiAlias := flag.Bool("antialias", true, "Low-pass filter before downsampling")
	dump := flag.String("dump", "", "Write the smoothed list in text format to this file")
	verbose := flag.Bool("v", false, "Verbose output")
	cpuprofile := flag.String("cpuprofile", "", "Write CPU profile to file")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -rate 48 input.wav output.wav                 # Cubic to 48kHz\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -order linear -rate 8 speech.wav speech8k.wav # Linear to 8kHz\n", os.Args[0])
		return fmt.Errorf("insufficient arguments")
	}

	parsedOrder, err := interp.ParseOrder(*order)
	if err != nil {
		return err
	}
	if parsedOrder.IsSpherical() {
		return fmt.Errorf("order %s needs pose data, audio channels are plain vectors", parsedOrder)
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	cfg := interpConfig{
		inputPath:  args[0],
		outputPath: args[1],
		dumpPath:   *dump,
		targetRate: int(*rateKHz * kHzToHz),
		in:         interp.Interpolation{Order: parsedOrder, ExtendData: true},
		avgWindow:  *avgWindow,
		sgWindow:   *sgWindow,
		sgDegree:   *sgDegree,
		antiAlias:  *antiAlias,
		verbose:    *verbose,
	}
	if cfg.verbose {
		log.Printf("Input: %s", cfg.inputPath)
		log.Printf("Output: %s", cfg.outputPath)
		log.Printf("Target rate: %d Hz", cfg.targetRate)
		log.Printf("Interpolation: %s", cfg.in)
	}

	start := time.Now()
	stats, err := interpolateWAV(&cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Interpolated %s -> %s\n", filepath.Base(cfg.inputPath), filepath.Base(cfg.outputPath))
	fmt.Print(stats.summary(time.Since(start)))
	return nil
}

// interpConfig carries the parsed command line.
type interpConfig struct {
	inputPath  string
	outputPath string
	dumpPath   string
	targetRate int
	in         interp.Interpolation
	avgWindow  int
	sgWindow   int
	sgDegree   int
	antiAlias  bool
	verbose    bool
}

func interpolateWAV(cfg *interpConfig) (*interpStats, error) {
	if cfg.targetRate <= 0 {
		return nil, fmt.Errorf("invalid target rate %d Hz", cfg.targetRate)
	}

	input, err := openWAVInput(cfg.inputPath, cfg.verbose)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	var taps []float64
	if cfg.antiAlias {
		if taps, err = antiAliasTaps(input.rate, cfg.targetRate, cfg.verbose); err != nil {
			return nil, err
		}
	}

	list, err := input.readList(cfg.in, taps)
	if err != nil {
		return nil, err
	}
	if list.IsEmpty() {
		return nil, fmt.Errorf("no audio frames in %s", cfg.inputPath)
	}
	if cfg.verbose {
		lo, hi := list.MinMax()
		log.Printf("Loaded %d frames, range [%.4f, %.4f]", list.NumKnots(), lo, hi)
	}

	if err := smoothList(list, cfg.avgWindow, cfg.sgWindow, cfg.sgDegree, cfg.verbose); err != nil {
		return nil, err
	}
	if cfg.dumpPath != "" {
		if err := dumpList(cfg.dumpPath, list); err != nil {
			return nil, err
		}
	}

	data := resampleList(list, cfg.targetRate, input.bitDepth)
	if err := writeWAV(cfg.outputPath, data, cfg.targetRate, input.bitDepth, input.channels); err != nil {
		return nil, err
	}

	stats := &interpStats{
		inputRate:     input.rate,
		outputRate:    cfg.targetRate,
		channels:      input.channels,
		bitDepth:      input.bitDepth,
		inputFrames:   list.NumKnots(),
		outputFrames:  len(data) / input.channels,
		audioDuration: input.duration,
		order:         cfg.in.Order,
	}
	if fi, err := os.Stat(cfg.outputPath); err == nil {
		stats.outputBytes = fi.Size()
	}
	return stats, nil
}
