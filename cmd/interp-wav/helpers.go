package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hako/durafmt"

	interp "github.com/tphakala/go-curve-interp"
	"github.com/tphakala/go-curve-interp/internal/filter"
)

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file     *os.File
	decoder  *wav.Decoder
	rate     int
	channels int
	bitDepth int
	duration time.Duration
}

// openWAVInput opens and validates a WAV file, returning format information.
func openWAVInput(path string, verbose bool) (*wavInputInfo, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	bitDepth := int(decoder.BitDepth)
	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit", format.SampleRate, format.NumChannels, bitDepth)
	}

	duration, err := decoder.Duration()
	if err != nil {
		duration = 0
	}

	return &wavInputInfo{
		file:     inputFile,
		decoder:  decoder,
		rate:     format.SampleRate,
		channels: format.NumChannels,
		bitDepth: bitDepth,
		duration: duration,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// readList decodes every frame into a numeric list with one knot per frame
// at t = frame/rate seconds. Samples are normalized to [-1, 1]. A non-nil
// taps kernel band-limits each channel first.
func (w *wavInputInfo) readList(in interp.Interpolation, taps []float64) (*interp.NumericList, error) {
	buf, err := w.decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}
	if w.channels < 1 {
		return nil, fmt.Errorf("invalid channel count %d", w.channels)
	}
	chans := deinterleave(buf.Data, w.channels, w.bitDepth)
	if taps != nil {
		filterChannels(chans, taps)
	}
	return listFromChannels(chans, w.rate, in)
}

// deinterleave splits interleaved integer samples into normalized channels.
func deinterleave(data []int, channels, bitDepth int) [][]float64 {
	invMax := 1.0 / maxValue(bitDepth)
	frames := len(data) / channels
	chans := make([][]float64, channels)
	for ch := range chans {
		chans[ch] = make([]float64, frames)
		for i := range frames {
			chans[ch][i] = float64(data[i*channels+ch]) * invMax
		}
	}
	return chans
}

// filterChannels applies the kernel to every channel, one goroutine each.
func filterChannels(chans [][]float64, taps []float64) {
	var wg sync.WaitGroup
	for ch := range chans {
		wg.Add(1)
		go func(channel int) {
			defer wg.Done()
			chans[channel] = filter.Apply(chans[channel], taps)
		}(ch)
	}
	wg.Wait()
}

// listFromChannels builds a list with one knot per frame.
func listFromChannels(chans [][]float64, rate int, in interp.Interpolation) (*interp.NumericList, error) {
	if len(chans) == 0 || rate <= 0 {
		return nil, fmt.Errorf("invalid format: %d channels at %d Hz", len(chans), rate)
	}
	list, err := interp.NewNumericListShape(len(chans), interp.ShapePlain)
	if err != nil {
		return nil, err
	}
	if err := list.SetInterpolation(in); err != nil {
		return nil, err
	}

	vals := make([]float64, len(chans))
	for i := range chans[0] {
		for ch := range chans {
			vals[ch] = chans[ch][i]
		}
		if _, err := list.Add(float64(i)/float64(rate), vals...); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return list, nil
}

// antiAliasTaps designs the prefilter for downsampling, or returns nil.
func antiAliasTaps(inRate, outRate int, verbose bool) ([]float64, error) {
	taps, err := filter.AntiAlias(float64(inRate), float64(outRate), antiAliasAttenuation, antiAliasPassband)
	if err != nil {
		return nil, fmt.Errorf("failed to design anti-alias filter: %w", err)
	}
	if verbose && taps != nil {
		log.Printf("Anti-alias filter: %d taps", len(taps))
	}
	return taps, nil
}

// smoothList applies the requested smoothing passes in place.
func smoothList(list *interp.NumericList, avgWindow, sgWindow, sgDegree int, verbose bool) error {
	if avgWindow > 0 {
		if verbose {
			log.Printf("Moving average: %d knots", avgWindow)
		}
		list.ApplyMovingAverageSmoothing(avgWindow)
	}
	if sgWindow > 0 {
		if verbose {
			log.Printf("Savitzky-Golay: %d knots, degree %d", sgWindow, sgDegree)
		}
		if err := list.ApplySavitzkyGolaySmoothing(sgWindow, sgDegree); err != nil {
			return fmt.Errorf("smoothing failed: %w", err)
		}
	}
	return nil
}

// resampleList interpolates the list at targetRate over its time span and
// returns interleaved samples scaled to bitDepth.
func resampleList(list *interp.NumericList, targetRate, bitDepth int) []int {
	last := list.Last()
	if last == nil {
		return nil
	}
	span := last.T() - list.First().T()
	n := int(math.Floor(span*float64(targetRate)+frameSlack)) + 1
	rows := interp.SampleList(list, list.First().T(), list.First().T()+float64(n-1)/float64(targetRate), n)
	return interleave(rows, maxValue(bitDepth))
}

// interleave converts sample rows in [-1, 1] to clamped integer samples.
func interleave(rows [][]float64, maxVal float64) []int {
	if len(rows) == 0 {
		return nil
	}
	channels := len(rows[0])
	out := make([]int, len(rows)*channels)
	for i, row := range rows {
		for ch, v := range row {
			out[i*channels+ch] = int(max(-1, min(1, v)) * maxVal)
		}
	}
	return out
}

// writeWAV encodes interleaved samples to path.
func writeWAV(path string, data []int, rate, bitDepth, channels int) (err error) {
	outputFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := outputFile.Close(); err == nil {
			err = closeErr
		}
	}()

	enc := wav.NewEncoder(outputFile, rate, bitDepth, channels, wavFormatPCM)
	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}
	return nil
}

// dumpList writes the list text format to path.
func dumpList(path string, list *interp.NumericList) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dump file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	return list.Write(f, interp.DefaultFormat)
}

// maxValue returns the full-scale integer value for a PCM bit depth.
func maxValue(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}

// interpStats summarizes one conversion.
type interpStats struct {
	inputRate     int
	outputRate    int
	channels      int
	bitDepth      int
	inputFrames   int
	outputFrames  int
	outputBytes   int64
	audioDuration time.Duration
	order         interp.Order
}

// summary formats the stats for the final report.
func (s *interpStats) summary(elapsed time.Duration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %d Hz -> %d Hz (%d channels, %d-bit, %s)\n",
		s.inputRate, s.outputRate, s.channels, s.bitDepth, s.order)
	fmt.Fprintf(&b, "  %d frames -> %d frames, %s written\n",
		s.inputFrames, s.outputFrames, humanize.Bytes(uint64(s.outputBytes)))
	fmt.Fprintf(&b, "  Audio: %s, elapsed: %s\n",
		durafmt.Parse(s.audioDuration).LimitFirstN(2).Format(shortUnits),
		durafmt.Parse(elapsed).LimitFirstN(2).Format(shortUnits))
	return b.String()
}
