// Command smoothcli replays a recorded sensor series through a smoothing
// filter, or characterizes a filter configuration.
//
// Usage:
//
//	smoothcli [flags] [series.csv]
//
// Replay mode reads "offset_seconds,value" lines from the given file (or
// stdin) and prints every emitted reading plus duration-weighted statistics
// of the raw and smoothed series. Fallback ticks are synthesized on the
// recorded timeline, so a replay behaves exactly like the live scheduler.
//
// Examples:
//
//	smoothcli -method ema -tau 30 series.csv
//	smoothcli -method time_sma -window 120 -tick 60 series.csv
//	smoothcli -method integrator -unit Ws -emit-every-tick=false series.csv
//	smoothcli -response -method lowpass -tau 30 -tick 1
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-smooth/filter"
	"github.com/cwbudde/algo-smooth/filter/method"
	"github.com/cwbudde/algo-smooth/measure/response"
	"github.com/cwbudde/algo-smooth/stats/series"
)

func main() {
	methodName := flag.String("method", "ema", "smoothing method: ema, lowpass, integrator, time_sma")
	tau := flag.Float64("tau", 30, "time constant in seconds (ema, lowpass)")
	window := flag.Float64("window", 60, "averaging window in seconds (time_sma)")
	tick := flag.Float64("tick", 30, "fallback tick interval in seconds")
	round := flag.Int("round", -1, "decimal places for emitted values, -1 disables rounding")
	unit := flag.String("unit", "", "unit attached to emitted readings")
	emitEveryTick := flag.Bool("emit-every-tick", true, "emit on fallback ticks, not only on changes")
	analyzeOnly := flag.Bool("response", false, "print the frequency and step response instead of replaying")
	fftSize := flag.Int("fft", 0, "analysis FFT size (power of two, 0 = default)")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: smoothcli [flags] [series.csv]\n\n")
		fmt.Fprintf(os.Stderr, "Replays \"offset_seconds,value\" lines through a smoothing filter,\n")
		fmt.Fprintf(os.Stderr, "or with -response prints the configured filter's characteristics.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  smoothcli -method ema -tau 30 series.csv\n")
		fmt.Fprintf(os.Stderr, "  smoothcli -method time_sma -window 120 -tick 60 series.csv\n")
		fmt.Fprintf(os.Stderr, "  smoothcli -response -method lowpass -tau 30 -tick 1\n")
	}
	flag.Parse()

	kind, err := method.ParseKind(*methodName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *analyzeOnly {
		if err := runResponse(kind, *tau, *window, *tick, *fftSize); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

		return
	}

	in := os.Stdin
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	points, err := parseSeries(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if len(points) == 0 {
		fmt.Fprintf(os.Stderr, "error: no readings\n")
		os.Exit(1)
	}

	cfg := filter.DefaultConfig()
	cfg.Method = kind
	cfg.TauSeconds = *tau
	cfg.WindowSeconds = *window
	cfg.TickSeconds = *tick
	cfg.EmitEveryTick = *emitEveryTick
	cfg.Round = *round
	cfg.Unit = *unit

	log := zap.NewNop()
	if *verbose {
		log, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = log.Sync() }()
	}

	emitted, err := replay(cfg, points, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	printReplay(points, emitted, *unit)
}

// parseSeries reads "offset_seconds,value" lines, skipping blanks and
// #-comments.
func parseSeries(r io.Reader) ([]series.Point, error) {
	base := time.Unix(0, 0).UTC()

	var points []series.Point

	sc := bufio.NewScanner(r)
	lineNo := 0

	for sc.Scan() {
		lineNo++

		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: want offset_seconds,value, got %q", lineNo, line)
		}

		offset, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad offset: %w", lineNo, err)
		}

		value, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad value: %w", lineNo, err)
		}

		points = append(points, series.Point{
			At:    base.Add(time.Duration(offset * float64(time.Second))),
			Value: value,
		})
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	return points, nil
}

// replay feeds the recorded series through an engine, synthesizing every
// fallback tick the live scheduler would have delivered between changes.
func replay(cfg filter.Config, points []series.Point, log *zap.Logger) ([]filter.Reading, error) {
	var emitted []filter.Reading

	eng, err := filter.New(cfg,
		filter.WithLogger(log),
		filter.WithEmitFunc(func(r filter.Reading) {
			emitted = append(emitted, r)
		}))
	if err != nil {
		return nil, err
	}

	tickInterval := cfg.TickInterval()

	eng.Seed(points[0].Value, points[0].At)
	deadline := points[0].At.Add(tickInterval)

	for _, p := range points[1:] {
		for deadline.Before(p.At) {
			eng.OnTick(deadline)
			deadline = deadline.Add(tickInterval)
		}

		eng.OnSourceChange(p.Value, p.At)
		deadline = p.At.Add(tickInterval)
	}

	return emitted, nil
}

func printReplay(points []series.Point, emitted []filter.Reading, unit string) {
	base := points[0].At

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Offset [s]\tEmitted\tUnit\n")
	fmt.Fprintf(tw, "----------\t-------\t----\n")

	for _, r := range emitted {
		fmt.Fprintf(tw, "%.1f\t%g\t%s\n", r.At.Sub(base).Seconds(), r.Value, r.Unit)
	}

	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
		return
	}

	smoothed := make([]series.Point, len(emitted))
	for i, r := range emitted {
		smoothed[i] = series.Point{At: r.At, Value: r.Value}
	}

	fmt.Println()
	printStats("raw", series.Calculate(points), unit)
	printStats("smoothed", series.Calculate(smoothed), unit)
}

func printStats(label string, s series.Stats, unit string) {
	suffix := ""
	if unit != "" {
		suffix = " " + unit
	}

	fmt.Printf("%s: n=%d span=%.1fs mean=%.4g%s min=%.4g max=%.4g stddev=%.4g\n",
		label, s.Count, s.Seconds, s.Mean, suffix, s.Min, s.Max, math.Sqrt(s.Variance))
}

func runResponse(kind method.Kind, tau, window, tick float64, fftSize int) error {
	res, err := response.Analyze(response.Config{
		Method:        kind,
		TauSeconds:    tau,
		WindowSeconds: window,
		TickSeconds:   tick,
		FFTSize:       fftSize,
	})
	if err != nil {
		return err
	}

	fmt.Printf("method: %s\n", kind)
	fmt.Printf("tick: %g s (Nyquist %.4g Hz)\n", res.TickSeconds, 0.5/res.TickSeconds)

	if res.CutoffHz > 0 {
		fmt.Printf("cutoff (-3 dB): %.4g Hz (period %.4g s)\n", res.CutoffHz, 1/res.CutoffHz)
	} else {
		fmt.Printf("cutoff (-3 dB): none within the analyzed band\n")
	}

	if res.SettlingSeconds > 0 {
		fmt.Printf("step settling (1%%): %g s\n", res.SettlingSeconds)
	} else {
		fmt.Printf("step settling (1%%): did not settle\n")
	}

	fmt.Println()

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Frequency [Hz]\tGain\tGain [dB]\n")
	fmt.Fprintf(tw, "--------------\t----\t---------\n")

	// A dozen evenly spaced rows give the shape without dumping every bin.
	step := (len(res.Frequencies) - 1) / 12
	if step < 1 {
		step = 1
	}

	for i := 0; i < len(res.Frequencies); i += step {
		fmt.Fprintf(tw, "%.6g\t%.4g\t%.2f\n",
			res.Frequencies[i], res.Magnitude[i], db(res.Magnitude[i]))
	}

	return tw.Flush()
}

func db(gain float64) float64 {
	if gain <= 0 {
		return -200
	}

	return 20 * math.Log10(gain)
}
