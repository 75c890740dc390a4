package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image/color"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var log = logrus.New()

// BenchmarkResult mirrors the fields of cmd/bench output the graphs need.
type BenchmarkResult struct {
	Implementation      string  `json:"implementation"`
	BurstSize           int     `json:"burst_size"`
	InitialCapacity     int     `json:"initial_capacity"`
	NumMessagesConsumed int64   `json:"num_messages_consumed"`
	NsPerOp             float64 `json:"ns_per_op"`
}

// FullReport represents a complete test session.
type FullReport struct {
	SessionTime string            `json:"session_time"`
	Benchmarks  []BenchmarkResult `json:"benchmarks"`
}

// burstStats holds "5%-avg-min", median, and "5%-avg-max" for one burst size.
type burstStats struct {
	x      float64 // category index plus offset
	orig   float64 // burst size
	min    float64 // "average of bottom 5%"
	median float64
	max    float64 // "average of top 5%"
}

// statsPoints implements XYer and YErrorer so we can plot lines + error bars.
type statsPoints []burstStats

func (s statsPoints) Len() int                { return len(s) }
func (s statsPoints) XY(i int) (x, y float64) { return s[i].x, s[i].median }
func (s statsPoints) YError(i int) (low, high float64) {
	return s[i].median - s[i].min, s[i].max - s[i].median
}

// categoryTicks implements a categorical X-axis: 0,1,2,... => burst labels.
type categoryTicks struct {
	positions []float64
	labels    []string
}

func (ct categoryTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for i, pos := range ct.positions {
		if pos >= min && pos <= max {
			ticks = append(ticks, plot.Tick{Value: pos, Label: ct.labels[i]})
		}
	}
	return ticks
}

// groupByCapacity returns initial capacity -> implementation -> burst size -> ns/op samples.
func groupByCapacity(sessions []FullReport) map[int]map[string]map[float64][]float64 {
	out := make(map[int]map[string]map[float64][]float64)
	for _, session := range sessions {
		for _, b := range session.Benchmarks {
			if b.NumMessagesConsumed == 0 || b.NsPerOp <= 0 {
				continue
			}
			implMap, ok := out[b.InitialCapacity]
			if !ok {
				implMap = make(map[string]map[float64][]float64)
				out[b.InitialCapacity] = implMap
			}
			if _, ok := implMap[b.Implementation]; !ok {
				implMap[b.Implementation] = make(map[float64][]float64)
			}
			x := float64(b.BurstSize)
			implMap[b.Implementation][x] = append(implMap[b.Implementation][x], b.NsPerOp)
		}
	}
	return out
}

func logTicks(min, max float64) []plot.Tick {
	const nTicks = 20.0
	if min <= 0 {
		min = 1e-3
	}
	start := math.Log10(min)
	step := (math.Log10(max) - start) / nTicks

	var ticks []plot.Tick
	for i := 0.0; i <= nTicks; i++ {
		y := math.Pow(10, start+i*step)
		ticks = append(ticks, plot.Tick{Value: y, Label: formatNs(y)})
	}
	return ticks
}

func buildPlot(capacity int, implMap map[string]map[float64][]float64) *plot.Plot {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("ns/op (5%%-avg-min / Median / 5%%-avg-max) vs. burst size, initial capacity %d", capacity)
	p.X.Label.Text = "Burst size (elements enqueued before draining)"
	p.Y.Label.Text = "Time per enqueue+dequeue [log scale]"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.TickerFunc(logTicks)

	// Dark theme.
	p.BackgroundColor = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	p.Title.TextStyle.Color = white
	p.X.Label.TextStyle.Color = white
	p.Y.Label.TextStyle.Color = white
	p.X.Color = white
	p.Y.Color = white
	p.X.Tick.Label.Color = white
	p.Y.Tick.Label.Color = white
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.TextStyle.Color = white

	p.Add(plotter.NewGrid())

	burstSet := make(map[float64]struct{})
	for _, implData := range implMap {
		for burst := range implData {
			burstSet[burst] = struct{}{}
		}
	}
	var burstValues []float64
	for val := range burstSet {
		burstValues = append(burstValues, val)
	}
	sort.Float64s(burstValues)

	burstMapping := make(map[float64]float64)
	var positions []float64
	var labels []string
	for i, val := range burstValues {
		burstMapping[val] = float64(i)
		positions = append(positions, float64(i))
		labels = append(labels, strconv.FormatFloat(val, 'f', -1, 64))
	}
	p.X.Tick.Marker = categoryTicks{positions: positions, labels: labels}

	var implNames []string
	for implName := range implMap {
		implNames = append(implNames, implName)
	}
	sort.Strings(implNames)

	colors := plotutil.SoftColors
	shapes := []draw.GlyphDrawer{
		draw.CircleGlyph{},
		draw.SquareGlyph{},
		draw.TriangleGlyph{},
		draw.CrossGlyph{},
		draw.PlusGlyph{},
	}

	// Slight offset so each implementation is visually separated.
	offsetRange := 0.4
	offsetStep := offsetRange / float64(len(implNames))
	startOffset := -offsetRange/2 + offsetStep/2

	for i, impl := range implNames {
		stats := buildStats(implMap[impl])
		if len(stats) == 0 {
			continue
		}
		for j := range stats {
			stats[j].x = burstMapping[stats[j].orig] + startOffset + float64(i)*offsetStep
		}
		sp := statsPoints(stats)

		line, err := plotter.NewLine(sp)
		if err != nil {
			log.WithError(err).WithField("implementation", impl).Warn("creating line")
			continue
		}
		line.Color = colors[i%len(colors)]

		points, err := plotter.NewScatter(sp)
		if err != nil {
			log.WithError(err).WithField("implementation", impl).Warn("creating scatter")
			continue
		}
		points.GlyphStyle.Radius = vg.Points(5)
		points.Color = colors[i%len(colors)]
		points.Shape = shapes[i%len(shapes)]

		yErrBars, err := plotter.NewYErrorBars(sp)
		if err != nil {
			log.WithError(err).WithField("implementation", impl).Warn("creating error bars")
			continue
		}
		yErrBars.Color = colors[i%len(colors)]

		p.Add(line, points, yErrBars)
		p.Legend.Add(impl, line, points)
	}
	return p
}

func readSessions(jsonFile string) ([]FullReport, error) {
	data, err := os.ReadFile(jsonFile)
	if err != nil {
		return nil, errors.Wrap(err, "reading JSON file")
	}
	var sessions []FullReport
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, errors.Wrap(err, "unmarshalling JSON")
	}
	return sessions, nil
}

func main() {
	jsonFile := flag.String("jsonfile", "test-results.json", "Path to JSON file containing test sessions")
	outputPrefix := flag.String("out", "benchmark_graph", "Output graph image filename prefix")
	flag.Parse()

	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	sessions, err := readSessions(*jsonFile)
	if err != nil {
		log.WithError(err).Fatal("loading sessions")
	}

	for capacity, implMap := range groupByCapacity(sessions) {
		p := buildPlot(capacity, implMap)
		filename := fmt.Sprintf("%s_cap%d.png", *outputPrefix, capacity)
		if err := p.Save(12*vg.Inch, 9*vg.Inch, filename); err != nil {
			log.WithError(err).WithField("capacity", capacity).Error("saving plot")
			continue
		}
		log.WithField("file", filename).Info("graph saved")
	}
}

// buildStats computes "average of bottom 5%", median, and "average of top 5%"
// per burst size, ordered by burst size.
func buildStats(burstMap map[float64][]float64) []burstStats {
	var out []burstStats
	for x, vals := range burstMap {
		if len(vals) == 0 {
			continue
		}
		sort.Float64s(vals)
		out = append(out, burstStats{
			x:      x,
			orig:   x,
			min:    averageOfRange(vals, 0.0, 0.05),
			median: median(vals),
			max:    averageOfRange(vals, 0.95, 1.0),
		})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].orig < out[b].orig })
	return out
}

// averageOfRange returns the average of sortedVals in [startFrac, endFrac] of its length.
// E.g. averageOfRange(vals, 0, 0.05) is the average of the bottom 5%.
func averageOfRange(sortedVals []float64, startFrac, endFrac float64) float64 {
	n := len(sortedVals)
	if n == 0 {
		return 0
	}
	startIndex := max(int(float64(n)*startFrac), 0)
	endIndex := min(int(float64(n)*endFrac), n)
	if startIndex >= endIndex {
		// fallback to median if 5% slice is too small
		return median(sortedVals)
	}
	sum := 0.0
	for i := startIndex; i < endIndex; i++ {
		sum += sortedVals[i]
	}
	return sum / float64(endIndex-startIndex)
}

func median(sorted []float64) float64 {
	n := len(sorted)
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return 0.5 * (sorted[mid-1] + sorted[mid])
}

// formatNs nicely formats a nanoseconds value in ns, µs, ms, or s.
func formatNs(ns float64) string {
	switch {
	case ns < 1:
		return fmt.Sprintf("%.2fns", ns)
	case ns < 1e3:
		return fmt.Sprintf("%.0fns", ns)
	case ns < 1e6:
		return fmt.Sprintf("%.1fµs", ns/1e3)
	case ns < 1e9:
		return fmt.Sprintf("%.1fms", ns/1e6)
	default:
		return fmt.Sprintf("%.2fs", ns/1e9)
	}
}
