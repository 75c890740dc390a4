package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"github.com/i5heu/GoRingQueue/internal/testbench"
	"github.com/i5heu/GoRingQueue/pkg/config"
)

var log = logrus.New()

// parseBursts turns "1,16,256" into burst sizes.
func parseBursts(s string) ([]int, error) {
	var out []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, errors.Wrapf(err, "burst size %q", field)
		}
		if n < 1 {
			return nil, errors.Errorf("burst size must be positive, got %d", n)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, errors.New("no burst sizes given")
	}
	return out, nil
}

func main() {
	// Flags.
	testIterations := flag.Int("iter", 5, "Number of test iterations per burst size")
	testDuration := flag.Duration("duration", time.Second, "Duration of a single measurement")
	burstsFlag := flag.String("bursts", "1,16,256,4096,65536", "Comma separated burst sizes (elements enqueued before draining)")
	initialCapacity := flag.Int("capacity", 4, "Initial capacity handed to every queue")
	jsonExport := flag.Bool("json", false, "Append results as JSON to -jsonfile")
	markdownTable := flag.Bool("markdown-table", false, "Output markdown table from -jsonfile and exit")
	jsonFile := flag.String("jsonfile", "test-results.json", "Path to the JSON results file")
	progressFlag := flag.Bool("progress", false, "Display a progress bar with ETA")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stderr)
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		log.WithError(err).Fatal("invalid -log-level")
	}
	log.SetLevel(level)

	if *markdownTable {
		if err := writeMarkdownTable(os.Stdout, *jsonFile); err != nil {
			log.WithError(err).Fatal("markdown table failed")
		}
		return
	}

	bursts, err := parseBursts(*burstsFlag)
	if err != nil {
		log.WithError(err).Fatal("invalid -bursts")
	}

	var configs []config.Config
	for _, b := range bursts {
		configs = append(configs, config.Config{BurstSize: b, InitialCapacity: *initialCapacity})
	}

	impls := getImplementations()
	totalTests := len(configs) * (*testIterations) * len(impls)

	var bar *progressbar.ProgressBar
	if *progressFlag {
		bar = progressbar.NewOptions(totalTests,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("benchmarking"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionClearOnFinish(),
		)
	}

	sysInfo := gatherSystemInfo()
	log.WithFields(logrus.Fields{
		"cpu":     sysInfo.CPUModel,
		"num_cpu": sysInfo.NumCPU,
		"tests":   totalTests,
	}).Info("starting benchmark session")

	ctx := context.Background()
	var results []BenchmarkResult

	for _, cfg := range configs {
		fmt.Printf("  [Burst: %d, initial capacity: %d]\n", cfg.BurstSize, cfg.InitialCapacity)
		for iteration := 1; iteration <= *testIterations; iteration++ {
			for _, impl := range impls {
				runtime.GC()
				q, err := impl.newQueue(cfg.InitialCapacity)
				if err != nil {
					log.WithError(err).WithField("implementation", impl.name).Fatal("creating queue")
				}

				res := testbench.RunTimedTest(ctx, q, cfg, *testDuration, func(i int) *int {
					v := i
					return &v
				})
				throughput := float64(res.Consumed) / res.Elapsed.Seconds()

				entry := log.WithFields(logrus.Fields{
					"implementation": impl.name,
					"burst":          cfg.BurstSize,
					"iteration":      iteration,
				})
				if res.Failed > 0 || res.Produced != res.Consumed {
					entry.WithFields(logrus.Fields{
						"produced": res.Produced,
						"consumed": res.Consumed,
						"failed":   res.Failed,
					}).Warn("queue lost or rejected elements")
				}
				entry.Debugf("ns/op=%.1f", res.NsPerOp())

				if bar != nil {
					_ = bar.Add(1)
				} else {
					fmt.Printf("    %s => produced=%d, consumed=%d, %.1f ns/op, throughput=%.0f msg/s, took=%v\n",
						impl.name, res.Produced, res.Consumed, res.NsPerOp(), throughput, res.Elapsed)
				}

				results = append(results, BenchmarkResult{
					Implementation:      impl.name,
					BurstSize:           cfg.BurstSize,
					InitialCapacity:     cfg.InitialCapacity,
					NumMessages:         res.Produced,
					NumMessagesConsumed: res.Consumed,
					NumFailed:           res.Failed,
					TestDuration:        testDuration.String(),
					ActualElapsed:       res.Elapsed.String(),
					NsPerOp:             res.NsPerOp(),
					Throughput:          throughput,
					Timestamp:           time.Now().Unix(),
					GoVersion:           runtime.Version(),
				})
			}
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}

	if *jsonExport {
		session := FullReport{
			SessionTime: time.Now().Format(time.RFC3339),
			SystemInfo:  sysInfo,
			Benchmarks:  results,
		}
		if err := appendReports(*jsonFile, []FullReport{session}); err != nil {
			log.WithError(err).Fatal("exporting results")
		}
		log.WithField("file", *jsonFile).Info("wrote results")
	}
}
