package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// BenchmarkResult holds results for one test run.
type BenchmarkResult struct {
	Implementation      string  `json:"implementation"`
	BurstSize           int     `json:"burst_size"`
	InitialCapacity     int     `json:"initial_capacity"`
	NumMessages         int64   `json:"num_messages"`          // produced count
	NumMessagesConsumed int64   `json:"num_messages_consumed"` // consumed count
	NumFailed           int64   `json:"num_failed,omitempty"`
	TestDuration        string  `json:"test_duration"`  // e.g. "1s"
	ActualElapsed       string  `json:"actual_elapsed"` // measured time
	NsPerOp             float64 `json:"ns_per_op"`
	Throughput          float64 `json:"throughput_msgs_sec"` // based on consumed count
	Timestamp           int64   `json:"timestamp"`
	GoVersion           string  `json:"go_version"`
}

// SystemInfo holds system information.
type SystemInfo struct {
	NumCPU      int     `json:"num_cpu"`
	CPUModel    string  `json:"cpu_model,omitempty"`
	CPUSpeedMHz float64 `json:"cpu_speed_mhz,omitempty"`
	GOARCH      string  `json:"go_arch"`
	TotalMemory uint64  `json:"total_memory_bytes,omitempty"`
}

// FullReport represents a complete test session.
type FullReport struct {
	SessionTime string            `json:"session_time"`
	SystemInfo  SystemInfo        `json:"system_info"`
	Benchmarks  []BenchmarkResult `json:"benchmarks"`
}

// gatherSystemInfo collects basic CPU and memory details.
func gatherSystemInfo() SystemInfo {
	info := SystemInfo{
		NumCPU: runtime.NumCPU(),
		GOARCH: runtime.GOARCH,
	}

	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		info.CPUModel = infos[0].ModelName
		info.CPUSpeedMHz = infos[0].Mhz
	} else if err != nil {
		log.WithError(err).Debug("cpu info unavailable")
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		info.TotalMemory = vm.Total
	} else {
		log.WithError(err).Debug("memory info unavailable")
	}

	return info
}

func readReports(filename string) ([]FullReport, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", filename)
	}
	var sessions []FullReport
	if len(data) == 0 {
		return sessions, nil
	}
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, errors.Wrapf(err, "unmarshalling %q", filename)
	}
	return sessions, nil
}

// appendReports adds sessions to the JSON array stored in filename,
// creating the file when it does not exist yet.
func appendReports(filename string, sessions []FullReport) error {
	var previous []FullReport
	if _, err := os.Stat(filename); err == nil {
		if previous, err = readReports(filename); err != nil {
			return err
		}
	}
	updated := append(previous, sessions...)
	data, err := json.MarshalIndent(updated, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshalling results")
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return errors.Wrapf(err, "writing %q", filename)
	}
	return nil
}

// writeMarkdownTable renders the last session of jsonFile as a Markdown table,
// fastest first.
func writeMarkdownTable(w io.Writer, jsonFile string) error {
	sessions, err := readReports(jsonFile)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		return errors.Errorf("no sessions found in %q", jsonFile)
	}
	lastSession := sessions[len(sessions)-1]

	implMetaMap := make(map[string]Implementation)
	for _, impl := range getImplementations() {
		implMetaMap[impl.name] = impl
	}

	type tableRow struct {
		implementation string
		pkgName        string
		features       string
		burst          int
		nsPerOp        float64
		throughput     float64
	}
	var rows []tableRow
	for _, bench := range lastSession.Benchmarks {
		meta := implMetaMap[bench.Implementation]
		rows = append(rows, tableRow{
			implementation: bench.Implementation,
			pkgName:        meta.pkgName,
			features:       strings.Join(meta.features, ", "),
			burst:          bench.BurstSize,
			nsPerOp:        bench.NsPerOp,
			throughput:     bench.Throughput,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].burst != rows[j].burst {
			return rows[i].burst < rows[j].burst
		}
		return rows[i].throughput > rows[j].throughput
	})

	fmt.Fprintln(w, "## Last Session Benchmark Summary")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Implementation | Package         | Features                          | Burst | ns/op   | Throughput (msgs/sec) |")
	fmt.Fprintln(w, "|----------------|-----------------|-----------------------------------|-------|---------|-----------------------|")
	for _, r := range rows {
		fmt.Fprintf(w, "| %-14s | %-15s | %-33s | %5d | %7.1f | %21.0f |\n",
			r.implementation, r.pkgName, r.features, r.burst, r.nsPerOp, r.throughput)
	}
	return nil
}
