package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"
	"runtime/debug"
	"runtime/metrics"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	rerr "github.com/reago-dev/reago/internal/errors"
	"github.com/reago-dev/reago/pkg/reactive"
)

type benchProfile struct {
	Name     string
	Objects  int
	Keys     int
	Effects  int
	Computed int
	Duration time.Duration
}

var benchProfiles = map[string]benchProfile{
	"fast": {
		Name:     "fast",
		Objects:  100,
		Keys:     10,
		Effects:  100,
		Computed: 20,
		Duration: 3 * time.Second,
	},
	"standard": {
		Name:     "standard",
		Objects:  1000,
		Keys:     10,
		Effects:  1000,
		Computed: 100,
		Duration: 10 * time.Second,
	},
	"stress": {
		Name:     "stress",
		Objects:  5000,
		Keys:     20,
		Effects:  5000,
		Computed: 500,
		Duration: 30 * time.Second,
	},
}

type benchConfig struct {
	Profile    string
	Objects    int
	Keys       int
	Effects    int
	Computed   int
	Duration   time.Duration
	JSONOutput string
}

func benchCmd() *cobra.Command {
	var (
		profileFlag  string
		objectsFlag  int
		keysFlag     int
		effectsFlag  int
		computedFlag int
		durationFlag string
		jsonFlag     string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run the in-process engine benchmark",
		Long: `Build a reactive dependency graph, drive writes through it for a
fixed duration, and report propagation latency percentiles, engine
counters, and Go GC statistics as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveBenchConfig(profileFlag, objectsFlag, keysFlag,
				effectsFlag, computedFlag, durationFlag, jsonFlag)
			if err != nil {
				return err
			}
			return runBench(cfg)
		},
	}

	cmd.Flags().StringVar(&profileFlag, "profile", "standard", "profile: fast|standard|stress")
	cmd.Flags().IntVar(&objectsFlag, "objects", -1, "number of observed records")
	cmd.Flags().IntVar(&keysFlag, "keys", -1, "keys per record")
	cmd.Flags().IntVar(&effectsFlag, "effects", -1, "number of subscribed effects")
	cmd.Flags().IntVar(&computedFlag, "computed", -1, "number of computed values")
	cmd.Flags().StringVar(&durationFlag, "duration", "", "benchmark duration, e.g. 10s")
	cmd.Flags().StringVar(&jsonFlag, "json", "-", "JSON output path ('-' for stdout)")

	return cmd
}

func resolveBenchConfig(profileName string, objects, keys, effects, computed int, duration, jsonOut string) (benchConfig, error) {
	name := strings.ToLower(strings.TrimSpace(profileName))
	if name == "" {
		name = "standard"
	}
	base, ok := benchProfiles[name]
	if !ok {
		return benchConfig{}, rerr.New("C001").WithDetailf("unknown profile %q", profileName)
	}

	cfg := benchConfig{
		Profile:    base.Name,
		Objects:    base.Objects,
		Keys:       base.Keys,
		Effects:    base.Effects,
		Computed:   base.Computed,
		Duration:   base.Duration,
		JSONOutput: strings.TrimSpace(jsonOut),
	}

	if objects != -1 {
		cfg.Objects = objects
	}
	if keys != -1 {
		cfg.Keys = keys
	}
	if effects != -1 {
		cfg.Effects = effects
	}
	if computed != -1 {
		cfg.Computed = computed
	}
	if duration != "" {
		d, err := time.ParseDuration(duration)
		if err != nil {
			return benchConfig{}, rerr.New("C001").WithDetailf("invalid --duration: %v", err)
		}
		cfg.Duration = d
	}
	if cfg.JSONOutput == "" {
		cfg.JSONOutput = "-"
	}

	if cfg.Objects <= 0 {
		return benchConfig{}, rerr.New("C001").WithDetail("--objects must be > 0")
	}
	if cfg.Keys <= 0 {
		return benchConfig{}, rerr.New("C001").WithDetail("--keys must be > 0")
	}
	if cfg.Effects <= 0 {
		return benchConfig{}, rerr.New("C001").WithDetail("--effects must be > 0")
	}
	if cfg.Computed < 0 {
		return benchConfig{}, rerr.New("C001").WithDetail("--computed must be >= 0")
	}
	if cfg.Duration <= 0 {
		return benchConfig{}, rerr.New("C001").WithDetail("--duration must be > 0")
	}
	return cfg, nil
}

// benchGraph is the dependency graph the benchmark drives: a pool of
// observed records, effects summing one record each, and a computed
// chain folding the whole pool.
type benchGraph struct {
	rt      *reactive.Runtime
	objects []*reactive.ObjectView
	keys    []string
	chain   []*reactive.Computed[int]
}

func buildBenchGraph(cfg benchConfig) *benchGraph {
	rt := reactive.NewRuntime()

	keys := make([]string, cfg.Keys)
	for i := range keys {
		keys[i] = fmt.Sprintf("k%d", i)
	}

	objects := make([]*reactive.ObjectView, cfg.Objects)
	for i := range objects {
		raw := make(map[string]any, cfg.Keys)
		for _, k := range keys {
			raw[k] = 0
		}
		objects[i] = rt.Reactive(raw).(*reactive.ObjectView)
	}

	for i := 0; i < cfg.Effects; i++ {
		obj := objects[i%len(objects)]
		reactive.NewEffect(rt, func() any {
			sum := 0
			for _, k := range keys {
				sum += obj.Get(k).(int)
			}
			return sum
		})
	}

	chain := make([]*reactive.Computed[int], 0, cfg.Computed)
	for i := 0; i < cfg.Computed; i++ {
		obj := objects[i%len(objects)]
		key := keys[i%len(keys)]
		if i == 0 {
			chain = append(chain, reactive.NewComputed(rt, func() int {
				return obj.Get(key).(int)
			}))
			continue
		}
		prev := chain[i-1]
		chain = append(chain, reactive.NewComputed(rt, func() int {
			return prev.Get() + obj.Get(key).(int)
		}))
	}
	// Subscribe the end of the chain so invalidations propagate.
	if len(chain) > 0 {
		last := chain[len(chain)-1]
		reactive.NewEffect(rt, func() any {
			return last.Get()
		})
	}

	return &benchGraph{rt: rt, objects: objects, keys: keys, chain: chain}
}

func runBench(cfg benchConfig) error {
	debug.SetGCPercent(100)

	graph := buildBenchGraph(cfg)

	var before runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	beforeMetrics := readRuntimeMetrics()
	statsBefore := graph.rt.Stats()

	var samples []time.Duration
	writes := 0
	deadline := time.Now().Add(cfg.Duration)
	start := time.Now()

	for time.Now().Before(deadline) {
		obj := graph.objects[writes%len(graph.objects)]
		key := graph.keys[writes%len(graph.keys)]

		writeStart := time.Now()
		obj.Set(key, writes)
		samples = append(samples, time.Since(writeStart))
		writes++
	}
	elapsed := time.Since(start)

	var after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&after)
	afterMetrics := readRuntimeMetrics()
	statsAfter := graph.rt.Stats()

	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })

	report := buildBenchReport(cfg, elapsed, writes, samples,
		statsBefore, statsAfter, before, after, beforeMetrics, afterMetrics)

	writeBenchSummary(os.Stderr, report)
	return writeBenchJSON(cfg.JSONOutput, report)
}

type benchReport struct {
	Version    string         `json:"version"`
	Run        runInfo        `json:"run"`
	Workload   workloadInfo   `json:"workload"`
	LatencyUS  latencyInfo    `json:"latency_us"`
	Throughput throughputInfo `json:"throughput"`
	Engine     engineInfo     `json:"engine"`
	GC         gcInfo         `json:"gc"`
}

type runInfo struct {
	Timestamp string `json:"timestamp"`
	Go        string `json:"go"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	CPUCount  int    `json:"cpu_count"`
}

type workloadInfo struct {
	Profile    string `json:"profile"`
	Objects    int    `json:"objects"`
	Keys       int    `json:"keys"`
	Effects    int    `json:"effects"`
	Computed   int    `json:"computed"`
	DurationMS int64  `json:"duration_ms"`
}

type latencyInfo struct {
	Min float64 `json:"min"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
	Max float64 `json:"max"`
}

type throughputInfo struct {
	WritesTotal  int     `json:"writes_total"`
	WritesPerSec float64 `json:"writes_per_sec"`
}

type engineInfo struct {
	Tracks             uint64 `json:"tracks"`
	Triggers           uint64 `json:"triggers"`
	EffectRuns         uint64 `json:"effect_runs"`
	ComputedRecomputes uint64 `json:"computed_recomputes"`
	DepSets            uint64 `json:"dependency_sets"`
	ActiveEffects      uint64 `json:"active_effects"`
}

type gcInfo struct {
	AllocMB       float64 `json:"alloc_mb"`
	HeapLiveMB    float64 `json:"heap_live_mb"`
	NumGC         uint32  `json:"num_gc"`
	PauseTotalMS  float64 `json:"pause_total_ms"`
	GCCPUFraction float64 `json:"gc_cpu_fraction"`
	AllocsObjects uint64  `json:"allocs_objects"`
}

func buildBenchReport(
	cfg benchConfig,
	elapsed time.Duration,
	writes int,
	samples []time.Duration,
	statsBefore, statsAfter reactive.Stats,
	before, after runtime.MemStats,
	beforeMetrics, afterMetrics runtimeMetricsSnapshot,
) benchReport {
	elapsedSeconds := math.Max(0.001, elapsed.Seconds())

	latency := latencyInfo{}
	if len(samples) > 0 {
		latency = latencyInfo{
			Min: us(samples[0]),
			P50: us(percentile(samples, 0.50)),
			P95: us(percentile(samples, 0.95)),
			P99: us(percentile(samples, 0.99)),
			Max: us(samples[len(samples)-1]),
		}
	}

	return benchReport{
		Version: "1",
		Run: runInfo{
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			Go:        runtime.Version(),
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			CPUCount:  runtime.NumCPU(),
		},
		Workload: workloadInfo{
			Profile:    cfg.Profile,
			Objects:    cfg.Objects,
			Keys:       cfg.Keys,
			Effects:    cfg.Effects,
			Computed:   cfg.Computed,
			DurationMS: cfg.Duration.Milliseconds(),
		},
		LatencyUS: latency,
		Throughput: throughputInfo{
			WritesTotal:  writes,
			WritesPerSec: float64(writes) / elapsedSeconds,
		},
		Engine: engineInfo{
			Tracks:             statsAfter.Tracks - statsBefore.Tracks,
			Triggers:           statsAfter.Triggers - statsBefore.Triggers,
			EffectRuns:         statsAfter.EffectRuns - statsBefore.EffectRuns,
			ComputedRecomputes: statsAfter.ComputedRecomputes - statsBefore.ComputedRecomputes,
			DepSets:            statsAfter.DepSets,
			ActiveEffects:      statsAfter.ActiveEffects,
		},
		GC: gcInfo{
			AllocMB:       float64(after.TotalAlloc-before.TotalAlloc) / (1024 * 1024),
			HeapLiveMB:    float64(after.HeapAlloc) / (1024 * 1024),
			NumGC:         after.NumGC - before.NumGC,
			PauseTotalMS:  float64(after.PauseTotalNs-before.PauseTotalNs) / float64(time.Millisecond),
			GCCPUFraction: cpuFraction(afterMetrics, beforeMetrics),
			AllocsObjects: afterMetrics.heapAllocsObjects - beforeMetrics.heapAllocsObjects,
		},
	}
}

func writeBenchSummary(w io.Writer, report benchReport) {
	fmt.Fprintln(w, "=== Reago Engine Benchmark ===")
	fmt.Fprintf(w, "Profile: %s\n", report.Workload.Profile)
	fmt.Fprintf(w, "Objects: %d × %d keys\n", report.Workload.Objects, report.Workload.Keys)
	fmt.Fprintf(w, "Effects: %d\n", report.Workload.Effects)
	fmt.Fprintf(w, "Computed chain: %d\n", report.Workload.Computed)
	fmt.Fprintf(w, "Duration: %s\n", time.Duration(report.Workload.DurationMS)*time.Millisecond)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Total writes: %d\n", report.Throughput.WritesTotal)
	fmt.Fprintf(w, "Throughput: %.0f writes/s\n", report.Throughput.WritesPerSec)
	fmt.Fprintln(w)

	if report.LatencyUS.Max == 0 {
		fmt.Fprintln(w, "No latency samples recorded.")
	} else {
		fmt.Fprintln(w, "Write-to-settled latency (write + synchronous propagation):")
		fmt.Fprintf(w, "  min: %.2f µs\n", report.LatencyUS.Min)
		fmt.Fprintf(w, "  p50: %.2f µs\n", report.LatencyUS.P50)
		fmt.Fprintf(w, "  p95: %.2f µs\n", report.LatencyUS.P95)
		fmt.Fprintf(w, "  p99: %.2f µs\n", report.LatencyUS.P99)
		fmt.Fprintf(w, "  max: %.2f µs\n", report.LatencyUS.Max)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Engine counters (delta over the run):")
	fmt.Fprintf(w, "  tracks:     %d\n", report.Engine.Tracks)
	fmt.Fprintf(w, "  triggers:   %d\n", report.Engine.Triggers)
	fmt.Fprintf(w, "  effect_runs: %d\n", report.Engine.EffectRuns)
	fmt.Fprintf(w, "  recomputes: %d\n", report.Engine.ComputedRecomputes)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Go runtime / GC (process-wide):")
	fmt.Fprintf(w, "  alloc:     %.2f MB\n", report.GC.AllocMB)
	fmt.Fprintf(w, "  heap_live: %.2f MB\n", report.GC.HeapLiveMB)
	fmt.Fprintf(w, "  num_gc:    %d\n", report.GC.NumGC)
	fmt.Fprintf(w, "  gc_pause:  %.2f ms (total)\n", report.GC.PauseTotalMS)
	fmt.Fprintf(w, "  gc_cpu:    %.2f%%\n", report.GC.GCCPUFraction*100)
}

func writeBenchJSON(path string, report benchReport) error {
	var out io.Writer
	if path == "-" {
		out = os.Stdout
	} else {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

type runtimeMetricsSnapshot struct {
	cpuTotalSeconds float64
	cpuGCSeconds    float64

	heapAllocsBytes   uint64
	heapAllocsObjects uint64
}

func readRuntimeMetrics() runtimeMetricsSnapshot {
	samples := []metrics.Sample{
		{Name: "/cpu/classes/total:cpu-seconds"},
		{Name: "/cpu/classes/gc/total:cpu-seconds"},
		{Name: "/gc/heap/allocs:bytes"},
		{Name: "/gc/heap/allocs:objects"},
	}
	metrics.Read(samples)

	var out runtimeMetricsSnapshot
	for _, s := range samples {
		switch s.Name {
		case "/cpu/classes/total:cpu-seconds":
			out.cpuTotalSeconds = s.Value.Float64()
		case "/cpu/classes/gc/total:cpu-seconds":
			out.cpuGCSeconds = s.Value.Float64()
		case "/gc/heap/allocs:bytes":
			out.heapAllocsBytes = s.Value.Uint64()
		case "/gc/heap/allocs:objects":
			out.heapAllocsObjects = s.Value.Uint64()
		}
	}
	return out
}

func cpuFraction(after, before runtimeMetricsSnapshot) float64 {
	total := after.cpuTotalSeconds - before.cpuTotalSeconds
	if total <= 0 {
		return 0
	}
	gc := after.cpuGCSeconds - before.cpuGCSeconds
	if gc < 0 {
		return 0
	}
	return gc / total
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := int(math.Ceil(float64(len(sorted))*p)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func us(d time.Duration) float64 {
	return float64(d) / float64(time.Microsecond)
}
