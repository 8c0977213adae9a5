// Package stats samples process memory and CPU usage during long
// refinement and sampling runs and writes a small text report.
package stats

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/process"
)

// Point is a single sample of runtime stats.
type Point struct {
	Elapsed      time.Duration
	HeapAlloc    uint64
	ProcessRSS   uint64
	CPUPercent   float64
	NumGoroutine int
}

// Report summarizes a collection run.
type Report struct {
	Start    time.Time
	Duration time.Duration
	Samples  []Point

	PeakHeapAlloc  uint64
	PeakProcessRSS uint64
	PeakCPUPercent float64
}

// Collector periodically samples runtime statistics until stopped.
type Collector struct {
	mu       sync.Mutex
	report   Report
	interval time.Duration
	proc     *process.Process
	stop     chan struct{}
	done     chan struct{}
}

// NewCollector creates a collector sampling at the given interval.
func NewCollector(interval time.Duration) (*Collector, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to get process info: %w", err)
	}
	return &Collector{
		interval: interval,
		proc:     proc,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start begins sampling in a background goroutine.
func (c *Collector) Start() {
	c.report.Start = time.Now()
	go c.collect()
}

func (c *Collector) collect() {
	defer close(c.done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.sample()
	for {
		select {
		case <-c.stop:
			c.sample()
			return
		case <-ticker.C:
			c.sample()
		}
	}
}

func (c *Collector) sample() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	point := Point{
		Elapsed:      time.Since(c.report.Start),
		HeapAlloc:    memStats.HeapAlloc,
		NumGoroutine: runtime.NumGoroutine(),
	}
	if memInfo, err := c.proc.MemoryInfo(); err == nil && memInfo != nil {
		point.ProcessRSS = memInfo.RSS
	}
	if cpuPercent, err := c.proc.CPUPercent(); err == nil {
		point.CPUPercent = cpuPercent
	}

	c.mu.Lock()
	c.report.Samples = append(c.report.Samples, point)
	if point.HeapAlloc > c.report.PeakHeapAlloc {
		c.report.PeakHeapAlloc = point.HeapAlloc
	}
	if point.ProcessRSS > c.report.PeakProcessRSS {
		c.report.PeakProcessRSS = point.ProcessRSS
	}
	if point.CPUPercent > c.report.PeakCPUPercent {
		c.report.PeakCPUPercent = point.CPUPercent
	}
	c.mu.Unlock()
}

// Stop ends sampling and returns the report.
func (c *Collector) Stop() Report {
	close(c.stop)
	<-c.done

	c.mu.Lock()
	defer c.mu.Unlock()
	c.report.Duration = time.Since(c.report.Start)
	return c.report
}

// SaveToFile writes the report as a human-readable text file.
func (r *Report) SaveToFile(name string) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "started:   %s\n", r.Start.Format(time.RFC3339))
	fmt.Fprintf(&sb, "duration:  %s\n", r.Duration)
	fmt.Fprintf(&sb, "peak heap: %s\n", humanize.IBytes(r.PeakHeapAlloc))
	fmt.Fprintf(&sb, "peak rss:  %s\n", humanize.IBytes(r.PeakProcessRSS))
	fmt.Fprintf(&sb, "peak cpu:  %.1f%%\n", r.PeakCPUPercent)
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "%-12s %-12s %-12s %-8s %s\n", "elapsed(s)", "heap", "rss", "cpu%", "goroutines")
	for _, p := range r.Samples {
		fmt.Fprintf(&sb, "%-12.1f %-12s %-12s %-8.1f %d\n",
			p.Elapsed.Seconds(),
			humanize.IBytes(p.HeapAlloc),
			humanize.IBytes(p.ProcessRSS),
			p.CPUPercent,
			p.NumGoroutine)
	}

	if err := os.WriteFile(name, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write stats file: %w", err)
	}
	return nil
}
