package metrics

import (
	"os"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/process"
)

// ProcessCollector публикует загрузку CPU и память процесса (gopsutil)
// и число горутин.
type ProcessCollector struct {
	proc       *process.Process
	cpuDesc    *prometheus.Desc
	rssDesc    *prometheus.Desc
	heapDesc   *prometheus.Desc
	goroutines *prometheus.Desc
}

// NewProcessCollector создаёт коллектор для текущего процесса
func NewProcessCollector() *ProcessCollector {
	proc, _ := process.NewProcess(int32(os.Getpid()))
	return &ProcessCollector{
		proc:       proc,
		cpuDesc:    prometheus.NewDesc(namespace+"_process_cpu_percent", "Загрузка CPU процессом, %.", nil, nil),
		rssDesc:    prometheus.NewDesc(namespace+"_process_rss_bytes", "Резидентная память процесса.", nil, nil),
		heapDesc:   prometheus.NewDesc(namespace+"_heap_alloc_bytes", "Выделено в куче Go.", nil, nil),
		goroutines: prometheus.NewDesc(namespace+"_goroutines", "Число горутин.", nil, nil),
	}
}

// Describe реализует prometheus.Collector
func (c *ProcessCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.cpuDesc
	ch <- c.rssDesc
	ch <- c.heapDesc
	ch <- c.goroutines
}

// Collect реализует prometheus.Collector. Недоступные значения пропускаются.
func (c *ProcessCollector) Collect(ch chan<- prometheus.Metric) {
	stats := Snapshot(c.proc)

	if stats.CPUPercent >= 0 {
		ch <- prometheus.MustNewConstMetric(c.cpuDesc, prometheus.GaugeValue, stats.CPUPercent)
	}
	if stats.RSSBytes > 0 {
		ch <- prometheus.MustNewConstMetric(c.rssDesc, prometheus.GaugeValue, float64(stats.RSSBytes))
	}
	ch <- prometheus.MustNewConstMetric(c.heapDesc, prometheus.GaugeValue, float64(stats.HeapAllocBytes))
	ch <- prometheus.MustNewConstMetric(c.goroutines, prometheus.GaugeValue, float64(stats.Goroutines))
}

// ProcessStats: снимок ресурсов процесса
type ProcessStats struct {
	CPUPercent     float64 // -1, если недоступно
	RSSBytes       uint64
	HeapAllocBytes uint64
	Goroutines     int
}

// Snapshot собирает статистику процесса; proc может быть nil
func Snapshot(proc *process.Process) ProcessStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := ProcessStats{
		CPUPercent:     -1,
		HeapAllocBytes: m.HeapAlloc,
		Goroutines:     runtime.NumGoroutine(),
	}

	if proc == nil {
		return stats
	}
	if cpu, err := proc.CPUPercent(); err == nil {
		stats.CPUPercent = cpu
	}
	if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
		stats.RSSBytes = mem.RSS
	}
	return stats
}

// CurrentProcess возвращает снимок для текущего процесса
func CurrentProcess() ProcessStats {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return Snapshot(nil)
	}
	return Snapshot(proc)
}
