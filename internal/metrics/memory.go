package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
)

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc uint64 // bytes in use by the process
	Sys       uint64 // total bytes obtained from the OS
	NumGC     uint32 // completed GC cycles
}

// MemoryCollector exposes the process memory footprint at scrape time. Files
// are held in memory for the whole submission, so heap size tracks their size.
type MemoryCollector struct {
	heapDesc *prometheus.Desc
	sysDesc  *prometheus.Desc
	gcDesc   *prometheus.Desc
}

// NewMemoryCollector creates a memory collector with metric names under namespace.
func NewMemoryCollector(namespace string) *MemoryCollector {
	return &MemoryCollector{
		heapDesc: prometheus.NewDesc(namespace+"_heap_alloc_bytes", "Bytes of allocated heap objects.", nil, nil),
		sysDesc:  prometheus.NewDesc(namespace+"_sys_bytes", "Bytes obtained from the OS.", nil, nil),
		gcDesc:   prometheus.NewDesc(namespace+"_gc_cycles_total", "Completed GC cycles.", nil, nil),
	}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{HeapAlloc: m.HeapAlloc, Sys: m.Sys, NumGC: m.NumGC}
}

// Describe implements prometheus.Collector.
func (mc *MemoryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- mc.heapDesc
	ch <- mc.sysDesc
	ch <- mc.gcDesc
}

// Collect implements prometheus.Collector.
func (mc *MemoryCollector) Collect(ch chan<- prometheus.Metric) {
	s := mc.Snapshot()
	ch <- prometheus.MustNewConstMetric(mc.heapDesc, prometheus.GaugeValue, float64(s.HeapAlloc))
	ch <- prometheus.MustNewConstMetric(mc.sysDesc, prometheus.GaugeValue, float64(s.Sys))
	ch <- prometheus.MustNewConstMetric(mc.gcDesc, prometheus.CounterValue, float64(s.NumGC))
}
