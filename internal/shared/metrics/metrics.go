package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	extractStartedTotal   atomic.Uint64
	extractCompletedTotal atomic.Uint64
	extractFailedTotal    atomic.Uint64
	resolveCompletedTotal atomic.Uint64
	resolveFailedTotal    atomic.Uint64
	documentsIngested     atomic.Uint64
	documentsConfirmed    atomic.Uint64

	pipelineJobsReceived  atomic.Uint64
	pipelineJobsCompleted atomic.Uint64
	pipelineJobsFailed    atomic.Uint64
	pipelineJobsDropped   atomic.Uint64

	sweepResetsTotal atomic.Uint64

	extractDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncExtractStarted increments the extraction started counter.
func IncExtractStarted() { extractStartedTotal.Add(1) }

// IncExtractCompleted increments the extraction completed counter.
func IncExtractCompleted() { extractCompletedTotal.Add(1) }

// IncExtractFailed increments the extraction failed counter.
func IncExtractFailed() { extractFailedTotal.Add(1) }

// IncResolveCompleted increments the resolution completed counter.
func IncResolveCompleted() { resolveCompletedTotal.Add(1) }

// IncResolveFailed increments the resolution failed counter.
func IncResolveFailed() { resolveFailedTotal.Add(1) }

// IncDocumentsIngested increments the ingested documents counter.
func IncDocumentsIngested() { documentsIngested.Add(1) }

// IncDocumentsConfirmed increments the confirmed documents counter.
func IncDocumentsConfirmed() { documentsConfirmed.Add(1) }

// IncPipelineJobsReceived increments the queue jobs received counter.
func IncPipelineJobsReceived() { pipelineJobsReceived.Add(1) }

// IncPipelineJobsCompleted increments the queue jobs completed counter.
func IncPipelineJobsCompleted() { pipelineJobsCompleted.Add(1) }

// IncPipelineJobsFailed increments the queue jobs failed counter.
func IncPipelineJobsFailed() { pipelineJobsFailed.Add(1) }

// IncPipelineJobsDropped increments the counter for unrecoverable queue payloads.
func IncPipelineJobsDropped() { pipelineJobsDropped.Add(1) }

// IncSweepResets adds to the stuck-document sweep counter.
func IncSweepResets(n int) {
	if n > 0 {
		sweepResetsTotal.Add(uint64(n))
	}
}

// ObserveExtractDurationMs records an extraction duration in milliseconds.
func ObserveExtractDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	extractDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "document_extract_started_total", "Total extractions started", extractStartedTotal.Load())
	writeCounter(&buf, "document_extract_completed_total", "Total extractions completed", extractCompletedTotal.Load())
	writeCounter(&buf, "document_extract_failed_total", "Total extractions failed", extractFailedTotal.Load())
	writeCounter(&buf, "document_resolve_completed_total", "Total resolutions completed", resolveCompletedTotal.Load())
	writeCounter(&buf, "document_resolve_failed_total", "Total resolutions failed", resolveFailedTotal.Load())
	writeCounter(&buf, "documents_ingested_total", "Total documents ingested", documentsIngested.Load())
	writeCounter(&buf, "documents_confirmed_total", "Total documents confirmed", documentsConfirmed.Load())
	writeCounter(&buf, "pipeline_jobs_received_total", "Total pipeline queue jobs received", pipelineJobsReceived.Load())
	writeCounter(&buf, "pipeline_jobs_completed_total", "Total pipeline queue jobs completed", pipelineJobsCompleted.Load())
	writeCounter(&buf, "pipeline_jobs_failed_total", "Total pipeline queue jobs failed", pipelineJobsFailed.Load())
	writeCounter(&buf, "pipeline_jobs_dropped_total", "Total unrecoverable pipeline queue payloads", pipelineJobsDropped.Load())
	writeCounter(&buf, "document_sweep_resets_total", "Total stuck documents reset to pending", sweepResetsTotal.Load())
	writeHistogram(&buf, "document_extract_duration_ms", "Extraction duration in milliseconds", extractDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
