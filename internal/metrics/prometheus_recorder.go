package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	runDuration   prom.Histogram
	copyDuration  *prom.HistogramVec
	entryResults  *prom.CounterVec
	bytesStaged   prom.Counter
	runOutcomes   *prom.CounterVec
	workers       prom.Gauge
	lastRunUnixTS prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "assetstager",
			Name:      "run_duration_seconds",
			Help:      "Total duration of a staging run",
			Buckets:   prom.DefBuckets,
		})
		pr.copyDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "assetstager",
			Name:      "copy_duration_seconds",
			Help:      "Duration of individual file copies",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"result"})
		pr.entryResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "assetstager",
			Name:      "entry_results_total",
			Help:      "Manifest entry results by outcome",
		}, []string{"result"})
		pr.bytesStaged = prom.NewCounter(prom.CounterOpts{
			Namespace: "assetstager",
			Name:      "staged_bytes_total",
			Help:      "Bytes written to the static tree",
		})
		pr.runOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "assetstager",
			Name:      "run_outcomes_total",
			Help:      "Staging runs by final status",
		}, []string{"outcome"})
		pr.workers = prom.NewGauge(prom.GaugeOpts{
			Namespace: "assetstager",
			Name:      "workers",
			Help:      "Copy workers used by the last run",
		})
		pr.lastRunUnixTS = prom.NewGauge(prom.GaugeOpts{
			Namespace: "assetstager",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		})
		reg.MustRegister(pr.runDuration, pr.copyDuration, pr.entryResults, pr.bytesStaged, pr.runOutcomes, pr.workers, pr.lastRunUnixTS)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
	p.lastRunUnixTS.SetToCurrentTime()
}

func (p *PrometheusRecorder) ObserveCopyDuration(d time.Duration, result ResultLabel) {
	if p == nil || p.copyDuration == nil {
		return
	}
	p.copyDuration.WithLabelValues(string(result)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncEntryResult(result ResultLabel) {
	if p == nil || p.entryResults == nil {
		return
	}
	p.entryResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) AddBytesStaged(n int64) {
	if p == nil || p.bytesStaged == nil || n <= 0 {
		return
	}
	p.bytesStaged.Add(float64(n))
}

func (p *PrometheusRecorder) IncRunOutcome(outcome OutcomeLabel) {
	if p == nil || p.runOutcomes == nil {
		return
	}
	p.runOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetWorkers(n int) {
	if p == nil || p.workers == nil {
		return
	}
	p.workers.Set(float64(n))
}
