package metrics

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/limaJavier/advising/pkg/model"
)

const (
	OutcomeClean    = "clean"
	OutcomeFindings = "findings"
	OutcomeDegraded = "degraded"
)

// Outcome classifies a report for the students counter.
func Outcome(report model.Report) string {
	if report.Degraded {
		return OutcomeDegraded
	} else if !report.Clean() {
		return OutcomeFindings
	}
	return OutcomeClean
}

// Recorder holds the Prometheus collectors of advising runs on its own registry.
type Recorder struct {
	registry       *prometheus.Registry
	students       *prometheus.CounterVec
	findings       *prometheus.CounterVec
	duration       prometheus.Histogram
	invalidRecords prometheus.Counter

	studentCount  uint64
	degradedCount uint64
	durationTotal uint64
}

// Snapshot summarises a run for the command line.
type Snapshot struct {
	Students               uint64
	Degraded               uint64
	AverageDurationSeconds float64
}

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	students := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "advising_students_total",
		Help: "Students processed, by outcome",
	}, []string{"outcome"})

	findings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "advising_findings_total",
		Help: "Findings reported, by report column",
	}, []string{"category"})

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "advising_student_duration_seconds",
		Help:    "Time spent validating one student",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})

	invalidRecords := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "advising_invalid_records_total",
		Help: "Enrollment rows dropped by validation",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "advising_goroutines",
		Help: "Number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(students, findings, duration, invalidRecords, goroutines)

	return &Recorder{
		registry:       registry,
		students:       students,
		findings:       findings,
		duration:       duration,
		invalidRecords: invalidRecords,
	}
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveReport counts one finished report. A nil recorder ignores the call.
func (r *Recorder) ObserveReport(report model.Report, duration time.Duration) {
	if r == nil {
		return
	}

	columns := map[string]string{
		"requirements":  report.UnmetRequirements,
		"prerequisites": report.MissingPrerequisites,
		"not_running":   report.ModulesNotRunning,
		"clashes":       report.TimetableClashes,
		"advisories":    report.AdviserRecommendations,
	}
	if report.Degraded {
		atomic.AddUint64(&r.degradedCount, 1)
	} else {
		for category, column := range columns {
			if column != model.NoneSentinel {
				r.findings.WithLabelValues(category).Inc()
			}
		}
	}

	r.students.WithLabelValues(Outcome(report)).Inc()
	r.duration.Observe(duration.Seconds())
	atomic.AddUint64(&r.studentCount, 1)
	atomic.AddUint64(&r.durationTotal, uint64(duration.Nanoseconds()))
}

func (r *Recorder) ObserveInvalidRecords(count int) {
	if r == nil || count <= 0 {
		return
	}
	r.invalidRecords.Add(float64(count))
}

func (r *Recorder) Snapshot() Snapshot {
	if r == nil {
		return Snapshot{}
	}
	students := atomic.LoadUint64(&r.studentCount)
	total := atomic.LoadUint64(&r.durationTotal)

	var average float64
	if students > 0 {
		average = float64(total) / float64(students) / float64(time.Second)
	}
	return Snapshot{
		Students:               students,
		Degraded:               atomic.LoadUint64(&r.degradedCount),
		AverageDurationSeconds: average,
	}
}

// WriteToTextfile dumps the registry in the node exporter textfile format.
func (r *Recorder) WriteToTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
