package metrics

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Abraxas-365/shortlist/pkg/errx"
	"github.com/Abraxas-365/shortlist/pkg/kernel"
	"github.com/Abraxas-365/shortlist/recruitment/applicant"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shortlist"

// Runner is the processor as seen by the API
type Runner interface {
	Run(ctx context.Context) (*applicant.RunReport, error)
}

// Decompressor is served to both the API and the queue worker
type Decompressor interface {
	Decompress(ctx context.Context, id kernel.ApplicantID) (*applicant.DecompressReport, error)
	Submit(ctx context.Context, id kernel.ApplicantID) (*applicant.DecompressReport, error)
}

// Metrics owns a private registry so several instances can coexist in tests
type Metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.SummaryVec
	requests        *prometheus.CounterVec

	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	applicants    *prometheus.CounterVec
	shortlisted   prometheus.Counter
	leadsCreated  prometheus.Counter
	evaluations   prometheus.Counter
	decompression *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestDuration: factory.NewSummaryVec(prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.99: 0.001,
			},
		}, []string{"method", "path", "status_code"}),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status_code"}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Processor runs by result",
		}, []string{"result"}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Processor run duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		applicants: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "applicants_processed_total",
			Help:      "Applicants processed by outcome",
		}, []string{"outcome"}),
		shortlisted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "applicants_shortlisted_total",
			Help:      "Applicants that met every shortlist criterion",
		}),
		leadsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leads_created_total",
			Help:      "Shortlisted leads created",
		}),
		evaluations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Evaluator calls for changed documents",
		}),
		decompression: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decompressions_total",
			Help:      "Decompression requests by result",
		}, []string{"result"}),
	}
}

// Registry exposes the collectors, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records duration and count of every request
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		// the error handler has not written the response yet
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			var xe *errx.Error
			switch {
			case errors.As(err, &fe):
				status = fe.Code
			case errors.As(err, &xe):
				status = xe.HTTPStatus
			}
		}
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		code := strconv.Itoa(status)

		m.requestDuration.WithLabelValues(c.Method(), path, code).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(c.Method(), path, code).Inc()
		return err
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// ObserveRun adds a finished run to the counters
func (m *Metrics) ObserveRun(report *applicant.RunReport, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.runs.WithLabelValues(result).Inc()
	if report == nil {
		return
	}

	if !report.FinishedAt.IsZero() {
		m.runDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())
	}
	m.applicants.WithLabelValues("completed").Add(float64(report.Completed))
	m.applicants.WithLabelValues("failed").Add(float64(report.Failed))
	m.shortlisted.Add(float64(report.Shortlisted))
	m.leadsCreated.Add(float64(report.LeadsCreated))
	m.evaluations.Add(float64(report.Evaluated))
}

// InstrumentRunner wraps r so every run is observed
func (m *Metrics) InstrumentRunner(r Runner) Runner {
	return &instrumentedRunner{next: r, metrics: m}
}

type instrumentedRunner struct {
	next    Runner
	metrics *Metrics
}

func (r *instrumentedRunner) Run(ctx context.Context) (*applicant.RunReport, error) {
	report, err := r.next.Run(ctx)
	r.metrics.ObserveRun(report, err)
	return report, err
}

// InstrumentDecompressor wraps d so every request is counted by result
func (m *Metrics) InstrumentDecompressor(d Decompressor) Decompressor {
	return &instrumentedDecompressor{next: d, metrics: m}
}

type instrumentedDecompressor struct {
	next    Decompressor
	metrics *Metrics
}

func (d *instrumentedDecompressor) Decompress(ctx context.Context, id kernel.ApplicantID) (*applicant.DecompressReport, error) {
	report, err := d.next.Decompress(ctx, id)
	d.observe(err)
	return report, err
}

func (d *instrumentedDecompressor) Submit(ctx context.Context, id kernel.ApplicantID) (*applicant.DecompressReport, error) {
	report, err := d.next.Submit(ctx, id)
	if err == nil && report == nil {
		d.metrics.decompression.WithLabelValues("queued").Inc()
		return nil, nil
	}
	d.observe(err)
	return report, err
}

func (d *instrumentedDecompressor) observe(err error) {
	if err != nil {
		d.metrics.decompression.WithLabelValues("error").Inc()
		return
	}
	d.metrics.decompression.WithLabelValues("ok").Inc()
}
