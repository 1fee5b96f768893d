// Package metrics keeps the prometheus collectors of the service in a
// registry of its own.
package metrics

import (
	"time"

	"github.com/chapool/go-docseal/internal/config"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "docseal"

type Service struct {
	config   config.Server
	registry *prometheus.Registry

	submissions  *prometheus.CounterVec
	submitTime   *prometheus.HistogramVec
	polls        prometheus.Histogram
	registrySize *prometheus.GaugeVec
}

func New(cfg config.Server) (*Service, error) {
	s := &Service{
		config:   cfg,
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "seal",
			Name:      "submissions_total",
			Help:      "Seal submissions by outcome.",
		}, []string{"outcome"}),
		submitTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "seal",
			Name:      "submission_duration_seconds",
			Help:      "Time from building a seal transaction to its final status.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60},
		}, []string{"outcome"}),
		polls: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "seal",
			Name:      "confirmation_polls",
			Help:      "getTransaction calls needed until a seal reached a final status.",
			Buckets:   prometheus.LinearBuckets(1, 2, 10),
		}),
		registrySize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "records",
			Help:      "Records held by the in-memory registry.",
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		s.submissions,
		s.submitTime,
		s.polls,
		s.registrySize,
	} {
		if err := s.registry.Register(c); err != nil {
			return nil, errors.Wrap(err, "failed to register collector")
		}
	}

	return s, nil
}

// ObserveSubmission counts a finished seal submission.
func (s *Service) ObserveSubmission(outcome string, elapsed time.Duration) {
	s.submissions.WithLabelValues(outcome).Inc()
	s.submitTime.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (s *Service) ObservePolls(polls int) {
	s.polls.Observe(float64(polls))
}

// SetRegistrySize reports the number of documents and seals held by the
// demo registry.
func (s *Service) SetRegistrySize(documents, seals int) {
	s.registrySize.WithLabelValues("documents").Set(float64(documents))
	s.registrySize.WithLabelValues("seals").Set(float64(seals))
}

func (s *Service) Registry() *prometheus.Registry {
	return s.registry
}

// Middleware records request metrics for every route except the ones
// skipped by skipper.
func (s *Service) Middleware(skipper middleware.Skipper) echo.MiddlewareFunc {
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  namespace,
		Subsystem:  "http",
		Registerer: s.registry,
		Skipper:    skipper,
	})
}

func (s *Service) Handler() echo.HandlerFunc {
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: s.registry,
	})
}
