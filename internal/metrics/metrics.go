// Package metrics exposes simulation and render-resource metrics to
// Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/render"
)

const namespace = "orrery"

// Collector records simulation steps, star field rebuilds and system
// reloads, and reports live render resources by kind.
type Collector struct {
	registry *prometheus.Registry

	framesTotal      prometheus.Counter
	simulatedSeconds prometheus.Counter
	stepDuration     prometheus.Histogram
	starRebuilds     prometheus.Counter
	reloadsTotal     *prometheus.CounterVec
}

// NewCollector creates and registers the collectors on a private registry.
// When resources is non-nil, one gauge per resource kind reports its live
// count at scrape time.
func NewCollector(resources *render.Registry) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		framesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Total number of simulation steps",
		}),
		simulatedSeconds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulated_seconds_total",
			Help:      "Simulated time advanced, delta time times speed factor",
		}),
		stepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Time spent advancing the simulation by one frame",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12),
		}),
		starRebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "star_rebuilds_total",
			Help:      "Total number of star field rebuilds",
		}),
		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "system_reloads_total",
				Help:      "System descriptor reloads by result",
			},
			[]string{"result"},
		),
	}

	c.registry.MustRegister(c.framesTotal)
	c.registry.MustRegister(c.simulatedSeconds)
	c.registry.MustRegister(c.stepDuration)
	c.registry.MustRegister(c.starRebuilds)
	c.registry.MustRegister(c.reloadsTotal)

	if resources != nil {
		for _, kind := range render.Kinds() {
			c.registry.MustRegister(prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Namespace:   namespace,
					Name:        "render_resources_live",
					Help:        "Render resources currently acquired",
					ConstLabels: prometheus.Labels{"kind": kind.String()},
				},
				func() float64 { return float64(resources.LiveByKind(kind)) },
			))
		}
	}

	return c
}

// Registry returns the registry the collectors are registered on.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// ObserveStep records one simulation step.
func (c *Collector) ObserveStep(deltaTime, speedFactor float64, took time.Duration) {
	c.framesTotal.Inc()
	if adv := deltaTime * speedFactor; adv > 0 {
		c.simulatedSeconds.Add(adv)
	}
	c.stepDuration.Observe(took.Seconds())
}

// ObserveStarRebuild counts a star field rebuild.
func (c *Collector) ObserveStarRebuild(count int, radius float64) {
	c.starRebuilds.Inc()
}

// ObserveReload counts a system reload by outcome.
func (c *Collector) ObserveReload(source string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.reloadsTotal.WithLabelValues(result).Inc()
}

// Handler returns the HTTP handler serving the registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string, log *logging.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("metrics server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
