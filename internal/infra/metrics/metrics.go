// internal/infra/metrics/metrics.go
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Dispatch results used as the "result" label.
const (
	ResultSent      = "sent"
	ResultDuplicate = "duplicate"
	ResultFailed    = "failed"
)

// Collector holds the sweep instruments on a private registry.
type Collector struct {
	registry      *prometheus.Registry
	sweeps        *prometheus.CounterVec
	alertsFired   *prometheus.CounterVec
	dispatches    *prometheus.CounterVec
	sweepDuration prometheus.Histogram
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		sweeps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "maintenance_alert",
			Name:      "sweeps_total",
			Help:      "Alert sweeps run, by outcome.",
		}, []string{"outcome"}),
		alertsFired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "maintenance_alert",
			Name:      "alerts_fired_total",
			Help:      "Firing decisions produced by the threshold evaluator, by severity.",
		}, []string{"severity"}),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "maintenance_alert",
			Name:      "dispatches_total",
			Help:      "Per-recipient deliveries, by result.",
		}, []string{"result"}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "maintenance_alert",
			Name:      "sweep_duration_seconds",
			Help:      "Wall time of one alert sweep.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
	}
	c.registry.MustRegister(c.sweeps, c.alertsFired, c.dispatches, c.sweepDuration)
	return c
}

func (c *Collector) ObserveSweep(d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.sweeps.WithLabelValues(outcome).Inc()
	c.sweepDuration.Observe(d.Seconds())
}

func (c *Collector) AlertFired(severity string) {
	c.alertsFired.WithLabelValues(severity).Inc()
}

func (c *Collector) Dispatch(result string) {
	c.dispatches.WithLabelValues(result).Inc()
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, c *Collector, log *logrus.Entry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Metrics server shutdown failed")
		}
	}()

	log.WithField("addr", addr).Info("Metrics server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
