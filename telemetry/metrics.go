// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters of the time loop and of the state
//  Note: a nil *Metrics records nothing
type Metrics struct {
	attempts    prometheus.Counter     // calls to AdvanceStep of the root kernel
	failures    prometheus.Counter     // failed steps
	iterations  prometheus.Counter     // nonlinear iterations of successful steps
	steps       prometheus.Histogram   // accepted step sizes
	evaluations *prometheus.CounterVec // recomputations of secondary fields by key
	registry    *prometheus.Registry   // private registry
}

// NewMetrics returns new metrics registered on a private registry
func NewMetrics(namespace string) (o *Metrics) {
	o = &Metrics{
		attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "advance_attempts_total",
			Help:      "Total number of attempted steps",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "advance_failures_total",
			Help:      "Total number of failed steps",
		}),
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nonlinear_iterations_total",
			Help:      "Total number of nonlinear iterations of accepted steps",
		}),
		steps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_size_seconds",
			Help:      "Size of accepted steps in simulation seconds",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 10, 14),
		}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "field_evaluations_total",
			Help:      "Total number of recomputations of secondary fields",
		}, []string{"key"}),
		registry: prometheus.NewRegistry(),
	}
	o.registry.MustRegister(o.attempts, o.failures, o.iterations, o.steps, o.evaluations)
	return
}

// Attempt records an attempted step
func (o *Metrics) Attempt() {
	if o == nil {
		return
	}
	o.attempts.Inc()
}

// Failure records a failed step
func (o *Metrics) Failure() {
	if o == nil {
		return
	}
	o.failures.Inc()
}

// Success records an accepted step of size dt solved with nits iterations
func (o *Metrics) Success(dt float64, nits int) {
	if o == nil {
		return
	}
	o.steps.Observe(dt)
	o.iterations.Add(float64(nits))
}

// Evaluated records the recomputation of a secondary field
func (o *Metrics) Evaluated(key string) {
	if o == nil {
		return
	}
	o.evaluations.WithLabelValues(key).Inc()
}

// Registry returns the private registry
func (o *Metrics) Registry() *prometheus.Registry { return o.registry }

// Handler returns the HTTP handler exposing the metrics
func (o *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})
}
