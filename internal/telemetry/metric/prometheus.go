package metric

import (
	"io"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "securenotes"

// Transport error kinds used as the "kind" label.
const (
	KindTimeout  = "timeout"
	KindCanceled = "canceled"
	KindNetwork  = "network"
)

// Registry holds the client metrics and the registry they are registered in.
type Registry struct {
	reg *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Unauthorized    prometheus.Counter
	TransportErrors *prometheus.CounterVec
}

// NewRegistry creates the client metrics in a fresh registry.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Requests that received a response, by method and status class.",
		}, []string{"method", "status_class"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Round-trip latency of dispatched requests.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 15},
		}, []string{"method"}),
		Unauthorized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "unauthorized_total",
			Help:      "Responses that invalidated the local session.",
		}),
		TransportErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "transport_errors_total",
			Help:      "Requests that failed without a response.",
		}, []string{"kind"}),
	}

	r.reg.MustRegister(r.RequestsTotal, r.RequestDuration, r.Unauthorized, r.TransportErrors)
	return r
}

// ObserveResponse records a request that got a response.
func (r *Registry) ObserveResponse(method string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.RequestsTotal.WithLabelValues(method, StatusClass(status)).Inc()
	r.RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObserveUnauthorized records a session invalidation.
func (r *Registry) ObserveUnauthorized() {
	if r == nil {
		return
	}
	r.Unauthorized.Inc()
}

// ObserveTransportError records a request that failed before a response.
func (r *Registry) ObserveTransportError(method, kind string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.TransportErrors.WithLabelValues(kind).Inc()
	r.RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// WriteText writes all gathered metrics in the text exposition format.
func (r *Registry) WriteText(w io.Writer) error {
	families, err := r.reg.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

// StatusClass maps 404 to "4xx" and so on.
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}
