// Package metrics holds the Prometheus registrations shared by controller
// and camera, supplementing (never replacing) the in-struct counters on
// ControllerMetrics and StreamStats. Rather than centralizing metrics in one
// registry, this package follows an embed-at-the-point-of-use convention,
// factored into constructors other packages call once at construction time.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Controller holds the metrics a single controller.Controller instance
// publishes.
type Controller struct {
	PollRTT          prometheus.Histogram
	PollFailureTotal prometheus.Counter
}

// NewController registers (with reg) and returns a fresh Controller metric
// set scoped to target, so multiple pooled robots don't collide on label
// values.
func NewController(reg prometheus.Registerer, target string) *Controller {
	c := &Controller{
		PollRTT: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "kachaka",
			Subsystem:   "controller",
			Name:        "poll_rtt_seconds",
			Help:        "Round-trip time of command-state poll RPCs.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: prometheus.Labels{"target": target},
		}),
		PollFailureTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "kachaka",
			Subsystem:   "controller",
			Name:        "poll_failures_total",
			Help:        "Count of failed command-state poll RPCs.",
			ConstLabels: prometheus.Labels{"target": target},
		}),
	}
	if reg != nil {
		reg.MustRegister(c.PollRTT, c.PollFailureTotal)
	}
	return c
}

// Camera holds the metrics a single camera.Sampler instance publishes.
type Camera struct {
	FramesTotal   prometheus.Counter
	FramesDropped prometheus.Counter
}

// NewCamera registers (with reg) and returns a fresh Camera metric set
// scoped to target and camera name.
func NewCamera(reg prometheus.Registerer, target, camera string) *Camera {
	labels := prometheus.Labels{"target": target, "camera": camera}
	c := &Camera{
		FramesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "kachaka",
			Subsystem:   "camera",
			Name:        "frames_total",
			Help:        "Count of camera capture attempts.",
			ConstLabels: labels,
		}),
		FramesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "kachaka",
			Subsystem:   "camera",
			Name:        "frames_dropped_total",
			Help:        "Count of camera capture failures.",
			ConstLabels: labels,
		}),
	}
	if reg != nil {
		reg.MustRegister(c.FramesTotal, c.FramesDropped)
	}
	return c
}

// NewConnectionHealthGauge registers (with reg) and returns a gauge of a
// single Connection's health state (1 = connected, 0 = disconnected).
func NewConnectionHealthGauge(reg prometheus.Registerer, target string) prometheus.Gauge {
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "kachaka",
		Subsystem:   "connection",
		Name:        "healthy",
		Help:        "1 if the connection's health machine is CONNECTED, else 0.",
		ConstLabels: prometheus.Labels{"target": target},
	})
	if reg != nil {
		reg.MustRegister(g)
	}
	return g
}
