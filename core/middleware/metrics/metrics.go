package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Builder creates request metrics registered on one registry.
type Builder struct {
	Namespace  string
	Subsystem  string
	Name       string
	Help       string
	InstanceID string

	registry *prometheus.Registry
}

// NewBuilder creates a builder with its own registry.
func NewBuilder(namespace, subsystem, name, help string) *Builder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return &Builder{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
		registry:  reg,
	}
}

// Registerer exposes the registry for metrics defined elsewhere.
func (b *Builder) Registerer() prometheus.Registerer {
	return b.registry
}

// BuildResponseTime observes the duration of each request in milliseconds,
// labelled by method, matched route and status.
func (b *Builder) BuildResponseTime() fiber.Handler {
	vector := prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace:   b.Namespace,
		Subsystem:   b.Subsystem,
		Name:        b.Name + "_resp_time",
		Help:        b.Help,
		ConstLabels: b.constLabels(),
		Objectives: map[float64]float64{
			0.5:  0.01,
			0.9:  0.01,
			0.99: 0.001,
		},
	}, []string{"method", "pattern", "status"})
	b.registry.MustRegister(vector)

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		vector.WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).
			Observe(float64(time.Since(start).Milliseconds()))
		return err
	}
}

// BuildActiveRequest tracks the number of requests in flight.
func (b *Builder) BuildActiveRequest() fiber.Handler {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   b.Namespace,
		Subsystem:   b.Subsystem,
		Name:        b.Name + "_active_req",
		Help:        b.Help,
		ConstLabels: b.constLabels(),
	})
	b.registry.MustRegister(gauge)

	return func(c *fiber.Ctx) error {
		gauge.Inc()
		defer gauge.Dec()
		return c.Next()
	}
}

// Handler serves the registry in the Prometheus text format.
func (b *Builder) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(b.registry, promhttp.HandlerOpts{}))
}

func (b *Builder) constLabels() prometheus.Labels {
	if b.InstanceID == "" {
		return nil
	}
	return prometheus.Labels{"instance_id": b.InstanceID}
}
