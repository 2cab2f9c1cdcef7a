// Package metrics exports Prometheus metrics about posts and commands.
package metrics

import (
	"net/http"

	"github.com/dfryer1193/bitacora/blog/application"
	"github.com/dfryer1193/bitacora/blog/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bitacora"

var _ application.Observer = (*Collector)(nil)

// Collector implements application.Observer on a private registry
type Collector struct {
	registry *prometheus.Registry

	posts       *prometheus.GaugeVec
	commands    *prometheus.CounterVec
	storeWrites *prometheus.CounterVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		posts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "posts",
			Help:      "Posts in the collection by status.",
		}, []string{"status"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands run against the application state.",
		}, []string{"command", "result"}),
		storeWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_writes_total",
			Help:      "Writes of the collection to the slot store.",
		}, []string{"result"}),
	}

	c.registry.MustRegister(
		c.posts,
		c.commands,
		c.storeWrites,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) CommandFinished(command string, err error) {
	c.commands.WithLabelValues(command, result(err)).Inc()
}

func (c *Collector) PostsSaved(err error) {
	c.storeWrites.WithLabelValues(result(err)).Inc()
}

func (c *Collector) CountsChanged(counts application.Counts) {
	c.posts.WithLabelValues(string(domain.StatusPublished)).Set(float64(counts.Published))
	c.posts.WithLabelValues(string(domain.StatusDraft)).Set(float64(counts.Drafts))
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
