package metrics

import (
	"net/http"
	"strconv"
	"ticketyboo/entities"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ticketyboo"

// Metrics owns its registry so that parallel tests and services never
// collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	purchases      *prometheus.CounterVec
	ticketsSold    *prometheus.CounterVec
	publishFailure *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_total",
			Help:      "Purchase attempts by outcome.",
		}, []string{"result"}),
		ticketsSold: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickets_sold_total",
			Help:      "Tickets sold per event.",
		}, []string{"event_id"}),
		publishFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_failures_total",
			Help:      "Events that could not be published after a committed purchase.",
		}, []string{"event_name"}),
	}
	registry.MustRegister(m.purchases, m.ticketsSold, m.publishFailure)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) PurchaseCommitted(purchase entities.Purchase) {
	m.purchases.WithLabelValues("committed").Inc()
	m.ticketsSold.WithLabelValues(strconv.FormatInt(purchase.EventID, 10)).Add(float64(purchase.Quantity))
}

func (m *Metrics) PurchaseRejected(code entities.ErrorCode) {
	m.purchases.WithLabelValues(string(code)).Inc()
}

func (m *Metrics) PublishFailed(eventName string) {
	m.PublishFailures(eventName).Inc()
}

func (m *Metrics) PublishFailures(eventName string) prometheus.Counter {
	return m.publishFailure.WithLabelValues(eventName)
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
