package message

import (
	"fmt"
	"ticketyboo/message/event"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
)

type RouterConfig struct {
	ThrottlePerSecond int64
	// nil disables router metrics
	MetricsRegistry prometheus.Registerer
}

func NewWatermillRouter(
	transport Transport,
	eventHandler event.Handler,
	config RouterConfig,
	watermillLogger watermill.LoggerAdapter,
) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		return nil, err
	}

	useMiddlewares(router, config.ThrottlePerSecond, watermillLogger)

	if config.MetricsRegistry != nil {
		metrics.NewPrometheusMetricsBuilder(config.MetricsRegistry, "ticketyboo", "watermill").
			AddPrometheusRouterMetrics(router)
	}

	if err := transport.AddForwarder(router, watermillLogger); err != nil {
		return nil, fmt.Errorf("could not add outbox forwarder: %w", err)
	}

	eventProcessor, err := cqrs.NewEventProcessorWithConfig(
		router,
		event.NewProcessorConfig(transport, watermillLogger),
	)
	if err != nil {
		return nil, err
	}

	handlers := []cqrs.EventHandler{
		cqrs.NewEventHandler(
			"UpdateSalesReadModel",
			eventHandler.UpdateSalesReadModel,
		),
		cqrs.NewEventHandler(
			"MarkEventSoldOut",
			eventHandler.MarkEventSoldOut,
		),
	}
	if eventHandler.HasDataLake() {
		handlers = append(handlers,
			cqrs.NewEventHandler(
				"StoreTicketsPurchasedInDataLake",
				eventHandler.StoreTicketsPurchasedInDataLake,
			),
			cqrs.NewEventHandler(
				"StoreEventSoldOutInDataLake",
				eventHandler.StoreEventSoldOutInDataLake,
			),
		)
	}

	if err := eventProcessor.AddHandlers(handlers...); err != nil {
		return nil, err
	}

	return router, nil
}
