package message

import (
	"fmt"
	"ticketyboo/message/outbox"
	observability "ticketyboo/trace"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type TransportKind string

const (
	TransportRedis       TransportKind = "redis"
	TransportRedisOutbox TransportKind = "redis+outbox"
	TransportPostgres    TransportKind = "postgres"
	TransportInProcess   TransportKind = "gochannel"
)

// Transport is the broker the event bus publishes to and the event
// processor subscribes from.
type Transport struct {
	Kind      TransportKind
	Publisher message.Publisher

	newSubscriber func(consumerGroup string) (message.Subscriber, error)

	// set only for TransportRedisOutbox
	outboxSubscriber message.Subscriber
	brokerPublisher  message.Publisher
}

// NewTransport picks Redis Streams when a client is given, Postgres when only
// a database is given and an in-process channel otherwise. With both, events
// go through a Postgres outbox and are forwarded to Redis.
func NewTransport(rdb *redis.Client, db *sqlx.DB, watermillLogger watermill.LoggerAdapter) (Transport, error) {
	switch {
	case rdb != nil && db != nil:
		redisPublisher, err := NewRedisPublisher(rdb, watermillLogger)
		if err != nil {
			return Transport{}, fmt.Errorf("could not create redis publisher: %w", err)
		}
		outboxPublisher, err := outbox.NewPublisher(db, watermillLogger)
		if err != nil {
			return Transport{}, err
		}
		outboxSubscriber, err := outbox.NewSubscriber(db, watermillLogger)
		if err != nil {
			return Transport{}, err
		}

		return Transport{
			Kind:      TransportRedisOutbox,
			Publisher: outboxPublisher,
			newSubscriber: func(consumerGroup string) (message.Subscriber, error) {
				return NewRedisSubscriber(rdb, consumerGroup, watermillLogger)
			},
			outboxSubscriber: outboxSubscriber,
			brokerPublisher:  redisPublisher,
		}, nil

	case rdb != nil:
		pub, err := NewRedisPublisher(rdb, watermillLogger)
		if err != nil {
			return Transport{}, fmt.Errorf("could not create redis publisher: %w", err)
		}

		return Transport{
			Kind:      TransportRedis,
			Publisher: decoratePublisher(pub),
			newSubscriber: func(consumerGroup string) (message.Subscriber, error) {
				return NewRedisSubscriber(rdb, consumerGroup, watermillLogger)
			},
		}, nil

	case db != nil:
		pub, err := NewPostgresPublisher(db, watermillLogger)
		if err != nil {
			return Transport{}, fmt.Errorf("could not create postgres publisher: %w", err)
		}

		return Transport{
			Kind:      TransportPostgres,
			Publisher: decoratePublisher(pub),
			newSubscriber: func(consumerGroup string) (message.Subscriber, error) {
				return NewPostgresSubscriber(db, consumerGroup, watermillLogger)
			},
		}, nil

	default:
		pubSub := gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 256,
		}, watermillLogger)

		return Transport{
			Kind:      TransportInProcess,
			Publisher: decoratePublisher(pubSub),
			newSubscriber: func(string) (message.Subscriber, error) {
				return pubSub, nil
			},
		}, nil
	}
}

func (t Transport) NewSubscriber(consumerGroup string) (message.Subscriber, error) {
	return t.newSubscriber(consumerGroup)
}

// AddForwarder registers the outbox forwarder on router. It is a no-op for
// transports that publish straight to the broker.
func (t Transport) AddForwarder(router *message.Router, watermillLogger watermill.LoggerAdapter) error {
	if t.outboxSubscriber == nil {
		return nil
	}
	return outbox.AddForwarder(t.outboxSubscriber, t.brokerPublisher, watermillLogger, router)
}

func decoratePublisher(pub message.Publisher) message.Publisher {
	pub = log.CorrelationPublisherDecorator{Publisher: pub}
	return observability.TracingPublisherDecorator{Publisher: pub}
}
