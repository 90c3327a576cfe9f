package outbox

import (
	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/sirupsen/logrus"

	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
)

// AddForwarder registers on router a handler that moves messages from the
// Postgres outbox to publisher.
func AddForwarder(
	outboxSubscriber message.Subscriber,
	publisher message.Publisher,
	logger watermill.LoggerAdapter,
	router *message.Router,
) error {
	_, err := forwarder.NewForwarder(outboxSubscriber, publisher, logger,
		forwarder.Config{
			ForwarderTopic: topic,
			Router:         router,
			Middlewares: []message.HandlerMiddleware{
				func(h message.HandlerFunc) message.HandlerFunc {
					return func(msg *message.Message) ([]*message.Message, error) {
						log.FromContext(msg.Context()).WithFields(logrus.Fields{
							"message_id": msg.UUID,
							"metadata":   msg.Metadata,
						}).Debug("Forwarding message from outbox")
						return h(msg)
					}
				},
			},
		})

	return err
}
