package event

import (
	"fmt"
	"ticketyboo/entities"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
)

var marshaler = cqrs.JSONMarshaler{
	GenerateName: cqrs.StructName,
}

// SubscriberFactory returns a subscriber for one consumer group.
type SubscriberFactory interface {
	NewSubscriber(consumerGroup string) (message.Subscriber, error)
}

func NewProcessorConfig(subscribers SubscriberFactory, watermillLogger watermill.LoggerAdapter) cqrs.EventProcessorConfig {
	return cqrs.EventProcessorConfig{
		GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
			handlerEvent := params.EventHandler.NewEvent()
			if _, ok := handlerEvent.(entities.IEvent); !ok {
				return "", fmt.Errorf("invalid event type: %T doesn't implement entities.IEvent", handlerEvent)
			}

			return topicPrefix + params.EventName, nil
		},
		SubscriberConstructor: func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return subscribers.NewSubscriber("ticketyboo.events." + params.HandlerName)
		},
		Marshaler: marshaler,
		Logger:    watermillLogger,
	}
}
