package migrations

import (
	"context"
	"encoding/json"
	"fmt"
	"ticketyboo/entities"
	"ticketyboo/message/event"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"
)

type EventSource interface {
	Events(ctx context.Context) ([]entities.DataLakeEvent, error)
}

// RebuildSalesReadModel replays every event kept in the data lake into rm.
// The read model ignores purchases it has already seen, so the replay can
// run while the live handlers are consuming.
func RebuildSalesReadModel(ctx context.Context, source EventSource, rm event.SalesReadModel) error {
	logger := log.FromContext(ctx)
	logger.Info("Rebuilding sales read model")

	events, err := source.Events(ctx)
	if err != nil {
		return fmt.Errorf("could not get events from data lake: %w", err)
	}

	logger.WithField("events_count", len(events)).Info("Has events to replay")

	start := time.Now()
	for _, e := range events {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := replayEvent(ctx, e, rm); err != nil {
			return fmt.Errorf("could not replay event %s (%s): %w", e.EventID, e.EventName, err)
		}
	}

	logger.WithField("duration", time.Since(start)).Info("Sales read model rebuilt")

	return nil
}

func replayEvent(ctx context.Context, e entities.DataLakeEvent, rm event.SalesReadModel) error {
	switch e.EventName {
	case "TicketsPurchased_v1":
		purchased, err := unmarshalDataLakeEvent[entities.TicketsPurchased_v1](e)
		if err != nil {
			return err
		}
		return rm.OnTicketsPurchased(ctx, purchased)
	case "EventSoldOut_v1":
		soldOut, err := unmarshalDataLakeEvent[entities.EventSoldOut_v1](e)
		if err != nil {
			return err
		}
		return rm.OnEventSoldOut(ctx, soldOut)
	default:
		log.FromContext(ctx).WithFields(logrus.Fields{
			"event_name": e.EventName,
			"event_id":   e.EventID,
		}).Warn("Skipping event unknown to the sales read model")
		return nil
	}
}

func unmarshalDataLakeEvent[T any](e entities.DataLakeEvent) (*T, error) {
	eventInstance := new(T)

	if err := json.Unmarshal(e.EventPayload, eventInstance); err != nil {
		return nil, fmt.Errorf("could not unmarshal event %s: %w", e.EventName, err)
	}

	return eventInstance, nil
}
