package event

import (
	"context"
	"encoding/json"
	"fmt"
	"ticketyboo/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

func (h Handler) StoreTicketsPurchasedInDataLake(ctx context.Context, event *entities.TicketsPurchased_v1) error {
	return h.storeInDataLake(ctx, event.Header, event)
}

func (h Handler) StoreEventSoldOutInDataLake(ctx context.Context, event *entities.EventSoldOut_v1) error {
	return h.storeInDataLake(ctx, event.Header, event)
}

func (h Handler) storeInDataLake(ctx context.Context, header entities.EventHeader, event any) error {
	name := marshaler.Name(event)

	log.FromContext(ctx).WithField("event_name", name).Info("Storing event in data lake")

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal %s: %w", name, err)
	}

	return h.dataLake.Store(ctx, entities.DataLakeEvent{
		EventID:      header.ID,
		PublishedAt:  header.PublishedAt,
		EventName:    name,
		EventPayload: payload,
	})
}
