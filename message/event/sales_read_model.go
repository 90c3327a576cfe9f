package event

import (
	"context"
	"fmt"
	"ticketyboo/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

func (h Handler) UpdateSalesReadModel(ctx context.Context, event *entities.TicketsPurchased_v1) error {
	if event.PurchaseID <= 0 || event.EventID <= 0 {
		return entities.MalformedMessageError{
			Reason: fmt.Sprintf("TicketsPurchased_v1 without ids (purchase %d, event %d)", event.PurchaseID, event.EventID),
		}
	}

	log.FromContext(ctx).WithField("purchase_id", event.PurchaseID).Info("Updating sales read model")

	return h.salesReadModel.OnTicketsPurchased(ctx, event)
}

func (h Handler) MarkEventSoldOut(ctx context.Context, event *entities.EventSoldOut_v1) error {
	if event.EventID <= 0 {
		return entities.MalformedMessageError{Reason: "EventSoldOut_v1 without event id"}
	}

	log.FromContext(ctx).WithField("event_id", event.EventID).Info("Marking event as sold out")

	return h.salesReadModel.OnEventSoldOut(ctx, event)
}
