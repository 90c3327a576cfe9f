package event

import (
	"context"
	"ticketyboo/entities"
)

type SalesReadModel interface {
	OnTicketsPurchased(ctx context.Context, event *entities.TicketsPurchased_v1) error
	OnEventSoldOut(ctx context.Context, event *entities.EventSoldOut_v1) error
}

type DataLake interface {
	Store(ctx context.Context, event entities.DataLakeEvent) error
}

type Handler struct {
	salesReadModel SalesReadModel
	dataLake       DataLake
}

// NewHandler builds the event handlers. dataLake may be nil, the data lake
// handlers are then not registered.
func NewHandler(salesReadModel SalesReadModel, dataLake DataLake) Handler {
	if salesReadModel == nil {
		panic("missing salesReadModel")
	}

	return Handler{
		salesReadModel: salesReadModel,
		dataLake:       dataLake,
	}
}

func (h Handler) HasDataLake() bool {
	return h.dataLake != nil
}
