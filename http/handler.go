package http

import (
	"context"
	"ticketyboo/entities"
)

type Handler struct {
	catalog        Catalog
	ledger         Ledger
	salesReadModel SalesReadModel
}

type Catalog interface {
	ListEvents(ctx context.Context, category entities.Category) []entities.Event
	GetEvent(ctx context.Context, id int64) (entities.Event, error)
}

type Ledger interface {
	Purchase(ctx context.Context, req entities.PurchaseRequest) (entities.Purchase, error)
	ListPurchases(ctx context.Context) []entities.Purchase
	GetPurchase(ctx context.Context, id int64) (entities.Purchase, error)
}

type SalesReadModel interface {
	AllSales(ctx context.Context) ([]entities.EventSales, error)
	SalesForEvent(ctx context.Context, eventID int64) (entities.EventSales, error)
}
