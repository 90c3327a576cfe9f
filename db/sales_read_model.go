package db

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"ticketyboo/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"
)

// SalesReadModel is the in-memory ops view of sales per event. Events may
// be redelivered or arrive out of order, so every update is idempotent.
type SalesReadModel struct {
	mu      sync.RWMutex
	sales   map[int64]entities.EventSales
	applied map[appliedPurchase]struct{}
}

type appliedPurchase struct {
	runID      string
	purchaseID int64
}

func NewSalesReadModel() *SalesReadModel {
	return &SalesReadModel{
		sales:   map[int64]entities.EventSales{},
		applied: map[appliedPurchase]struct{}{},
	}
}

func (r *SalesReadModel) OnTicketsPurchased(ctx context.Context, event *entities.TicketsPurchased_v1) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := appliedPurchase{runID: event.RunID, purchaseID: event.PurchaseID}
	if _, ok := r.applied[key]; ok {
		log.FromContext(ctx).WithFields(logrus.Fields{
			"run_id":      event.RunID,
			"purchase_id": event.PurchaseID,
		}).Debug("Purchase already applied to sales read model")
		return nil
	}

	r.sales[event.EventID] = applyPurchase(r.sales[event.EventID], event)
	r.applied[key] = struct{}{}

	return nil
}

func (r *SalesReadModel) OnEventSoldOut(_ context.Context, event *entities.EventSoldOut_v1) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sales[event.EventID] = applySoldOut(r.sales[event.EventID], event)

	return nil
}

func (r *SalesReadModel) AllSales(_ context.Context) ([]entities.EventSales, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sales := make([]entities.EventSales, 0, len(r.sales))
	for _, s := range r.sales {
		sales = append(sales, s)
	}
	sort.Slice(sales, func(i, j int) bool {
		return sales[i].EventID < sales[j].EventID
	})

	return sales, nil
}

func (r *SalesReadModel) SalesForEvent(_ context.Context, eventID int64) (entities.EventSales, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sales[eventID]
	if !ok {
		return entities.EventSales{}, fmt.Errorf("%w: %d", entities.ErrSalesNotFound, eventID)
	}

	return s, nil
}

// Run ids sort by the time their run started. Availability follows the
// newest run, since every run starts from a freshly seeded catalog; events
// of older runs only add to the counters.

func applyPurchase(rm entities.EventSales, event *entities.TicketsPurchased_v1) entities.EventSales {
	first := rm.Purchases == 0

	if event.RunID > rm.RunID {
		rm = startRun(rm, event.RunID)
		first = true
	}
	currentRun := event.RunID == rm.RunID

	rm.EventID = event.EventID
	rm.EventName = event.EventName
	rm.Purchases++
	rm.TicketsSold += event.Quantity
	rm.Revenue = rm.Revenue.Add(event.TotalPrice)

	// within a run availability only goes down, so the lowest figure seen is the newest
	if currentRun {
		if rm.SoldOut {
			rm.RemainingTickets = 0
		} else if first || event.RemainingTickets < rm.RemainingTickets {
			rm.RemainingTickets = event.RemainingTickets
		}
	}
	if event.PurchasedAt.After(rm.LastPurchaseAt) {
		rm.LastPurchaseAt = event.PurchasedAt
	}

	return rm
}

func applySoldOut(rm entities.EventSales, event *entities.EventSoldOut_v1) entities.EventSales {
	rm.EventID = event.EventID
	if rm.EventName == "" {
		rm.EventName = event.EventName
	}

	if event.RunID < rm.RunID {
		return rm
	}
	if event.RunID > rm.RunID {
		rm = startRun(rm, event.RunID)
	}
	if rm.SoldOut {
		return rm
	}

	soldOutAt := event.SoldOutAt
	rm.SoldOut = true
	rm.SoldOutAt = &soldOutAt
	rm.RemainingTickets = 0

	return rm
}

func startRun(rm entities.EventSales, runID string) entities.EventSales {
	rm.RunID = runID
	rm.RemainingTickets = 0
	rm.SoldOut = false
	rm.SoldOutAt = nil
	return rm
}
