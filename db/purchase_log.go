package db

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"ticketyboo/entities"
)

// PurchaseLog is the append-only record of committed purchases, kept in
// id order.
type PurchaseLog struct {
	mu        sync.RWMutex
	purchases []entities.Purchase
	byID      map[int64]int
}

func NewPurchaseLog() *PurchaseLog {
	return &PurchaseLog{
		byID: map[int64]int{},
	}
}

// Append stores the purchase. Ids are allocated before the log lock is
// taken, so a later id may arrive first; the slice is kept sorted anyway.
func (l *PurchaseLog) Append(_ context.Context, purchase entities.Purchase) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.byID[purchase.ID]; ok {
		return fmt.Errorf("purchase %d already recorded", purchase.ID)
	}

	i := sort.Search(len(l.purchases), func(i int) bool {
		return l.purchases[i].ID > purchase.ID
	})
	l.purchases = append(l.purchases, entities.Purchase{})
	copy(l.purchases[i+1:], l.purchases[i:])
	l.purchases[i] = purchase

	for j := i; j < len(l.purchases); j++ {
		l.byID[l.purchases[j].ID] = j
	}

	return nil
}

func (l *PurchaseLog) List(_ context.Context) []entities.Purchase {
	l.mu.RLock()
	defer l.mu.RUnlock()

	purchases := make([]entities.Purchase, len(l.purchases))
	copy(purchases, l.purchases)

	return purchases
}

func (l *PurchaseLog) Get(_ context.Context, id int64) (entities.Purchase, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i, ok := l.byID[id]
	if !ok {
		return entities.Purchase{}, fmt.Errorf("%w: %d", entities.ErrPurchaseNotFound, id)
	}

	return l.purchases[i], nil
}
