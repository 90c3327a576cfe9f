package db

import (
	"context"
	"fmt"
	"sync"
	"ticketyboo/entities"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type catalogEntry struct {
	mu    sync.Mutex
	event entities.Event
}

// Catalog is the in-memory event store. Reads and reservations on
// different events never contend; reservations on one event are
// serialized by that event's lock.
type Catalog struct {
	mu      sync.RWMutex
	entries map[int64]*catalogEntry
	order   []int64
}

func NewCatalog(events ...entities.Event) (*Catalog, error) {
	c := &Catalog{
		entries: make(map[int64]*catalogEntry, len(events)),
	}
	for _, e := range events {
		if err := c.Add(e); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) Add(event entities.Event) error {
	if event.ID <= 0 || event.AvailableTickets < 0 || !event.Category.IsValid() || event.Price.IsNegative() {
		return fmt.Errorf(
			"%w: id=%d category=%q available=%d price=%s",
			entities.ErrInvalidEvent, event.ID, event.Category, event.AvailableTickets, event.Price.String(),
		)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[event.ID]; ok {
		return fmt.Errorf("%w: %d", entities.ErrDuplicateEvent, event.ID)
	}
	c.entries[event.ID] = &catalogEntry{event: event}
	c.order = append(c.order, event.ID)

	return nil
}

// ListEvents returns snapshots in insertion order. An empty category
// returns every event; a category with no events returns an empty slice.
func (c *Catalog) ListEvents(_ context.Context, category entities.Category) []entities.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()

	events := make([]entities.Event, 0, len(c.order))
	for _, id := range c.order {
		event := c.entries[id].snapshot()
		if category != "" && event.Category != category {
			continue
		}
		events = append(events, event)
	}

	return events
}

func (c *Catalog) GetEvent(_ context.Context, id int64) (entities.Event, error) {
	entry, ok := c.entry(id)
	if !ok {
		return entities.Event{}, fmt.Errorf("%w: %d", entities.ErrEventNotFound, id)
	}
	return entry.snapshot(), nil
}

// ReserveTickets checks and decrements availability in one step under the
// event's lock. On failure the event is left untouched.
func (c *Catalog) ReserveTickets(ctx context.Context, id int64, quantity int) (_ entities.Event, err error) {
	_, span := otel.Tracer("catalog").Start(
		ctx,
		"Catalog.ReserveTickets",
		trace.WithAttributes(
			attribute.Int64("event_id", id),
			attribute.Int("quantity", quantity),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if quantity < 1 {
		return entities.Event{}, fmt.Errorf("%w: %d", entities.ErrInvalidQuantity, quantity)
	}

	entry, ok := c.entry(id)
	if !ok {
		return entities.Event{}, fmt.Errorf("%w: %d", entities.ErrEventNotFound, id)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if quantity > entry.event.AvailableTickets {
		return entities.Event{}, fmt.Errorf(
			"%w: requested %d, %d left for event %d",
			entities.ErrInsufficientInventory, quantity, entry.event.AvailableTickets, id,
		)
	}
	entry.event.AvailableTickets -= quantity

	span.SetAttributes(attribute.Int("remaining_tickets", entry.event.AvailableTickets))

	return entry.event, nil
}

// ReleaseTickets returns tickets of a reservation that was never turned into
// a purchase.
func (c *Catalog) ReleaseTickets(_ context.Context, id int64, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: %d", entities.ErrInvalidQuantity, quantity)
	}

	entry, ok := c.entry(id)
	if !ok {
		return fmt.Errorf("%w: %d", entities.ErrEventNotFound, id)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.event.AvailableTickets += quantity

	return nil
}

func (c *Catalog) entry(id int64) (*catalogEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[id]
	return entry, ok
}

func (e *catalogEntry) snapshot() entities.Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.event
}
