package entities

import (
	"time"

	"github.com/google/uuid"
)

type IEvent interface {
	IsInternal() bool
}

type EventHeader struct {
	ID             string    `json:"id"`
	PublishedAt    time.Time `json:"published_at"`
	IdempotencyKey string    `json:"idempotency_key"`
}

func NewEventHeader() EventHeader {
	return EventHeader{
		ID:             uuid.NewString(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: uuid.NewString(),
	}
}

func NewEventHeaderWithIdempotencyKey(idempotencyKey string) EventHeader {
	return EventHeader{
		ID:             uuid.NewString(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: idempotencyKey,
	}
}

type TicketsPurchased_v1 struct {
	Header EventHeader `json:"header"`

	// RunID names the ledger instance that sold the tickets. Purchase ids
	// are only unique within one run.
	RunID         string `json:"run_id"`
	PurchaseID    int64  `json:"purchase_id"`
	EventID       int64  `json:"event_id"`
	EventName     string `json:"event_name"`
	Quantity      int    `json:"quantity"`
	CustomerEmail string `json:"customer_email"`
	TotalPrice    Money  `json:"total_price"`

	RemainingTickets int       `json:"remaining_tickets"`
	PurchasedAt      time.Time `json:"purchased_at"`
}

func (e TicketsPurchased_v1) IsInternal() bool {
	return false
}

type EventSoldOut_v1 struct {
	Header EventHeader `json:"header"`

	RunID     string    `json:"run_id"`
	EventID   int64     `json:"event_id"`
	EventName string    `json:"event_name"`
	SoldOutAt time.Time `json:"sold_out_at"`
}

func (e EventSoldOut_v1) IsInternal() bool {
	return false
}

// DataLakeEvent is a published event as archived in the data lake.
type DataLakeEvent struct {
	EventID      string    `db:"event_id"`
	PublishedAt  time.Time `db:"published_at"`
	EventName    string    `db:"event_name"`
	EventPayload []byte    `db:"event_payload"`
}
