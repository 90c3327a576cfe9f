package entities

import "time"

// EventSales is the ops read model of everything sold for one event.
// Counters add up across runs; availability describes RunID, the latest run
// seen for the event.
type EventSales struct {
	RunID            string     `json:"runId"`
	EventID          int64      `json:"eventId"`
	EventName        string     `json:"eventName"`
	Purchases        int        `json:"purchases"`
	TicketsSold      int        `json:"ticketsSold"`
	Revenue          Money      `json:"revenue"`
	RemainingTickets int        `json:"remainingTickets"`
	SoldOut          bool       `json:"soldOut"`
	SoldOutAt        *time.Time `json:"soldOutAt,omitempty"`
	LastPurchaseAt   time.Time  `json:"lastPurchaseAt"`
}
