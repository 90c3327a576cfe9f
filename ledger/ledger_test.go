package ledger_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"ticketyboo/clock"
	"ticketyboo/db"
	"ticketyboo/entities"
	"ticketyboo/ledger"
	"ticketyboo/metrics"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var purchaseTime = time.Date(2026, 2, 1, 10, 30, 0, 0, time.UTC)

func TestLedger_Purchase(t *testing.T) {
	l, catalog, publisher := newLedger(t, testEvent(1, "65.00", 150))
	ctx := context.Background()

	purchase, err := l.Purchase(ctx, validRequest("1", "2"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), purchase.ID)
	assert.Equal(t, int64(1), purchase.EventID)
	assert.Equal(t, "Rock Legends Live", purchase.EventName)
	assert.Equal(t, 2, purchase.Quantity)
	assert.Equal(t, "Ada Lovelace", purchase.CustomerName)
	assert.Equal(t, "ada@example.com", purchase.CustomerEmail)
	assert.Equal(t, "130.00", purchase.TotalPrice.String())
	assert.Equal(t, "**** **** **** 1111", purchase.CardMasked)
	assert.Equal(t, "A LOVELACE", purchase.CardholderName)
	assert.Equal(t, purchaseTime, purchase.PurchaseDate)

	event, err := catalog.GetEvent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 148, event.AvailableTickets)

	stored, err := l.GetPurchase(ctx, purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, purchase, stored)

	published := publisher.Events()
	require.Len(t, published, 1)
	purchased, ok := published[0].(entities.TicketsPurchased_v1)
	require.True(t, ok)
	assert.Equal(t, purchase.ID, purchased.PurchaseID)
	assert.Equal(t, 148, purchased.RemainingTickets)
	assert.Equal(t, l.RunID(), purchased.RunID)
	assert.Equal(t, "purchase-"+l.RunID()+"-1", purchased.Header.IdempotencyKey)
}

func TestLedger_RunID_differs_per_ledger(t *testing.T) {
	first, _, firstPublisher := newLedger(t, testEvent(1, "65.00", 150))
	second, _, secondPublisher := newLedger(t, testEvent(1, "65.00", 150))
	ctx := context.Background()

	require.NotEmpty(t, first.RunID())
	assert.Less(t, first.RunID(), second.RunID(), "later runs must sort after earlier ones")

	_, err := first.Purchase(ctx, validRequest("1", "1"))
	require.NoError(t, err)
	_, err = second.Purchase(ctx, validRequest("1", "1"))
	require.NoError(t, err)

	// both ledgers start their id sequence at 1
	firstEvent := firstPublisher.Events()[0].(entities.TicketsPurchased_v1)
	secondEvent := secondPublisher.Events()[0].(entities.TicketsPurchased_v1)
	assert.Equal(t, firstEvent.PurchaseID, secondEvent.PurchaseID)
	assert.NotEqual(t, firstEvent.RunID, secondEvent.RunID)
	assert.NotEqual(t, firstEvent.Header.IdempotencyKey, secondEvent.Header.IdempotencyKey)
}

func TestLedger_Purchase_whole_capacity_then_one_more(t *testing.T) {
	l, catalog, publisher := newLedger(t, testEvent(1, "65.00", 150))
	ctx := context.Background()

	purchase, err := l.Purchase(ctx, validRequest("1", "150"))
	require.NoError(t, err)
	assert.Equal(t, "9750.00", purchase.TotalPrice.String())

	event, err := catalog.GetEvent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, event.AvailableTickets)

	_, err = l.Purchase(ctx, validRequest("1", "1"))
	assert.ErrorIs(t, err, entities.ErrInsufficientInventory)

	event, err = catalog.GetEvent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, event.AvailableTickets)
	assert.Len(t, l.ListPurchases(ctx), 1)

	published := publisher.Events()
	require.Len(t, published, 2)
	assert.IsType(t, entities.TicketsPurchased_v1{}, published[0])
	soldOut, ok := published[1].(entities.EventSoldOut_v1)
	require.True(t, ok)
	assert.Equal(t, int64(1), soldOut.EventID)
	assert.Equal(t, l.RunID(), soldOut.RunID)
}

func TestLedger_Purchase_rejections(t *testing.T) {
	testCases := []struct {
		Name        string
		Request     entities.PurchaseRequest
		ExpectedErr error
	}{
		{
			Name:        "missing event id",
			Request:     withEventID(validRequest("1", "1"), ""),
			ExpectedErr: entities.ErrMissingField,
		},
		{
			Name:        "missing quantity",
			Request:     validRequest("1", ""),
			ExpectedErr: entities.ErrMissingField,
		},
		{
			Name: "missing customer name",
			Request: func() entities.PurchaseRequest {
				r := validRequest("1", "1")
				r.CustomerName = "  "
				return r
			}(),
			ExpectedErr: entities.ErrMissingField,
		},
		{
			Name: "missing customer email",
			Request: func() entities.PurchaseRequest {
				r := validRequest("1", "1")
				r.CustomerEmail = ""
				return r
			}(),
			ExpectedErr: entities.ErrMissingField,
		},
		{
			Name:        "unknown event",
			Request:     validRequest("99", "1"),
			ExpectedErr: entities.ErrEventNotFound,
		},
		{
			Name:        "non numeric event id",
			Request:     validRequest("abc", "1"),
			ExpectedErr: entities.ErrEventNotFound,
		},
		{
			Name:        "zero quantity",
			Request:     validRequest("1", "0"),
			ExpectedErr: entities.ErrInvalidQuantity,
		},
		{
			Name:        "negative quantity",
			Request:     validRequest("1", "-3"),
			ExpectedErr: entities.ErrInvalidQuantity,
		},
		{
			Name:        "non numeric quantity",
			Request:     validRequest("1", "abc"),
			ExpectedErr: entities.ErrInvalidQuantity,
		},
		{
			Name:        "fractional quantity",
			Request:     validRequest("1", "1.5"),
			ExpectedErr: entities.ErrInvalidQuantity,
		},
		{
			Name:        "unknown event is checked before quantity",
			Request:     validRequest("99", "abc"),
			ExpectedErr: entities.ErrEventNotFound,
		},
		{
			Name:        "more than available",
			Request:     validRequest("1", "11"),
			ExpectedErr: entities.ErrInsufficientInventory,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			l, catalog, publisher := newLedger(t, testEvent(1, "10.00", 10))
			ctx := context.Background()

			_, err := l.Purchase(ctx, tc.Request)
			assert.ErrorIs(t, err, tc.ExpectedErr)

			event, err := catalog.GetEvent(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, 10, event.AvailableTickets, "failed purchase must not touch inventory")
			assert.Empty(t, l.ListPurchases(ctx))
			assert.Empty(t, publisher.Events())

			// the rejection consumed no id
			purchase, err := l.Purchase(ctx, validRequest("1", "1"))
			require.NoError(t, err)
			assert.Equal(t, int64(1), purchase.ID)
		})
	}
}

func TestLedger_Purchase_reports_every_missing_field(t *testing.T) {
	l, _, _ := newLedger(t, testEvent(1, "10.00", 10))

	_, err := l.Purchase(context.Background(), entities.PurchaseRequest{})

	var missingErr entities.MissingFieldError
	require.True(t, errors.As(err, &missingErr))
	assert.Equal(t, []string{"eventId", "quantity", "customerName", "customerEmail"}, missingErr.Fields)
}

func TestLedger_Purchase_concurrent(t *testing.T) {
	const (
		capacity = 40
		attempts = 300
	)

	l, catalog, _ := newLedger(t, testEvent(1, "12.50", capacity), testEvent(2, "16.50", capacity))
	ctx := context.Background()

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		successes    = map[int64]int{}
		insufficient = 0
	)
	for i := 0; i < attempts; i++ {
		eventID := "1"
		if i%2 == 1 {
			eventID = "2"
		}

		wg.Add(1)
		go func() {
			defer wg.Done()

			purchase, err := l.Purchase(ctx, validRequest(eventID, "1"))

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.ErrorIs(t, err, entities.ErrInsufficientInventory)
				insufficient++
				return
			}
			successes[purchase.EventID]++
		}()
	}
	wg.Wait()

	assert.Equal(t, capacity, successes[1])
	assert.Equal(t, capacity, successes[2])
	assert.Equal(t, attempts-2*capacity, insufficient)

	for _, id := range []int64{1, 2} {
		event, err := catalog.GetEvent(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 0, event.AvailableTickets)
	}

	purchases := l.ListPurchases(ctx)
	require.Len(t, purchases, 2*capacity)
	for i, p := range purchases {
		assert.Equal(t, int64(i+1), p.ID, "ids are dense and in order")
	}
}

func TestLedger_Purchase_capacity_invariant(t *testing.T) {
	const capacity = 100

	l, catalog, _ := newLedger(t, testEvent(1, "28.00", capacity))
	ctx := context.Background()

	quantities := []string{"7", "30", "abc", "0", "25", "50", "13", "-1", "25", "1"}
	sold := 0
	for _, q := range quantities {
		purchase, err := l.Purchase(ctx, validRequest("1", q))
		if err != nil {
			continue
		}
		sold += purchase.Quantity

		assert.True(t, purchase.TotalPrice.Equal(entities.MustMoney("28.00").Times(purchase.Quantity)))
	}

	event, err := catalog.GetEvent(ctx, 1)
	require.NoError(t, err)
	assert.LessOrEqual(t, sold, capacity)
	assert.Equal(t, capacity-sold, event.AvailableTickets)
	assert.GreaterOrEqual(t, event.AvailableTickets, 0)
}

func TestLedger_Purchase_total_price_is_exact(t *testing.T) {
	l, _, _ := newLedger(t, testEvent(1, "0.10", 1000), testEvent(2, "16.50", 1000))
	ctx := context.Background()

	purchase, err := l.Purchase(ctx, validRequest("1", "3"))
	require.NoError(t, err)
	assert.Equal(t, "0.30", purchase.TotalPrice.String())

	purchase, err = l.Purchase(ctx, validRequest("2", "7"))
	require.NoError(t, err)
	assert.Equal(t, "115.50", purchase.TotalPrice.String())
}

func TestLedger_Purchase_keeps_no_raw_card_data(t *testing.T) {
	l, catalog, publisher := newLedger(t, testEvent(1, "42.00", 100))
	ctx := context.Background()

	req := validRequest("1", "2")
	req.CardNumber = "4000 1234 5678 9010"
	req.CardExpiry = "12/29"
	req.CardCvv = "737"

	purchase, err := l.Purchase(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "**** **** **** 9010", purchase.CardMasked)

	var serialized []string
	for _, v := range []any{purchase, l.ListPurchases(ctx), catalog.ListEvents(ctx, ""), publisher.Events()} {
		payload, err := json.Marshal(v)
		require.NoError(t, err)
		serialized = append(serialized, string(payload))
	}

	for _, payload := range serialized {
		assert.NotContains(t, payload, "4000 1234 5678 9010")
		assert.NotContains(t, payload, "4000123456789010")
		assert.NotContains(t, payload, "12/29")
		assert.NotContains(t, payload, "737")
	}
}

func TestLedger_Purchase_publish_failure_does_not_fail_purchase(t *testing.T) {
	catalog, err := db.NewCatalog(testEvent(1, "20.00", 1))
	require.NoError(t, err)

	publisher := &publisherMock{}
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	m := metrics.New()
	l := ledger.New(catalog, db.NewPurchaseLog(), publisher, m, clock.Fixed(purchaseTime))

	purchase, err := l.Purchase(context.Background(), validRequest("1", "1"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purchase.ID)

	// TicketsPurchased_v1 and EventSoldOut_v1
	publisher.AssertNumberOfCalls(t, "Publish", 2)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PublishFailures("TicketsPurchased_v1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PublishFailures("EventSoldOut_v1")))

	stored, err := l.GetPurchase(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, purchase, stored)
}

func TestLedger_Purchase_releases_tickets_when_not_recorded(t *testing.T) {
	catalog, err := db.NewCatalog(testEvent(1, "20.00", 10))
	require.NoError(t, err)

	publisher := &recordingPublisher{}
	purchases := failingPurchaseLog{PurchaseLog: db.NewPurchaseLog()}
	l := ledger.New(catalog, purchases, publisher, metrics.New(), clock.Fixed(purchaseTime))
	ctx := context.Background()

	_, err = l.Purchase(ctx, validRequest("1", "4"))
	require.Error(t, err)
	assert.Equal(t, entities.CodeInternal, entities.Code(err))

	event, err := catalog.GetEvent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, event.AvailableTickets)
	assert.Empty(t, l.ListPurchases(ctx))
	assert.Empty(t, publisher.Events())
}

func TestLedger_GetPurchase_not_found(t *testing.T) {
	l, _, _ := newLedger(t)

	_, err := l.GetPurchase(context.Background(), 1)
	assert.ErrorIs(t, err, entities.ErrPurchaseNotFound)
	assert.Empty(t, l.ListPurchases(context.Background()))
}

func newLedger(t *testing.T, events ...entities.Event) (*ledger.Ledger, *db.Catalog, *recordingPublisher) {
	t.Helper()

	catalog, err := db.NewCatalog(events...)
	require.NoError(t, err)

	publisher := &recordingPublisher{}
	l := ledger.New(catalog, db.NewPurchaseLog(), publisher, metrics.New(), clock.Fixed(purchaseTime))

	return l, catalog, publisher
}

func validRequest(eventID, quantity string) entities.PurchaseRequest {
	return entities.PurchaseRequest{
		EventID:        entities.Scalar(eventID),
		Quantity:       entities.Scalar(quantity),
		CustomerName:   "Ada Lovelace",
		CustomerEmail:  "ada@example.com",
		CardNumber:     "4111 1111 1111 1111",
		CardExpiry:     "01/30",
		CardCvv:        "123",
		CardholderName: "A LOVELACE",
	}
}

func withEventID(req entities.PurchaseRequest, eventID string) entities.PurchaseRequest {
	req.EventID = entities.Scalar(eventID)
	return req
}

func testEvent(id int64, price string, available int) entities.Event {
	return entities.Event{
		ID:               id,
		Category:         entities.CategoryConcert,
		Name:             "Rock Legends Live",
		Artist:           "The Thunder Band",
		Venue:            "O2 Arena, London",
		Date:             "2026-03-15",
		Time:             "19:00",
		Price:            entities.MustMoney(price),
		AvailableTickets: available,
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []any
}

func (p *recordingPublisher) Publish(_ context.Context, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Events() []any {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]any{}, p.events...)
}

type failingPurchaseLog struct {
	*db.PurchaseLog
}

func (failingPurchaseLog) Append(context.Context, entities.Purchase) error {
	return errors.New("purchase log unavailable")
}

type publisherMock struct {
	mock.Mock
}

func (p *publisherMock) Publish(ctx context.Context, event any) error {
	args := p.Called(ctx, event)
	return args.Error(0)
}
