package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"ticketyboo/clock"
	"ticketyboo/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Catalog interface {
	GetEvent(ctx context.Context, id int64) (entities.Event, error)
	ReserveTickets(ctx context.Context, id int64, quantity int) (entities.Event, error)
	ReleaseTickets(ctx context.Context, id int64, quantity int) error
}

type PurchaseLog interface {
	Append(ctx context.Context, purchase entities.Purchase) error
	List(ctx context.Context) []entities.Purchase
	Get(ctx context.Context, id int64) (entities.Purchase, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

type Metrics interface {
	PurchaseCommitted(purchase entities.Purchase)
	PurchaseRejected(code entities.ErrorCode)
	PublishFailed(eventName string)
}

// Ledger turns purchase requests into committed purchases. It owns the
// purchase id sequence; ids are only taken once a reservation succeeded.
//
// The sequence restarts with every Ledger, so published events carry the
// ledger's run id next to the purchase id.
type Ledger struct {
	catalog   Catalog
	purchases PurchaseLog
	publisher EventPublisher
	metrics   Metrics
	clock     clock.Clock

	runID  string
	lastID atomic.Int64
}

func New(
	catalog Catalog,
	purchases PurchaseLog,
	publisher EventPublisher,
	metrics Metrics,
	clk clock.Clock,
) *Ledger {
	if catalog == nil {
		panic("missing catalog")
	}
	if purchases == nil {
		panic("missing purchase log")
	}
	if publisher == nil {
		panic("missing event publisher")
	}
	if metrics == nil {
		panic("missing metrics")
	}
	if clk == nil {
		clk = clock.System{}
	}

	return &Ledger{
		catalog:   catalog,
		purchases: purchases,
		publisher: publisher,
		metrics:   metrics,
		clock:     clk,
		runID:     newRunID(),
	}
}

// newRunID returns a v7 uuid; those sort by creation time, so later runs
// compare greater.
func newRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (l *Ledger) RunID() string {
	return l.runID
}

func (l *Ledger) Purchase(ctx context.Context, req entities.PurchaseRequest) (purchase entities.Purchase, err error) {
	ctx, span := otel.Tracer("ledger").Start(ctx, "Ledger.Purchase")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			l.metrics.PurchaseRejected(entities.Code(err))
		}
		span.End()
	}()

	if missing := missingFields(req); len(missing) > 0 {
		return entities.Purchase{}, entities.MissingFieldError{Fields: missing}
	}

	eventID, err := req.EventID.Int64()
	if err != nil {
		return entities.Purchase{}, fmt.Errorf("%w: %q", entities.ErrEventNotFound, string(req.EventID))
	}
	span.SetAttributes(attribute.Int64("event_id", eventID))

	event, err := l.catalog.GetEvent(ctx, eventID)
	if err != nil {
		return entities.Purchase{}, err
	}

	quantity, err := parseQuantity(req.Quantity)
	if err != nil {
		return entities.Purchase{}, err
	}
	span.SetAttributes(attribute.Int("quantity", quantity))

	reserved, err := l.catalog.ReserveTickets(ctx, eventID, quantity)
	if err != nil {
		return entities.Purchase{}, fmt.Errorf("could not reserve tickets: %w", err)
	}

	purchase = entities.Purchase{
		EventID:        event.ID,
		EventName:      event.Name,
		Quantity:       quantity,
		CustomerName:   strings.TrimSpace(req.CustomerName),
		CustomerEmail:  strings.TrimSpace(req.CustomerEmail),
		TotalPrice:     event.Price.Times(quantity),
		CardMasked:     entities.MaskCardNumber(req.CardNumber),
		CardholderName: strings.TrimSpace(req.CardholderName),
		PurchaseDate:   l.clock.Now(),
	}
	purchase.ID = l.lastID.Add(1)

	if err := l.purchases.Append(ctx, purchase); err != nil {
		// ids are unique per ledger, so this means the log is shared wrongly
		l.releaseTickets(ctx, eventID, quantity)
		return entities.Purchase{}, fmt.Errorf("could not record purchase %d: %w", purchase.ID, err)
	}
	span.SetAttributes(attribute.Int64("purchase_id", purchase.ID))

	l.metrics.PurchaseCommitted(purchase)

	log.FromContext(ctx).WithFields(logrus.Fields{
		"purchase_id":       purchase.ID,
		"event_id":          purchase.EventID,
		"quantity":          purchase.Quantity,
		"total_price":       purchase.TotalPrice.String(),
		"card_masked":       purchase.CardMasked,
		"remaining_tickets": reserved.AvailableTickets,
	}).Info("Purchase committed")

	l.publishPurchased(ctx, purchase, reserved)

	return purchase, nil
}

// releaseTickets hands back a reservation that no purchase was recorded for.
func (l *Ledger) releaseTickets(ctx context.Context, eventID int64, quantity int) {
	if err := l.catalog.ReleaseTickets(ctx, eventID, quantity); err != nil {
		log.FromContext(ctx).WithError(err).WithFields(logrus.Fields{
			"event_id": eventID,
			"quantity": quantity,
		}).Error("Could not release reserved tickets")
	}
}

func (l *Ledger) ListPurchases(ctx context.Context) []entities.Purchase {
	return l.purchases.List(ctx)
}

func (l *Ledger) GetPurchase(ctx context.Context, id int64) (entities.Purchase, error) {
	return l.purchases.Get(ctx, id)
}

// publishPurchased runs after the commit; a purchase is never undone
// because its events could not be published.
func (l *Ledger) publishPurchased(ctx context.Context, purchase entities.Purchase, reserved entities.Event) {
	l.publish(ctx, entities.TicketsPurchased_v1{
		Header:           entities.NewEventHeaderWithIdempotencyKey(fmt.Sprintf("purchase-%s-%d", l.runID, purchase.ID)),
		RunID:            l.runID,
		PurchaseID:       purchase.ID,
		EventID:          purchase.EventID,
		EventName:        purchase.EventName,
		Quantity:         purchase.Quantity,
		CustomerEmail:    purchase.CustomerEmail,
		TotalPrice:       purchase.TotalPrice,
		RemainingTickets: reserved.AvailableTickets,
		PurchasedAt:      purchase.PurchaseDate,
	})

	if reserved.AvailableTickets == 0 {
		l.publish(ctx, entities.EventSoldOut_v1{
			Header:    entities.NewEventHeaderWithIdempotencyKey(fmt.Sprintf("sold-out-%s-%d", l.runID, reserved.ID)),
			RunID:     l.runID,
			EventID:   reserved.ID,
			EventName: reserved.Name,
			SoldOutAt: purchase.PurchaseDate,
		})
	}
}

func (l *Ledger) publish(ctx context.Context, event any) {
	name := fmt.Sprintf("%T", event)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}

	if err := l.publisher.Publish(ctx, event); err != nil {
		l.metrics.PublishFailed(name)
		log.FromContext(ctx).WithError(err).WithField("event_name", name).Error("Could not publish event")
	}
}

func missingFields(req entities.PurchaseRequest) []string {
	var missing []string
	if req.EventID.IsZero() {
		missing = append(missing, "eventId")
	}
	if req.Quantity.IsZero() {
		missing = append(missing, "quantity")
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		missing = append(missing, "customerName")
	}
	if strings.TrimSpace(req.CustomerEmail) == "" {
		missing = append(missing, "customerEmail")
	}
	return missing
}

func parseQuantity(raw entities.Scalar) (int, error) {
	q, err := raw.Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %q", entities.ErrInvalidQuantity, string(raw))
	}
	if q < 1 {
		return 0, fmt.Errorf("%w: %d", entities.ErrInvalidQuantity, q)
	}
	return int(q), nil
}
