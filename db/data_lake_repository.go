package db

import (
	"context"
	"fmt"
	"ticketyboo/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

type DataLakeRepository struct {
	db *DB
}

func NewDataLakeRepository(db *DB) DataLakeRepository {
	if db == nil {
		panic("db is nil")
	}
	return DataLakeRepository{
		db: db,
	}
}

// Store archives a published event. Storing the same event id twice is a no-op.
func (r DataLakeRepository) Store(ctx context.Context, event entities.DataLakeEvent) error {
	_, err := r.db.Conn.NamedExecContext(ctx, `
		INSERT INTO 
		    events (event_id, published_at, event_name, event_payload)
		VALUES
			(:event_id, :published_at, :event_name, :event_payload)
`, event)
	if isErrorUniqueViolation(err) {
		log.FromContext(ctx).
			WithField("event_id", event.EventID).
			Info("Event already stored in data lake, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not store event %s in data lake: %w", event.EventID, err)
	}

	return nil
}

func (r DataLakeRepository) Events(ctx context.Context) ([]entities.DataLakeEvent, error) {
	var events []entities.DataLakeEvent
	err := r.db.Conn.SelectContext(ctx, &events, `
		SELECT event_id, published_at, event_name, event_payload
		FROM events
		ORDER BY published_at ASC
`)
	if err != nil {
		return nil, fmt.Errorf("could not select data lake events: %w", err)
	}

	return events, nil
}
