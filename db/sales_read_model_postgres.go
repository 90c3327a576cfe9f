package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"ticketyboo/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// PostgresSalesReadModel keeps the ops sales view in Postgres so that it
// survives restarts of the ops tooling and can be shared between replicas
// consuming the same topic.
type PostgresSalesReadModel struct {
	db *DB
}

func NewPostgresSalesReadModel(db *DB) PostgresSalesReadModel {
	if db == nil {
		panic("db is nil")
	}
	return PostgresSalesReadModel{
		db: db,
	}
}

func (r PostgresSalesReadModel) OnTicketsPurchased(ctx context.Context, event *entities.TicketsPurchased_v1) error {
	return updateInTx(
		ctx,
		r.db.Conn,
		sql.LevelRepeatableRead,
		func(ctx context.Context, tx *sqlx.Tx) error {
			res, err := tx.ExecContext(ctx, `
				INSERT INTO read_model_sales_purchases (run_id, purchase_id, event_id)
				VALUES ($1, $2, $3)
				ON CONFLICT (run_id, purchase_id) DO NOTHING
			`, event.RunID, event.PurchaseID, event.EventID)
			if err != nil {
				return fmt.Errorf("could not mark purchase %s/%d as applied: %w", event.RunID, event.PurchaseID, err)
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if affected == 0 {
				log.FromContext(ctx).WithFields(logrus.Fields{
					"run_id":      event.RunID,
					"purchase_id": event.PurchaseID,
				}).Debug("Purchase already applied to sales read model")
				return nil
			}

			rm, err := r.findForUpdate(ctx, tx, event.EventID)
			if err != nil {
				return err
			}

			return r.upsert(ctx, tx, applyPurchase(rm, event))
		},
	)
}

func (r PostgresSalesReadModel) OnEventSoldOut(ctx context.Context, event *entities.EventSoldOut_v1) error {
	return updateInTx(
		ctx,
		r.db.Conn,
		sql.LevelRepeatableRead,
		func(ctx context.Context, tx *sqlx.Tx) error {
			rm, err := r.findForUpdate(ctx, tx, event.EventID)
			if err != nil {
				return err
			}

			return r.upsert(ctx, tx, applySoldOut(rm, event))
		},
	)
}

func (r PostgresSalesReadModel) AllSales(ctx context.Context) ([]entities.EventSales, error) {
	var payloads [][]byte
	err := r.db.Conn.SelectContext(ctx, &payloads, `
		SELECT payload FROM read_model_event_sales ORDER BY event_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("could not select sales read models: %w", err)
	}

	sales := make([]entities.EventSales, 0, len(payloads))
	for _, payload := range payloads {
		var s entities.EventSales
		if err := json.Unmarshal(payload, &s); err != nil {
			return nil, fmt.Errorf("could not unmarshal sales read model: %w", err)
		}
		sales = append(sales, s)
	}

	return sales, nil
}

func (r PostgresSalesReadModel) SalesForEvent(ctx context.Context, eventID int64) (entities.EventSales, error) {
	var payload []byte
	err := r.db.Conn.GetContext(ctx, &payload, `
		SELECT payload FROM read_model_event_sales WHERE event_id = $1
	`, eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.EventSales{}, fmt.Errorf("%w: %d", entities.ErrSalesNotFound, eventID)
	}
	if err != nil {
		return entities.EventSales{}, fmt.Errorf("could not get sales read model: %w", err)
	}

	var s entities.EventSales
	if err := json.Unmarshal(payload, &s); err != nil {
		return entities.EventSales{}, fmt.Errorf("could not unmarshal sales read model: %w", err)
	}

	return s, nil
}

// findForUpdate returns the zero value when the event has no row yet.
func (r PostgresSalesReadModel) findForUpdate(ctx context.Context, tx *sqlx.Tx, eventID int64) (entities.EventSales, error) {
	var payload []byte
	err := tx.GetContext(ctx, &payload, `
		SELECT payload FROM read_model_event_sales WHERE event_id = $1 FOR UPDATE
	`, eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.EventSales{}, nil
	}
	if err != nil {
		return entities.EventSales{}, fmt.Errorf("could not find sales read model: %w", err)
	}

	var rm entities.EventSales
	if err := json.Unmarshal(payload, &rm); err != nil {
		return entities.EventSales{}, fmt.Errorf("could not unmarshal sales read model: %w", err)
	}

	return rm, nil
}

func (r PostgresSalesReadModel) upsert(ctx context.Context, tx *sqlx.Tx, rm entities.EventSales) error {
	payload, err := json.Marshal(rm)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO
			read_model_event_sales (event_id, payload)
		VALUES
			($1, $2)
		ON CONFLICT (event_id) DO UPDATE SET payload = excluded.payload;
	`, rm.EventID, payload)
	if err != nil {
		return fmt.Errorf("could not update sales read model: %w", err)
	}

	return nil
}
