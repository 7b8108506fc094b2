package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore is the Postgres-backed Store. Build and pricing snapshots are
// stored as jsonb; UpdateOrder takes a row lock (FOR UPDATE) so each
// mutation has exclusive access to the record it touches, and appends the
// returned events in the same transaction.
type PgStore struct{ DB *pgxpool.Pool }

const orderColumns = `id, stock_number, vin, status, inventory_status, buyer_segment, buyer_name,
	build_json, pricing_json,
	oem_eta, upfitter_eta, delivery_eta,
	actual_oem_completed, actual_upfitter_completed, actual_delivery_completed,
	website_status, priority, tags, created_at, updated_at, created_by, updated_by`

type rowScanner interface{ Scan(dest ...any) error }

func scanOrder(row rowScanner) (Order, error) {
	var o Order
	var buildJSON, pricingJSON []byte
	err := row.Scan(
		&o.ID, &o.StockNumber, &o.VIN, &o.Status, &o.InventoryStatus, &o.BuyerSegment, &o.BuyerName,
		&buildJSON, &pricingJSON,
		&o.OemEta, &o.UpfitterEta, &o.DeliveryEta,
		&o.ActualOemCompleted, &o.ActualUpfitterCompleted, &o.ActualDeliveryCompleted,
		&o.DealerWebsiteStatus, &o.Priority, &o.Tags, &o.CreatedAt, &o.UpdatedAt, &o.CreatedBy, &o.UpdatedBy,
	)
	if err != nil {
		return Order{}, err
	}
	if err := json.Unmarshal(buildJSON, &o.Build); err != nil {
		return Order{}, fmt.Errorf("decode build_json: %w", err)
	}
	if err := json.Unmarshal(pricingJSON, &o.Pricing); err != nil {
		return Order{}, fmt.Errorf("decode pricing_json: %w", err)
	}
	return o, nil
}

func orderArgs(o Order) ([]any, error) {
	buildJSON, err := json.Marshal(o.Build)
	if err != nil {
		return nil, err
	}
	pricingJSON, err := json.Marshal(o.Pricing)
	if err != nil {
		return nil, err
	}
	return []any{
		o.ID, o.StockNumber, o.VIN, o.Status, o.InventoryStatus, o.BuyerSegment, o.BuyerName,
		buildJSON, pricingJSON,
		o.OemEta, o.UpfitterEta, o.DeliveryEta,
		o.ActualOemCompleted, o.ActualUpfitterCompleted, o.ActualDeliveryCompleted,
		o.DealerWebsiteStatus, o.Priority, o.Tags, o.CreatedAt, o.UpdatedAt, o.CreatedBy, o.UpdatedBy,
	}, nil
}

func (s *PgStore) GetOrder(ctx context.Context, id string) (Order, error) {
	row := s.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return o, err
}

func (s *PgStore) ListOrders(ctx context.Context, f Filter) ([]Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	args := []any{}
	add := func(col, val string) {
		if val == "" {
			return
		}
		args = append(args, val)
		q += fmt.Sprintf(" AND %s=$%d", col, len(args))
	}
	add("status", string(f.Status))
	add("inventory_status", string(f.InventoryStatus))
	add("website_status", string(f.WebsiteStatus))
	add("buyer_segment", string(f.BuyerSegment))
	q += ` ORDER BY created_at, id`

	rows, err := s.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *PgStore) InsertOrder(ctx context.Context, o Order, initial StatusEvent) error {
	args, err := orderArgs(o)
	if err != nil {
		return err
	}
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `INSERT INTO orders(`+orderColumns+`) VALUES
		($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)`, args...); err != nil {
		return err
	}
	if err := insertEvent(ctx, tx, initial); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PgStore) UpdateOrder(ctx context.Context, id string, mutate func(o *Order) ([]StatusEvent, error)) (Order, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1 FOR UPDATE`, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}

	evs, err := mutate(&o)
	if err != nil {
		// rollback via defer, prior state untouched
		return Order{}, err
	}

	args, err := orderArgs(o)
	if err != nil {
		return Order{}, err
	}
	if _, err := tx.Exec(ctx, `UPDATE orders SET
		stock_number=$2, vin=$3, status=$4, inventory_status=$5, buyer_segment=$6, buyer_name=$7,
		build_json=$8, pricing_json=$9,
		oem_eta=$10, upfitter_eta=$11, delivery_eta=$12,
		actual_oem_completed=$13, actual_upfitter_completed=$14, actual_delivery_completed=$15,
		website_status=$16, priority=$17, tags=$18, created_at=$19, updated_at=$20, created_by=$21, updated_by=$22
		WHERE id=$1`, args...); err != nil {
		return Order{}, err
	}
	for _, ev := range evs {
		if err := insertEvent(ctx, tx, ev); err != nil {
			return Order{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return o, nil
}

func insertEvent(ctx context.Context, tx pgx.Tx, ev StatusEvent) error {
	_, err := tx.Exec(ctx, `INSERT INTO status_events(id, order_id, from_status, to_status, at)
		VALUES ($1,$2,$3,$4,$5)`, ev.ID, ev.OrderID, ev.From, ev.To, ev.At)
	return err
}

func (s *PgStore) DeleteOrders(ctx context.Context, ids []string) (int, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Dependent events and notes go with the order.
	if _, err := tx.Exec(ctx, `DELETE FROM status_events WHERE order_id = ANY($1)`, ids); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM order_notes WHERE order_id = ANY($1)`, ids); err != nil {
		return 0, err
	}
	ct, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return int(ct.RowsAffected()), nil
}

func (s *PgStore) ListEvents(ctx context.Context, orderID string) ([]StatusEvent, error) {
	if _, err := s.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	rows, err := s.DB.Query(ctx, `SELECT id, order_id, from_status, to_status, at
		FROM status_events WHERE order_id=$1 ORDER BY at, id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StatusEvent
	for rows.Next() {
		var ev StatusEvent
		if err := rows.Scan(&ev.ID, &ev.OrderID, &ev.From, &ev.To, &ev.At); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *PgStore) AddNote(ctx context.Context, n Note) error {
	if _, err := s.GetOrder(ctx, n.OrderID); err != nil {
		return err
	}
	_, err := s.DB.Exec(ctx, `INSERT INTO order_notes(id, order_id, note_text, note_user, at)
		VALUES ($1,$2,$3,$4,$5)`, n.ID, n.OrderID, n.Text, n.User, n.At)
	return err
}

func (s *PgStore) ListNotes(ctx context.Context, orderID string) ([]Note, error) {
	if _, err := s.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	rows, err := s.DB.Query(ctx, `SELECT id, order_id, note_text, note_user, at
		FROM order_notes WHERE order_id=$1 ORDER BY at, id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.OrderID, &n.Text, &n.User, &n.At); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *PgStore) NextSequence(ctx context.Context, name string) (int, error) {
	var v int
	err := s.DB.QueryRow(ctx, `INSERT INTO sequences(name, value) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = sequences.value + 1
		RETURNING value`, name).Scan(&v)
	return v, err
}
