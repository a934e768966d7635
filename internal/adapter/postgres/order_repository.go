package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/YelzhanWeb/sous/internal/domain"
	"github.com/YelzhanWeb/sous/internal/interfaces"
)

var ErrOrderNotFound = errors.New("order not found")

const (
	insertOrderSQL = `
		INSERT INTO orders (id, number, mode, details, total_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	insertItemSQL = `
		INSERT INTO order_items (order_id, dish_id, name, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
	`
	insertStatusSQL = `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at)
		VALUES ($1, $2, $3, $4)
	`
	updateStatusSQL = `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`
	latestOrderSQL  = `SELECT id FROM orders WHERE number = $1 ORDER BY created_at DESC LIMIT 1`
	historySQL      = `
		SELECT l.status, l.changed_at
		FROM order_status_log l
		WHERE l.order_id = (
			SELECT id FROM orders WHERE number = $1 ORDER BY created_at DESC LIMIT 1
		)
		ORDER BY l.changed_at ASC, l.id ASC
	`
)

type orderJournal struct {
	db    DB
	newID func() uuid.UUID
}

func NewOrderJournal(db DB) interfaces.OrderJournal {
	return &orderJournal{db: db, newID: uuid.New}
}

// Record stores the order and its lines. The initial status is logged
// separately by LogStatus.
func (r *orderJournal) Record(ctx context.Context, order domain.Order) error {
	id := r.newID()

	return inTx(ctx, r.db, func(tx Tx) error {
		err := tx.Exec(ctx, insertOrderSQL,
			id, order.ID, string(order.Mode), order.Details, order.Total, string(order.Status),
			order.CreatedAt, order.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		for _, item := range order.Items {
			if err := tx.Exec(ctx, insertItemSQL, id, item.ID, item.Name, item.Quantity, item.Price); err != nil {
				return fmt.Errorf("failed to insert order item: %w", err)
			}
		}
		return nil
	})
}

// LogStatus appends a status change to the most recent order with the
// given number and updates its current status.
func (r *orderJournal) LogStatus(ctx context.Context, update interfaces.StatusUpdateMessage) error {
	return inTx(ctx, r.db, func(tx Tx) error {
		id, err := latestOrderID(ctx, tx, update.OrderNumber)
		if err != nil {
			return err
		}

		if err := tx.Exec(ctx, insertStatusSQL, id, string(update.NewStatus), update.ChangedBy, update.Timestamp); err != nil {
			return fmt.Errorf("failed to log status: %w", err)
		}

		if err := tx.Exec(ctx, updateStatusSQL, string(update.NewStatus), update.Timestamp, id); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		return nil
	})
}

func (r *orderJournal) GetStatusHistory(ctx context.Context, orderNumber string) ([]domain.StatusLog, error) {
	rows, err := r.db.Query(ctx, historySQL, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	var logs []domain.StatusLog
	for rows.Next() {
		var (
			log    domain.StatusLog
			status string
		)
		if err := rows.Scan(&status, &log.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status log: %w", err)
		}
		log.Status = domain.Status(status)
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read status history: %w", err)
	}

	return logs, nil
}

func latestOrderID(ctx context.Context, tx Tx, number string) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, latestOrderSQL, number).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("%s: %w", number, ErrOrderNotFound)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to find order: %w", err)
	}
	return id, nil
}
