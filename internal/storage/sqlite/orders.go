package sqlite

import (
	"context"
	"fmt"

	"github.com/grillburger/backend/internal/models"
	"github.com/grillburger/backend/internal/storage"
)

// AppendOrder writes an order and its line snapshots in one
// transaction. The order must already carry its ID, timestamp and
// total; the store never invents order state.
func (s *SQLiteStore) AppendOrder(ctx context.Context, accountID string, order *models.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &storage.PersistenceError{Op: "append order", Err: err}
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO orders (id, account_id, total, created_at) VALUES (?, ?, ?, ?)",
		order.ID, accountID, order.Total, order.CreatedAt,
	)
	if err != nil {
		return &storage.PersistenceError{Op: "append order", Err: fmt.Errorf("insert order: %w", err)}
	}

	for i, line := range order.Lines {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO order_lines (order_id, position, product_id, name, pack, portion, quantity, base_price) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			order.ID, i, line.ProductID, line.Name, line.Pack, string(line.Portion), line.Quantity, line.BasePrice,
		)
		if err != nil {
			return &storage.PersistenceError{Op: "append order", Err: fmt.Errorf("insert line %d: %w", i, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &storage.PersistenceError{Op: "append order", Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}

// ListOrders returns an account's complete history, newest first. Rowid
// breaks ties between orders written within the same millisecond.
func (s *SQLiteStore) ListOrders(ctx context.Context, accountID string) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, total, created_at FROM orders WHERE account_id = ? ORDER BY created_at DESC, rowid DESC",
		accountID,
	)
	if err != nil {
		return nil, &storage.PersistenceError{Op: "list orders", Err: err}
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.Total, &o.CreatedAt); err != nil {
			return nil, &storage.PersistenceError{Op: "list orders", Err: fmt.Errorf("scan order: %w", err)}
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, &storage.PersistenceError{Op: "list orders", Err: err}
	}

	for i := range orders {
		lines, err := s.orderLines(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Lines = lines
	}
	return orders, nil
}

func (s *SQLiteStore) orderLines(ctx context.Context, orderID string) ([]models.CartLine, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT product_id, name, pack, portion, quantity, base_price FROM order_lines WHERE order_id = ? ORDER BY position",
		orderID,
	)
	if err != nil {
		return nil, &storage.PersistenceError{Op: "list order lines", Err: err}
	}
	defer rows.Close()

	var lines []models.CartLine
	for rows.Next() {
		var line models.CartLine
		var portion string
		if err := rows.Scan(&line.ProductID, &line.Name, &line.Pack, &portion, &line.Quantity, &line.BasePrice); err != nil {
			return nil, &storage.PersistenceError{Op: "list order lines", Err: fmt.Errorf("scan line: %w", err)}
		}
		line.Portion = models.Portion(portion)
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, &storage.PersistenceError{Op: "list order lines", Err: err}
	}
	return lines, nil
}
