package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Store interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListForUser(ctx context.Context, userID int64) ([]Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
	CountForBusiness(ctx context.Context, businessID int64) (int, error)
	CompletedCountForBusiness(ctx context.Context, businessID int64) (int, error)
}

type Repository struct {
	db DB
}

func NewRepository(db DB) Store {
	return &Repository{db: db}
}

const orderColumns = `
  id, order_number, customer_id, business_id, offer_detail_id, title,
  revisions, delivery_time_in_days, price, features, offer_type, status,
  created_at, updated_at
`

func (r *Repository) Create(ctx context.Context, order *Order) error {
	query := `
	  INSERT INTO orders (order_number, customer_id, business_id, offer_detail_id, title,
	                      revisions, delivery_time_in_days, price, features, offer_type, status)
	  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	  RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.db.QueryRow(ctx, query,
		order.OrderNumber,
		order.CustomerID,
		order.BusinessID,
		order.OfferDetailID,
		order.Title,
		order.Revisions,
		order.DeliveryTimeInDays,
		order.Price,
		order.Features,
		order.OfferType,
		order.Status,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var o Order
	err := scanOrder(r.db.QueryRow(ctx, query, id), &o)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// ListForUser returns the orders where the user participates, as customer or
// as the selling business.
func (r *Repository) ListForUser(ctx context.Context, userID int64) ([]Order, error) {
	query := `
	  SELECT ` + orderColumns + `
	  FROM orders
	  WHERE customer_id = $1 OR business_id = $1
	  ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Order
	for rows.Next() {
		var o Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func (r *Repository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	result, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	result, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) CountForBusiness(ctx context.Context, businessID int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE business_id = $1`, businessID,
	).Scan(&count)
	return count, err
}

func (r *Repository) CompletedCountForBusiness(ctx context.Context, businessID int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE business_id = $1 AND status = $2`,
		businessID, StatusCompleted,
	).Scan(&count)
	return count, err
}

func scanOrder(row pgx.Row, o *Order) error {
	return row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.CustomerID,
		&o.BusinessID,
		&o.OfferDetailID,
		&o.Title,
		&o.Revisions,
		&o.DeliveryTimeInDays,
		&o.Price,
		&o.Features,
		&o.OfferType,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
}
