package storage

import (
	"context"
	"fmt"

	"gigbay/internal/domain/baseinfo"
	"gigbay/internal/domain/offers"
	"gigbay/internal/domain/orders"
	"gigbay/internal/domain/profiles"
	"gigbay/internal/domain/reviews"
	"gigbay/internal/domain/users"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Container aggregates one repository per entity over a shared pool.
type Container struct {
	pool     *pgxpool.Pool
	Users    users.Store
	Profiles profiles.Store
	Offers   offers.Store
	Orders   orders.Store
	Reviews  reviews.Store
	BaseInfo baseinfo.Store
}

func NewContainer(db *pgxpool.Pool) *Container {
	return &Container{
		pool:     db,
		Users:    users.NewRepository(db),
		Profiles: profiles.NewRepository(db),
		Offers:   offers.NewRepository(db),
		Orders:   orders.NewRepository(db),
		Reviews:  reviews.NewRepository(db),
		BaseInfo: baseinfo.NewRepository(db),
	}
}

// Tx is a transaction-scoped view of the repositories that take part in
// multi-statement units of work: registration (user + profile) and offer
// creation (offer + tiers).
type Tx struct {
	Users    users.Store
	Profiles profiles.Store
	Offers   offers.Store
}

// WithTx runs fn atomically. The rollback is a no-op after a commit.
func (c *Container) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	if c.pool == nil {
		return fmt.Errorf("storage container has no pool")
	}

	tx, err := c.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	s := &Tx{
		Users:    users.NewRepository(tx),
		Profiles: profiles.NewRepository(tx),
		Offers:   offers.NewRepository(tx),
	}

	if err := fn(s); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
