// Package baseinfo aggregates the public platform statistics shown on the
// landing page.
package baseinfo

import (
	"context"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var QueryTimeoutDuration = time.Second * 5

type Stats struct {
	ReviewCount          int     `json:"review_count"`
	AverageRating        float64 `json:"average_rating"`
	BusinessProfileCount int     `json:"business_profile_count"`
	OfferCount           int     `json:"offer_count"`
	ProfileCount         int     `json:"profile_count"`
}

type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Store interface {
	Stats(ctx context.Context) (*Stats, error)
}

type Repository struct {
	db DB
}

func NewRepository(db DB) Store {
	return &Repository{db: db}
}

func (r *Repository) Stats(ctx context.Context) (*Stats, error) {
	query := `
	  SELECT
	    (SELECT COUNT(*) FROM reviews) AS review_count,
	    (SELECT COALESCE(AVG(rating), 0) FROM reviews) AS average_rating,
	    (SELECT COUNT(*) FROM profiles WHERE type = 'business') AS business_profile_count,
	    (SELECT COUNT(*) FROM offers) AS offer_count,
	    (SELECT COUNT(*) FROM profiles) AS profile_count
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var s Stats
	err := r.db.QueryRow(ctx, query).Scan(
		&s.ReviewCount,
		&s.AverageRating,
		&s.BusinessProfileCount,
		&s.OfferCount,
		&s.ProfileCount,
	)
	if err != nil {
		return nil, err
	}

	s.AverageRating = math.Round(s.AverageRating*10) / 10

	return &s, nil
}
