package offers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Store interface {
	Create(ctx context.Context, offer *Offer) error
	GetByID(ctx context.Context, id int64) (*Offer, error)
	List(ctx context.Context, f Filters, limit, offset int) ([]Offer, int, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	UpdateDetailByID(ctx context.Context, offerID, detailID int64, updates map[string]any) error
	UpdateDetailByType(ctx context.Context, offerID int64, offerType string, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
	SetImageURL(ctx context.Context, id int64, url string) error
	GetDetailWithOwner(ctx context.Context, detailID int64) (*OfferDetail, int64, error)
}

type Repository struct {
	db DB
}

func NewRepository(db DB) Store {
	return &Repository{db: db}
}

// Create inserts the offer and its tiers. Run it through the storage
// container's transaction helper so a failed tier insert rolls back the offer.
func (r *Repository) Create(ctx context.Context, offer *Offer) error {
	query := `
	  INSERT INTO offers (owner_id, title, description)
	  VALUES ($1, $2, $3)
	  RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := r.db.QueryRow(ctx, query,
		offer.OwnerID, offer.Title, offer.Description,
	).Scan(&offer.ID, &offer.CreatedAt, &offer.UpdatedAt)
	if err != nil {
		return err
	}

	detailQuery := `
	  INSERT INTO offer_details (offer_id, title, revisions, delivery_time_in_days, price, features, offer_type)
	  VALUES ($1, $2, $3, $4, $5, $6, $7)
	  RETURNING id
	`
	for i := range offer.Details {
		d := &offer.Details[i]
		d.OfferID = offer.ID
		err := r.db.QueryRow(ctx, detailQuery,
			offer.ID, d.Title, d.Revisions, d.DeliveryTimeInDays, d.Price, d.Features, d.OfferType,
		).Scan(&d.ID)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Offer, error) {
	query := `
	  SELECT o.id, o.owner_id, o.title, o.image_url, o.description,
	         o.created_at, o.updated_at,
	         u.username, COALESCE(p.first_name, ''), COALESCE(p.last_name, '')
	  FROM offers o
	  JOIN users u ON u.id = o.owner_id
	  LEFT JOIN profiles p ON p.user_id = o.owner_id
	  WHERE o.id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var o Offer
	err := r.db.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.OwnerID,
		&o.Title,
		&o.ImageURL,
		&o.Description,
		&o.CreatedAt,
		&o.UpdatedAt,
		&o.OwnerUsername,
		&o.OwnerFirstName,
		&o.OwnerLastName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := r.loadDetails(ctx, &o); err != nil {
		return nil, err
	}
	o.ComputeMins()

	return &o, nil
}

func (r *Repository) List(ctx context.Context, f Filters, limit, offset int) ([]Offer, int, error) {
	conditions := []string{"TRUE"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		conditions = append(conditions, fmt.Sprintf("(o.title ILIKE %s OR o.description ILIKE %s)", p, p))
	}
	if f.CreatorID != nil {
		conditions = append(conditions, "o.owner_id = "+arg(*f.CreatorID))
	}
	if f.MinPrice != nil {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM offer_details d WHERE d.offer_id = o.id AND d.price >= "+arg(*f.MinPrice)+")")
	}
	if f.MaxDeliveryTime != nil {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM offer_details d WHERE d.offer_id = o.id AND d.delivery_time_in_days <= "+arg(*f.MaxDeliveryTime)+")")
	}

	orderBy := "o.created_at DESC"
	if f.OrderBy == "updated_at" {
		orderBy = "o.updated_at DESC"
	}

	where := strings.Join(conditions, " AND ")

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var total int
	countQuery := "SELECT COUNT(*) FROM offers o WHERE " + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
	  SELECT o.id, o.owner_id, o.title, o.image_url, o.description,
	         o.created_at, o.updated_at,
	         u.username, COALESCE(p.first_name, ''), COALESCE(p.last_name, '')
	  FROM offers o
	  JOIN users u ON u.id = o.owner_id
	  LEFT JOIN profiles p ON p.user_id = o.owner_id
	  WHERE %s
	  ORDER BY %s
	  LIMIT %s OFFSET %s
	`, where, orderBy, arg(limit), arg(offset))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Offer
	for rows.Next() {
		var o Offer
		err := rows.Scan(
			&o.ID,
			&o.OwnerID,
			&o.Title,
			&o.ImageURL,
			&o.Description,
			&o.CreatedAt,
			&o.UpdatedAt,
			&o.OwnerUsername,
			&o.OwnerFirstName,
			&o.OwnerLastName,
		)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range list {
		if err := r.loadDetails(ctx, &list[i]); err != nil {
			return nil, 0, err
		}
		list[i].ComputeMins()
	}

	return list, total, nil
}

func (r *Repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}

	setClauses := make([]string, 0, len(updates)+1)
	args := make([]any, 0, len(updates)+1)
	i := 1
	for col, val := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(
		`UPDATE offers SET %s WHERE id = $%d`,
		strings.Join(setClauses, ", "), i,
	)

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) UpdateDetailByID(ctx context.Context, offerID, detailID int64, updates map[string]any) error {
	return r.updateDetail(ctx, updates, "id = $%d AND offer_id = $%d", detailID, offerID)
}

func (r *Repository) UpdateDetailByType(ctx context.Context, offerID int64, offerType string, updates map[string]any) error {
	return r.updateDetail(ctx, updates, "offer_type = $%d AND offer_id = $%d", offerType, offerID)
}

func (r *Repository) updateDetail(ctx context.Context, updates map[string]any, where string, whereArgs ...any) error {
	if len(updates) == 0 {
		return nil
	}

	setClauses := make([]string, 0, len(updates))
	args := make([]any, 0, len(updates)+len(whereArgs))
	i := 1
	for col, val := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}
	args = append(args, whereArgs...)

	query := fmt.Sprintf(
		"UPDATE offer_details SET %s WHERE "+fmt.Sprintf(where, i, i+1),
		strings.Join(setClauses, ", "),
	)

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrDetailNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	result, err := r.db.Exec(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) SetImageURL(ctx context.Context, id int64, url string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	result, err := r.db.Exec(ctx,
		`UPDATE offers SET image_url = $1, updated_at = NOW() WHERE id = $2`, url, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetDetailWithOwner also resolves the owning business user, which order
// placement needs to fill in the business side of the order.
func (r *Repository) GetDetailWithOwner(ctx context.Context, detailID int64) (*OfferDetail, int64, error) {
	query := `
	  SELECT d.id, d.offer_id, d.title, d.revisions, d.delivery_time_in_days,
	         d.price, d.features, d.offer_type, o.owner_id
	  FROM offer_details d
	  JOIN offers o ON o.id = d.offer_id
	  WHERE d.id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var d OfferDetail
	var ownerID int64
	err := r.db.QueryRow(ctx, query, detailID).Scan(
		&d.ID,
		&d.OfferID,
		&d.Title,
		&d.Revisions,
		&d.DeliveryTimeInDays,
		&d.Price,
		&d.Features,
		&d.OfferType,
		&ownerID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, ErrDetailNotFound
		}
		return nil, 0, err
	}
	return &d, ownerID, nil
}

func (r *Repository) loadDetails(ctx context.Context, o *Offer) error {
	query := `
	  SELECT id, offer_id, title, revisions, delivery_time_in_days, price, features, offer_type
	  FROM offer_details
	  WHERE offer_id = $1
	  ORDER BY price ASC
	`

	rows, err := r.db.Query(ctx, query, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var d OfferDetail
		err := rows.Scan(
			&d.ID,
			&d.OfferID,
			&d.Title,
			&d.Revisions,
			&d.DeliveryTimeInDays,
			&d.Price,
			&d.Features,
			&d.OfferType,
		)
		if err != nil {
			return err
		}
		o.Details = append(o.Details, d)
	}
	return rows.Err()
}

func (o *Offer) ComputeMins() {
	for i := range o.Details {
		d := &o.Details[i]
		if o.MinPrice == nil || d.Price < *o.MinPrice {
			price := d.Price
			o.MinPrice = &price
		}
		if o.MinDeliveryTime == nil || d.DeliveryTimeInDays < *o.MinDeliveryTime {
			days := d.DeliveryTimeInDays
			o.MinDeliveryTime = &days
		}
	}
}
