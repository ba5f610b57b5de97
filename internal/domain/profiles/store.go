package profiles

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
	Create(ctx context.Context, profile *Profile) error
	GetByUserID(ctx context.Context, userID int64) (*Profile, error)
	Update(ctx context.Context, userID int64, updates map[string]any) error
	ListByType(ctx context.Context, profileType string) ([]Profile, error)
	SetPicture(ctx context.Context, userID int64, url string) error
}

type Repository struct {
	db DB
}

func NewRepository(db DB) Store {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, profile *Profile) error {
	query := `
	  INSERT INTO profiles (user_id, type, first_name, last_name, location, tel, description, working_hours)
	  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	  RETURNING created_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.db.QueryRow(ctx, query,
		profile.UserID,
		profile.Type,
		profile.FirstName,
		profile.LastName,
		profile.Location,
		profile.Tel,
		profile.Description,
		profile.WorkingHours,
	).Scan(&profile.CreatedAt)
}

func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*Profile, error) {
	query := `
	  SELECT p.user_id, p.type, p.first_name, p.last_name, p.file, p.location,
	         p.tel, p.description, p.working_hours, p.created_at,
	         u.username, u.email
	  FROM profiles p
	  JOIN users u ON u.id = p.user_id
	  WHERE p.user_id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var p Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.Type,
		&p.FirstName,
		&p.LastName,
		&p.File,
		&p.Location,
		&p.Tel,
		&p.Description,
		&p.WorkingHours,
		&p.CreatedAt,
		&p.Username,
		&p.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Update writes only the provided columns. Keys are trusted; handlers build
// the map from validated payload fields, never from raw request keys.
func (r *Repository) Update(ctx context.Context, userID int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}

	setClauses := make([]string, 0, len(updates))
	args := make([]any, 0, len(updates)+1)
	i := 1
	for col, val := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}
	args = append(args, userID)

	query := fmt.Sprintf(
		`UPDATE profiles SET %s WHERE user_id = $%d`,
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

func (r *Repository) ListByType(ctx context.Context, profileType string) ([]Profile, error) {
	query := `
	  SELECT p.user_id, p.type, p.first_name, p.last_name, p.file, p.location,
	         p.tel, p.description, p.working_hours, p.created_at,
	         u.username, u.email
	  FROM profiles p
	  JOIN users u ON u.id = p.user_id
	  WHERE p.type = $1
	  ORDER BY p.created_at DESC
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, profileType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Profile
	for rows.Next() {
		var p Profile
		err := rows.Scan(
			&p.UserID,
			&p.Type,
			&p.FirstName,
			&p.LastName,
			&p.File,
			&p.Location,
			&p.Tel,
			&p.Description,
			&p.WorkingHours,
			&p.CreatedAt,
			&p.Username,
			&p.Email,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *Repository) SetPicture(ctx context.Context, userID int64, url string) error {
	query := `UPDATE profiles SET file = $1 WHERE user_id = $2`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	result, err := r.db.Exec(ctx, query, url, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
