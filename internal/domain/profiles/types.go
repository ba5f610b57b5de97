package profiles

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("resource not found")
	QueryTimeoutDuration = time.Second * 5
)

const (
	TypeCustomer = "customer"
	TypeBusiness = "business"
)

// Profile holds the public-facing data attached to a user account. It is
// created together with the account and never transferred.
type Profile struct {
	UserID       int64     `json:"user"`
	Type         string    `json:"type"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	File         *string   `json:"file"`
	Location     string    `json:"location"`
	Tel          string    `json:"tel"`
	Description  string    `json:"description"`
	WorkingHours string    `json:"working_hours"`
	CreatedAt    time.Time `json:"created_at"`

	// Joined from users
	Username string `json:"username"`
	Email    string `json:"email"`
}
