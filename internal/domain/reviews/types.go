package reviews

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrAlreadyReviewed   = errors.New("you have already reviewed this business user")
	QueryTimeoutDuration = time.Second * 5
)

// Review is a customer's rating of a business user. One review per
// (business, reviewer) pair.
type Review struct {
	ID             int64     `json:"id"`
	BusinessUserID int64     `json:"business_user"`
	ReviewerID     int64     `json:"reviewer"`
	Rating         int       `json:"rating"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Filters narrows review listings.
type Filters struct {
	BusinessUserID *int64
	ReviewerID     *int64
	OrderBy        string // updated_at or rating
}
