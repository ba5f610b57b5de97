package orders

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("resource not found")
	QueryTimeoutDuration = time.Second * 5
)

const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Order is a purchase of one offer tier. The tier's fields are copied at
// purchase time so later offer edits don't rewrite order history.
type Order struct {
	ID                 int64     `json:"id"`
	OrderNumber        string    `json:"order_number"`
	CustomerID         int64     `json:"customer_user"`
	BusinessID         int64     `json:"business_user"`
	OfferDetailID      int64     `json:"offer_detail_id"`
	Title              string    `json:"title"`
	Revisions          int       `json:"revisions"`
	DeliveryTimeInDays int       `json:"delivery_time_in_days"`
	Price              float64   `json:"price"`
	Features           []string  `json:"features"`
	OfferType          string    `json:"offer_type"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
