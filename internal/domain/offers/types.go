package offers

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrDetailNotFound    = errors.New("offer detail not found")
	QueryTimeoutDuration = time.Second * 5
)

// Tier names. Every offer carries exactly one detail per tier.
const (
	TypeBasic    = "basic"
	TypeStandard = "standard"
	TypePremium  = "premium"
)

// OfferDetail is one pricing tier of an offer.
type OfferDetail struct {
	ID                 int64    `json:"id"`
	OfferID            int64    `json:"offer_id"`
	Title              string   `json:"title"`
	Revisions          int      `json:"revisions"`
	DeliveryTimeInDays int      `json:"delivery_time_in_days"`
	Price              float64  `json:"price"`
	Features           []string `json:"features"`
	OfferType          string   `json:"offer_type"`
}

// Offer is a service listing created by a business user.
type Offer struct {
	ID          int64         `json:"id"`
	OwnerID     int64         `json:"user"`
	Title       string        `json:"title"`
	ImageURL    *string       `json:"image"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Details     []OfferDetail `json:"details"`

	MinPrice        *float64 `json:"min_price"`
	MinDeliveryTime *int     `json:"min_delivery_time"`

	// Joined owner display fields
	OwnerUsername  string `json:"owner_username,omitempty"`
	OwnerFirstName string `json:"owner_first_name,omitempty"`
	OwnerLastName  string `json:"owner_last_name,omitempty"`
}

// Filters narrows offer listings.
type Filters struct {
	Search          string
	CreatorID       *int64
	MinPrice        *float64
	MaxDeliveryTime *int
	OrderBy         string // created_at or updated_at
}
