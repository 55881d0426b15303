package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Offer struct {
	ID           int64           `json:"id"`
	RequestID    int64           `json:"request_id"`
	UserID       int64           `json:"user_id"`
	Price        decimal.Decimal `json:"price"`
	DeliveryTime int             `json:"delivery_time"`
	Comment      *string         `json:"comment"`
	CreatedAt    time.Time       `json:"created_at"`
}

// OfferListing is an offer joined with its owner and the request it bids on.
type OfferListing struct {
	Offer
	UserEmail    string  `json:"user_email"`
	UserCompany  *string `json:"user_company"`
	Material     string  `json:"material"`
	FromLocation string  `json:"from_location"`
	ToLocation   string  `json:"to_location"`
}

type CreateOfferInput struct {
	RequestID    FlexInt             `json:"request_id"`
	Price        decimal.NullDecimal `json:"price"`
	DeliveryTime FlexInt             `json:"delivery_time"`
	Comment      *string             `json:"comment"`
}
