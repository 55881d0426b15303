package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const RequestStatusOpen = "open"

type Request struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	Material     string          `json:"material"`
	FromLocation string          `json:"from_location"`
	ToLocation   string          `json:"to_location"`
	Volume       decimal.Decimal `json:"volume"`
	Description  *string         `json:"description"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// RequestListing is a request joined with its owner.
type RequestListing struct {
	Request
	UserEmail   string  `json:"user_email"`
	UserCompany *string `json:"user_company"`
}

type CreateRequestInput struct {
	Material     string              `json:"material"`
	FromLocation string              `json:"from_location"`
	ToLocation   string              `json:"to_location"`
	Volume       decimal.NullDecimal `json:"volume"`
	Description  *string             `json:"description"`
}
