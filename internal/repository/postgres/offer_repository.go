package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tonkonan/materrax/internal/models"
	"github.com/tonkonan/materrax/internal/repository"
)

const offerRequestFK = "offers_request_id_fkey"

type OfferRepository struct {
	db *pgxpool.Pool
}

func NewOfferRepository(db *pgxpool.Pool) *OfferRepository {
	return &OfferRepository{db: db}
}

// CreateOffer inserts an offer. The request reference is validated by the
// offers_request_id_fkey constraint, reported as repository.ErrRequestNotFound.
// delivery_time is sent as bigint so an oversized value fails in the INTEGER
// column with SQLSTATE 22003.
func (r *OfferRepository) CreateOffer(ctx context.Context, userID int64, input *models.CreateOfferInput) (*models.Offer, error) {
	query := `
		INSERT INTO offers (request_id, user_id, price, delivery_time, comment)
		VALUES ($1, $2, $3, $4::bigint, $5)
		RETURNING id, request_id, user_id, price, delivery_time, comment, created_at
	`

	var offer models.Offer
	err := r.db.QueryRow(ctx, query,
		int64(input.RequestID),
		userID,
		input.Price.Decimal,
		int64(input.DeliveryTime),
		input.Comment,
	).Scan(
		&offer.ID,
		&offer.RequestID,
		&offer.UserID,
		&offer.Price,
		&offer.DeliveryTime,
		&offer.Comment,
		&offer.CreatedAt,
	)

	if err != nil {
		switch code, constraint := pgErrorCode(err); code {
		case codeForeignKeyViolation:
			if constraint == offerRequestFK {
				return nil, repository.ErrRequestNotFound
			}
			return nil, repository.ErrNotFound
		case codeNumericOutOfRange:
			return nil, repository.ErrOutOfRange
		}
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}

	return &offer, nil
}

// ListOffers returns every offer with its owner and the request it bids on,
// newest first.
func (r *OfferRepository) ListOffers(ctx context.Context) ([]models.OfferListing, error) {
	query := `
		SELECT o.id, o.request_id, o.user_id, o.price, o.delivery_time, o.comment, o.created_at,
		       u.email, u.company, r.material, r.from_location, r.to_location
		FROM offers o
		JOIN users u ON o.user_id = u.id
		JOIN requests r ON o.request_id = r.id
		ORDER BY o.created_at DESC, o.id DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	defer rows.Close()

	offers := []models.OfferListing{}
	for rows.Next() {
		var l models.OfferListing
		err := rows.Scan(
			&l.ID, &l.RequestID, &l.UserID, &l.Price, &l.DeliveryTime, &l.Comment, &l.CreatedAt,
			&l.UserEmail, &l.UserCompany, &l.Material, &l.FromLocation, &l.ToLocation,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		offers = append(offers, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}

	return offers, nil
}
