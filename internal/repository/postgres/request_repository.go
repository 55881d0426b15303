package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tonkonan/materrax/internal/models"
	"github.com/tonkonan/materrax/internal/repository"
)

type RequestRepository struct {
	db *pgxpool.Pool
}

func NewRequestRepository(db *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) CreateRequest(ctx context.Context, userID int64, input *models.CreateRequestInput) (*models.Request, error) {
	query := `
		INSERT INTO requests (user_id, material, from_location, to_location, volume, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, material, from_location, to_location, volume, description, status, created_at
	`

	var req models.Request
	err := r.db.QueryRow(ctx, query,
		userID,
		input.Material,
		input.FromLocation,
		input.ToLocation,
		input.Volume.Decimal,
		input.Description,
	).Scan(
		&req.ID,
		&req.UserID,
		&req.Material,
		&req.FromLocation,
		&req.ToLocation,
		&req.Volume,
		&req.Description,
		&req.Status,
		&req.CreatedAt,
	)

	if err != nil {
		switch code, _ := pgErrorCode(err); code {
		case codeForeignKeyViolation:
			return nil, repository.ErrNotFound
		case codeNumericOutOfRange:
			return nil, repository.ErrOutOfRange
		}
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return &req, nil
}

// ListRequests returns every request with its owner's email and company,
// newest first.
func (r *RequestRepository) ListRequests(ctx context.Context) ([]models.RequestListing, error) {
	query := `
		SELECT r.id, r.user_id, r.material, r.from_location, r.to_location, r.volume,
		       r.description, r.status, r.created_at, u.email, u.company
		FROM requests r
		JOIN users u ON r.user_id = u.id
		ORDER BY r.created_at DESC, r.id DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	requests := []models.RequestListing{}
	for rows.Next() {
		var l models.RequestListing
		err := rows.Scan(
			&l.ID, &l.UserID, &l.Material, &l.FromLocation, &l.ToLocation, &l.Volume,
			&l.Description, &l.Status, &l.CreatedAt, &l.UserEmail, &l.UserCompany,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	return requests, nil
}
