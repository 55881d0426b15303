package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tonkonan/materrax/internal/models"
	"github.com/tonkonan/materrax/internal/repository"
)

var (
	ErrBuyerOnly             = errors.New("only buyers can create requests")
	ErrSupplierOnly          = errors.New("only suppliers can create offers")
	ErrRequestFieldsRequired = errors.New("material, from_location, to_location and volume are required")
	ErrInvalidVolume         = errors.New("volume must be positive")
	ErrOfferFieldsRequired   = errors.New("request id, price and delivery time are required")
	ErrInvalidOfferTerms     = errors.New("price and delivery time must be positive")
	ErrRequestNotFound       = errors.New("request not found")
	ErrValueOutOfRange       = errors.New("numeric value is out of range")
)

// FieldTypeError reports a body field that carried a value of the wrong JSON
// type.
type FieldTypeError struct {
	Field string
	Want  string
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("%s must be %s", e.Field, e.Want)
}

type RequestStore interface {
	CreateRequest(ctx context.Context, userID int64, input *models.CreateRequestInput) (*models.Request, error)
	ListRequests(ctx context.Context) ([]models.RequestListing, error)
}

type OfferStore interface {
	CreateOffer(ctx context.Context, userID int64, input *models.CreateOfferInput) (*models.Offer, error)
	ListOffers(ctx context.Context) ([]models.OfferListing, error)
}

// LedgerService owns the request and offer ledgers. Both are append-only.
type LedgerService struct {
	requestRepo RequestStore
	offerRepo   OfferStore
	logger      *slog.Logger
}

func NewLedgerService(requestRepo RequestStore, offerRepo OfferStore, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		requestRepo: requestRepo,
		offerRepo:   offerRepo,
		logger:      logger,
	}
}

func (s *LedgerService) ListRequests(ctx context.Context) ([]models.RequestListing, error) {
	requests, err := s.requestRepo.ListRequests(ctx)
	if err != nil {
		s.logger.Error("Failed to list requests", "error", err)
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	return requests, nil
}

// AuthorizeRequest reports whether caller may post requests.
func (s *LedgerService) AuthorizeRequest(caller models.Identity) error {
	if caller.Role != models.RoleBuyer {
		s.logger.Warn("Request creation denied", "user_id", caller.ID, "role", caller.Role)
		return ErrBuyerOnly
	}
	return nil
}

// CreateRequest checks the caller's role before the payload. A nil input
// stands for a body that could not be decoded.
func (s *LedgerService) CreateRequest(ctx context.Context, caller models.Identity, input *models.CreateRequestInput) (*models.Request, error) {
	if err := s.AuthorizeRequest(caller); err != nil {
		return nil, err
	}

	if input == nil || input.Material == "" || input.FromLocation == "" || input.ToLocation == "" ||
		!input.Volume.Valid || input.Volume.Decimal.IsZero() {
		return nil, ErrRequestFieldsRequired
	}
	if input.Volume.Decimal.IsNegative() {
		return nil, ErrInvalidVolume
	}

	request, err := s.requestRepo.CreateRequest(ctx, caller.ID, input)
	if err != nil {
		if errors.Is(err, repository.ErrOutOfRange) {
			return nil, ErrValueOutOfRange
		}
		s.logger.Error("Failed to create request", "user_id", caller.ID, "error", err)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	s.logger.Info("Request created", "request_id", request.ID, "user_id", caller.ID, "material", request.Material)
	return request, nil
}

func (s *LedgerService) ListOffers(ctx context.Context) ([]models.OfferListing, error) {
	offers, err := s.offerRepo.ListOffers(ctx)
	if err != nil {
		s.logger.Error("Failed to list offers", "error", err)
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}

	return offers, nil
}

// AuthorizeOffer reports whether caller may post offers.
func (s *LedgerService) AuthorizeOffer(caller models.Identity) error {
	if caller.Role != models.RoleSupplier {
		s.logger.Warn("Offer creation denied", "user_id", caller.ID, "role", caller.Role)
		return ErrSupplierOnly
	}
	return nil
}

// CreateOffer checks the caller's role before the payload. The referenced
// request is validated by storage on insert.
func (s *LedgerService) CreateOffer(ctx context.Context, caller models.Identity, input *models.CreateOfferInput) (*models.Offer, error) {
	if err := s.AuthorizeOffer(caller); err != nil {
		return nil, err
	}

	if input == nil || input.RequestID == 0 || !input.Price.Valid || input.Price.Decimal.IsZero() ||
		input.DeliveryTime == 0 {
		return nil, ErrOfferFieldsRequired
	}
	if input.Price.Decimal.IsNegative() || input.DeliveryTime < 0 {
		return nil, ErrInvalidOfferTerms
	}

	offer, err := s.offerRepo.CreateOffer(ctx, caller.ID, input)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			s.logger.Warn("Offer references missing request", "request_id", input.RequestID, "user_id", caller.ID)
			return nil, ErrRequestNotFound
		}
		if errors.Is(err, repository.ErrOutOfRange) {
			return nil, ErrValueOutOfRange
		}
		s.logger.Error("Failed to create offer", "user_id", caller.ID, "error", err)
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}

	s.logger.Info("Offer created", "offer_id", offer.ID, "request_id", offer.RequestID, "user_id", caller.ID)
	return offer, nil
}
