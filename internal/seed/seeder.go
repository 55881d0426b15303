// Package seed loads the demo marketplace through the regular services.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tonkonan/materrax/internal/models"
	"github.com/tonkonan/materrax/internal/service"
)

type Result struct {
	Skipped  bool
	Users    int
	Requests int
	Offers   int
}

type Seeder struct {
	auth   *service.AuthService
	ledger *service.LedgerService
	logger *slog.Logger
}

func NewSeeder(auth *service.AuthService, ledger *service.LedgerService, logger *slog.Logger) *Seeder {
	return &Seeder{auth: auth, ledger: ledger, logger: logger}
}

// Run registers the demo accounts and creates their requests and offers.
// Storage stamps creation times, so fixtures are inserted oldest first to
// keep the demo ordering in newest-first listings. Nothing is written when
// the first demo account already exists.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	result := &Result{}
	identities := make(map[string]models.Identity, len(Users))

	for i, u := range Users {
		company := u.Company
		resp, err := s.auth.Register(ctx, &models.RegisterInput{
			Email:    u.Email,
			Password: DemoPassword,
			Role:     u.Role,
			Company:  &company,
		})
		if err != nil {
			if i == 0 && errors.Is(err, service.ErrEmailTaken) {
				s.logger.Info("Demo data already present", "email", u.Email)
				return &Result{Skipped: true}, nil
			}
			return nil, fmt.Errorf("failed to register %s: %w", u.Email, err)
		}
		identities[u.Email] = resp.User.Identity()
		result.Users++
	}

	requestIDs := make(map[string]int64, len(Requests))
	for _, r := range oldestFirst(Requests, func(r DemoRequest) int64 { return int64(r.Age) }) {
		description := r.Description
		created, err := s.ledger.CreateRequest(ctx, identities[r.Owner], &models.CreateRequestInput{
			Material:     r.Material,
			FromLocation: r.FromLocation,
			ToLocation:   r.ToLocation,
			Volume:       decimal.NewNullDecimal(r.Volume),
			Description:  &description,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create request %s: %w", r.Key, err)
		}
		requestIDs[r.Key] = created.ID
		result.Requests++
	}

	for _, o := range oldestFirst(Offers, func(o DemoOffer) int64 { return int64(o.Age) }) {
		comment := o.Comment
		_, err := s.ledger.CreateOffer(ctx, identities[o.Owner], &models.CreateOfferInput{
			RequestID:    models.FlexInt(requestIDs[o.RequestKey]),
			Price:        decimal.NewNullDecimal(o.Price),
			DeliveryTime: models.FlexInt(o.DeliveryTime),
			Comment:      &comment,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create offer on %s: %w", o.RequestKey, err)
		}
		result.Offers++
	}

	s.logger.Info("Demo data loaded", "users", result.Users, "requests", result.Requests, "offers", result.Offers)
	return result, nil
}

// oldestFirst orders fixtures for insertion so that a newest-first listing
// reproduces their declared order.
func oldestFirst[T any](items []T, age func(T) int64) []T {
	sorted := make([]T, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		sorted = append(sorted, items[i])
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return age(sorted[i]) > age(sorted[j])
	})
	return sorted
}
