package client

import (
	"context"
	"net/http"
	"sync"

	"github.com/tonkonan/materrax/internal/models"
)

// collection is a list fetched from the API with a loading flag.
type collection[T any] struct {
	mu      sync.RWMutex
	items   []T
	loading bool
}

func (c *collection[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T(nil), c.items...)
}

func (c *collection[T]) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

func (c *collection[T]) setLoading(loading bool) {
	c.mu.Lock()
	c.loading = loading
	c.mu.Unlock()
}

func (c *collection[T]) replace(items []T) {
	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
}

func (c *collection[T]) prepend(item T) {
	c.mu.Lock()
	c.items = append([]T{item}, c.items...)
	c.mu.Unlock()
}

type RequestStore struct {
	client *Client
	collection[models.RequestListing]
}

// Fetch reloads the list. On failure the previous list is kept.
func (s *RequestStore) Fetch(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	var requests []models.RequestListing
	if err := s.client.do(ctx, http.MethodGet, "/api/requests", nil, &requests, "failed to fetch requests"); err != nil {
		return err
	}

	s.replace(requests)
	return nil
}

// Create posts a request and puts it at the head of the list.
func (s *RequestStore) Create(ctx context.Context, input models.CreateRequestInput) (*models.Request, error) {
	var created models.Request
	if err := s.client.do(ctx, http.MethodPost, "/api/requests", input, &created, "failed to create request"); err != nil {
		return nil, err
	}

	listing := models.RequestListing{Request: created}
	if user := s.client.Auth.CurrentUser(); user != nil {
		listing.UserEmail = user.Email
		listing.UserCompany = user.Company
	}
	s.prepend(listing)

	return &created, nil
}

type OfferStore struct {
	client *Client
	collection[models.OfferListing]
}

// Fetch reloads the list. On failure the previous list is kept.
func (s *OfferStore) Fetch(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	var offers []models.OfferListing
	if err := s.client.do(ctx, http.MethodGet, "/api/offers", nil, &offers, "failed to fetch offers"); err != nil {
		return err
	}

	s.replace(offers)
	return nil
}

// Create posts an offer and puts it at the head of the list. Route details
// are filled from the request list when it holds the referenced request.
func (s *OfferStore) Create(ctx context.Context, input models.CreateOfferInput) (*models.Offer, error) {
	var created models.Offer
	if err := s.client.do(ctx, http.MethodPost, "/api/offers", input, &created, "failed to create offer"); err != nil {
		return nil, err
	}

	listing := models.OfferListing{Offer: created}
	if user := s.client.Auth.CurrentUser(); user != nil {
		listing.UserEmail = user.Email
		listing.UserCompany = user.Company
	}
	for _, r := range s.client.Requests.All() {
		if r.ID == created.RequestID {
			listing.Material = r.Material
			listing.FromLocation = r.FromLocation
			listing.ToLocation = r.ToLocation
			break
		}
	}
	s.prepend(listing)

	return &created, nil
}
