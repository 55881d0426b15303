// Package testutil provides in-memory stores and container helpers for tests.
package testutil

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/tonkonan/materrax/internal/models"
	"github.com/tonkonan/materrax/internal/repository"
)

// MemoryStore implements the user, request, offer and session stores with the
// same uniqueness, reference and ordering rules as the PostgreSQL schema.
// Setting Err makes every call fail with it.
type MemoryStore struct {
	mu       sync.Mutex
	users    []models.User
	requests []models.Request
	offers   []models.Offer
	sessions map[int64][]models.Session

	Err error
	Now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[int64][]models.Session),
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryStore) CreateUser(_ context.Context, input *models.RegisterInput, passwordHash string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	for _, u := range m.users {
		if u.Email == input.Email {
			return nil, repository.ErrDuplicateEmail
		}
	}

	user := models.User{
		ID:           int64(len(m.users) + 1),
		Email:        input.Email,
		PasswordHash: passwordHash,
		Role:         input.Role,
		Company:      input.Company,
		CreatedAt:    m.Now(),
	}
	m.users = append(m.users, user)

	return &user, nil
}

func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MemoryStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if u, ok := m.userLocked(id); ok {
		return &u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MemoryStore) ListRecentUsers(_ context.Context, limit int) ([]models.UserSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	users := make([]models.UserSummary, 0, len(m.users))
	for i := len(m.users) - 1; i >= 0 && len(users) < limit; i-- {
		u := m.users[i]
		users = append(users, models.UserSummary{ID: u.ID, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt})
	}
	return users, nil
}

func (m *MemoryStore) CreateRequest(_ context.Context, userID int64, input *models.CreateRequestInput) (*models.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if _, ok := m.userLocked(userID); !ok {
		return nil, repository.ErrNotFound
	}

	req := models.Request{
		ID:           int64(len(m.requests) + 1),
		UserID:       userID,
		Material:     input.Material,
		FromLocation: input.FromLocation,
		ToLocation:   input.ToLocation,
		Volume:       input.Volume.Decimal,
		Description:  input.Description,
		Status:       models.RequestStatusOpen,
		CreatedAt:    m.Now(),
	}
	m.requests = append(m.requests, req)

	return &req, nil
}

func (m *MemoryStore) ListRequests(_ context.Context) ([]models.RequestListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	listings := make([]models.RequestListing, 0, len(m.requests))
	for _, r := range m.requests {
		owner, _ := m.userLocked(r.UserID)
		listings = append(listings, models.RequestListing{
			Request:     r,
			UserEmail:   owner.Email,
			UserCompany: owner.Company,
		})
	}
	sort.SliceStable(listings, func(i, j int) bool {
		return newer(listings[i].CreatedAt, listings[i].ID, listings[j].CreatedAt, listings[j].ID)
	})
	return listings, nil
}

func (m *MemoryStore) CreateOffer(_ context.Context, userID int64, input *models.CreateOfferInput) (*models.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if input.DeliveryTime > math.MaxInt32 || input.DeliveryTime < math.MinInt32 {
		return nil, repository.ErrOutOfRange
	}
	if _, ok := m.requestLocked(int64(input.RequestID)); !ok {
		return nil, repository.ErrRequestNotFound
	}
	if _, ok := m.userLocked(userID); !ok {
		return nil, repository.ErrNotFound
	}

	offer := models.Offer{
		ID:           int64(len(m.offers) + 1),
		RequestID:    int64(input.RequestID),
		UserID:       userID,
		Price:        input.Price.Decimal,
		DeliveryTime: int(input.DeliveryTime),
		Comment:      input.Comment,
		CreatedAt:    m.Now(),
	}
	m.offers = append(m.offers, offer)

	return &offer, nil
}

func (m *MemoryStore) ListOffers(_ context.Context) ([]models.OfferListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	listings := make([]models.OfferListing, 0, len(m.offers))
	for _, o := range m.offers {
		owner, _ := m.userLocked(o.UserID)
		req, _ := m.requestLocked(o.RequestID)
		listings = append(listings, models.OfferListing{
			Offer:        o,
			UserEmail:    owner.Email,
			UserCompany:  owner.Company,
			Material:     req.Material,
			FromLocation: req.FromLocation,
			ToLocation:   req.ToLocation,
		})
	}
	sort.SliceStable(listings, func(i, j int) bool {
		return newer(listings[i].CreatedAt, listings[i].ID, listings[j].CreatedAt, listings[j].ID)
	})
	return listings, nil
}

func (m *MemoryStore) StoreSession(_ context.Context, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.sessions[session.UserID] = append(m.sessions[session.UserID], *session)
	return nil
}

func (m *MemoryStore) ListSessions(_ context.Context, userID int64) ([]models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	now := m.Now()
	sessions := []models.Session{}
	for i := len(m.sessions[userID]) - 1; i >= 0; i-- {
		s := m.sessions[userID][i]
		if s.ExpiresAt.After(now) {
			sessions = append(sessions, s)
		}
	}
	return sessions, nil
}

func (m *MemoryStore) userLocked(id int64) (models.User, bool) {
	for _, u := range m.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

func (m *MemoryStore) requestLocked(id int64) (models.Request, bool) {
	for _, r := range m.requests {
		if r.ID == id {
			return r, true
		}
	}
	return models.Request{}, false
}

func newer(at time.Time, id int64, otherAt time.Time, otherID int64) bool {
	if !at.Equal(otherAt) {
		return at.After(otherAt)
	}
	return id > otherID
}
