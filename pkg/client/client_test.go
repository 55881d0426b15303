package client

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tonkonan/materrax/internal/handler"
	"github.com/tonkonan/materrax/internal/models"
	"github.com/tonkonan/materrax/internal/service"
	"github.com/tonkonan/materrax/internal/testutil"
	"github.com/tonkonan/materrax/pkg/jwt"
	"github.com/tonkonan/materrax/pkg/password"
)

func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := testutil.NewMemoryStore()
	manager := jwt.NewManager("test-secret", jwt.DefaultExpiration)

	router := handler.NewRouter(handler.RouterConfig{
		AuthService:   service.NewAuthService(store, store, manager, password.NewHasher(bcrypt.MinCost), logger),
		LedgerService: service.NewLedgerService(store, store, logger),
		JWTManager:    manager,
		Logger:        logger,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func register(t *testing.T, c *Client, email string, role models.Role) *models.AuthResponse {
	t.Helper()

	company := "Acme"
	resp, err := c.Auth.Register(context.Background(), models.RegisterInput{
		Email:    email,
		Password: "secret1",
		Role:     role,
		Company:  &company,
	})
	require.NoError(t, err)
	return resp
}

func TestAuthStore(t *testing.T) {
	srv := newTestAPI(t)
	c := New(srv.URL+"/", nil)
	ctx := context.Background()

	assert.False(t, c.Auth.IsAuthenticated())
	assert.Empty(t, c.Auth.Role())

	resp := register(t, c, "buyer@x.io", models.RoleBuyer)
	assert.True(t, c.Auth.IsAuthenticated())
	assert.Equal(t, resp.Token, c.Auth.Token())
	assert.Equal(t, models.RoleBuyer, c.Auth.Role())
	assert.Equal(t, "buyer@x.io", c.Auth.CurrentUser().Email)

	me, err := c.Auth.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, me.ID)

	c.Auth.Logout()
	assert.False(t, c.Auth.IsAuthenticated())
	assert.Nil(t, c.Auth.CurrentUser())

	_, err = c.Auth.Login(ctx, "buyer@x.io", "wrong-password")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "invalid email or password", apiErr.Error())
	assert.False(t, c.Auth.IsAuthenticated())

	_, err = c.Auth.Login(ctx, "buyer@x.io", "secret1")
	require.NoError(t, err)
	assert.True(t, c.Auth.IsAuthenticated())

	restored := New(srv.URL, nil)
	restored.Auth.Restore(c.Auth.CurrentUser(), c.Auth.Token())
	_, err = restored.Auth.Me(ctx)
	assert.NoError(t, err)
}

func TestRequestStore(t *testing.T) {
	srv := newTestAPI(t)
	c := New(srv.URL, nil)
	ctx := context.Background()

	err := c.Requests.Fetch(ctx)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.False(t, c.Requests.IsLoading())

	register(t, c, "buyer@x.io", models.RoleBuyer)

	for _, material := range []string{"sand", "gravel"} {
		_, err := c.Requests.Create(ctx, models.CreateRequestInput{
			Material:     material,
			FromLocation: "A",
			ToLocation:   "B",
			Volume:       decimal.NewNullDecimal(decimal.NewFromInt(10)),
		})
		require.NoError(t, err)
	}

	local := c.Requests.All()
	require.Len(t, local, 2)
	assert.Equal(t, "gravel", local[0].Material)
	assert.Equal(t, "buyer@x.io", local[0].UserEmail)

	require.NoError(t, c.Requests.Fetch(ctx))
	fetched := c.Requests.All()
	require.Len(t, fetched, 2)
	assert.Equal(t, local[0].ID, fetched[0].ID)
	assert.Equal(t, local[1].ID, fetched[1].ID)
	assert.Equal(t, "Acme", *fetched[0].UserCompany)
}

func TestOfferStore(t *testing.T) {
	srv := newTestAPI(t)
	ctx := context.Background()

	buyer := New(srv.URL, nil)
	register(t, buyer, "buyer@x.io", models.RoleBuyer)
	req, err := buyer.Requests.Create(ctx, models.CreateRequestInput{
		Material:     "sand",
		FromLocation: "A",
		ToLocation:   "B",
		Volume:       decimal.NewNullDecimal(decimal.NewFromInt(5)),
	})
	require.NoError(t, err)

	supplier := New(srv.URL, nil)
	register(t, supplier, "sup@x.io", models.RoleSupplier)
	require.NoError(t, supplier.Requests.Fetch(ctx))

	offer, err := supplier.Offers.Create(ctx, models.CreateOfferInput{
		RequestID:    models.FlexInt(req.ID),
		Price:        decimal.NewNullDecimal(decimal.NewFromInt(900)),
		DeliveryTime: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, req.ID, offer.RequestID)

	local := supplier.Offers.All()
	require.Len(t, local, 1)
	assert.Equal(t, "sand", local[0].Material)
	assert.Equal(t, "sup@x.io", local[0].UserEmail)

	_, err = buyer.Offers.Create(ctx, models.CreateOfferInput{
		RequestID:    models.FlexInt(req.ID),
		Price:        decimal.NewNullDecimal(decimal.NewFromInt(900)),
		DeliveryTime: 4,
	})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "only suppliers can create offers", apiErr.Message)

	require.NoError(t, buyer.Offers.Fetch(ctx))
	fetched := buyer.Offers.All()
	require.Len(t, fetched, 1)
	assert.Equal(t, offer.ID, fetched[0].ID)
	assert.Equal(t, "B", fetched[0].ToLocation)
}

func TestAPIErrorFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, nil)
	err := c.Offers.Fetch(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "failed to fetch offers", apiErr.Message)
	assert.Empty(t, c.Offers.All())
}
