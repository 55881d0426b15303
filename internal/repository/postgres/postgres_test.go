package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonkonan/materrax/internal/models"
	"github.com/tonkonan/materrax/internal/repository"
	"github.com/tonkonan/materrax/internal/testutil"
)

func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := testutil.PostgresDSN(t)

	_, err := Migrate(dsn)
	require.NoError(t, err)

	applied, err := Migrate(dsn)
	require.NoError(t, err)
	assert.False(t, applied, "second migration run should be a no-op")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, "TRUNCATE offers, requests, users RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	return pool
}

func createUser(t *testing.T, repo *UserRepository, email string, role models.Role) *models.User {
	t.Helper()

	company := "Acme"
	user, err := repo.CreateUser(context.Background(), &models.RegisterInput{
		Email:   email,
		Role:    role,
		Company: &company,
	}, "$2a$10$hash")
	require.NoError(t, err)
	return user
}

func TestRepositories(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()

	users := NewUserRepository(pool)
	requests := NewRequestRepository(pool)
	offers := NewOfferRepository(pool)

	buyer := createUser(t, users, "buyer@x.io", models.RoleBuyer)
	supplier := createUser(t, users, "sup@x.io", models.RoleSupplier)

	t.Run("users", func(t *testing.T) {
		assert.NotZero(t, buyer.ID)
		assert.Equal(t, models.RoleBuyer, buyer.Role)
		assert.Nil(t, buyer.Phone)

		_, err := users.CreateUser(ctx, &models.RegisterInput{Email: "buyer@x.io", Role: models.RoleSupplier}, "h")
		assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

		found, err := users.GetUserByEmail(ctx, "sup@x.io")
		require.NoError(t, err)
		assert.Equal(t, supplier.ID, found.ID)
		assert.Equal(t, "$2a$10$hash", found.PasswordHash)

		byID, err := users.GetUserByID(ctx, buyer.ID)
		require.NoError(t, err)
		assert.Equal(t, "buyer@x.io", byID.Email)

		_, err = users.GetUserByEmail(ctx, "ghost@x.io")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		_, err = users.GetUserByID(ctx, 999999)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		recent, err := users.ListRecentUsers(ctx, 1)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, supplier.ID, recent[0].ID)
	})

	var first, second *models.Request
	t.Run("requests", func(t *testing.T) {
		var err error
		first, err = requests.CreateRequest(ctx, buyer.ID, &models.CreateRequestInput{
			Material:     "sand",
			FromLocation: "A",
			ToLocation:   "B",
			Volume:       decimal.NewNullDecimal(decimal.RequireFromString("10.25")),
		})
		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusOpen, first.Status)
		assert.Equal(t, "10.25", first.Volume.String())
		assert.Nil(t, first.Description)

		description := "fine"
		second, err = requests.CreateRequest(ctx, buyer.ID, &models.CreateRequestInput{
			Material:     "gravel",
			FromLocation: "C",
			ToLocation:   "D",
			Volume:       decimal.NewNullDecimal(decimal.NewFromInt(3)),
			Description:  &description,
		})
		require.NoError(t, err)

		_, err = requests.CreateRequest(ctx, 999999, &models.CreateRequestInput{
			Material: "x", FromLocation: "y", ToLocation: "z",
			Volume: decimal.NewNullDecimal(decimal.NewFromInt(1)),
		})
		assert.ErrorIs(t, err, repository.ErrNotFound)

		listed, err := requests.ListRequests(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, second.ID, listed[0].ID)
		assert.Equal(t, "fine", *listed[0].Description)
		assert.Equal(t, "buyer@x.io", listed[0].UserEmail)
		assert.Equal(t, "Acme", *listed[0].UserCompany)
		assert.Equal(t, first.ID, listed[1].ID)
	})

	t.Run("offers", func(t *testing.T) {
		require.NotNil(t, first)

		offer, err := offers.CreateOffer(ctx, supplier.ID, &models.CreateOfferInput{
			RequestID:    models.FlexInt(first.ID),
			Price:        decimal.NewNullDecimal(decimal.RequireFromString("1500.50")),
			DeliveryTime: 3,
		})
		require.NoError(t, err)
		assert.Equal(t, first.ID, offer.RequestID)
		assert.True(t, decimal.RequireFromString("1500.5").Equal(offer.Price))

		_, err = offers.CreateOffer(ctx, supplier.ID, &models.CreateOfferInput{
			RequestID:    999999,
			Price:        decimal.NewNullDecimal(decimal.NewFromInt(1)),
			DeliveryTime: 1,
		})
		assert.ErrorIs(t, err, repository.ErrRequestNotFound)

		_, err = offers.CreateOffer(ctx, 999999, &models.CreateOfferInput{
			RequestID:    models.FlexInt(first.ID),
			Price:        decimal.NewNullDecimal(decimal.NewFromInt(1)),
			DeliveryTime: 1,
		})
		assert.ErrorIs(t, err, repository.ErrNotFound)

		listed, err := offers.ListOffers(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, "sand", listed[0].Material)
		assert.Equal(t, "A", listed[0].FromLocation)
		assert.Equal(t, "B", listed[0].ToLocation)
		assert.Equal(t, "sup@x.io", listed[0].UserEmail)
	})

	t.Run("health", func(t *testing.T) {
		now, err := NewHealthRepository(pool).Now(ctx)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), now, time.Minute)
	})
}

func TestAmountsKeepSubmittedPrecision(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()

	users := NewUserRepository(pool)
	requests := NewRequestRepository(pool)
	offers := NewOfferRepository(pool)

	buyer := createUser(t, users, "buyer@x.io", models.RoleBuyer)
	supplier := createUser(t, users, "sup@x.io", models.RoleSupplier)

	for _, volume := range []string{"0.001", "100000000000", "12345678901234.56789"} {
		req, err := requests.CreateRequest(ctx, buyer.ID, &models.CreateRequestInput{
			Material:     "sand",
			FromLocation: "A",
			ToLocation:   "B",
			Volume:       decimal.NewNullDecimal(decimal.RequireFromString(volume)),
		})
		require.NoError(t, err, volume)
		assert.True(t, decimal.RequireFromString(volume).Equal(req.Volume), "got %s, want %s", req.Volume, volume)
	}

	listed, err := requests.ListRequests(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "0.001", listed[2].Volume.String())

	offer, err := offers.CreateOffer(ctx, supplier.ID, &models.CreateOfferInput{
		RequestID:    models.FlexInt(listed[0].ID),
		Price:        decimal.NewNullDecimal(decimal.RequireFromString("0.005")),
		DeliveryTime: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "0.005", offer.Price.String())

	_, err = offers.CreateOffer(ctx, supplier.ID, &models.CreateOfferInput{
		RequestID:    models.FlexInt(listed[0].ID),
		Price:        decimal.NewNullDecimal(decimal.NewFromInt(1)),
		DeliveryTime: 1 << 40,
	})
	assert.ErrorIs(t, err, repository.ErrOutOfRange)
}
