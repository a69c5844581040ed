package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/config"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/dto"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/models"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/repository"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	repos       *repository.Repositories
	geo         *testutil.Geocoder
	store       *testutil.Storage
	auth        *AuthService
	restaurants *RestaurantService
	meals       *MealService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := repository.New(testutil.NewDB(t))
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour, BcryptCost: bcrypt.MinCost}
	geo := &testutil.Geocoder{}
	store := testutil.NewStorage()
	return &fixture{
		repos:       repos,
		geo:         geo,
		store:       store,
		auth:        NewAuthService(repos, cfg),
		restaurants: NewRestaurantService(repos, geo, store, 2),
		meals:       NewMealService(repos),
	}
}

func (f *fixture) user(t *testing.T, email string) uuid.UUID {
	t.Helper()
	u := &models.User{Name: "Test", Email: email, Password: "x"}
	require.NoError(t, f.repos.Users.Create(context.Background(), u))
	return u.ID
}

func (f *fixture) restaurant(t *testing.T, name, email string, owner uuid.UUID) *models.Restaurant {
	t.Helper()
	r, err := f.restaurants.Create(context.Background(), &dto.CreateRestaurantRequest{
		Name:        name,
		Description: "This is just a description",
		Email:       email,
		PhoneNo:     "9788246116",
		Address:     "200 Olympic Dr, Stafford, VA, 22554",
		Category:    models.CategoryFastFood,
	}, owner)
	require.NoError(t, err)
	return r
}

func (f *fixture) meal(t *testing.T, restaurantID, owner uuid.UUID) *models.Meal {
	t.Helper()
	price := 12.5
	m, err := f.meals.Create(context.Background(), &dto.CreateMealRequest{
		Name:        "Tomato Soup",
		Description: "Hot",
		Price:       &price,
		Category:    models.MealSoups,
		Restaurant:  restaurantID.String(),
	}, owner)
	require.NoError(t, err)
	return m
}
