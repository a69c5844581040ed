package services

import (
	"context"
	"sync"
	"testing"

	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/dto"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMealCreateAddsToMenu(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@test.com")
	r := f.restaurant(t, "A", "a@test.com", owner)

	m := f.meal(t, r.ID, owner)
	assert.Equal(t, owner, m.UserID)
	assert.Equal(t, r.ID, m.RestaurantID)

	got, err := f.restaurants.GetByID(ctx, r.ID.String())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{m.ID}, []uuid.UUID(got.Menu))
}

func TestMealCreateByNonOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@test.com")
	other := f.user(t, "other@test.com")
	r := f.restaurant(t, "A", "a@test.com", owner)

	price := 3.0
	_, err := f.meals.Create(ctx, &dto.CreateMealRequest{
		Name: "Soup", Description: "d", Price: &price, Category: models.MealSoups, Restaurant: r.ID.String(),
	}, other)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.ErrorIs(t, err, ErrNotRestaurantOwner)

	meals, err := f.meals.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, meals)

	got, err := f.restaurants.GetByID(ctx, r.ID.String())
	require.NoError(t, err)
	assert.Empty(t, got.Menu)
}

func TestMealCreateMissingRestaurant(t *testing.T) {
	f := newFixture(t)
	price := 3.0
	req := &dto.CreateMealRequest{Name: "Soup", Description: "d", Price: &price, Category: models.MealSoups, Restaurant: uuid.NewString()}

	_, err := f.meals.Create(context.Background(), req, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	req.Restaurant = "wrongid"
	_, err = f.meals.Create(context.Background(), req, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrInvalidIdentifier)
}

func TestMealGetAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@test.com")
	a := f.restaurant(t, "A", "a@test.com", owner)
	b := f.restaurant(t, "B", "b@test.com", owner)
	m := f.meal(t, a.ID, owner)
	f.meal(t, b.ID, owner)

	got, err := f.meals.GetByID(ctx, m.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Tomato Soup", got.Name)

	_, err = f.meals.GetByID(ctx, "wrongid")
	assert.ErrorIs(t, err, apperr.ErrInvalidIdentifier)
	_, err = f.meals.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	all, err := f.meals.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byA, err := f.meals.ListByRestaurant(ctx, a.ID.String())
	require.NoError(t, err)
	require.Len(t, byA, 1)
	assert.Equal(t, m.ID, byA[0].ID)
}

func TestMealUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@test.com")
	r := f.restaurant(t, "A", "a@test.com", owner)
	m := f.meal(t, r.ID, owner)

	_, err := f.meals.Update(ctx, m.ID.String(), &dto.UpdateMealRequest{Name: ptr("Stolen")}, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	updated, err := f.meals.Update(ctx, m.ID.String(), &dto.UpdateMealRequest{
		Price:    ptr(20.0),
		Category: ptr(models.MealPasta),
	}, owner)
	require.NoError(t, err)
	assert.Equal(t, 20.0, updated.Price)
	assert.Equal(t, models.MealPasta, updated.Category)
	assert.Equal(t, "Tomato Soup", updated.Name)
}

func TestMealDeleteShrinksMenu(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@test.com")
	r := f.restaurant(t, "A", "a@test.com", owner)
	first := f.meal(t, r.ID, owner)
	second := f.meal(t, r.ID, owner)

	before, err := f.restaurants.GetByID(ctx, r.ID.String())
	require.NoError(t, err)
	require.Len(t, before.Menu, 2)

	_, err = f.meals.Delete(ctx, first.ID.String(), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	deleted, err := f.meals.Delete(ctx, first.ID.String(), owner)
	require.NoError(t, err)
	assert.True(t, deleted)

	after, err := f.restaurants.GetByID(ctx, r.ID.String())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{second.ID}, []uuid.UUID(after.Menu))

	_, err = f.meals.Delete(ctx, first.ID.String(), owner)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMealConcurrentWritesKeepMenuInStep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@test.com")
	r := f.restaurant(t, "A", "a@test.com", owner)

	existing := make([]*models.Meal, 10)
	for i := range existing {
		existing[i] = f.meal(t, r.ID, owner)
	}

	price := 9.0
	var wg sync.WaitGroup
	errs := make(chan error, 30)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.meals.Create(ctx, &dto.CreateMealRequest{
				Name: "Pasta", Description: "d", Price: &price, Category: models.MealPasta, Restaurant: r.ID.String(),
			}, owner)
			errs <- err
		}()
	}
	for _, m := range existing {
		m := m
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.meals.Delete(ctx, m.ID.String(), owner)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	live, err := f.meals.ListByRestaurant(ctx, r.ID.String())
	require.NoError(t, err)
	require.Len(t, live, 20)
	liveIDs := make([]uuid.UUID, 0, len(live))
	for _, m := range live {
		liveIDs = append(liveIDs, m.ID)
	}

	got, err := f.restaurants.GetByID(ctx, r.ID.String())
	require.NoError(t, err)
	assert.ElementsMatch(t, liveIDs, []uuid.UUID(got.Menu))
}

func TestMealDeleteWithMissingRestaurant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@test.com")
	r := f.restaurant(t, "A", "a@test.com", owner)
	m := f.meal(t, r.ID, owner)

	_, err := f.repos.Restaurants.Delete(ctx, r.ID)
	require.NoError(t, err)

	deleted, err := f.meals.Delete(ctx, m.ID.String(), owner)
	assert.False(t, deleted)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, err, ErrMealRestaurantAbsent)

	_, err = f.meals.GetByID(ctx, m.ID.String())
	assert.NoError(t, err)
}
