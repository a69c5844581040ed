package services

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/dto"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/geocoder"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/models"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestRestaurantCreateGeocodesAndSetsOwner(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@test.com")

	r := f.restaurant(t, "Retaurant 4", "ghulam1@gmail.com", owner)

	assert.Equal(t, owner, r.UserID)
	loc := r.Location.Data()
	assert.Equal(t, "Point", loc.Type)
	assert.Equal(t, [2]float64{-122.08089, 37.4232}, loc.Coordinates)
	assert.Equal(t, "Mountain View", loc.City)
	assert.Equal(t, []string{"200 Olympic Dr, Stafford, VA, 22554"}, f.geo.Calls)
	assert.Empty(t, r.Menu)
	assert.Empty(t, r.Images)
}

func TestRestaurantCreateFailures(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@test.com")
	f.restaurant(t, "First", "dup@test.com", owner)

	req := &dto.CreateRestaurantRequest{
		Name: "Second", Description: "d", Email: "dup@test.com",
		PhoneNo: "9788246116", Address: "somewhere", Category: models.CategoryCafe,
	}
	_, err := f.restaurants.Create(context.Background(), req, owner)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	req.Email = "other@test.com"
	f.geo.Err = geocoder.ErrNoResults
	_, err = f.restaurants.Create(context.Background(), req, owner)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	f.geo.Err = errors.New("connection refused")
	_, err = f.restaurants.Create(context.Background(), req, owner)
	assert.ErrorIs(t, err, apperr.ErrUpstream)

	found, err := f.restaurants.Search(context.Background(), "second", 1)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestRestaurantSearchPages(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@test.com")
	f.restaurant(t, "Restaurant 1", "r1@test.com", owner)
	f.restaurant(t, "my RESTAURANT", "r2@test.com", owner)
	f.restaurant(t, "restaurant three", "r3@test.com", owner)
	f.restaurant(t, "Cafe", "r4@test.com", owner)

	got, err := f.restaurants.Search(context.Background(), "restaurant", 1)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(got), 2)
	re := regexp.MustCompile(`(?i)restaurant`)
	for _, r := range got {
		assert.Regexp(t, re, r.Name)
	}

	got, err = f.restaurants.Search(context.Background(), "restaurant", 2)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRestaurantGetByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.restaurants.GetByID(ctx, "wrongid")
	assert.ErrorIs(t, err, apperr.ErrInvalidIdentifier)

	_, err = f.restaurants.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRestaurantUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@test.com")
	other := f.user(t, "other@test.com")
	r := f.restaurant(t, "Old name", "r@test.com", owner)

	_, err := f.restaurants.Update(ctx, r.ID.String(), &dto.UpdateRestaurantRequest{Name: ptr("Hijack")}, other)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	updated, err := f.restaurants.Update(ctx, r.ID.String(), &dto.UpdateRestaurantRequest{
		Name:     ptr("Updated name"),
		Category: ptr(models.CategoryDeli),
	}, owner)
	require.NoError(t, err)
	assert.Equal(t, "Updated name", updated.Name)
	assert.Equal(t, models.CategoryDeli, updated.Category)
	assert.Equal(t, owner, updated.UserID)
	assert.Equal(t, "r@test.com", updated.Email)

	got, err := f.restaurants.GetByID(ctx, r.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Updated name", got.Name)
	assert.Len(t, f.geo.Calls, 1)

	_, err = f.restaurants.Update(ctx, r.ID.String(), &dto.UpdateRestaurantRequest{Address: ptr("1600 Amphitheatre")}, owner)
	require.NoError(t, err)
	assert.Len(t, f.geo.Calls, 2)
}

func TestRestaurantUpdateEmailConflict(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@test.com")
	f.restaurant(t, "A", "a@test.com", owner)
	b := f.restaurant(t, "B", "b@test.com", owner)

	_, err := f.restaurants.Update(context.Background(), b.ID.String(), &dto.UpdateRestaurantRequest{Email: ptr("a@test.com")}, owner)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestRestaurantDeleteCascadesMeals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@test.com")
	r := f.restaurant(t, "A", "a@test.com", owner)
	f.meal(t, r.ID, owner)

	_, err := f.restaurants.UploadImages(ctx, r.ID.String(), []storage.File{{Name: "a.png", Data: []byte("png")}}, owner)
	require.NoError(t, err)

	_, err = f.restaurants.Delete(ctx, r.ID.String(), f.user(t, "other@test.com"))
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	deleted, err := f.restaurants.Delete(ctx, r.ID.String(), owner)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []string{"restaurants/a.png"}, f.store.Deleted)

	meals, err := f.meals.ListByRestaurant(ctx, r.ID.String())
	require.NoError(t, err)
	assert.Empty(t, meals)
}

func TestRestaurantDeleteKeptWhenImagesFail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@test.com")
	r := f.restaurant(t, "A", "a@test.com", owner)

	_, err := f.restaurants.UploadImages(ctx, r.ID.String(), []storage.File{{Name: "a.png", Data: []byte("png")}}, owner)
	require.NoError(t, err)

	f.store.DeleteErr = errors.New("access denied")
	deleted, err := f.restaurants.Delete(ctx, r.ID.String(), owner)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = f.restaurants.GetByID(ctx, r.ID.String())
	assert.NoError(t, err)
}

func TestRestaurantUploadImagesAppends(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@test.com")
	r := f.restaurant(t, "A", "a@test.com", owner)

	_, err := f.restaurants.UploadImages(ctx, r.ID.String(), []storage.File{{Name: "a.png"}}, owner)
	require.NoError(t, err)
	got, err := f.restaurants.UploadImages(ctx, r.ID.String(), []storage.File{{Name: "b.png"}, {Name: "c.png"}}, owner)
	require.NoError(t, err)

	require.Len(t, got.Images, 3)
	assert.Equal(t, "restaurants/a.png", got.Images[0].Key)
	assert.Equal(t, "restaurants/c.png", got.Images[2].Key)

	_, err = f.restaurants.UploadImages(ctx, r.ID.String(), []storage.File{{Name: "d.png"}}, f.user(t, "x@test.com"))
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.restaurants.UploadImages(ctx, r.ID.String(), nil, owner)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	f.store.UploadErr = errors.New("timeout")
	_, err = f.restaurants.UploadImages(ctx, r.ID.String(), []storage.File{{Name: "e.png"}}, owner)
	assert.ErrorIs(t, err, apperr.ErrUpstream)
}

func TestDetachImages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.True(t, f.restaurants.DetachImages(ctx, nil))
	assert.True(t, f.restaurants.DetachImages(ctx, []models.Image{{Key: "k"}}))

	f.store.DeleteErr = errors.New("boom")
	assert.False(t, f.restaurants.DetachImages(ctx, []models.Image{{Key: "k"}}))
	assert.True(t, f.restaurants.DetachImages(ctx, []models.Image{}))
}

func TestRestaurantConcurrentUploadsKeepAllImages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@test.com")
	r := f.restaurant(t, "A", "a@test.com", owner)

	// Both uploads read the restaurant before either one saves.
	arrived := make(chan struct{}, 2)
	release := make(chan struct{})
	defer close(release)
	f.store.OnUpload = func() {
		arrived <- struct{}{}
		<-release
	}

	errs := make(chan error, 2)
	for _, name := range []string{"one.png", "two.png"} {
		name := name
		go func() {
			_, err := f.restaurants.UploadImages(ctx, r.ID.String(), []storage.File{{Name: name}}, owner)
			errs <- err
		}()
	}
	for i := 0; i < 2; i++ {
		select {
		case <-arrived:
		case <-time.After(5 * time.Second):
			t.Fatal("uploads did not start")
		}
	}
	release <- struct{}{}
	release <- struct{}{}
	require.NoError(t, <-errs)
	require.NoError(t, <-errs)

	got, err := f.restaurants.GetByID(ctx, r.ID.String())
	require.NoError(t, err)
	keys := make([]string, 0, len(got.Images))
	for _, img := range got.Images {
		keys = append(keys, img.Key)
	}
	assert.ElementsMatch(t, []string{"restaurants/one.png", "restaurants/two.png"}, keys)
}

func TestRestaurantDeleteRacingMealCreatesLeavesNoMeals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@test.com")
	r := f.restaurant(t, "A", "a@test.com", owner)
	f.meal(t, r.ID, owner)

	price := 4.0
	var wg sync.WaitGroup
	errs := make(chan error, 11)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.meals.Create(ctx, &dto.CreateMealRequest{
				Name: "Soup", Description: "d", Price: &price, Category: models.MealSoups, Restaurant: r.ID.String(),
			}, owner)
			if err != nil && !errors.Is(err, apperr.ErrNotFound) {
				errs <- err
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		deleted, err := f.restaurants.Delete(ctx, r.ID.String(), owner)
		if err != nil {
			errs <- err
		} else if !deleted {
			errs <- errors.New("restaurant not deleted")
		}
	}()
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	meals, err := f.meals.ListByRestaurant(ctx, r.ID.String())
	require.NoError(t, err)
	assert.Empty(t, meals)
}
