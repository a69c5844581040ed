package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/dto"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/models"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrMealNotFound         = apperr.NotFound("Meal not found with this ID")
	ErrMealRestaurantAbsent = apperr.NotFound("Restaurant not found with this ID")
	ErrNotRestaurantOwner   = apperr.Forbidden("Only the owner can add a meal to this restaurant")
	ErrNotMenuOwner         = apperr.Forbidden("Only the owner can remove a meal from this restaurant")
	ErrNotMealOwner         = apperr.Forbidden("You can not update this meal")
)

// MealService keeps meals and their restaurant's menu in step. Every write
// that touches a menu runs in one transaction holding the restaurant row
// lock.
type MealService struct {
	repos *repository.Repositories
}

func NewMealService(repos *repository.Repositories) *MealService {
	return &MealService{repos: repos}
}

func (s *MealService) ListAll(ctx context.Context) ([]models.Meal, error) {
	meals, err := s.repos.Meals.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	return meals, nil
}

func (s *MealService) ListByRestaurant(ctx context.Context, restaurantID string) ([]models.Meal, error) {
	id, err := parseID(restaurantID)
	if err != nil {
		return nil, err
	}
	meals, err := s.repos.Meals.FindByRestaurant(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	return meals, nil
}

func (s *MealService) Create(ctx context.Context, req *dto.CreateMealRequest, acting uuid.UUID) (*models.Meal, error) {
	restaurantID, err := parseID(req.Restaurant)
	if err != nil {
		return nil, err
	}

	meal := &models.Meal{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Category:     req.Category,
		RestaurantID: restaurantID,
		UserID:       acting,
	}
	if req.Price != nil {
		meal.Price = *req.Price
	}

	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		restaurant, err := tx.Restaurants.FindByIDForUpdate(ctx, restaurantID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrMealRestaurantAbsent
			}
			return fmt.Errorf("lock restaurant: %w", err)
		}
		if Authorize(restaurant.UserID, acting) != nil {
			return ErrNotRestaurantOwner
		}

		if err := tx.Meals.Create(ctx, meal); err != nil {
			return fmt.Errorf("create meal: %w", err)
		}
		restaurant.AddMeal(meal.ID)
		if err := tx.Restaurants.SetMenu(ctx, restaurant.ID, restaurant.Menu); err != nil {
			return fmt.Errorf("update menu: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return meal, nil
}

func (s *MealService) GetByID(ctx context.Context, id string) (*models.Meal, error) {
	parsed, err := parseID(id)
	if err != nil {
		return nil, err
	}
	meal, err := s.repos.Meals.FindByID(ctx, parsed)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrMealNotFound
		}
		return nil, fmt.Errorf("find meal: %w", err)
	}
	return meal, nil
}

// Update merges the non-nil request fields into the meal. Only the meal's
// owner may update it.
func (s *MealService) Update(ctx context.Context, id string, req *dto.UpdateMealRequest, acting uuid.UUID) (*models.Meal, error) {
	meal, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if Authorize(meal.UserID, acting) != nil {
		return nil, ErrNotMealOwner
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}

	if err := s.repos.Meals.Update(ctx, meal.ID, fields); err != nil {
		return nil, fmt.Errorf("update meal: %w", err)
	}
	return s.GetByID(ctx, meal.ID.String())
}

// Delete removes the meal and pulls it from its restaurant's menu. It
// reports whether a meal row was deleted.
func (s *MealService) Delete(ctx context.Context, id string, acting uuid.UUID) (bool, error) {
	meal, err := s.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if Authorize(meal.UserID, acting) != nil {
		return false, ErrNotMealOwner
	}

	var deleted bool
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		restaurant, err := tx.Restaurants.FindByIDForUpdate(ctx, meal.RestaurantID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrMealRestaurantAbsent
			}
			return fmt.Errorf("lock restaurant: %w", err)
		}
		if Authorize(restaurant.UserID, acting) != nil {
			return ErrNotMenuOwner
		}

		ok, err := tx.Meals.Delete(ctx, meal.ID)
		if err != nil {
			return fmt.Errorf("delete meal: %w", err)
		}
		deleted = ok

		if len(restaurant.Menu) > 0 && restaurant.RemoveMeal(meal.ID) {
			if err := tx.Restaurants.SetMenu(ctx, restaurant.ID, restaurant.Menu); err != nil {
				return fmt.Errorf("update menu: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
