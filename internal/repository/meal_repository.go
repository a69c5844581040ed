package repository

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MealRepository struct {
	db *gorm.DB
}

func NewMealRepository(db *gorm.DB) *MealRepository {
	return &MealRepository{db: db}
}

func (r *MealRepository) FindAll(ctx context.Context) ([]models.Meal, error) {
	meals := []models.Meal{}
	err := r.db.WithContext(ctx).Find(&meals).Error
	return meals, err
}

func (r *MealRepository) FindByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.Meal, error) {
	meals := []models.Meal{}
	err := r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID).Find(&meals).Error
	return meals, err
}

func (r *MealRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Meal, error) {
	var meal models.Meal
	if err := r.db.WithContext(ctx).First(&meal, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &meal, nil
}

func (r *MealRepository) Create(ctx context.Context, meal *models.Meal) error {
	return r.db.WithContext(ctx).Create(meal).Error
}

func (r *MealRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Meal{}).Where("id = ?", id).Updates(fields).Error
}

// Delete removes the meal and reports whether a row existed.
func (r *MealRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Meal{})
	return res.RowsAffected > 0, res.Error
}

func (r *MealRepository) DeleteByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID).Delete(&models.Meal{})
	return res.RowsAffected, res.Error
}
