package repository

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/database"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RestaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

// Search returns one page of restaurants whose name contains keyword.
// Rows come back in the store's default order.
func (r *RestaurantRepository) Search(ctx context.Context, keyword string, page, pageSize int) ([]models.Restaurant, error) {
	restaurants := make([]models.Restaurant, 0, pageSize)
	err := r.db.WithContext(ctx).
		Scopes(database.NameContains(keyword), database.Paginate(page, pageSize)).
		Find(&restaurants).Error
	return restaurants, err
}

func (r *RestaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	return r.db.WithContext(ctx).Create(restaurant).Error
}

func (r *RestaurantRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).First(&restaurant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// FindByIDForUpdate loads the restaurant and row-locks it until the
// surrounding transaction ends. Drivers without row locks (SQLite) drop the
// FOR UPDATE clause and rely on their database-level write lock instead.
func (r *RestaurantRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&restaurant, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// EmailTaken reports whether another restaurant already uses email.
func (r *RestaurantRepository) EmailTaken(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Restaurant{}).Where("email = ?", email)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// Update applies a partial column update. Only keys present in fields change.
func (r *RestaurantRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Restaurant{}).Where("id = ?", id).Updates(fields).Error
}

func (r *RestaurantRepository) SetMenu(ctx context.Context, id uuid.UUID, menu datatypes.JSONSlice[uuid.UUID]) error {
	if menu == nil {
		menu = datatypes.JSONSlice[uuid.UUID]{}
	}
	return r.db.WithContext(ctx).Model(&models.Restaurant{}).Where("id = ?", id).Update("menu", menu).Error
}

func (r *RestaurantRepository) SetImages(ctx context.Context, id uuid.UUID, images datatypes.JSONSlice[models.Image]) error {
	if images == nil {
		images = datatypes.JSONSlice[models.Image]{}
	}
	return r.db.WithContext(ctx).Model(&models.Restaurant{}).Where("id = ?", id).Update("images", images).Error
}

// Delete removes the restaurant and reports whether a row existed.
func (r *RestaurantRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Restaurant{})
	return res.RowsAffected > 0, res.Error
}
