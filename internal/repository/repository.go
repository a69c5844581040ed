// Package repository holds the gorm-backed stores for users, restaurants and
// meals.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repositories groups the stores that share one *gorm.DB, so a transaction
// can hand every store the same tx handle.
type Repositories struct {
	db          *gorm.DB
	Users       *UserRepository
	Restaurants *RestaurantRepository
	Meals       *MealRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		db:          db,
		Users:       NewUserRepository(db),
		Restaurants: NewRestaurantRepository(db),
		Meals:       NewMealRepository(db),
	}
}

// Transaction runs fn with stores bound to a single database transaction.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// IsNotFound reports whether err is gorm's record-not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate reports whether err is a unique constraint violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
