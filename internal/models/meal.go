package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MealCategory string

const (
	MealSoups      MealCategory = "Soups"
	MealSalads     MealCategory = "Salads"
	MealSandwiches MealCategory = "Sandwiches"
	MealPasta      MealCategory = "Pasta"
)

var MealCategories = []MealCategory{MealSoups, MealSalads, MealSandwiches, MealPasta}

func (c MealCategory) Valid() bool {
	return slices.Contains(MealCategories, c)
}

type Meal struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string       `gorm:"size:255;not null" json:"name"`
	Description  string       `gorm:"type:text" json:"description"`
	Price        float64      `gorm:"not null" json:"price"`
	Category     MealCategory `gorm:"size:32;not null" json:"category"`
	RestaurantID uuid.UUID    `gorm:"type:uuid;not null;index" json:"restaurant"`
	UserID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"user"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

func (m *Meal) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
