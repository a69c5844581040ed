package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RestaurantCategory string

const (
	CategoryFastFood   RestaurantCategory = "Fast Food"
	CategoryCafe       RestaurantCategory = "Cafe"
	CategoryFineDining RestaurantCategory = "Fine Dining"
	CategoryDeli       RestaurantCategory = "Deli"
	CategoryStreetFood RestaurantCategory = "Street Food"
	CategoryDessert    RestaurantCategory = "Dessert"
)

var RestaurantCategories = []RestaurantCategory{
	CategoryFastFood, CategoryCafe, CategoryFineDining,
	CategoryDeli, CategoryStreetFood, CategoryDessert,
}

func (c RestaurantCategory) Valid() bool {
	return slices.Contains(RestaurantCategories, c)
}

// Image is a reference to an uploaded object in storage.
type Image struct {
	Key      string `json:"key"`
	Location string `json:"location"`
}

// Location is a GeoJSON point plus the normalized address it was resolved from.
type Location struct {
	Type             string     `json:"type"`
	Coordinates      [2]float64 `json:"coordinates"` // [lng, lat]
	FormattedAddress string     `json:"formattedAddress"`
	City             string     `json:"city"`
	State            string     `json:"state"`
	Zipcode          string     `json:"zipcode"`
	Country          string     `json:"country"`
}

type Restaurant struct {
	ID          uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string                         `gorm:"size:255;not null;index" json:"name"`
	Description string                         `gorm:"type:text" json:"description"`
	Email       string                         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PhoneNo     string                         `gorm:"size:32" json:"phoneNo"`
	Address     string                         `gorm:"type:text" json:"address"`
	Category    RestaurantCategory             `gorm:"size:32;not null" json:"category"`
	Images      datatypes.JSONSlice[Image]     `json:"images"`
	Location    datatypes.JSONType[Location]   `json:"location"`
	Menu        datatypes.JSONSlice[uuid.UUID] `json:"menu"`
	UserID      uuid.UUID                      `gorm:"type:uuid;not null;index" json:"user"`
	CreatedAt   time.Time                      `json:"createdAt"`
	UpdatedAt   time.Time                      `json:"updatedAt"`
}

func (r *Restaurant) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Images == nil {
		r.Images = datatypes.JSONSlice[Image]{}
	}
	if r.Menu == nil {
		r.Menu = datatypes.JSONSlice[uuid.UUID]{}
	}
	return nil
}

// AddMeal appends a meal id to the menu unless it is already listed.
func (r *Restaurant) AddMeal(mealID uuid.UUID) {
	if slices.Contains(r.Menu, mealID) {
		return
	}
	r.Menu = append(r.Menu, mealID)
}

// RemoveMeal drops every occurrence of mealID from the menu and reports
// whether anything was removed.
func (r *Restaurant) RemoveMeal(mealID uuid.UUID) bool {
	before := len(r.Menu)
	r.Menu = slices.DeleteFunc(r.Menu, func(id uuid.UUID) bool { return id == mealID })
	return len(r.Menu) != before
}
