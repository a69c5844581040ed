package dto

import (
	"encoding/json"

	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/models"
)

const mealCategoryMessage = "Please enter a correct category for this meal"

type CreateMealRequest struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Price       *float64            `json:"price"`
	Category    models.MealCategory `json:"category"`
	Restaurant  string              `json:"restaurant"`
	User        json.RawMessage     `json:"user"`
}

func (r *CreateMealRequest) Validate() apperr.FieldErrors {
	var c checker
	c.require("name", r.Name)
	c.require("description", r.Description)
	if r.Price == nil {
		c.errs.Add("price", "price should not be empty")
	} else {
		c.check("price", *r.Price, "gte=0", "price must be a positive number")
	}
	if !r.Category.Valid() {
		c.errs.Add("category", mealCategoryMessage)
	}
	c.check("restaurant", r.Restaurant, "required,uuid", "restaurant must be a valid restaurant id")
	c.rejectOwner(r.User)
	return c.errs
}

// UpdateMealRequest is a partial update. A meal cannot move to another
// restaurant, so a restaurant field is rejected.
type UpdateMealRequest struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	Price       *float64             `json:"price"`
	Category    *models.MealCategory `json:"category"`
	Restaurant  json.RawMessage      `json:"restaurant"`
	User        json.RawMessage      `json:"user"`
}

func (r *UpdateMealRequest) Validate() apperr.FieldErrors {
	var c checker
	if r.Name != nil {
		c.require("name", *r.Name)
	}
	if r.Description != nil {
		c.require("description", *r.Description)
	}
	if r.Price != nil {
		c.check("price", *r.Price, "gte=0", "price must be a positive number")
	}
	if r.Category != nil && !r.Category.Valid() {
		c.errs.Add("category", mealCategoryMessage)
	}
	if len(r.Restaurant) > 0 && string(r.Restaurant) != "null" {
		c.errs.Add("restaurant", "A meal cannot be moved to another restaurant")
	}
	c.rejectOwner(r.User)
	return c.errs
}
