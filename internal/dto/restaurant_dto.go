package dto

import (
	"encoding/json"

	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/models"
)

const categoryMessage = "Please enter a correct category"

type CreateRestaurantRequest struct {
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	Email       string                    `json:"email"`
	PhoneNo     PhoneNumber               `json:"phoneNo"`
	Address     string                    `json:"address"`
	Category    models.RestaurantCategory `json:"category"`
	User        json.RawMessage           `json:"user"`
}

func (r *CreateRestaurantRequest) Validate() apperr.FieldErrors {
	var c checker
	c.require("name", r.Name)
	c.require("description", r.Description)
	c.check("email", r.Email, "required,email", "Please enter a correct email")
	c.phone("phoneNo", r.PhoneNo)
	c.require("address", r.Address)
	if !r.Category.Valid() {
		c.errs.Add("category", categoryMessage)
	}
	c.rejectOwner(r.User)
	return c.errs
}

// UpdateRestaurantRequest is a partial update; nil fields are left untouched.
type UpdateRestaurantRequest struct {
	Name        *string                    `json:"name"`
	Description *string                    `json:"description"`
	Email       *string                    `json:"email"`
	PhoneNo     *PhoneNumber               `json:"phoneNo"`
	Address     *string                    `json:"address"`
	Category    *models.RestaurantCategory `json:"category"`
	User        json.RawMessage            `json:"user"`
}

func (r *UpdateRestaurantRequest) Validate() apperr.FieldErrors {
	var c checker
	if r.Name != nil {
		c.require("name", *r.Name)
	}
	if r.Description != nil {
		c.require("description", *r.Description)
	}
	if r.Email != nil {
		c.check("email", *r.Email, "required,email", "Please enter a correct email")
	}
	if r.PhoneNo != nil {
		c.phone("phoneNo", *r.PhoneNo)
	}
	if r.Address != nil {
		c.require("address", *r.Address)
	}
	if r.Category != nil && !r.Category.Valid() {
		c.errs.Add("category", categoryMessage)
	}
	c.rejectOwner(r.User)
	return c.errs
}
