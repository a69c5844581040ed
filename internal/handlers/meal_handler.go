package handlers

import (
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/dto"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

type MealHandler struct {
	mealService *services.MealService
}

func NewMealHandler(mealService *services.MealService) *MealHandler {
	return &MealHandler{mealService: mealService}
}

func (h *MealHandler) List(c *fiber.Ctx) error {
	meals, err := h.mealService.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(meals)
}

func (h *MealHandler) ListByRestaurant(c *fiber.Ctx) error {
	meals, err := h.mealService.ListByRestaurant(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(meals)
}

func (h *MealHandler) Get(c *fiber.Ctx) error {
	meal, err := h.mealService.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(meal)
}

func (h *MealHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}

	var req dto.CreateMealRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	meal, err := h.mealService.Create(c.UserContext(), &req, userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(meal)
}

func (h *MealHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateMealRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	meal, err := h.mealService.Update(c.UserContext(), c.Params("id"), &req, userID)
	if err != nil {
		return err
	}
	return c.JSON(meal)
}

func (h *MealHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}

	deleted, err := h.mealService.Delete(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.DeleteResponse{Deleted: deleted})
}
