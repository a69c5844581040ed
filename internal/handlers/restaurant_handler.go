package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/dto"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/services"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/storage"
	"github.com/gofiber/fiber/v2"
)

type RestaurantHandler struct {
	restaurantService *services.RestaurantService
}

func NewRestaurantHandler(restaurantService *services.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{restaurantService: restaurantService}
}

func (h *RestaurantHandler) List(c *fiber.Ctx) error {
	restaurants, err := h.restaurantService.Search(c.UserContext(), c.Query("keyword"), c.QueryInt("page", 1))
	if err != nil {
		return err
	}
	return c.JSON(restaurants)
}

func (h *RestaurantHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}

	var req dto.CreateRestaurantRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	restaurant, err := h.restaurantService.Create(c.UserContext(), &req, userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(restaurant)
}

func (h *RestaurantHandler) Get(c *fiber.Ctx) error {
	restaurant, err := h.restaurantService.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(restaurant)
}

func (h *RestaurantHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateRestaurantRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	restaurant, err := h.restaurantService.Update(c.UserContext(), c.Params("id"), &req, userID)
	if err != nil {
		return err
	}
	return c.JSON(restaurant)
}

func (h *RestaurantHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}

	deleted, err := h.restaurantService.Delete(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.DeleteResponse{Deleted: deleted})
}

// Upload accepts images in the multipart field "files".
func (h *RestaurantHandler) Upload(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}

	files, err := readImages(c, "files")
	if err != nil {
		return err
	}

	restaurant, err := h.restaurantService.UploadImages(c.UserContext(), c.Params("id"), files, userID)
	if err != nil {
		return err
	}
	return c.JSON(restaurant)
}

func readImages(c *fiber.Ctx, field string) ([]storage.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrValidation, "Expected a multipart form", err)
	}

	headers := form.File[field]
	files := make([]storage.File, 0, len(headers))
	var fe apperr.FieldErrors
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %q: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %q: %w", fh.Filename, err)
		}

		contentType := http.DetectContentType(data)
		if !strings.HasPrefix(contentType, "image/") {
			fe.Add(field, fh.Filename+" is not an image")
			continue
		}
		files = append(files, storage.File{Name: fh.Filename, ContentType: contentType, Data: data})
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}
	return files, nil
}
