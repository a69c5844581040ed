package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/dto"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/geocoder"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/models"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/repository"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/storage"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var (
	ErrRestaurantNotFound = apperr.NotFound("Restaurant not found")
	ErrRestaurantEmail    = apperr.Conflict("This email has been taken")
)

// errImagesKept aborts a delete whose images could not be removed.
var errImagesKept = errors.New("restaurant images could not be removed")

const defaultPageSize = 2

type RestaurantService struct {
	repos    *repository.Repositories
	geo      geocoder.Geocoder
	store    storage.ObjectStorage
	pageSize int
}

func NewRestaurantService(repos *repository.Repositories, geo geocoder.Geocoder, store storage.ObjectStorage, pageSize int) *RestaurantService {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &RestaurantService{repos: repos, geo: geo, store: store, pageSize: pageSize}
}

// Search returns one page of restaurants whose name contains keyword,
// ignoring case. Pages start at 1.
func (s *RestaurantService) Search(ctx context.Context, keyword string, page int) ([]models.Restaurant, error) {
	if page < 1 {
		page = 1
	}
	restaurants, err := s.repos.Restaurants.Search(ctx, keyword, page, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("search restaurants: %w", err)
	}
	return restaurants, nil
}

func (s *RestaurantService) Create(ctx context.Context, req *dto.CreateRestaurantRequest, acting uuid.UUID) (*models.Restaurant, error) {
	email := normalizeEmail(req.Email)
	if err := s.ensureEmailFree(ctx, email, uuid.Nil); err != nil {
		return nil, err
	}

	location, err := s.locate(ctx, req.Address)
	if err != nil {
		return nil, err
	}

	restaurant := &models.Restaurant{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Email:       email,
		PhoneNo:     string(req.PhoneNo),
		Address:     req.Address,
		Category:    req.Category,
		Location:    datatypes.NewJSONType(location),
		UserID:      acting,
	}
	if err := s.repos.Restaurants.Create(ctx, restaurant); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrRestaurantEmail
		}
		return nil, fmt.Errorf("create restaurant: %w", err)
	}
	return restaurant, nil
}

func (s *RestaurantService) GetByID(ctx context.Context, id string) (*models.Restaurant, error) {
	parsed, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, parsed)
}

// Update merges the non-nil request fields into the restaurant. Only the
// owner may update; the owner itself never changes.
func (s *RestaurantService) Update(ctx context.Context, id string, req *dto.UpdateRestaurantRequest, acting uuid.UUID) (*models.Restaurant, error) {
	restaurant, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(restaurant.UserID, acting); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != restaurant.Email {
			if err := s.ensureEmailFree(ctx, email, restaurant.ID); err != nil {
				return nil, err
			}
		}
		fields["email"] = email
	}
	if req.PhoneNo != nil {
		fields["phone_no"] = string(*req.PhoneNo)
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Address != nil && *req.Address != restaurant.Address {
		location, err := s.locate(ctx, *req.Address)
		if err != nil {
			return nil, err
		}
		fields["address"] = *req.Address
		fields["location"] = datatypes.NewJSONType(location)
	}

	if err := s.repos.Restaurants.Update(ctx, restaurant.ID, fields); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrRestaurantEmail
		}
		return nil, fmt.Errorf("update restaurant: %w", err)
	}
	return s.find(ctx, restaurant.ID)
}

// Delete removes the restaurant and its meals after its images are gone
// from storage. The restaurant row is locked first, so meal writes on it
// wait for the delete and then see it gone. When the images cannot be
// removed the restaurant is kept and Delete reports false.
func (s *RestaurantService) Delete(ctx context.Context, id string, acting uuid.UUID) (bool, error) {
	restaurant, err := s.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if err := Authorize(restaurant.UserID, acting); err != nil {
		return false, err
	}

	var deleted bool
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		locked, err := tx.Restaurants.FindByIDForUpdate(ctx, restaurant.ID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil
			}
			return fmt.Errorf("lock restaurant: %w", err)
		}

		if !s.DetachImages(ctx, locked.Images) {
			return errImagesKept
		}
		if _, err := tx.Meals.DeleteByRestaurant(ctx, locked.ID); err != nil {
			return fmt.Errorf("delete meals: %w", err)
		}
		ok, err := tx.Restaurants.Delete(ctx, locked.ID)
		if err != nil {
			return fmt.Errorf("delete restaurant: %w", err)
		}
		deleted = ok
		return nil
	})
	if errors.Is(err, errImagesKept) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// UploadImages stores files and appends their references to the
// restaurant's images under the restaurant row lock. Uploaded objects are
// removed again when the restaurant cannot be updated.
func (s *RestaurantService) UploadImages(ctx context.Context, id string, files []storage.File, acting uuid.UUID) (*models.Restaurant, error) {
	restaurant, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(restaurant.UserID, acting); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		var fe apperr.FieldErrors
		fe.Add("files", "Please select at least one image")
		return nil, fe.Err()
	}

	objects, err := s.store.Upload(ctx, files)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrUpstream, "Image upload failed", err)
	}

	keys := make([]string, 0, len(objects))
	for _, obj := range objects {
		keys = append(keys, obj.Key)
	}

	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		locked, err := tx.Restaurants.FindByIDForUpdate(ctx, restaurant.ID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrRestaurantNotFound
			}
			return fmt.Errorf("lock restaurant: %w", err)
		}

		images := locked.Images
		for _, obj := range objects {
			images = append(images, models.Image{Key: obj.Key, Location: obj.Location})
		}
		if err := tx.Restaurants.SetImages(ctx, locked.ID, images); err != nil {
			return fmt.Errorf("save images: %w", err)
		}
		return nil
	})
	if err != nil {
		if delErr := s.store.Delete(context.WithoutCancel(ctx), keys); delErr != nil {
			slog.Error("failed to remove orphaned images", "error", delErr, "resource_id", restaurant.ID.String())
		}
		return nil, err
	}
	return s.find(ctx, restaurant.ID)
}

// DetachImages deletes the images from storage. An empty list succeeds
// without touching storage.
func (s *RestaurantService) DetachImages(ctx context.Context, images []models.Image) bool {
	if len(images) == 0 {
		return true
	}
	keys := make([]string, 0, len(images))
	for _, img := range images {
		keys = append(keys, img.Key)
	}
	if err := s.store.Delete(ctx, keys); err != nil {
		slog.Error("failed to delete images", "error", err, "count", len(keys))
		return false
	}
	return true
}

func (s *RestaurantService) find(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	restaurant, err := s.repos.Restaurants.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("find restaurant: %w", err)
	}
	return restaurant, nil
}

func (s *RestaurantService) ensureEmailFree(ctx context.Context, email string, exclude uuid.UUID) error {
	taken, err := s.repos.Restaurants.EmailTaken(ctx, email, exclude)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		return ErrRestaurantEmail
	}
	return nil
}

func (s *RestaurantService) locate(ctx context.Context, address string) (models.Location, error) {
	res, err := s.geo.Geocode(ctx, address)
	if err != nil {
		if errors.Is(err, geocoder.ErrNoResults) {
			var fe apperr.FieldErrors
			fe.Add("address", "Address could not be located")
			return models.Location{}, fe.Err()
		}
		return models.Location{}, apperr.Wrap(apperr.ErrUpstream, "Geocoding service unavailable", err)
	}
	return models.Location{
		Type:             "Point",
		Coordinates:      [2]float64{res.Longitude, res.Latitude},
		FormattedAddress: res.FormattedAddress,
		City:             res.City,
		State:            res.State,
		Zipcode:          res.Zipcode,
		Country:          res.Country,
	}, nil
}
