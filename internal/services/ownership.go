package services

import (
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/apperr"
	"github.com/google/uuid"
)

var ErrNotOwner = apperr.Forbidden("You are not the owner of this resource")

// Authorize allows the action only when acting is the resource owner.
// A nil owner matches nobody.
func Authorize(owner, acting uuid.UUID) error {
	if owner == uuid.Nil || owner != acting {
		return ErrNotOwner
	}
	return nil
}

// parseID turns a path parameter into a uuid, rejecting malformed input
// before any lookup.
func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, apperr.InvalidIdentifier("Wrong Id. Please enter correct Id.")
	}
	return parsed, nil
}
