// Package geocoder resolves free-text addresses into coordinates and
// normalized address fields.
package geocoder

import (
	"context"
	"errors"
)

// ErrNoResults is returned when the provider cannot resolve the address.
var ErrNoResults = errors.New("address could not be geocoded")

type Result struct {
	Longitude        float64
	Latitude         float64
	FormattedAddress string
	City             string
	State            string
	Zipcode          string
	Country          string
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Result, error)
}
