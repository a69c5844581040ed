package dto

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/apperr"
	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

var validate = validator.New()

// checker accumulates field errors for one request body.
type checker struct {
	errs apperr.FieldErrors
}

func (c *checker) check(field string, value interface{}, tag, message string) {
	if err := validate.Var(value, tag); err != nil {
		c.errs.Add(field, message)
	}
}

func (c *checker) require(field, value string) {
	c.check(field, strings.TrimSpace(value), "required", field+" should not be empty")
}

// rejectOwner flags a client-supplied owner reference. JSON null counts as
// absent.
func (c *checker) rejectOwner(raw json.RawMessage) {
	if len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		c.errs.Add("user", "You cannot manually provide the user ID")
	}
}

func (c *checker) phone(field string, value PhoneNumber) {
	num, err := phonenumbers.Parse(string(value), "US")
	if err != nil || !phonenumbers.IsValidNumberForRegion(num, "US") {
		c.errs.Add(field, "Please enter a correct phone number")
	}
}

// PhoneNumber accepts either a JSON string or a JSON number.
type PhoneNumber string

func (p *PhoneNumber) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = PhoneNumber(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*p = PhoneNumber(n.String())
	return nil
}
