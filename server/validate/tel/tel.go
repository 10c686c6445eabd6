// Package tel normalizes phone numbers in user profiles.
package tel

import (
	"errors"

	"github.com/nyaruka/phonenumbers"
)

// ErrInvalidNumber means the value does not parse as a real phone number.
var ErrInvalidNumber = errors.New("tel: invalid phone number")

// Normalize parses the given phone number and formats it as E.164.
// The country code is an ISO 3166-1 two-letter code used when the number
// has no international prefix; empty defaults to "TH".
func Normalize(number, countryCode string) (string, error) {
	if countryCode == "" {
		countryCode = "TH"
	}

	num, err := phonenumbers.Parse(number, countryCode)
	if err != nil {
		return "", ErrInvalidNumber
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidNumber
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}
