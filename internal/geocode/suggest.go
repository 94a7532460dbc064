package geocode

import (
	"regexp"
	"strings"

	"github.com/username/zeiterfassung/internal/xano"
)

// Field is an address form field that offers suggestions
type Field string

const (
	FieldStreet     Field = "street"
	FieldCity       Field = "city"
	FieldPostalCode Field = "postal_code"
	FieldCountry    Field = "country"
)

const (
	minSuggestLength = 2
	maxSuggestions   = 5
)

var streetPrefix = regexp.MustCompile(`^(.+?)\s+\d+`)

// Suggest returns up to 5 distinct values of field from known addresses that
// contain value case-insensitively. Values shorter than 2 characters yield nothing.
// Street values are reduced to the street name without house number.
func Suggest(known []xano.Address, field Field, value string) []string {
	if len([]rune(value)) < minSuggestLength {
		return nil
	}
	needle := strings.ToLower(value)

	seen := make(map[string]bool)
	var out []string
	for _, a := range known {
		candidate := fieldValue(a, field)
		if candidate == "" || seen[candidate] {
			continue
		}
		seen[candidate] = true

		if strings.Contains(strings.ToLower(candidate), needle) {
			out = append(out, candidate)
			if len(out) == maxSuggestions {
				break
			}
		}
	}
	return out
}

// CityForPostalCode returns the city of the first known address with the
// given postal code, but only when the form's city is still empty.
func CityForPostalCode(known []xano.Address, postalCode, currentCity string) (string, bool) {
	if currentCity != "" {
		return currentCity, false
	}
	for _, a := range known {
		if a.PostalCode == postalCode && a.City != "" {
			return a.City, true
		}
	}
	return "", false
}

func fieldValue(a xano.Address, field Field) string {
	switch field {
	case FieldStreet:
		if m := streetPrefix.FindStringSubmatch(a.Street); m != nil {
			return m[1]
		}
		return a.Street
	case FieldCity:
		return a.City
	case FieldPostalCode:
		return a.PostalCode
	case FieldCountry:
		return a.Country
	default:
		return ""
	}
}
