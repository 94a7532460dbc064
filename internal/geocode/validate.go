package geocode

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Status is the outcome of an address validation
type Status string

const (
	StatusValid     Status = "valid"
	StatusAmbiguous Status = "ambiguous"
	StatusNotFound  Status = "not_found"
	StatusFailed    Status = "failed"
)

// Input is the address as entered in the form
type Input struct {
	Street      string `json:"street"`
	HouseNumber string `json:"house_number"`
	PostalCode  string `json:"postal_code"`
	City        string `json:"city"`
	State       string `json:"state,omitempty"`
	Country     string `json:"country"`
}

// Check verifies the fields needed for a lookup are present
func (in Input) Check() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"street", in.Street},
		{"house_number", in.HouseNumber},
		{"postal_code", in.PostalCode},
		{"city", in.City},
		{"country", in.Country},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing address fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Query builds the free-form search string "Street 1, 12345 City, Country"
func (in Input) Query() string {
	street := strings.TrimSpace(in.Street + " " + in.HouseNumber)
	return fmt.Sprintf("%s, %s %s, %s", street, in.PostalCode, in.City, in.Country)
}

// Details is a corrected address
type Details struct {
	Street      string `json:"street"`
	HouseNumber string `json:"house_number"`
	PostalCode  string `json:"postal_code"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
}

// Result is the outcome shown to the user
type Result struct {
	Status     Status   `json:"status"`
	Valid      bool     `json:"valid"`
	Formatted  string   `json:"formatted,omitempty"`
	Message    string   `json:"message"`
	Details    *Details `json:"details,omitempty"`
	Candidates []Place  `json:"candidates,omitempty"`
}

const (
	msgValid     = "Adresse gefunden und validiert! Die Felder wurden automatisch korrigiert."
	msgChosen    = "Adresse ausgewählt und validiert! Die Felder wurden automatisch korrigiert."
	msgAmbiguous = "%d mögliche Adressen gefunden. Bitte wählen Sie die richtige aus:"
	msgNotFound  = "Adresse konnte nicht gefunden werden. Bitte überprüfen Sie die Eingabe."
	msgFailed    = "Fehler bei der Validierung. Bitte versuchen Sie es später erneut."
)

var streetWithNumber = regexp.MustCompile(`^(.+?)\s+(\d+[a-zA-Z]*)$`)

// SplitStreet splits "Hauptstraße 12a" into "Hauptstraße" and "12a"
func SplitStreet(s string) (street, number string, ok bool) {
	m := streetWithNumber.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return s, "", false
	}
	return m[1], m[2], true
}

// Validator reconciles geocoder hits with form input
type Validator struct {
	searcher Searcher
	logger   *zap.Logger
}

// NewValidator creates a new Validator
func NewValidator(searcher Searcher, logger *zap.Logger) *Validator {
	return &Validator{
		searcher: searcher,
		logger:   logger,
	}
}

// Validate looks up the address. A single hit is accepted with corrected
// fields, several hits are returned as candidates, none means not found.
// Transport failures produce a StatusFailed result rather than an error.
func (v *Validator) Validate(ctx context.Context, in Input) Result {
	places, err := v.searcher.Search(ctx, in.Query())
	if err != nil {
		v.logger.Warn("Address validation failed", zap.Error(err))
		return Result{Status: StatusFailed, Message: msgFailed}
	}

	switch len(places) {
	case 0:
		return Result{Status: StatusNotFound, Message: msgNotFound}
	case 1:
		details := detailsFor(places[0], in)
		return Result{
			Status:    StatusValid,
			Valid:     true,
			Formatted: places[0].DisplayName,
			Message:   msgValid,
			Details:   &details,
		}
	default:
		return Result{
			Status:     StatusAmbiguous,
			Message:    fmt.Sprintf(msgAmbiguous, len(places)),
			Candidates: places,
		}
	}
}

// Choose accepts one candidate of an ambiguous result
func Choose(place Place, in Input) Result {
	details := detailsFor(place, in)
	return Result{
		Status:    StatusValid,
		Valid:     true,
		Formatted: place.DisplayName,
		Message:   msgChosen,
		Details:   &details,
	}
}

// detailsFor merges a hit into the input; every field falls back to the input
func detailsFor(place Place, in Input) Details {
	a := place.Address

	d := Details{
		Street:      firstNonEmpty(a.Road, a.Street, in.Street),
		HouseNumber: firstNonEmpty(a.HouseNumber, in.HouseNumber),
		PostalCode:  firstNonEmpty(a.Postcode, in.PostalCode),
		City:        firstNonEmpty(a.City, a.Town, a.Village, in.City),
		State:       firstNonEmpty(a.State, in.State),
		Country:     firstNonEmpty(a.Country, in.Country),
	}

	if street, number, ok := SplitStreet(d.Street); ok {
		d.Street = street
		d.HouseNumber = number
	}
	return d
}

// Apply returns the input updated with the corrected details
func (d Details) Apply(in Input) Input {
	in.Street = firstNonEmpty(d.Street, in.Street)
	in.HouseNumber = firstNonEmpty(d.HouseNumber, in.HouseNumber)
	in.PostalCode = firstNonEmpty(d.PostalCode, in.PostalCode)
	in.City = firstNonEmpty(d.City, in.City)
	in.State = firstNonEmpty(d.State, in.State)
	in.Country = firstNonEmpty(d.Country, in.Country)
	return in
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
