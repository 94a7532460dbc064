package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/username/zeiterfassung/internal/geocode"
	"github.com/username/zeiterfassung/internal/xano"
)

func addressInput(a xano.Address) geocode.Input {
	return geocode.Input{
		Street:      a.Street,
		HouseNumber: a.HouseNumber,
		PostalCode:  a.PostalCode,
		City:        a.City,
		State:       a.State,
		Country:     a.Country,
	}
}

// validateAddress looks up in and returns the corrected input. Ambiguous
// results are offered as a numbered list to choose from.
func validateAddress(ctx context.Context, a *app, in geocode.Input) (geocode.Input, error) {
	if err := in.Check(); err != nil {
		return in, err
	}

	result := a.addressValidator().Validate(ctx, in)
	if result.Status == geocode.StatusAmbiguous {
		outPrintln(result.Message)
		for i, c := range result.Candidates {
			outPrintf("  %d) %s\n", i+1, c.DisplayName)
		}
		answer, err := promptLine("Auswahl (leer = abbrechen): ")
		if err != nil {
			return in, err
		}
		if answer == "" {
			return in, fmt.Errorf("address validation cancelled")
		}
		n, err := strconv.Atoi(answer)
		if err != nil || n < 1 || n > len(result.Candidates) {
			return in, fmt.Errorf("invalid choice %q", answer)
		}
		result = geocode.Choose(result.Candidates[n-1], in)
	}

	outPrintln(result.Message)
	if !result.Valid || result.Details == nil {
		return in, fmt.Errorf("address not validated: %s", result.Status)
	}
	return result.Details.Apply(in), nil
}

func addressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Validate addresses and suggest field values",
	}

	cmd.AddCommand(addressValidateCmd(), addressSuggestCmd())
	return cmd
}

func addressValidateCmd() *cobra.Command {
	var in geocode.Input

	cmd := &cobra.Command{
		Use:         "validate",
		Short:       "Look up an address with OpenStreetMap",
		Annotations: map[string]string{annotationConfigOptional: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := in.Check(); err != nil {
				return err
			}

			var validator *geocode.Validator
			if cfg != nil {
				a, err := newApp()
				if err != nil {
					return err
				}
				defer a.Close()
				validator = a.addressValidator()
			} else {
				searcher := geocode.NewClient(geocode.DefaultBaseURL, geocode.DefaultUserAgent, geocode.DefaultLimit, logger)
				validator = geocode.NewValidator(searcher, logger)
			}

			result := validator.Validate(cmd.Context(), in)
			if jsonOutput {
				return printJSON(result)
			}

			outPrintln(result.Message)
			switch {
			case result.Details != nil:
				d := result.Details
				outPrintf("  %s %s\n  %s %s\n  %s\n", d.Street, d.HouseNumber, d.PostalCode, d.City, d.Country)
			case len(result.Candidates) > 0:
				for i, c := range result.Candidates {
					outPrintf("  %d) %s\n", i+1, c.DisplayName)
				}
			}
			if result.Status == geocode.StatusFailed {
				return fmt.Errorf("address lookup failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Street, "street", "", "Street")
	cmd.Flags().StringVar(&in.HouseNumber, "number", "", "House number")
	cmd.Flags().StringVar(&in.PostalCode, "postal-code", "", "Postal code")
	cmd.Flags().StringVar(&in.City, "city", "", "City")
	cmd.Flags().StringVar(&in.State, "state", "", "State")
	cmd.Flags().StringVar(&in.Country, "country", "Deutschland", "Country")

	return cmd
}

func addressSuggestCmd() *cobra.Command {
	var field, currentCity string

	cmd := &cobra.Command{
		Use:   "suggest <value>",
		Short: "Suggest field values from stored addresses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := geocode.Field(field)
			switch f {
			case geocode.FieldStreet, geocode.FieldCity, geocode.FieldPostalCode, geocode.FieldCountry:
			default:
				return fmt.Errorf("unknown field %q (street, city, postal_code, country)", field)
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			known, err := a.client.ListAddresses(cmd.Context(), xano.AddressQuery{})
			if err != nil {
				return err
			}

			suggestions := geocode.Suggest(known, f, args[0])
			city, cityFound := "", false
			if f == geocode.FieldPostalCode {
				city, cityFound = geocode.CityForPostalCode(known, args[0], currentCity)
			}

			if jsonOutput {
				result := map[string]interface{}{"suggestions": suggestions}
				if cityFound {
					result["city"] = city
				}
				return printJSON(result)
			}

			for _, s := range suggestions {
				outPrintln(s)
			}
			if cityFound {
				outPrintf("Ort: %s\n", city)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&field, "field", string(geocode.FieldStreet), "Field (street, city, postal_code, country)")
	cmd.Flags().StringVar(&currentCity, "city", "", "City already entered")

	return cmd
}
