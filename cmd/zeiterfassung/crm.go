package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/username/zeiterfassung/internal/xano"
)

// parseFields turns repeated key=value flags into an update body.
// Values that are valid JSON scalars keep their type, anything else is a string.
func parseFields(pairs []string) (map[string]interface{}, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("nothing to change, use --set key=value")
	}

	fields := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q, expected key=value", pair)
		}
		if key == "id" {
			return nil, fmt.Errorf("field id cannot be changed")
		}

		var v interface{}
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			v = value
		} else if _, isObject := v.(map[string]interface{}); isObject {
			v = value
		} else if _, isArray := v.([]interface{}); isArray {
			v = value
		}
		fields[key] = v
	}
	return fields, nil
}

// crmCommands wires list/show/create/update/delete for one record type
type crmCommands[T any] struct {
	name   string
	list   func(ctx context.Context, a *app) ([]T, error)
	get    func(ctx context.Context, a *app, id int64) (*T, error)
	update func(ctx context.Context, a *app, id int64, fields map[string]interface{}) (*T, error)
	delete func(ctx context.Context, a *app, id int64) error
	line   func(T) string
}

func (c crmCommands[T]) commands() []*cobra.Command {
	list := &cobra.Command{
		Use:   "list",
		Short: "List " + c.name,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			items, err := c.list(cmd.Context(), a)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(items)
			}
			if len(items) == 0 {
				outPrintln("Keine Einträge")
			}
			for _, item := range items {
				outPrintln(c.line(item))
			}
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			item, err := c.get(cmd.Context(), a, id)
			if err != nil {
				return err
			}
			return printJSON(item)
		},
	}

	var sets []string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			fields, err := parseFields(sets)
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			item, err := c.update(cmd.Context(), a, id, fields)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(item)
			}
			outPrintf("✅ %s\n", c.line(*item))
			return nil
		},
	}
	update.Flags().StringArrayVar(&sets, "set", nil, "Field to change as key=value (repeatable)")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			if err := c.delete(cmd.Context(), a, id); err != nil {
				return err
			}
			outPrintf("🗑 %d gelöscht\n", id)
			return nil
		},
	}

	return []*cobra.Command{list, show, update, del}
}

func crmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crm",
		Short: "Manage organizations, persons and addresses",
	}

	cmd.AddCommand(crmOrgsCmd(), crmPersonsCmd(), crmAddressesCmd())
	return cmd
}

func crmOrgsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orgs",
		Aliases: []string{"organizations"},
		Short:   "Manage organizations",
	}

	cmd.AddCommand(crmCommands[xano.Organization]{
		name: "organizations",
		list: func(ctx context.Context, a *app) ([]xano.Organization, error) {
			return a.client.ListOrganizations(ctx)
		},
		get: func(ctx context.Context, a *app, id int64) (*xano.Organization, error) {
			return a.client.GetOrganization(ctx, id)
		},
		update: func(ctx context.Context, a *app, id int64, fields map[string]interface{}) (*xano.Organization, error) {
			return a.client.UpdateOrganization(ctx, id, fields)
		},
		delete: func(ctx context.Context, a *app, id int64) error {
			return a.client.DeleteOrganization(ctx, id)
		},
		line: func(o xano.Organization) string {
			return fmt.Sprintf("%6d  %-10s  %-30s  %s", o.ID, o.OrganizationNumber, o.Name, o.Status)
		},
	}.commands()...)

	var org xano.Organization
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			created, err := a.client.CreateOrganization(cmd.Context(), org)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(created)
			}
			outPrintf("✅ Organisation %d angelegt: %s\n", created.ID, created.Name)
			return nil
		},
	}
	create.Flags().StringVar(&org.Name, "name", "", "Name")
	create.Flags().StringVar(&org.OrganizationNumber, "number", "", "Organization number")
	create.Flags().StringVar(&org.LegalForm, "legal-form", "", "Legal form")
	create.Flags().StringVar(&org.Industry, "industry", "", "Industry")
	create.Flags().StringVar(&org.CustomerType, "customer-type", "", "Customer type")
	create.Flags().StringVar(&org.Status, "status", "active", "Status")
	create.Flags().StringVar(&org.VATID, "vat-id", "", "VAT ID")
	create.Flags().StringVar(&org.Website, "website", "", "Website")
	create.Flags().StringVar(&org.Notes, "notes", "", "Notes")
	_ = create.MarkFlagRequired("name")

	cmd.AddCommand(create)
	return cmd
}

func crmPersonsCmd() *cobra.Command {
	var orgFilter int64

	cmd := &cobra.Command{
		Use:     "persons",
		Aliases: []string{"people"},
		Short:   "Manage persons",
	}

	sub := crmCommands[xano.Person]{
		name: "persons",
		list: func(ctx context.Context, a *app) ([]xano.Person, error) {
			return a.client.ListPersons(ctx, xano.PersonQuery{OrganizationID: orgFilter})
		},
		get: func(ctx context.Context, a *app, id int64) (*xano.Person, error) {
			return a.client.GetPerson(ctx, id)
		},
		update: func(ctx context.Context, a *app, id int64, fields map[string]interface{}) (*xano.Person, error) {
			return a.client.UpdatePerson(ctx, id, fields)
		},
		delete: func(ctx context.Context, a *app, id int64) error {
			return a.client.DeletePerson(ctx, id)
		},
		line: func(p xano.Person) string {
			return fmt.Sprintf("%6d  %-28s  %-30s  %s", p.ID, p.FullName(), p.Email, p.Phone)
		},
	}.commands()
	sub[0].Flags().Int64Var(&orgFilter, "org", 0, "Only persons of this organization")
	cmd.AddCommand(sub...)

	var p xano.Person
	var orgID int64
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a person",
		RunE: func(cmd *cobra.Command, args []string) error {
			if orgID > 0 {
				p.OrganizationID = &orgID
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			created, err := a.client.CreatePerson(cmd.Context(), p)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(created)
			}
			outPrintf("✅ Person %d angelegt: %s\n", created.ID, created.FullName())
			return nil
		},
	}
	create.Flags().StringVar(&p.FirstName, "first-name", "", "First name")
	create.Flags().StringVar(&p.LastName, "last-name", "", "Last name")
	create.Flags().StringVar(&p.Salutation, "salutation", "", "Salutation")
	create.Flags().StringVar(&p.Email, "email", "", "E-mail")
	create.Flags().StringVar(&p.Phone, "phone", "", "Phone")
	create.Flags().StringVar(&p.Mobile, "mobile", "", "Mobile")
	create.Flags().StringVar(&p.Position, "position", "", "Position")
	create.Flags().StringVar(&p.Department, "department", "", "Department")
	create.Flags().BoolVar(&p.IsPrimaryContact, "primary", false, "Primary contact")
	create.Flags().BoolVar(&p.IsBillingContact, "billing", false, "Billing contact")
	create.Flags().BoolVar(&p.IsActive, "active", true, "Active")
	create.Flags().Int64Var(&orgID, "org", 0, "Organization id")
	_ = create.MarkFlagRequired("first-name")
	_ = create.MarkFlagRequired("last-name")

	cmd.AddCommand(create)
	return cmd
}

func crmAddressesCmd() *cobra.Command {
	var ownerType string
	var ownerID int64

	cmd := &cobra.Command{
		Use:   "addresses",
		Short: "Manage addresses",
	}

	sub := crmCommands[xano.Address]{
		name: "addresses",
		list: func(ctx context.Context, a *app) ([]xano.Address, error) {
			return a.client.ListAddresses(ctx, xano.AddressQuery{
				AddressableType: xano.AddressableType(ownerType),
				AddressableID:   ownerID,
			})
		},
		get: func(ctx context.Context, a *app, id int64) (*xano.Address, error) {
			return a.client.GetAddress(ctx, id)
		},
		update: func(ctx context.Context, a *app, id int64, fields map[string]interface{}) (*xano.Address, error) {
			return a.client.UpdateAddress(ctx, id, fields)
		},
		delete: func(ctx context.Context, a *app, id int64) error {
			return a.client.DeleteAddress(ctx, id)
		},
		line: formatAddressLine,
	}.commands()
	sub[0].Flags().StringVar(&ownerType, "type", "", "Owner type (organization, person)")
	sub[0].Flags().Int64Var(&ownerID, "owner", 0, "Owner id")
	cmd.AddCommand(sub...)

	var addr xano.Address
	var owner, addrType string
	var validate bool
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an address",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr.AddressableType = xano.AddressableType(owner)
			addr.AddressType = xano.AddressType(addrType)

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			if validate {
				corrected, err := validateAddress(cmd.Context(), a, addressInput(addr))
				if err != nil {
					return err
				}
				addr.Street = corrected.Street
				addr.HouseNumber = corrected.HouseNumber
				addr.PostalCode = corrected.PostalCode
				addr.City = corrected.City
				addr.State = corrected.State
				addr.Country = corrected.Country
			}

			created, err := a.client.CreateAddress(cmd.Context(), addr)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(created)
			}
			outPrintf("✅ Adresse %d angelegt: %s\n", created.ID, formatAddressLine(*created))
			return nil
		},
	}
	create.Flags().StringVar(&owner, "owner-type", string(xano.AddressableOrganization), "Owner type (organization, person)")
	create.Flags().Int64Var(&addr.AddressableID, "owner", 0, "Owner id")
	create.Flags().StringVar(&addrType, "address-type", string(xano.AddressBilling), "Address type (billing, shipping, other)")
	create.Flags().StringVar(&addr.Street, "street", "", "Street")
	create.Flags().StringVar(&addr.HouseNumber, "number", "", "House number")
	create.Flags().StringVar(&addr.Street2, "street2", "", "Address line 2")
	create.Flags().StringVar(&addr.PostalCode, "postal-code", "", "Postal code")
	create.Flags().StringVar(&addr.City, "city", "", "City")
	create.Flags().StringVar(&addr.State, "state", "", "State")
	create.Flags().StringVar(&addr.Country, "country", "Deutschland", "Country")
	create.Flags().BoolVar(&addr.IsPrimary, "primary", false, "Primary address")
	create.Flags().BoolVar(&addr.IsActive, "active", true, "Active")
	create.Flags().BoolVar(&validate, "validate", false, "Validate and correct the address before saving")
	_ = create.MarkFlagRequired("owner")

	cmd.AddCommand(create)
	return cmd
}

func formatAddressLine(a xano.Address) string {
	street := strings.TrimSpace(a.Street + " " + a.HouseNumber)
	return fmt.Sprintf("%6d  %-8s  %s, %s %s, %s", a.ID, a.AddressType, street, a.PostalCode, a.City, a.Country)
}
