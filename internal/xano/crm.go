package xano

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

// crmResource names the endpoints of one CRM entity
type crmResource struct {
	name   string
	list   string
	get    string
	create string
	update string
	delete string
}

var (
	organizations = crmResource{
		name:   "organization",
		list:   "/list_organizations",
		get:    "/get_organization",
		create: "/create_organization",
		update: "/update_organization",
		delete: "/delete_organization",
	}
	persons = crmResource{
		name:   "person",
		list:   "/list_persons",
		get:    "/get_person",
		create: "/create_person",
		update: "/update_person",
		delete: "/delete_person",
	}
	addresses = crmResource{
		name:   "address",
		list:   "/list_addresses",
		get:    "/get_address",
		create: "/create_address",
		update: "/update_address",
		delete: "/delete_address",
	}
)

func crmList[T any](ctx context.Context, c *Client, r crmResource, q url.Values) ([]T, error) {
	var items []T
	if err := c.doRequest(ctx, http.MethodGet, GroupCRM, r.list, q, nil, &items); err != nil {
		return nil, fmt.Errorf("failed to list %ss: %w", r.name, err)
	}
	return items, nil
}

func crmGet[T any](ctx context.Context, c *Client, r crmResource, id int64) (*T, error) {
	q := url.Values{}
	q.Set("id", strconv.FormatInt(id, 10))

	var item T
	if err := c.doRequest(ctx, http.MethodGet, GroupCRM, r.get, q, nil, &item); err != nil {
		return nil, fmt.Errorf("failed to get %s %d: %w", r.name, id, err)
	}
	return &item, nil
}

func crmCreate[T any](ctx context.Context, c *Client, r crmResource, body interface{}) (*T, error) {
	var item T
	if err := c.doRequest(ctx, http.MethodPost, GroupCRM, r.create, nil, body, &item); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", r.name, err)
	}
	c.logger.Info("CRM record created", zap.String("type", r.name))
	return &item, nil
}

func crmUpdate[T any](ctx context.Context, c *Client, r crmResource, id int64, fields interface{}) (*T, error) {
	body, err := withID(id, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s %d: %w", r.name, id, err)
	}

	var item T
	if err := c.doRequest(ctx, http.MethodPatch, GroupCRM, r.update, nil, body, &item); err != nil {
		return nil, fmt.Errorf("failed to update %s %d: %w", r.name, id, err)
	}
	c.logger.Info("CRM record updated", zap.String("type", r.name), zap.Int64("id", id))
	return &item, nil
}

func crmDelete(ctx context.Context, c *Client, r crmResource, id int64) error {
	body := map[string]int64{"id": id}
	if err := c.doRequest(ctx, http.MethodDelete, GroupCRM, r.delete, nil, body, nil); err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", r.name, id, err)
	}
	c.logger.Info("CRM record deleted", zap.String("type", r.name), zap.Int64("id", id))
	return nil
}

// withID merges {"id": id} into the JSON object form of fields
func withID(id int64, fields interface{}) (map[string]interface{}, error) {
	merged := map[string]interface{}{}
	if fields != nil {
		data, err := json.Marshal(fields)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal fields: %w", err)
		}
		if err := json.Unmarshal(data, &merged); err != nil {
			return nil, fmt.Errorf("fields must encode as a JSON object: %w", err)
		}
	}
	merged["id"] = id
	return merged, nil
}

// ListOrganizations lists all organizations
func (c *Client) ListOrganizations(ctx context.Context) ([]Organization, error) {
	return crmList[Organization](ctx, c, organizations, nil)
}

// GetOrganization fetches one organization
func (c *Client) GetOrganization(ctx context.Context, id int64) (*Organization, error) {
	return crmGet[Organization](ctx, c, organizations, id)
}

// CreateOrganization creates an organization
func (c *Client) CreateOrganization(ctx context.Context, org Organization) (*Organization, error) {
	if org.Name == "" {
		return nil, fmt.Errorf("invalid organization: name is required")
	}
	org.ID = 0
	return crmCreate[Organization](ctx, c, organizations, org)
}

// UpdateOrganization patches an organization with the given fields
func (c *Client) UpdateOrganization(ctx context.Context, id int64, fields map[string]interface{}) (*Organization, error) {
	return crmUpdate[Organization](ctx, c, organizations, id, fields)
}

// DeleteOrganization removes an organization
func (c *Client) DeleteOrganization(ctx context.Context, id int64) error {
	return crmDelete(ctx, c, organizations, id)
}

// PersonQuery filters the person list
type PersonQuery struct {
	OrganizationID int64
}

// ListPersons lists persons, optionally of one organization
func (c *Client) ListPersons(ctx context.Context, q PersonQuery) ([]Person, error) {
	var v url.Values
	if q.OrganizationID > 0 {
		v = url.Values{}
		v.Set("organization_id", strconv.FormatInt(q.OrganizationID, 10))
	}
	return crmList[Person](ctx, c, persons, v)
}

// GetPerson fetches one person
func (c *Client) GetPerson(ctx context.Context, id int64) (*Person, error) {
	return crmGet[Person](ctx, c, persons, id)
}

// CreatePerson creates a person
func (c *Client) CreatePerson(ctx context.Context, p Person) (*Person, error) {
	if p.FirstName == "" || p.LastName == "" {
		return nil, fmt.Errorf("invalid person: first and last name are required")
	}
	p.ID = 0
	return crmCreate[Person](ctx, c, persons, p)
}

// UpdatePerson patches a person with the given fields
func (c *Client) UpdatePerson(ctx context.Context, id int64, fields map[string]interface{}) (*Person, error) {
	return crmUpdate[Person](ctx, c, persons, id, fields)
}

// DeletePerson removes a person
func (c *Client) DeletePerson(ctx context.Context, id int64) error {
	return crmDelete(ctx, c, persons, id)
}

// AddressQuery filters the address list. The backend filters by type only;
// AddressableID is applied client-side.
type AddressQuery struct {
	AddressableType AddressableType
	AddressableID   int64
}

// ListAddresses lists addresses
func (c *Client) ListAddresses(ctx context.Context, q AddressQuery) ([]Address, error) {
	var v url.Values
	if q.AddressableType != "" {
		v = url.Values{}
		v.Set("addressable_type", string(q.AddressableType))
	}

	all, err := crmList[Address](ctx, c, addresses, v)
	if err != nil {
		return nil, err
	}
	if q.AddressableID == 0 {
		return all, nil
	}

	filtered := make([]Address, 0, len(all))
	for _, a := range all {
		if a.AddressableID == q.AddressableID {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

// GetAddress fetches one address
func (c *Client) GetAddress(ctx context.Context, id int64) (*Address, error) {
	return crmGet[Address](ctx, c, addresses, id)
}

// CreateAddress creates an address for an organization or person
func (c *Client) CreateAddress(ctx context.Context, a Address) (*Address, error) {
	if a.AddressableType != AddressableOrganization && a.AddressableType != AddressablePerson {
		return nil, fmt.Errorf("invalid address: addressable_type must be organization or person")
	}
	if a.AddressableID == 0 {
		return nil, fmt.Errorf("invalid address: addressable_id is required")
	}
	if a.AddressType == "" {
		a.AddressType = AddressOther
	}
	a.ID = 0
	return crmCreate[Address](ctx, c, addresses, a)
}

// UpdateAddress patches an address with the given fields
func (c *Client) UpdateAddress(ctx context.Context, id int64, fields map[string]interface{}) (*Address, error) {
	return crmUpdate[Address](ctx, c, addresses, id, fields)
}

// DeleteAddress removes an address
func (c *Client) DeleteAddress(ctx context.Context, id int64) error {
	return crmDelete(ctx, c, addresses, id)
}
