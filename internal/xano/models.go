package xano

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Number handles numeric fields that the backend may send as numbers,
// numeric strings or null. Anything unparseable decodes to 0.
type Number float64

// UnmarshalJSON implements json.Unmarshaler for Number
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = Number(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}

// Float64 returns the value as float64
func (n Number) Float64() float64 {
	return float64(n)
}

// Timestamp is a backend timestamp in Unix milliseconds. It accepts numbers,
// numeric strings and RFC3339 strings.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler for Timestamp
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			t.Time = time.Time{}
			return nil
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			t.Time = time.UnixMilli(ms)
			return nil
		}

		formats := []string{
			time.RFC3339Nano,
			time.RFC3339,
			"2006-01-02 15:04:05",
			"2006-01-02",
		}
		var parseErr error
		for _, format := range formats {
			parsed, err := time.Parse(format, s)
			if err == nil {
				t.Time = parsed
				return nil
			}
			parseErr = err
		}
		return parseErr
	}

	var ms float64
	if err := json.Unmarshal(b, &ms); err != nil {
		return err
	}
	t.Time = time.UnixMilli(int64(ms))
	return nil
}

// MarshalJSON implements json.Marshaler for Timestamp
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UnixMilli())
}

// NewTimestamp wraps a time.Time
func NewTimestamp(tm time.Time) Timestamp {
	return Timestamp{Time: tm}
}

// Role is a user's permission level
type Role string

const (
	RoleUser   Role = "user"
	RoleOffice Role = "office"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleOffice, RoleAdmin:
		return true
	}
	return false
}

// CanApprove reports whether the role may approve absences and see other users
func (r Role) CanApprove() bool {
	return r == RoleOffice || r == RoleAdmin
}

// User represents an account
type User struct {
	ID              int64            `json:"id"`
	Email           string           `json:"email"`
	Name            string           `json:"name"`
	Role            Role             `json:"role"`
	IsActive        bool             `json:"is_active"`
	CreatedAt       Timestamp        `json:"created_at"`
	AvatarURL       string           `json:"avatar_url,omitempty"`
	EmployeeID      string           `json:"employee_id,omitempty"`
	ActiveTimer     *TimeClock       `json:"active_timer,omitempty"`
	OvertimeAccount *OvertimeAccount `json:"overtime_account,omitempty"`
}

// TimeClock is a running timer
type TimeClock struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id,omitempty"`
	StartedAt      Timestamp `json:"started_at"`
	IsBreak        bool      `json:"is_break"`
	Comment        string    `json:"comment,omitempty"`
	ElapsedSeconds Number    `json:"elapsed_seconds,omitempty"`
}

// TimeEntry is a stored work or break interval
type TimeEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Start     Timestamp `json:"start"`
	End       Timestamp `json:"end"`
	IsBreak   bool      `json:"is_break"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

// Duration returns End - Start
func (e TimeEntry) Duration() time.Duration {
	if e.Start.IsZero() || e.End.IsZero() {
		return 0
	}
	return e.End.Sub(e.Start.Time)
}

// WorkingTime is a weekly should-hours schedule
type WorkingTime struct {
	ID                   int64     `json:"id,omitempty"`
	UserID               int64     `json:"user_id,omitempty"`
	ValidFrom            string    `json:"valid_from"`
	MondayHours          Number    `json:"monday_hours"`
	TuesdayHours         Number    `json:"tuesday_hours"`
	WednesdayHours       Number    `json:"wednesday_hours"`
	ThursdayHours        Number    `json:"thursday_hours"`
	FridayHours          Number    `json:"friday_hours"`
	SaturdayHours        Number    `json:"saturday_hours"`
	SundayHours          Number    `json:"sunday_hours"`
	WorksOnPublicHoliday bool      `json:"works_on_public_holiday"`
	CreatedAt            Timestamp `json:"created_at,omitempty"`
}

// HoursFor returns the should hours configured for a weekday
func (w WorkingTime) HoursFor(day time.Weekday) float64 {
	switch day {
	case time.Monday:
		return w.MondayHours.Float64()
	case time.Tuesday:
		return w.TuesdayHours.Float64()
	case time.Wednesday:
		return w.WednesdayHours.Float64()
	case time.Thursday:
		return w.ThursdayHours.Float64()
	case time.Friday:
		return w.FridayHours.Float64()
	case time.Saturday:
		return w.SaturdayHours.Float64()
	default:
		return w.SundayHours.Float64()
	}
}

// WeeklyHours returns the sum of all weekday hours
func (w WorkingTime) WeeklyHours() float64 {
	total := 0.0
	for d := time.Sunday; d <= time.Saturday; d++ {
		total += w.HoursFor(d)
	}
	return total
}

// OvertimeAccount holds a user's accumulated overtime
type OvertimeAccount struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	CurrentBalance     Number    `json:"current_balance"`
	MaxAllowedOvertime Number    `json:"max_allowed_overtime"`
	UpdatedAt          Timestamp `json:"updated_at"`
}

// OvertimeRecalculation is the result of a balance recalculation
type OvertimeRecalculation struct {
	UserID          int64  `json:"user_id"`
	PreviousBalance Number `json:"previous_balance"`
	NewBalance      Number `json:"new_balance"`
	CalculatedAt    string `json:"calculated_at"`
}

// AbsenceType is the kind of absence
type AbsenceType string

const (
	AbsenceVacation AbsenceType = "vacation"
	AbsenceSick     AbsenceType = "sick"
	AbsenceOther    AbsenceType = "other"
)

// Valid reports whether t is a known absence type
func (t AbsenceType) Valid() bool {
	switch t {
	case AbsenceVacation, AbsenceSick, AbsenceOther:
		return true
	}
	return false
}

// AbsenceStatus is the approval state of an absence
type AbsenceStatus string

const (
	AbsencePending  AbsenceStatus = "pending"
	AbsenceApproved AbsenceStatus = "approved"
	AbsenceRejected AbsenceStatus = "rejected"
)

// Valid reports whether s is a known status
func (s AbsenceStatus) Valid() bool {
	switch s {
	case AbsencePending, AbsenceApproved, AbsenceRejected:
		return true
	}
	return false
}

// Absence is a vacation, sick or other leave request
type Absence struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"user_id"`
	StartDate string        `json:"start_date"`
	EndDate   string        `json:"end_date"`
	Type      AbsenceType   `json:"type"`
	Status    AbsenceStatus `json:"status"`
	Comment   string        `json:"comment,omitempty"`
	CreatedAt Timestamp     `json:"created_at"`
}

// Page is a paginated list response
type Page[T any] struct {
	Items         []T  `json:"items"`
	ItemsReceived int  `json:"itemsReceived"`
	CurPage       int  `json:"curPage"`
	NextPage      *int `json:"nextPage"`
	PrevPage      *int `json:"prevPage"`
	Offset        int  `json:"offset"`
	PerPage       int  `json:"perPage"`
}

// HasNext reports whether another page follows
func (p Page[T]) HasNext() bool {
	return p.NextPage != nil
}

// AuthResponse is returned by login and signup
type AuthResponse struct {
	AuthToken string `json:"authToken"`
	User      User   `json:"user"`
}

// Organization is a CRM company record
type Organization struct {
	ID                 int64     `json:"id,omitempty"`
	OrganizationNumber string    `json:"organization_number,omitempty"`
	Name               string    `json:"name"`
	LegalForm          string    `json:"legal_form,omitempty"`
	PaymentTerms       Number    `json:"payment_terms,omitempty"`
	DiscountPercentage Number    `json:"discount_percentage,omitempty"`
	CreditLimit        Number    `json:"credit_limit,omitempty"`
	Industry           string    `json:"industry,omitempty"`
	CustomerType       string    `json:"customer_type,omitempty"`
	Status             string    `json:"status,omitempty"`
	VATID              string    `json:"vat_id,omitempty"`
	TaxNumber          string    `json:"tax_number,omitempty"`
	Website            string    `json:"website,omitempty"`
	Notes              string    `json:"notes,omitempty"`
	CreatedAt          Timestamp `json:"created_at,omitempty"`
}

// Person is a CRM contact
type Person struct {
	ID               int64     `json:"id,omitempty"`
	OrganizationID   *int64    `json:"organization_id,omitempty"`
	Salutation       string    `json:"salutation,omitempty"`
	Title            string    `json:"title,omitempty"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Email            string    `json:"email,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Mobile           string    `json:"mobile,omitempty"`
	Position         string    `json:"position,omitempty"`
	Department       string    `json:"department,omitempty"`
	IsPrimaryContact bool      `json:"is_primary_contact"`
	IsBillingContact bool      `json:"is_billing_contact"`
	IsActive         bool      `json:"is_active"`
	Birthday         string    `json:"birthday,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        Timestamp `json:"created_at,omitempty"`
}

// FullName joins first and last name
func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// AddressableType names the owner kind of an address
type AddressableType string

const (
	AddressableOrganization AddressableType = "organization"
	AddressablePerson       AddressableType = "person"
)

// AddressType is the purpose of an address
type AddressType string

const (
	AddressBilling  AddressType = "billing"
	AddressShipping AddressType = "shipping"
	AddressOther    AddressType = "other"
)

// Address belongs to either an organization or a person
type Address struct {
	ID              int64           `json:"id,omitempty"`
	AddressableType AddressableType `json:"addressable_type"`
	AddressableID   int64           `json:"addressable_id"`
	AddressType     AddressType     `json:"address_type"`
	IsPrimary       bool            `json:"is_primary"`
	IsActive        bool            `json:"is_active"`
	Street          string          `json:"street"`
	HouseNumber     string          `json:"house_number,omitempty"`
	Street2         string          `json:"street2,omitempty"`
	PostalCode      string          `json:"postal_code"`
	City            string          `json:"city"`
	State           string          `json:"state,omitempty"`
	Country         string          `json:"country"`
	CreatedAt       Timestamp       `json:"created_at,omitempty"`
}
