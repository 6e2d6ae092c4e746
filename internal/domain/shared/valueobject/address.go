package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// DefaultCountry is assumed when no country is supplied with an address
const DefaultCountry = "India"

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// ShippingAddress is a value object representing a delivery address
// It is immutable - all operations return new ShippingAddress instances
type ShippingAddress struct {
	name    string
	street  string
	city    string
	state   string
	zipCode string
	country string
	phone   string
}

// ShippingAddressOption is a functional option for configuring ShippingAddress
type ShippingAddressOption func(*ShippingAddress)

// WithCountry sets the country for the address
func WithCountry(country string) ShippingAddressOption {
	return func(a *ShippingAddress) {
		a.country = strings.TrimSpace(country)
	}
}

// NewShippingAddress creates a new ShippingAddress
// Name, street, city, state, zipCode and phone are required;
// country defaults to DefaultCountry
func NewShippingAddress(name, street, city, state, zipCode, phone string, opts ...ShippingAddressOption) (ShippingAddress, error) {
	addr := ShippingAddress{
		name:    strings.TrimSpace(name),
		street:  strings.TrimSpace(street),
		city:    strings.TrimSpace(city),
		state:   strings.TrimSpace(state),
		zipCode: strings.TrimSpace(zipCode),
		phone:   strings.TrimSpace(phone),
		country: DefaultCountry,
	}

	for _, opt := range opts {
		opt(&addr)
	}
	if addr.country == "" {
		addr.country = DefaultCountry
	}

	if err := addr.validate(); err != nil {
		return ShippingAddress{}, err
	}
	return addr, nil
}

// MustNewShippingAddress creates a new ShippingAddress, panics on error
func MustNewShippingAddress(name, street, city, state, zipCode, phone string, opts ...ShippingAddressOption) ShippingAddress {
	addr, err := NewShippingAddress(name, street, city, state, zipCode, phone, opts...)
	if err != nil {
		panic(err)
	}
	return addr
}

// EmptyShippingAddress returns an empty address (for optional address fields)
func EmptyShippingAddress() ShippingAddress {
	return ShippingAddress{}
}

func (a ShippingAddress) validate() error {
	if a.name == "" {
		return fmt.Errorf("recipient name cannot be empty")
	}
	if len(a.name) > 100 {
		return fmt.Errorf("recipient name cannot exceed 100 characters")
	}
	if a.street == "" {
		return fmt.Errorf("street cannot be empty")
	}
	if len(a.street) > 255 {
		return fmt.Errorf("street cannot exceed 255 characters")
	}
	if a.city == "" {
		return fmt.Errorf("city cannot be empty")
	}
	if len(a.city) > 100 {
		return fmt.Errorf("city cannot exceed 100 characters")
	}
	if a.state == "" {
		return fmt.Errorf("state cannot be empty")
	}
	if len(a.state) > 100 {
		return fmt.Errorf("state cannot exceed 100 characters")
	}
	if a.zipCode == "" {
		return fmt.Errorf("zip code cannot be empty")
	}
	if len(a.zipCode) > 20 {
		return fmt.Errorf("zip code cannot exceed 20 characters")
	}
	if len(a.country) > 100 {
		return fmt.Errorf("country cannot exceed 100 characters")
	}
	if a.phone == "" {
		return fmt.Errorf("phone cannot be empty")
	}
	if !phonePattern.MatchString(a.phone) {
		return fmt.Errorf("phone must be a 10-digit number")
	}
	return nil
}

// Name returns the recipient name
func (a ShippingAddress) Name() string {
	return a.name
}

// Street returns the street address
func (a ShippingAddress) Street() string {
	return a.street
}

// City returns the city
func (a ShippingAddress) City() string {
	return a.city
}

// State returns the state
func (a ShippingAddress) State() string {
	return a.state
}

// ZipCode returns the zip code
func (a ShippingAddress) ZipCode() string {
	return a.zipCode
}

// Country returns the country
func (a ShippingAddress) Country() string {
	return a.country
}

// Phone returns the contact phone number
func (a ShippingAddress) Phone() string {
	return a.phone
}

// IsEmpty returns true if the address carries no data
func (a ShippingAddress) IsEmpty() bool {
	return a.name == "" && a.street == "" && a.city == "" && a.state == "" && a.zipCode == ""
}

// FullAddress returns the complete formatted address string
func (a ShippingAddress) FullAddress() string {
	if a.IsEmpty() {
		return ""
	}

	parts := make([]string, 0, 6)
	if a.street != "" {
		parts = append(parts, a.street)
	}
	if a.city != "" {
		parts = append(parts, a.city)
	}
	if a.state != "" {
		parts = append(parts, a.state)
	}
	if a.zipCode != "" {
		parts = append(parts, a.zipCode)
	}
	if a.country != "" {
		parts = append(parts, a.country)
	}
	return strings.Join(parts, ", ")
}

// String returns a string representation of the address
func (a ShippingAddress) String() string {
	return a.FullAddress()
}

// Equals returns true if both addresses are equal
func (a ShippingAddress) Equals(other ShippingAddress) bool {
	return a.name == other.name &&
		a.street == other.street &&
		a.city == other.city &&
		a.state == other.state &&
		a.zipCode == other.zipCode &&
		a.country == other.country &&
		a.phone == other.phone
}

// shippingAddressJSON is used for JSON marshaling/unmarshaling
type shippingAddressJSON struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country,omitempty"`
	Phone   string `json:"phone"`
}

// MarshalJSON implements json.Marshaler
func (a ShippingAddress) MarshalJSON() ([]byte, error) {
	return json.Marshal(shippingAddressJSON{
		Name:    a.name,
		Street:  a.street,
		City:    a.city,
		State:   a.state,
		ZipCode: a.zipCode,
		Country: a.country,
		Phone:   a.phone,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
// Delegates to NewShippingAddress so validation rules apply consistently.
func (a *ShippingAddress) UnmarshalJSON(data []byte) error {
	var v shippingAddressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	// Allow empty addresses from JSON
	if v.Name == "" && v.Street == "" && v.City == "" && v.State == "" && v.ZipCode == "" {
		*a = EmptyShippingAddress()
		return nil
	}

	addr, err := NewShippingAddress(v.Name, v.Street, v.City, v.State, v.ZipCode, v.Phone, WithCountry(v.Country))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ShippingAddressDTO is a data transfer object for database operations
// This allows ShippingAddress to be stored as a JSON column
type ShippingAddressDTO struct {
	Name    string `json:"name" binding:"required,max=100"`
	Street  string `json:"street" binding:"required,max=255"`
	City    string `json:"city" binding:"required,max=100"`
	State   string `json:"state" binding:"required,max=100"`
	ZipCode string `json:"zipCode" binding:"required,max=20"`
	Country string `json:"country,omitempty" binding:"omitempty,max=100"`
	Phone   string `json:"phone" binding:"required,len=10,numeric"`
}

// ToDTO converts ShippingAddress to ShippingAddressDTO
func (a ShippingAddress) ToDTO() ShippingAddressDTO {
	return ShippingAddressDTO{
		Name:    a.name,
		Street:  a.street,
		City:    a.city,
		State:   a.state,
		ZipCode: a.zipCode,
		Country: a.country,
		Phone:   a.phone,
	}
}

// ToShippingAddress converts ShippingAddressDTO back to ShippingAddress
func (dto ShippingAddressDTO) ToShippingAddress() (ShippingAddress, error) {
	if dto.Name == "" && dto.Street == "" && dto.City == "" && dto.State == "" && dto.ZipCode == "" {
		return EmptyShippingAddress(), nil
	}
	return NewShippingAddress(dto.Name, dto.Street, dto.City, dto.State, dto.ZipCode, dto.Phone, WithCountry(dto.Country))
}

// Value implements driver.Valuer for database storage
// Stores as JSON string
func (a ShippingAddress) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for database retrieval
func (a *ShippingAddress) Scan(value any) error {
	if value == nil {
		*a = EmptyShippingAddress()
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into ShippingAddress", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*a = EmptyShippingAddress()
		return nil
	}

	return json.Unmarshal(data, a)
}
