package verification

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StreetAddress is the address facet of a verification request.
type StreetAddress struct {
	Address1 string         `json:"address1"`
	Address2 OptionalString `json:"address2,omitempty"`
	City     string         `json:"city"`
	State    string         `json:"state"`
	Zip      string         `json:"zip"`
}

// NewStreetAddress builds an address from already-validated parts. Use AddressBuilder
// when the parts come from user input.
func NewStreetAddress(address1, address2, city, state, zip string) StreetAddress {
	return StreetAddress{
		Address1: address1,
		Address2: normalizeOptional(address2),
		City:     city,
		State:    state,
		Zip:      zip,
	}
}

func normalizeOptional(s string) OptionalString {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return OptionalString(s)
}

// Equal compares addresses ignoring case and surrounding whitespace.
func (a StreetAddress) Equal(other StreetAddress) bool {
	return caselessEqual(a.Address1, other.Address1) &&
		caselessEqual(string(a.Address2), string(other.Address2)) &&
		caselessEqual(a.City, other.City) &&
		caselessEqual(a.State, other.State) &&
		caselessEqual(a.Zip, other.Zip)
}

func caselessEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func (a StreetAddress) String() string {
	line := a.Address1
	if a.Address2.IsSet() {
		line += " " + string(a.Address2)
	}
	return fmt.Sprintf("%s, %s, %s %s", line, a.City, a.State, a.Zip)
}

var streetAddressRequired = []string{"address1", "city", "state", "zip"}

func (a *StreetAddress) UnmarshalJSON(data []byte) error {
	if err := requireKeys(data, streetAddressRequired...); err != nil {
		return fmt.Errorf("street address: %w", err)
	}
	type plain StreetAddress
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = StreetAddress(v)
	return nil
}

// AddressBuilder accumulates address parts. Setters return a modified copy, so a
// builder value can be shared and extended without aliasing.
type AddressBuilder struct {
	address1 string
	address2 string
	city     string
	state    string
	zip      string
}

// NewAddressBuilder returns an empty builder.
func NewAddressBuilder() AddressBuilder {
	return AddressBuilder{}
}

func (b AddressBuilder) Address1(v string) AddressBuilder { b.address1 = v; return b }
func (b AddressBuilder) Address2(v string) AddressBuilder { b.address2 = v; return b }
func (b AddressBuilder) City(v string) AddressBuilder     { b.city = v; return b }
func (b AddressBuilder) State(v string) AddressBuilder    { b.state = v; return b }
func (b AddressBuilder) Zip(v string) AddressBuilder      { b.zip = v; return b }

// Buildable reports whether address1, city, state and zip are all non-blank.
func (b AddressBuilder) Buildable() bool {
	return len(b.missing()) == 0
}

// started reports whether any required part has been supplied.
// address2 on its own does not count.
func (b AddressBuilder) started() bool {
	return len(b.missing()) < len(streetAddressRequired)
}

func (b AddressBuilder) missing() []string {
	var missing []string
	for i, v := range []string{b.address1, b.city, b.state, b.zip} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, streetAddressRequired[i])
		}
	}
	return missing
}

// Build returns the address, or a TypeError naming the blank required fields.
func (b AddressBuilder) Build() (StreetAddress, error) {
	if missing := b.missing(); len(missing) > 0 {
		return StreetAddress{}, unbuildableAddress(missing)
	}
	return NewStreetAddress(b.address1, b.address2, b.city, b.state, b.zip), nil
}
