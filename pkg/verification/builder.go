package verification

import "strings"

// Values holds raw request fields. Blank strings mean unset.
type Values struct {
	Email    string
	Phone    string
	Address1 string
	Address2 string
	City     string
	State    string
	Zip      string
}

// RequestBuilder accumulates request fields and resolves them into the matching
// request shape. Setters return a modified copy.
type RequestBuilder struct {
	email   string
	phone   string
	address AddressBuilder
}

// NewRequestBuilder returns an empty builder.
func NewRequestBuilder() RequestBuilder {
	return RequestBuilder{}
}

// NewRequestBuilderFrom returns a builder pre-populated with v.
func NewRequestBuilderFrom(v Values) RequestBuilder {
	return NewRequestBuilder().
		Email(v.Email).
		Phone(v.Phone).
		Address1(v.Address1).
		Address2(v.Address2).
		City(v.City).
		State(v.State).
		Zip(v.Zip)
}

// FromValues is shorthand for NewRequestBuilderFrom(v).Build().
func FromValues(v Values) (VerificationRequest, error) {
	return NewRequestBuilderFrom(v).Build()
}

func (b RequestBuilder) Email(v string) RequestBuilder { b.email = v; return b }
func (b RequestBuilder) Phone(v string) RequestBuilder { b.phone = v; return b }
func (b RequestBuilder) Address1(v string) RequestBuilder {
	b.address = b.address.Address1(v)
	return b
}
func (b RequestBuilder) Address2(v string) RequestBuilder {
	b.address = b.address.Address2(v)
	return b
}
func (b RequestBuilder) City(v string) RequestBuilder  { b.address = b.address.City(v); return b }
func (b RequestBuilder) State(v string) RequestBuilder { b.address = b.address.State(v); return b }
func (b RequestBuilder) Zip(v string) RequestBuilder   { b.address = b.address.Zip(v); return b }

// Address replaces the address parts with those of a.
func (b RequestBuilder) Address(a StreetAddress) RequestBuilder {
	b.address = NewAddressBuilder().
		Address1(a.Address1).
		Address2(string(a.Address2)).
		City(a.City).
		State(a.State).
		Zip(a.Zip)
	return b
}

func (b RequestBuilder) emailSet() bool { return strings.TrimSpace(b.email) != "" }
func (b RequestBuilder) phoneSet() bool { return strings.TrimSpace(b.phone) != "" }

// Buildable reports whether Build would succeed.
func (b RequestBuilder) Buildable() bool {
	if b.address.started() && !b.address.Buildable() {
		return false
	}
	return b.emailSet() || b.phoneSet() || b.address.Buildable()
}

// Build resolves the accumulated fields into a request shape.
//
// A partially filled address is an error even when email or phone is set, so a
// dropped address line never silently narrows the request.
func (b RequestBuilder) Build() (VerificationRequest, error) {
	if b.address.started() && !b.address.Buildable() {
		return nil, unbuildableAddress(b.address.missing())
	}

	var address StreetAddress
	if b.address.Buildable() {
		built, err := b.address.Build()
		if err != nil {
			return nil, err
		}
		address = built
	}

	switch (facets{email: b.emailSet(), phone: b.phoneSet(), address: b.address.Buildable()}) {
	case facets{email: true, phone: true, address: true}:
		return FullRequest{Email: b.email, Phone: b.phone, Address: address}, nil
	case facets{email: true, phone: false, address: false}:
		return EmailRequest{Email: b.email}, nil
	case facets{email: false, phone: true, address: false}:
		return PhoneRequest{Phone: b.phone}, nil
	case facets{email: false, phone: false, address: true}:
		return AddressRequest{Address: address}, nil
	case facets{email: true, phone: true, address: false}:
		return EmailAndPhoneRequest{Email: b.email, Phone: b.phone}, nil
	case facets{email: true, phone: false, address: true}:
		return EmailAndAddressRequest{Email: b.email, Address: address}, nil
	case facets{email: false, phone: true, address: true}:
		return PhoneAndAddressRequest{Phone: b.phone, Address: address}, nil
	default:
		return nil, unbuildableRequest()
	}
}
