package verification

import (
	"encoding/json"
	"fmt"
	"strings"
)

// VerificationRequest is one of the seven request shapes. The set of facets carried
// determines the concrete type; there is no empty request.
type VerificationRequest interface {
	Kind() Kind
	fmt.Stringer
	isVerificationRequest()
}

type FullRequest struct {
	Email   string        `json:"email"`
	Phone   string        `json:"phone"`
	Address StreetAddress `json:"address"`
}

type EmailAndPhoneRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type EmailAndAddressRequest struct {
	Email   string        `json:"email"`
	Address StreetAddress `json:"address"`
}

type PhoneAndAddressRequest struct {
	Phone   string        `json:"phone"`
	Address StreetAddress `json:"address"`
}

type EmailRequest struct {
	Email string `json:"email"`
}

type PhoneRequest struct {
	Phone string `json:"phone"`
}

type AddressRequest struct {
	Address StreetAddress `json:"address"`
}

func (FullRequest) Kind() Kind            { return KindFull }
func (EmailAndPhoneRequest) Kind() Kind   { return KindEmailAndPhone }
func (EmailAndAddressRequest) Kind() Kind { return KindEmailAndAddress }
func (PhoneAndAddressRequest) Kind() Kind { return KindPhoneAndAddress }
func (EmailRequest) Kind() Kind           { return KindEmail }
func (PhoneRequest) Kind() Kind           { return KindPhone }
func (AddressRequest) Kind() Kind         { return KindAddress }

func (FullRequest) isVerificationRequest()            {}
func (EmailAndPhoneRequest) isVerificationRequest()   {}
func (EmailAndAddressRequest) isVerificationRequest() {}
func (PhoneAndAddressRequest) isVerificationRequest() {}
func (EmailRequest) isVerificationRequest()           {}
func (PhoneRequest) isVerificationRequest()           {}
func (AddressRequest) isVerificationRequest()         {}

// Narrowing drops every facet but the target. There is no way back.

func (r FullRequest) ToEmail() EmailRequest     { return EmailRequest{Email: r.Email} }
func (r FullRequest) ToPhone() PhoneRequest     { return PhoneRequest{Phone: r.Phone} }
func (r FullRequest) ToAddress() AddressRequest { return AddressRequest{Address: r.Address} }

func (r EmailAndPhoneRequest) ToEmail() EmailRequest { return EmailRequest{Email: r.Email} }
func (r EmailAndPhoneRequest) ToPhone() PhoneRequest { return PhoneRequest{Phone: r.Phone} }

func (r EmailAndAddressRequest) ToEmail() EmailRequest { return EmailRequest{Email: r.Email} }
func (r EmailAndAddressRequest) ToAddress() AddressRequest {
	return AddressRequest{Address: r.Address}
}

func (r PhoneAndAddressRequest) ToPhone() PhoneRequest { return PhoneRequest{Phone: r.Phone} }
func (r PhoneAndAddressRequest) ToAddress() AddressRequest {
	return AddressRequest{Address: r.Address}
}

func (r FullRequest) String() string {
	return joinFacets(r.Email, r.Phone, r.Address.String())
}
func (r EmailAndPhoneRequest) String() string   { return joinFacets(r.Email, r.Phone) }
func (r EmailAndAddressRequest) String() string { return joinFacets(r.Email, r.Address.String()) }
func (r PhoneAndAddressRequest) String() string { return joinFacets(r.Phone, r.Address.String()) }
func (r EmailRequest) String() string           { return r.Email }
func (r PhoneRequest) String() string           { return r.Phone }
func (r AddressRequest) String() string         { return r.Address.String() }

func joinFacets(parts ...string) string {
	return strings.Join(parts, " | ")
}

// EmailOf returns the email facet of r, if it carries one.
func EmailOf(r VerificationRequest) (string, bool) {
	switch v := r.(type) {
	case FullRequest:
		return v.Email, true
	case EmailAndPhoneRequest:
		return v.Email, true
	case EmailAndAddressRequest:
		return v.Email, true
	case EmailRequest:
		return v.Email, true
	}
	return "", false
}

// PhoneOf returns the phone facet of r, if it carries one.
func PhoneOf(r VerificationRequest) (string, bool) {
	switch v := r.(type) {
	case FullRequest:
		return v.Phone, true
	case EmailAndPhoneRequest:
		return v.Phone, true
	case PhoneAndAddressRequest:
		return v.Phone, true
	case PhoneRequest:
		return v.Phone, true
	}
	return "", false
}

// AddressOf returns the address facet of r, if it carries one.
func AddressOf(r VerificationRequest) (StreetAddress, bool) {
	switch v := r.(type) {
	case FullRequest:
		return v.Address, true
	case EmailAndAddressRequest:
		return v.Address, true
	case PhoneAndAddressRequest:
		return v.Address, true
	case AddressRequest:
		return v.Address, true
	}
	return StreetAddress{}, false
}

var requestCandidates = []candidate[VerificationRequest]{
	requestCandidate[FullRequest](KindFull),
	requestCandidate[EmailAndPhoneRequest](KindEmailAndPhone),
	requestCandidate[EmailAndAddressRequest](KindEmailAndAddress),
	requestCandidate[PhoneAndAddressRequest](KindPhoneAndAddress),
	requestCandidate[EmailRequest](KindEmail),
	requestCandidate[PhoneRequest](KindPhone),
	requestCandidate[AddressRequest](KindAddress),
}

func requestCandidate[T VerificationRequest](k Kind) candidate[VerificationRequest] {
	return candidate[VerificationRequest]{
		name:     k.String(),
		conforms: conformsTo(k),
		decode: func(data []byte) (VerificationRequest, error) {
			v, err := decodeAs[T](data)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

// DecodeRequest decodes an untagged request payload into the richest shape it satisfies.
func DecodeRequest(data []byte) (VerificationRequest, error) {
	return decodeFirst("verification request", data, requestCandidates)
}

// RequestJSON carries a VerificationRequest through encoding/json.
type RequestJSON struct {
	VerificationRequest
}

func (r RequestJSON) MarshalJSON() ([]byte, error) {
	if r.VerificationRequest == nil {
		return jsonNull, nil
	}
	return json.Marshal(r.VerificationRequest)
}

func (r *RequestJSON) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		r.VerificationRequest = nil
		return nil
	}
	v, err := DecodeRequest(data)
	if err != nil {
		return err
	}
	r.VerificationRequest = v
	return nil
}
