package verification

import (
	"encoding/json"
	"fmt"
	"time"
)

// EmailVerification is the email facet of a verification response.
type EmailVerification struct {
	Address     string             `json:"address"`
	Account     string             `json:"account"`
	Domain      string             `json:"domain"`
	Status      VerificationStatus `json:"status"`
	Connected   any                `json:"connected"`
	Disposable  bool               `json:"disposable"`
	RoleAddress bool               `json:"role_address"`
	ErrorCode   *VerificationError `json:"error_code,omitempty"`
	Error       OptionalString     `json:"error,omitempty"`
}

func (e *EmailVerification) UnmarshalJSON(data []byte) error {
	if err := requireKeys(data, "address", "status"); err != nil {
		return fmt.Errorf("email verification: %w", err)
	}
	type plain EmailVerification
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*e = EmailVerification(v)
	return nil
}

func (e EmailVerification) String() string {
	if e.ErrorCode != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Address, e.Status, *e.ErrorCode)
	}
	return fmt.Sprintf("%s: %s", e.Address, e.Status)
}

// PhoneVerification is the phone facet of a verification response.
type PhoneVerification struct {
	Number        string             `json:"number"`
	Status        VerificationStatus `json:"status"`
	ServiceType   OptionalString     `json:"service_type"`
	PhoneLocation any                `json:"phone_location"`
	Errors        []any              `json:"errors"`
}

func (p *PhoneVerification) UnmarshalJSON(data []byte) error {
	if err := requireKeys(data, "number", "status"); err != nil {
		return fmt.Errorf("phone verification: %w", err)
	}
	type plain PhoneVerification
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = PhoneVerification(v)
	return nil
}

// ErrorCodes returns the string members of Errors as error codes.
func (p PhoneVerification) ErrorCodes() []VerificationError {
	return errorCodes(p.Errors)
}

func (p PhoneVerification) String() string {
	return fmt.Sprintf("%s: %s", p.Number, p.Status)
}

// AddressVerification is the address facet of a verification response. The API folds
// address2 into address1 when it corrects an address, so Address2 is usually absent.
type AddressVerification struct {
	Address1        string             `json:"address1"`
	Address2        OptionalString     `json:"address2"`
	City            string             `json:"city"`
	State           string             `json:"state"`
	Zip             string             `json:"zip"`
	Status          VerificationStatus `json:"status"`
	Corrected       FlexBool           `json:"corrected"`
	Errors          []any              `json:"errors"`
	SecondaryStatus OptionalString     `json:"secondary_status"`
}

func (a *AddressVerification) UnmarshalJSON(data []byte) error {
	if err := requireKeys(data, "address1", "city", "state", "zip", "status"); err != nil {
		return fmt.Errorf("address verification: %w", err)
	}
	type plain AddressVerification
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = AddressVerification(v)
	return nil
}

// ErrorCodes returns the string members of Errors as error codes.
func (a AddressVerification) ErrorCodes() []VerificationError {
	return errorCodes(a.Errors)
}

// StreetAddress returns the verified address in request form.
func (a AddressVerification) StreetAddress() StreetAddress {
	return StreetAddress{
		Address1: a.Address1,
		Address2: a.Address2,
		City:     a.City,
		State:    a.State,
		Zip:      a.Zip,
	}
}

func (a AddressVerification) String() string {
	return fmt.Sprintf("%s: %s", a.StreetAddress(), a.Status)
}

func errorCodes(raw []any) []VerificationError {
	var codes []VerificationError
	for _, e := range raw {
		if s, ok := e.(string); ok {
			codes = append(codes, ParseVerificationError(s))
		}
	}
	return codes
}

// VerificationResponse is one of the seven response shapes, each mirroring the
// request shape it answers.
type VerificationResponse interface {
	Kind() Kind
	// ProcessingTime is the time the API reported spending on the request.
	ProcessingTime() time.Duration
	fmt.Stringer
	isVerificationResponse()
}

type FullResponse struct {
	Email    EmailVerification   `json:"email"`
	Phone    PhoneVerification   `json:"phone"`
	Address  AddressVerification `json:"address"`
	Duration Duration            `json:"duration"`
}

type EmailAndPhoneResponse struct {
	Email    EmailVerification `json:"email"`
	Phone    PhoneVerification `json:"phone"`
	Duration Duration          `json:"duration"`
}

type EmailAndAddressResponse struct {
	Email    EmailVerification   `json:"email"`
	Address  AddressVerification `json:"address"`
	Duration Duration            `json:"duration"`
}

type PhoneAndAddressResponse struct {
	Phone    PhoneVerification   `json:"phone"`
	Address  AddressVerification `json:"address"`
	Duration Duration            `json:"duration"`
}

type EmailResponse struct {
	Email    EmailVerification `json:"email"`
	Duration Duration          `json:"duration"`
}

type PhoneResponse struct {
	Phone    PhoneVerification `json:"phone"`
	Duration Duration          `json:"duration"`
}

type AddressResponse struct {
	Address  AddressVerification `json:"address"`
	Duration Duration            `json:"duration"`
}

func (FullResponse) Kind() Kind            { return KindFull }
func (EmailAndPhoneResponse) Kind() Kind   { return KindEmailAndPhone }
func (EmailAndAddressResponse) Kind() Kind { return KindEmailAndAddress }
func (PhoneAndAddressResponse) Kind() Kind { return KindPhoneAndAddress }
func (EmailResponse) Kind() Kind           { return KindEmail }
func (PhoneResponse) Kind() Kind           { return KindPhone }
func (AddressResponse) Kind() Kind         { return KindAddress }

func (r FullResponse) ProcessingTime() time.Duration            { return r.Duration.Std() }
func (r EmailAndPhoneResponse) ProcessingTime() time.Duration   { return r.Duration.Std() }
func (r EmailAndAddressResponse) ProcessingTime() time.Duration { return r.Duration.Std() }
func (r PhoneAndAddressResponse) ProcessingTime() time.Duration { return r.Duration.Std() }
func (r EmailResponse) ProcessingTime() time.Duration           { return r.Duration.Std() }
func (r PhoneResponse) ProcessingTime() time.Duration           { return r.Duration.Std() }
func (r AddressResponse) ProcessingTime() time.Duration         { return r.Duration.Std() }

func (FullResponse) isVerificationResponse()            {}
func (EmailAndPhoneResponse) isVerificationResponse()   {}
func (EmailAndAddressResponse) isVerificationResponse() {}
func (PhoneAndAddressResponse) isVerificationResponse() {}
func (EmailResponse) isVerificationResponse()           {}
func (PhoneResponse) isVerificationResponse()           {}
func (AddressResponse) isVerificationResponse()         {}

func (r FullResponse) String() string {
	return joinFacets(r.Email.String(), r.Phone.String(), r.Address.String())
}
func (r EmailAndPhoneResponse) String() string {
	return joinFacets(r.Email.String(), r.Phone.String())
}
func (r EmailAndAddressResponse) String() string {
	return joinFacets(r.Email.String(), r.Address.String())
}
func (r PhoneAndAddressResponse) String() string {
	return joinFacets(r.Phone.String(), r.Address.String())
}
func (r EmailResponse) String() string   { return r.Email.String() }
func (r PhoneResponse) String() string   { return r.Phone.String() }
func (r AddressResponse) String() string { return r.Address.String() }

// Narrowing keeps the reported duration and drops every other facet.

func (r FullResponse) ToEmail() EmailResponse {
	return EmailResponse{Email: r.Email, Duration: r.Duration}
}
func (r FullResponse) ToPhone() PhoneResponse {
	return PhoneResponse{Phone: r.Phone, Duration: r.Duration}
}
func (r FullResponse) ToAddress() AddressResponse {
	return AddressResponse{Address: r.Address, Duration: r.Duration}
}

func (r EmailAndPhoneResponse) ToEmail() EmailResponse {
	return EmailResponse{Email: r.Email, Duration: r.Duration}
}
func (r EmailAndPhoneResponse) ToPhone() PhoneResponse {
	return PhoneResponse{Phone: r.Phone, Duration: r.Duration}
}

func (r EmailAndAddressResponse) ToEmail() EmailResponse {
	return EmailResponse{Email: r.Email, Duration: r.Duration}
}
func (r EmailAndAddressResponse) ToAddress() AddressResponse {
	return AddressResponse{Address: r.Address, Duration: r.Duration}
}

func (r PhoneAndAddressResponse) ToPhone() PhoneResponse {
	return PhoneResponse{Phone: r.Phone, Duration: r.Duration}
}
func (r PhoneAndAddressResponse) ToAddress() AddressResponse {
	return AddressResponse{Address: r.Address, Duration: r.Duration}
}

// EmailResultOf returns the email facet of r, if it carries one.
func EmailResultOf(r VerificationResponse) (EmailVerification, bool) {
	switch v := r.(type) {
	case FullResponse:
		return v.Email, true
	case EmailAndPhoneResponse:
		return v.Email, true
	case EmailAndAddressResponse:
		return v.Email, true
	case EmailResponse:
		return v.Email, true
	}
	return EmailVerification{}, false
}

// PhoneResultOf returns the phone facet of r, if it carries one.
func PhoneResultOf(r VerificationResponse) (PhoneVerification, bool) {
	switch v := r.(type) {
	case FullResponse:
		return v.Phone, true
	case EmailAndPhoneResponse:
		return v.Phone, true
	case PhoneAndAddressResponse:
		return v.Phone, true
	case PhoneResponse:
		return v.Phone, true
	}
	return PhoneVerification{}, false
}

// AddressResultOf returns the address facet of r, if it carries one.
func AddressResultOf(r VerificationResponse) (AddressVerification, bool) {
	switch v := r.(type) {
	case FullResponse:
		return v.Address, true
	case EmailAndAddressResponse:
		return v.Address, true
	case PhoneAndAddressResponse:
		return v.Address, true
	case AddressResponse:
		return v.Address, true
	}
	return AddressVerification{}, false
}

var responseCandidates = []candidate[VerificationResponse]{
	responseCandidate[FullResponse](KindFull),
	responseCandidate[EmailAndPhoneResponse](KindEmailAndPhone),
	responseCandidate[EmailAndAddressResponse](KindEmailAndAddress),
	responseCandidate[PhoneAndAddressResponse](KindPhoneAndAddress),
	responseCandidate[EmailResponse](KindEmail),
	responseCandidate[PhoneResponse](KindPhone),
	responseCandidate[AddressResponse](KindAddress),
}

func responseCandidate[T VerificationResponse](k Kind) candidate[VerificationResponse] {
	return candidate[VerificationResponse]{
		name:     k.String(),
		conforms: conformsTo(k, keyDuration),
		decode: func(data []byte) (VerificationResponse, error) {
			v, err := decodeAs[T](data)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

// DecodeResponse decodes an untagged response payload into the richest shape it
// satisfies. A facet that is present but malformed causes a fall-through to the next
// leaner shape.
func DecodeResponse(data []byte) (VerificationResponse, error) {
	return decodeFirst("verification response", data, responseCandidates)
}

// ResponseJSON carries a VerificationResponse through encoding/json.
type ResponseJSON struct {
	VerificationResponse
}

func (r ResponseJSON) MarshalJSON() ([]byte, error) {
	if r.VerificationResponse == nil {
		return jsonNull, nil
	}
	return json.Marshal(r.VerificationResponse)
}

func (r *ResponseJSON) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		r.VerificationResponse = nil
		return nil
	}
	v, err := DecodeResponse(data)
	if err != nil {
		return err
	}
	r.VerificationResponse = v
	return nil
}
