package verification

import (
	"encoding/json"
	"fmt"
)

// BulkVerificationRequest uploads contacts to a bulk list. An unknown directive is
// left off the wire entirely.
type BulkVerificationRequest struct {
	Contacts  []VerificationRequest
	Directive BulkListDirective
}

// NewBulkVerificationRequest bundles contacts with a directive.
func NewBulkVerificationRequest(directive BulkListDirective, contacts ...VerificationRequest) BulkVerificationRequest {
	return BulkVerificationRequest{Contacts: contacts, Directive: directive}
}

type bulkRequestWire struct {
	Contacts  []RequestJSON      `json:"contacts,omitempty"`
	Directive *BulkListDirective `json:"directive,omitempty"`
}

func (r BulkVerificationRequest) MarshalJSON() ([]byte, error) {
	var wire bulkRequestWire
	for _, c := range r.Contacts {
		wire.Contacts = append(wire.Contacts, RequestJSON{VerificationRequest: c})
	}
	if !r.Directive.IsUnknown() {
		d := r.Directive
		wire.Directive = &d
	}
	return json.Marshal(wire)
}

func (r *BulkVerificationRequest) UnmarshalJSON(data []byte) error {
	var wire bulkRequestWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	r.Contacts = nil
	for _, c := range wire.Contacts {
		r.Contacts = append(r.Contacts, c.VerificationRequest)
	}
	r.Directive = DirectiveUnknown
	if wire.Directive != nil {
		r.Directive = *wire.Directive
	}
	return nil
}

// BulkEmailResult is an email outcome on a bulk results page.
type BulkEmailResult struct {
	Email           string             `json:"email"`
	Status          VerificationStatus `json:"status"`
	SecondaryStatus OptionalString     `json:"secondary_status"`
}

func (r *BulkEmailResult) UnmarshalJSON(data []byte) error {
	if err := requireKeys(data, "email", "status"); err != nil {
		return fmt.Errorf("bulk email result: %w", err)
	}
	type plain BulkEmailResult
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = BulkEmailResult(v)
	return nil
}

func (r BulkEmailResult) String() string {
	return fmt.Sprintf("%s: %s", r.Email, r.Status)
}

// BulkPhoneResult is a phone outcome on a bulk results page.
type BulkPhoneResult struct {
	Phone           string             `json:"phone"`
	Status          VerificationStatus `json:"status"`
	PhoneLocation   OptionalString     `json:"phone_location"`
	SecondaryStatus OptionalString     `json:"secondary_status"`
	ServiceType     OptionalString     `json:"phone_service_type"`
}

func (r *BulkPhoneResult) UnmarshalJSON(data []byte) error {
	if err := requireKeys(data, "phone", "status"); err != nil {
		return fmt.Errorf("bulk phone result: %w", err)
	}
	type plain BulkPhoneResult
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = BulkPhoneResult(v)
	return nil
}

func (r BulkPhoneResult) String() string {
	return fmt.Sprintf("%s: %s", r.Phone, r.Status)
}

// BulkAddressResult is an address outcome on a bulk results page.
type BulkAddressResult = AddressVerification

// BulkVerificationResult is one record on a bulk results page: either a contact
// carrying any subset of facets, or a bare email outcome.
type BulkVerificationResult interface {
	fmt.Stringer
	isBulkVerificationResult()
}

// BulkContactResult is a per-contact outcome carrying one or more facets.
type BulkContactResult struct {
	Email   *BulkEmailResult   `json:"email,omitempty"`
	Phone   *BulkPhoneResult   `json:"phone,omitempty"`
	Address *BulkAddressResult `json:"address,omitempty"`
}

// Kind reports the shape matching the facets present. ok is false for an empty result.
func (r BulkContactResult) Kind() (kind Kind, ok bool) {
	return kindOf(facets{email: r.Email != nil, phone: r.Phone != nil, address: r.Address != nil})
}

func (r BulkContactResult) String() string {
	var parts []string
	if r.Email != nil {
		parts = append(parts, r.Email.String())
	}
	if r.Phone != nil {
		parts = append(parts, r.Phone.String())
	}
	if r.Address != nil {
		parts = append(parts, r.Address.String())
	}
	return joinFacets(parts...)
}

func (BulkContactResult) isBulkVerificationResult() {}
func (BulkEmailResult) isBulkVerificationResult()   {}

var bulkResultCandidates = []candidate[BulkVerificationResult]{
	{
		name: "contact",
		conforms: func(f fields) bool {
			present := 0
			for _, key := range []string{keyEmail, keyPhone, keyAddress} {
				if !f.has(key) {
					continue
				}
				if !f.isObject(key) {
					return false
				}
				present++
			}
			return present > 0
		},
		decode: func(data []byte) (BulkVerificationResult, error) {
			v, err := decodeAs[BulkContactResult](data)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	},
	{
		name:     "email",
		conforms: func(f fields) bool { return f.isString(keyEmail) },
		decode: func(data []byte) (BulkVerificationResult, error) {
			v, err := decodeAs[BulkEmailResult](data)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	},
}

// DecodeBulkResult decodes one bulk result record, preferring the contact shape.
func DecodeBulkResult(data []byte) (BulkVerificationResult, error) {
	return decodeFirst("bulk verification result", data, bulkResultCandidates)
}

// BulkResultJSON carries a BulkVerificationResult through encoding/json.
type BulkResultJSON struct {
	BulkVerificationResult
}

func (r BulkResultJSON) MarshalJSON() ([]byte, error) {
	if r.BulkVerificationResult == nil {
		return jsonNull, nil
	}
	return json.Marshal(r.BulkVerificationResult)
}

func (r *BulkResultJSON) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		r.BulkVerificationResult = nil
		return nil
	}
	v, err := DecodeBulkResult(data)
	if err != nil {
		return err
	}
	r.BulkVerificationResult = v
	return nil
}

// BulkVerificationResponse is one page of a completed list's results.
type BulkVerificationResponse struct {
	Status    BatchState
	PageCount uint64
	Results   []BulkVerificationResult
}

type bulkResponseWire struct {
	Status    BatchState       `json:"status"`
	PageCount *FlexCount       `json:"page_count,omitempty"`
	NumPages  *FlexCount       `json:"num_pages,omitempty"`
	Results   []BulkResultJSON `json:"results"`
}

func (r BulkVerificationResponse) MarshalJSON() ([]byte, error) {
	count := FlexCount(r.PageCount)
	wire := bulkResponseWire{Status: r.Status, PageCount: &count, Results: []BulkResultJSON{}}
	for _, res := range r.Results {
		wire.Results = append(wire.Results, BulkResultJSON{BulkVerificationResult: res})
	}
	return json.Marshal(wire)
}

func (r *BulkVerificationResponse) UnmarshalJSON(data []byte) error {
	wire := bulkResponseWire{Status: BatchUnknown}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	r.Status = wire.Status
	switch {
	case wire.PageCount != nil:
		r.PageCount = uint64(*wire.PageCount)
	case wire.NumPages != nil:
		r.PageCount = uint64(*wire.NumPages)
	default:
		r.PageCount = 0
	}
	r.Results = make([]BulkVerificationResult, 0, len(wire.Results))
	for _, res := range wire.Results {
		if res.BulkVerificationResult != nil {
			r.Results = append(r.Results, res.BulkVerificationResult)
		}
	}
	return nil
}

// EmailResults returns the bare email records on the page.
func (r BulkVerificationResponse) EmailResults() []BulkEmailResult {
	var out []BulkEmailResult
	for _, res := range r.Results {
		if e, ok := res.(BulkEmailResult); ok {
			out = append(out, e)
		}
	}
	return out
}

// ContactResults returns the contact records on the page.
func (r BulkVerificationResponse) ContactResults() []BulkContactResult {
	var out []BulkContactResult
	for _, res := range r.Results {
		if c, ok := res.(BulkContactResult); ok {
			out = append(out, c)
		}
	}
	return out
}
