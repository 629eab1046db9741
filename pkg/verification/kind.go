package verification

// Kind identifies which facets a request or response carries.
type Kind uint8

const (
	KindFull Kind = iota + 1
	KindEmailAndPhone
	KindEmailAndAddress
	KindPhoneAndAddress
	KindEmail
	KindPhone
	KindAddress
)

// kindPriority is the decode order: richest shape first.
var kindPriority = [...]Kind{
	KindFull,
	KindEmailAndPhone,
	KindEmailAndAddress,
	KindPhoneAndAddress,
	KindEmail,
	KindPhone,
	KindAddress,
}

// Kinds returns every shape in deserialization priority order.
func Kinds() []Kind {
	out := make([]Kind, len(kindPriority))
	copy(out, kindPriority[:])
	return out
}

// facets is the named-boolean tuple shapes are dispatched on.
type facets struct {
	email   bool
	phone   bool
	address bool
}

// Facets reports which of email, phone and address the shape carries.
func (k Kind) Facets() (email, phone, address bool) {
	f := k.facets()
	return f.email, f.phone, f.address
}

func (k Kind) facets() facets {
	switch k {
	case KindFull:
		return facets{email: true, phone: true, address: true}
	case KindEmailAndPhone:
		return facets{email: true, phone: true}
	case KindEmailAndAddress:
		return facets{email: true, address: true}
	case KindPhoneAndAddress:
		return facets{phone: true, address: true}
	case KindEmail:
		return facets{email: true}
	case KindPhone:
		return facets{phone: true}
	case KindAddress:
		return facets{address: true}
	default:
		return facets{}
	}
}

// kindOf maps a facet tuple onto its shape. The empty tuple has no shape.
func kindOf(f facets) (Kind, bool) {
	switch f {
	case facets{email: true, phone: true, address: true}:
		return KindFull, true
	case facets{email: true, phone: true, address: false}:
		return KindEmailAndPhone, true
	case facets{email: true, phone: false, address: true}:
		return KindEmailAndAddress, true
	case facets{email: false, phone: true, address: true}:
		return KindPhoneAndAddress, true
	case facets{email: true, phone: false, address: false}:
		return KindEmail, true
	case facets{email: false, phone: true, address: false}:
		return KindPhone, true
	case facets{email: false, phone: false, address: true}:
		return KindAddress, true
	default:
		return 0, false
	}
}

// Valid reports whether k is one of the seven shapes.
func (k Kind) Valid() bool {
	return k >= KindFull && k <= KindAddress
}

func (k Kind) String() string {
	switch k {
	case KindFull:
		return "full"
	case KindEmailAndPhone:
		return "email_and_phone"
	case KindEmailAndAddress:
		return "email_and_address"
	case KindPhoneAndAddress:
		return "phone_and_address"
	case KindEmail:
		return "email"
	case KindPhone:
		return "phone"
	case KindAddress:
		return "address"
	default:
		return "invalid"
	}
}
