// Package verification models the request and response shapes of the BriteVerify
// real-time and bulk verification APIs.
//
// A verification request carries any non-empty combination of three facets: an email
// address, a phone number and a street address. Each combination is its own type
// (FullRequest, EmailAndPhoneRequest, ..., AddressRequest) behind the sealed
// VerificationRequest interface, and responses mirror the same seven shapes.
//
// The wire format is untagged: the shape of a payload is inferred from which keys it
// carries. Decoding therefore walks the shapes from most to least complete (see Kinds)
// and returns the first one whose keys are present and whose fields decode cleanly.
// A payload carrying email, phone and address always decodes as Full, never as one of
// the leaner shapes it also satisfies.
//
// Domain Purity: nothing in this package performs I/O, blocks, or reads the clock.
// Every value is immutable once built and safe to share between goroutines.
package verification
