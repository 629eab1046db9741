package verification

import "strings"

// phoneDisqualifiers rule a bare value out as a phone number.
const phoneDisqualifiers = ". \n"

// ParseRequest classifies a single untyped value.
//
// A value that looks like a JSON object is decoded as a request first. Otherwise a
// value containing "@" is an email, and one containing none of period, space or
// newline is a phone number. Anything else is ambiguous.
//
// This is a heuristic, not validation: "555.123.4567" is rejected as ambiguous while a
// bare word such as "hello", and the empty string, are taken to be phone numbers.
func ParseRequest(value string) (VerificationRequest, error) {
	if strings.HasPrefix(strings.TrimSpace(value), "{") {
		if req, err := DecodeRequest([]byte(value)); err == nil {
			return req, nil
		}
	}
	if strings.Contains(value, "@") {
		return EmailRequest{Email: value}, nil
	}
	if !strings.ContainsAny(value, phoneDisqualifiers) {
		return PhoneRequest{Phone: value}, nil
	}
	return nil, ambiguous(value)
}
