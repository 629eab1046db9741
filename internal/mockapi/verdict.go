package mockapi

import (
	"strings"
	"time"
	"unicode"

	"briteverify/pkg/verification"
)

var roleAccounts = map[string]bool{
	"admin": true, "info": true, "sales": true, "support": true, "billing": true, "contact": true,
}

var disposableDomains = map[string]bool{
	"mailinator.com": true, "guerrillamail.com": true, "10minutemail.com": true, "yopmail.com": true,
}

// verifyEmail derives a verdict from the address alone: an account or domain
// containing "invalid" fails, a disposable domain is accept_all.
func verifyEmail(address string) verification.EmailVerification {
	account, domain, _ := strings.Cut(address, "@")
	result := verification.EmailVerification{
		Address:     address,
		Account:     account,
		Domain:      domain,
		Status:      verification.StatusValid,
		Disposable:  disposableDomains[strings.ToLower(domain)],
		RoleAddress: roleAccounts[strings.ToLower(account)],
	}

	fail := func(code verification.VerificationError, msg string) {
		result.Status = verification.StatusInvalid
		result.ErrorCode = &code
		result.Error = verification.OptionalString(msg)
	}
	switch {
	case account == "" || domain == "" || !strings.Contains(domain, "."):
		fail(verification.ErrorEmailAddressInvalid, "Email address invalid")
	case strings.Contains(strings.ToLower(domain), "invalid"):
		fail(verification.ErrorEmailDomainInvalid, "Email domain invalid")
	case strings.Contains(strings.ToLower(account), "invalid"):
		fail(verification.ErrorEmailAccountInvalid, "Email account invalid")
	case result.Disposable:
		result.Status = verification.StatusAcceptAll
	}
	return result
}

// verifyPhone accepts ten digit numbers, optionally with a leading 1.
func verifyPhone(number string) verification.PhoneVerification {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, number)

	result := verification.PhoneVerification{
		Number: digits,
		Status: verification.StatusValid,
		Errors: []any{},
	}
	switch {
	case digits == "":
		result.Status = verification.StatusInvalid
		result.Errors = []any{string(verification.ErrorBlankPhoneNumber)}
	case len(digits) == 10 || (len(digits) == 11 && digits[0] == '1'):
		result.ServiceType = "land"
		if strings.HasPrefix(strings.TrimPrefix(digits, "1"), "555") {
			result.ServiceType = "mobile"
		}
	default:
		result.Status = verification.StatusInvalid
		result.Errors = []any{string(verification.ErrorInvalidPhoneNumber)}
	}
	return result
}

// verifyAddress requires a five digit zip and a street number.
func verifyAddress(a verification.StreetAddress) verification.AddressVerification {
	result := verification.AddressVerification{
		Address1: a.Address1,
		Address2: a.Address2,
		City:     a.City,
		State:    strings.ToUpper(a.State),
		Zip:      a.Zip,
		Status:   verification.StatusValid,
		Errors:   []any{},
	}
	if result.State != a.State {
		result.Corrected = true
	}
	switch {
	case len(a.Zip) < 5 || strings.IndexFunc(a.Zip[:5], func(r rune) bool { return !unicode.IsDigit(r) }) >= 0:
		result.Status = verification.StatusInvalid
		result.Errors = []any{string(verification.ErrorZipCodeInvalid)}
	case a.Address1 == "" || !unicode.IsDigit(rune(a.Address1[0])):
		result.Status = verification.StatusInvalid
		result.Errors = []any{string(verification.ErrorStreetNumberMissing)}
	}
	return result
}

// respond builds the response variant matching the request's shape.
func respond(req verification.VerificationRequest, took time.Duration) verification.VerificationResponse {
	d := verification.Duration(took)
	switch r := req.(type) {
	case verification.FullRequest:
		return verification.FullResponse{
			Email:    verifyEmail(r.Email),
			Phone:    verifyPhone(r.Phone),
			Address:  verifyAddress(r.Address),
			Duration: d,
		}
	case verification.EmailAndPhoneRequest:
		return verification.EmailAndPhoneResponse{Email: verifyEmail(r.Email), Phone: verifyPhone(r.Phone), Duration: d}
	case verification.EmailAndAddressRequest:
		return verification.EmailAndAddressResponse{Email: verifyEmail(r.Email), Address: verifyAddress(r.Address), Duration: d}
	case verification.PhoneAndAddressRequest:
		return verification.PhoneAndAddressResponse{Phone: verifyPhone(r.Phone), Address: verifyAddress(r.Address), Duration: d}
	case verification.EmailRequest:
		return verification.EmailResponse{Email: verifyEmail(r.Email), Duration: d}
	case verification.PhoneRequest:
		return verification.PhoneResponse{Phone: verifyPhone(r.Phone), Duration: d}
	case verification.AddressRequest:
		return verification.AddressResponse{Address: verifyAddress(r.Address), Duration: d}
	default:
		return nil
	}
}

// bulkResult renders a contact the way the export endpoint does: an email-only
// contact becomes a bare email record, anything else a contact record.
func bulkResult(req verification.VerificationRequest) verification.BulkVerificationResult {
	if r, ok := req.(verification.EmailRequest); ok {
		v := verifyEmail(r.Email)
		return verification.BulkEmailResult{Email: v.Address, Status: v.Status, SecondaryStatus: secondaryStatus(v)}
	}

	var out verification.BulkContactResult
	if email, ok := verification.EmailOf(req); ok {
		v := verifyEmail(email)
		out.Email = &verification.BulkEmailResult{Email: v.Address, Status: v.Status, SecondaryStatus: secondaryStatus(v)}
	}
	if phone, ok := verification.PhoneOf(req); ok {
		v := verifyPhone(phone)
		out.Phone = &verification.BulkPhoneResult{
			Phone:       v.Number,
			Status:      v.Status,
			ServiceType: v.ServiceType,
		}
	}
	if address, ok := verification.AddressOf(req); ok {
		v := verifyAddress(address)
		out.Address = &v
	}
	return out
}

func secondaryStatus(v verification.EmailVerification) verification.OptionalString {
	if v.ErrorCode == nil {
		return ""
	}
	return verification.OptionalString(*v.ErrorCode)
}
