package verification_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"briteverify/pkg/verification"
)

type ResponseSuite struct {
	suite.Suite
}

func TestResponseSuite(t *testing.T) {
	suite.Run(t, new(ResponseSuite))
}

func (s *ResponseSuite) decode(name string) verification.VerificationResponse {
	resp, err := verification.DecodeResponse(fixture(s.T(), name))
	s.Require().NoError(err, name)
	return resp
}

func (s *ResponseSuite) TestShapeSelection() {
	tests := []struct {
		file string
		want verification.Kind
	}{
		{"email_valid_response.json", verification.KindEmail},
		{"email_invalid_response.json", verification.KindEmail},
		{"email_disposable_response.json", verification.KindEmail},
		{"phone_valid_response.json", verification.KindPhone},
		{"phone_invalid_response.json", verification.KindPhone},
		{"address_valid_response.json", verification.KindAddress},
		{"address_missing_suite_response.json", verification.KindAddress},
		{"full_valid_response.json", verification.KindFull},
		{"full_invalid_response.json", verification.KindFull},
	}
	for _, tt := range tests {
		s.Run(tt.file, func() {
			s.Equal(tt.want, s.decode(tt.file).Kind())
		})
	}
}

func (s *ResponseSuite) TestEmailFacet() {
	resp, ok := s.decode("email_valid_response.json").(verification.EmailResponse)
	s.Require().True(ok)

	s.Equal("sales@validity.com", resp.Email.Address)
	s.Equal("sales", resp.Email.Account)
	s.Equal(verification.StatusValid, resp.Email.Status)
	s.True(resp.Email.RoleAddress)
	s.Nil(resp.Email.Connected)
	s.Nil(resp.Email.ErrorCode)
	s.InDelta(0.035602396, resp.Duration.Seconds(), 1e-9)
	s.Equal(35602396*time.Nanosecond, resp.ProcessingTime())

	s.Run("error code", func() {
		invalid := s.decode("email_invalid_response.json").(verification.EmailResponse)
		s.Require().NotNil(invalid.Email.ErrorCode)
		s.Equal(verification.ErrorEmailAccountInvalid, *invalid.Email.ErrorCode)
		msg, set := invalid.Email.Error.Get()
		s.True(set)
		s.Equal("Email account invalid", msg)
	})

	s.Run("accept all", func() {
		disposable := s.decode("email_disposable_response.json").(verification.EmailResponse)
		s.Equal(verification.StatusAcceptAll, disposable.Email.Status)
		s.True(disposable.Email.Disposable)
	})
}

func (s *ResponseSuite) TestPhoneFacet() {
	valid := s.decode("phone_valid_response.json").(verification.PhoneResponse)
	serviceType, set := valid.Phone.ServiceType.Get()
	s.True(set)
	s.Equal("land", serviceType)
	s.Empty(valid.Phone.ErrorCodes())

	invalid := s.decode("phone_invalid_response.json").(verification.PhoneResponse)
	s.False(invalid.Phone.ServiceType.IsSet())
	s.Equal(verification.StatusInvalid, invalid.Phone.Status)
	s.Equal([]verification.VerificationError{verification.ErrorInvalidPhoneNumber}, invalid.Phone.ErrorCodes())
}

func (s *ResponseSuite) TestAddressFacet() {
	resp := s.decode("address_missing_suite_response.json").(verification.AddressResponse)
	s.False(resp.Address.Address2.IsSet(), "a single space address2 is absent")
	s.True(bool(resp.Address.Corrected))
	s.Equal(verification.StatusInvalid, resp.Address.Status)
	s.Equal([]verification.VerificationError{verification.ErrorSuiteMissing}, resp.Address.ErrorCodes())
	s.Equal("4010 W Boy Scout Blvd", resp.Address.StreetAddress().Address1)
}

func (s *ResponseSuite) TestFullNarrowing() {
	full := s.decode("full_invalid_response.json").(verification.FullResponse)

	email := full.ToEmail()
	s.Equal(full.Email, email.Email)
	s.Equal(full.Duration, email.Duration)
	s.Equal(verification.ErrorEmailDomainInvalid, *email.Email.ErrorCode)

	s.Equal(full.Phone, full.ToPhone().Phone)
	s.Equal(full.Address, full.ToAddress().Address)

	got, ok := verification.EmailResultOf(full)
	s.True(ok)
	s.Equal(full.Email, got)

	_, ok = verification.PhoneResultOf(email)
	s.False(ok)
	_, ok = verification.AddressResultOf(email)
	s.False(ok)
}

func (s *ResponseSuite) TestPairNarrowing() {
	email := verification.EmailVerification{Address: "a@b.com", Status: verification.StatusValid}
	phone := verification.PhoneVerification{Number: "5551234567", Status: verification.StatusValid}
	address := verification.AddressVerification{Address1: "1 Main St", City: "Boston", State: "MA", Zip: "02115"}
	d, err := verification.NewDuration(0.5)
	s.Require().NoError(err)

	ep := verification.EmailAndPhoneResponse{Email: email, Phone: phone, Duration: d}
	s.Equal(email, ep.ToEmail().Email)
	s.Equal(phone, ep.ToPhone().Phone)

	ea := verification.EmailAndAddressResponse{Email: email, Address: address, Duration: d}
	s.Equal(email, ea.ToEmail().Email)
	s.Equal(address, ea.ToAddress().Address)

	pa := verification.PhoneAndAddressResponse{Phone: phone, Address: address, Duration: d}
	s.Equal(phone, pa.ToPhone().Phone)
	s.Equal(address, pa.ToAddress().Address)
	s.Equal(500*time.Millisecond, pa.ToAddress().ProcessingTime())
}

func (s *ResponseSuite) TestPriority() {
	s.Run("full payload never decodes as a leaner shape", func() {
		resp := s.decode("full_valid_response.json")
		_, isFull := resp.(verification.FullResponse)
		s.True(isFull)
	})

	s.Run("malformed phone falls through to email and address", func() {
		data := []byte(`{
			"email": {"address": "a@b.com", "account": "a", "domain": "b.com", "status": "valid"},
			"phone": {"status": "valid"},
			"address": {"address1": "1 Main St", "city": "Boston", "state": "MA", "zip": "02115", "status": "valid", "corrected": false},
			"duration": 0.1
		}`)
		resp, err := verification.DecodeResponse(data)
		s.Require().NoError(err)
		s.Equal(verification.KindEmailAndAddress, resp.Kind())
	})

	s.Run("missing duration matches nothing", func() {
		_, err := verification.DecodeResponse([]byte(`{"email": {"address": "a@b.com", "status": "valid"}}`))
		s.ErrorIs(err, verification.ErrNoMatchingShape)
	})

	s.Run("negative duration is rejected", func() {
		_, err := verification.DecodeResponse([]byte(`{"email": {"address": "a@b.com", "status": "valid"}, "duration": -1}`))
		s.Require().Error(err)
		s.ErrorIs(err, verification.ErrNoMatchingShape)
		s.Contains(err.Error(), verification.ErrInvalidDuration.Error())
	})
}

func (s *ResponseSuite) TestFormattingForwardsToFacets() {
	resp := s.decode("email_valid_response.json")
	s.Equal("sales@validity.com: valid", resp.String())
	s.NotContains(resp.String(), "email_")

	full := s.decode("full_valid_response.json")
	s.Contains(full.String(), "sales@validity.com: valid")
	s.Contains(full.String(), "18009618205: valid")
}

func (s *ResponseSuite) TestWrapperRoundTrip() {
	original := s.decode("full_valid_response.json")
	data, err := json.Marshal(verification.ResponseJSON{VerificationResponse: original})
	s.Require().NoError(err)

	var back verification.ResponseJSON
	s.Require().NoError(json.Unmarshal(data, &back))
	s.Equal(original, back.VerificationResponse)
}
