package verification_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"briteverify/pkg/verification"
)

func TestParseRequest(t *testing.T) {
	t.Run("at sign means email", func(t *testing.T) {
		req, err := verification.ParseRequest("a@b.com")
		require.NoError(t, err)
		assert.Equal(t, verification.EmailRequest{Email: "a@b.com"}, req)
	})

	t.Run("no period space or newline means phone", func(t *testing.T) {
		req, err := verification.ParseRequest("5551234567")
		require.NoError(t, err)
		assert.Equal(t, verification.PhoneRequest{Phone: "5551234567"}, req)
	})

	t.Run("spaces without at sign are ambiguous", func(t *testing.T) {
		value := "not a phone, not an email"
		_, err := verification.ParseRequest(value)
		require.ErrorIs(t, err, verification.ErrAmbiguousValue)

		var typeErr *verification.TypeError
		require.ErrorAs(t, err, &typeErr)
		assert.Equal(t, verification.AmbiguousTryFromValue, typeErr.Kind)
		assert.Equal(t, value, typeErr.Value)
		assert.Contains(t, err.Error(), value)
	})

	t.Run("dotted phone number is ambiguous", func(t *testing.T) {
		_, err := verification.ParseRequest("555.123.4567")
		assert.ErrorIs(t, err, verification.ErrAmbiguousValue)
	})

	t.Run("bare word is taken as a phone number", func(t *testing.T) {
		req, err := verification.ParseRequest("hello")
		require.NoError(t, err)
		assert.Equal(t, verification.KindPhone, req.Kind())
	})

	t.Run("newline is ambiguous", func(t *testing.T) {
		_, err := verification.ParseRequest("555\n1234")
		assert.ErrorIs(t, err, verification.ErrAmbiguousValue)
	})

	t.Run("empty value is taken as a phone number", func(t *testing.T) {
		req, err := verification.ParseRequest("")
		require.NoError(t, err)
		assert.Equal(t, verification.PhoneRequest{Phone: ""}, req)
	})

	t.Run("spaces alone are ambiguous", func(t *testing.T) {
		_, err := verification.ParseRequest("   ")
		assert.ErrorIs(t, err, verification.ErrAmbiguousValue)
	})

	t.Run("JSON object decodes as a request", func(t *testing.T) {
		req, err := verification.ParseRequest(`{"email":"sales@validity.com","phone":"18009618205"}`)
		require.NoError(t, err)
		assert.Equal(t, verification.EmailAndPhoneRequest{Email: "sales@validity.com", Phone: "18009618205"}, req)
	})
}

// FuzzParseRequest checks the resolver never panics and returns either a valid
// request or an error, never both.
func FuzzParseRequest(f *testing.F) {
	f.Add("a@b.com")
	f.Add("5551234567")
	f.Add("555.123.4567")
	f.Add("")
	f.Add(`{"email":"x@y.z"}`)
	f.Add(`{"address":{}}`)
	f.Add("{")

	f.Fuzz(func(t *testing.T, input string) {
		req, err := verification.ParseRequest(input)
		if err != nil {
			if req != nil {
				t.Errorf("got both a request and an error for %q", input)
			}
			return
		}
		if !req.Kind().Valid() {
			t.Errorf("invalid kind %v for %q", req.Kind(), input)
		}
	})
}
