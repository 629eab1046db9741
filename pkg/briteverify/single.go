package briteverify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"briteverify/pkg/verification"
)

// MismatchedResponseError reports a real-time response that lacks the facet the
// caller asked for.
type MismatchedResponseError struct {
	Want     string
	Response verification.VerificationResponse
}

func (e *MismatchedResponseError) Error() string {
	return fmt.Sprintf("%v: wanted %s, got %s response", ErrMismatchedResponse, e.Want, e.Response.Kind())
}

func (e *MismatchedResponseError) Is(target error) bool {
	return target == ErrMismatchedResponse
}

// FullVerify submits one real-time verification of any request shape.
func (c *Client) FullVerify(ctx context.Context, req verification.VerificationRequest) (verification.VerificationResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("full verify: %w", verification.ErrUnbuildableRequest)
	}

	var out verification.VerificationResponse
	err := c.do(ctx, opFullVerify, http.MethodPost, endpoint(c.v1BaseURL, "fullverify"), req,
		func(resp *http.Response) error {
			if resp.StatusCode != http.StatusOK {
				return unexpectedStatus(opFullVerify, resp)
			}
			data, err := io.ReadAll(resp.Body)
			if err != nil {
				return NewClientError(ErrorProviderOutage, opFullVerify, resp.StatusCode, "read response body", err)
			}
			out, err = verification.DecodeResponse(data)
			if err != nil {
				return NewClientError(ErrorBadData, opFullVerify, resp.StatusCode, "decode verification response", err)
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// VerifyContact builds a request from loose values and verifies it. Any buildable
// subset of email, phone and address is accepted.
func (c *Client) VerifyContact(ctx context.Context, values verification.Values) (verification.VerificationResponse, error) {
	req, err := verification.FromValues(values)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return c.FullVerify(ctx, req)
}

// VerifyValue resolves an untyped value (an email, a phone number or a JSON
// request body) and verifies it.
func (c *Client) VerifyValue(ctx context.Context, value string) (verification.VerificationResponse, error) {
	req, err := verification.ParseRequest(value)
	if err != nil {
		return nil, fmt.Errorf("resolve value: %w", err)
	}
	return c.FullVerify(ctx, req)
}

func (c *Client) VerifyEmail(ctx context.Context, email string) (verification.EmailVerification, error) {
	resp, err := c.VerifyContact(ctx, verification.Values{Email: email})
	if err != nil {
		return verification.EmailVerification{}, err
	}
	result, ok := verification.EmailResultOf(resp)
	if !ok {
		return verification.EmailVerification{}, &MismatchedResponseError{Want: "email", Response: resp}
	}
	return result, nil
}

func (c *Client) VerifyPhoneNumber(ctx context.Context, phone string) (verification.PhoneVerification, error) {
	resp, err := c.VerifyContact(ctx, verification.Values{Phone: phone})
	if err != nil {
		return verification.PhoneVerification{}, err
	}
	result, ok := verification.PhoneResultOf(resp)
	if !ok {
		return verification.PhoneVerification{}, &MismatchedResponseError{Want: "phone", Response: resp}
	}
	return result, nil
}

func (c *Client) VerifyStreetAddress(ctx context.Context, address verification.StreetAddress) (verification.AddressVerification, error) {
	req, err := verification.NewRequestBuilder().Address(address).Build()
	if err != nil {
		return verification.AddressVerification{}, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.FullVerify(ctx, req)
	if err != nil {
		return verification.AddressVerification{}, err
	}
	result, ok := verification.AddressResultOf(resp)
	if !ok {
		return verification.AddressVerification{}, &MismatchedResponseError{Want: "address", Response: resp}
	}
	return result, nil
}

// IsMismatched reports whether err is a MismatchedResponseError.
func IsMismatched(err error) bool {
	return errors.Is(err, ErrMismatchedResponse)
}
