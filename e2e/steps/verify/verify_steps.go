package verify

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"briteverify/pkg/briteverify"
	"briteverify/pkg/verification"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Client() *briteverify.Client
	RecordError(err error)
}

// RegisterSteps registers real-time verification step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &verifySteps{tc: tc}

	ctx.Step(`^I verify "([^"]*)"$`, steps.verifyValue)
	ctx.Step(`^I verify the address "([^"]*)", "([^"]*)", "([^"]*)" "([^"]*)"$`, steps.verifyAddress)
	ctx.Step(`^I check the account balance$`, steps.checkBalance)

	ctx.Step(`^the email status should be "([^"]*)"$`, steps.emailStatusShouldBe)
	ctx.Step(`^the phone service type should be "([^"]*)"$`, steps.phoneServiceTypeShouldBe)
	ctx.Step(`^the address status should be "([^"]*)"$`, steps.addressStatusShouldBe)
	ctx.Step(`^the balance should show (\d+) credits and (\d+) in reserve$`, steps.balanceShouldShow)
}

type verifySteps struct {
	tc       TestContext
	response verification.VerificationResponse
	balance  verification.AccountCreditBalance
}

func (s *verifySteps) verifyValue(ctx context.Context, value string) error {
	resp, err := s.tc.Client().VerifyValue(ctx, value)
	s.response = resp
	s.tc.RecordError(err)
	return nil
}

func (s *verifySteps) verifyAddress(ctx context.Context, street, city, state, zip string) error {
	resp, err := s.tc.Client().VerifyContact(ctx, verification.Values{
		Address1: street,
		City:     city,
		State:    state,
		Zip:      zip,
	})
	s.response = resp
	s.tc.RecordError(err)
	return nil
}

func (s *verifySteps) checkBalance(ctx context.Context) error {
	balance, err := s.tc.Client().GetAccountBalance(ctx)
	s.balance = balance
	s.tc.RecordError(err)
	return nil
}

func (s *verifySteps) emailStatusShouldBe(ctx context.Context, status string) error {
	var got verification.EmailVerification
	switch r := s.response.(type) {
	case verification.EmailResponse:
		got = r.Email
	case verification.EmailAndPhoneResponse:
		got = r.Email
	default:
		return fmt.Errorf("expected an email response, got %T", s.response)
	}
	if got.Status.String() != status {
		return fmt.Errorf("expected email status %s, got %s", status, got.Status)
	}
	return nil
}

func (s *verifySteps) phoneServiceTypeShouldBe(ctx context.Context, serviceType string) error {
	r, ok := s.response.(verification.PhoneResponse)
	if !ok {
		return fmt.Errorf("expected a phone response, got %T", s.response)
	}
	if string(r.Phone.ServiceType) != serviceType {
		return fmt.Errorf("expected service type %s, got %s", serviceType, r.Phone.ServiceType)
	}
	return nil
}

func (s *verifySteps) addressStatusShouldBe(ctx context.Context, status string) error {
	r, ok := s.response.(verification.AddressResponse)
	if !ok {
		return fmt.Errorf("expected an address response, got %T", s.response)
	}
	if r.Address.Status.String() != status {
		return fmt.Errorf("expected address status %s, got %s", status, r.Address.Status)
	}
	return nil
}

func (s *verifySteps) balanceShouldShow(ctx context.Context, credits, reserve int) error {
	if int(s.balance.Credits) != credits || int(s.balance.CreditsInReserve) != reserve {
		return fmt.Errorf("expected %d credits and %d in reserve, got %d and %d",
			credits, reserve, s.balance.Credits, s.balance.CreditsInReserve)
	}
	return nil
}
