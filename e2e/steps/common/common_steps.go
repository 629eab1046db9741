package common

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"briteverify/pkg/briteverify"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	StartAPI(rateLimitEvery int) error
	UseAPIKey(apiKey string) error
	LastError() error
}

// RegisterSteps registers fake API setup and call outcome steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^a running BriteVerify API$`, steps.runningAPI)
	ctx.Step(`^a BriteVerify API that rate limits every (\d+)(?:st|nd|rd|th) request$`, steps.rateLimitedAPI)
	ctx.Step(`^the client uses the API key "([^"]*)"$`, tc.UseAPIKey)

	ctx.Step(`^the call should succeed$`, steps.callShouldSucceed)
	ctx.Step(`^the call should fail with category "([^"]*)"$`, steps.callShouldFailWith)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) runningAPI(ctx context.Context) error {
	return s.tc.StartAPI(0)
}

func (s *commonSteps) rateLimitedAPI(ctx context.Context, every int) error {
	return s.tc.StartAPI(every)
}

func (s *commonSteps) callShouldSucceed(ctx context.Context) error {
	if err := s.tc.LastError(); err != nil {
		return fmt.Errorf("expected success, got %w", err)
	}
	return nil
}

func (s *commonSteps) callShouldFailWith(ctx context.Context, category string) error {
	err := s.tc.LastError()
	if err == nil {
		return fmt.Errorf("expected a %s failure, the call succeeded", category)
	}
	if got := briteverify.GetCategory(err); string(got) != category {
		return fmt.Errorf("expected category %s, got %s (%v)", category, got, err)
	}
	return nil
}
