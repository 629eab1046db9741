package e2e

import (
	"context"
	"testing"

	"github.com/cucumber/godog"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "briteverify",
		ScenarioInitializer: initializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			Strict:   true,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func initializeScenario(sc *godog.ScenarioContext) {
	tc := NewTestContext()
	sc.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		tc.Close()
		return ctx, nil
	})
	RegisterSteps(sc, tc)
}
