package e2e

import (
	"github.com/cucumber/godog"

	"briteverify/e2e/steps/common"
	"briteverify/e2e/steps/lists"
	"briteverify/e2e/steps/verify"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (fake API setup, call outcome assertions)
	common.RegisterSteps(ctx, tc)

	// Register real-time verification steps
	verify.RegisterSteps(ctx, tc)

	// Register bulk list steps
	lists.RegisterSteps(ctx, tc)
}
