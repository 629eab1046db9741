package lists

import (
	"context"
	"fmt"
	"slices"

	"github.com/cucumber/godog"

	"briteverify/pkg/briteverify"
	"briteverify/pkg/verification"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Client() *briteverify.Client
	RecordError(err error)
	RememberList(name, id string)
	ListID(name string) (string, error)
}

// RegisterSteps registers bulk list step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &listSteps{tc: tc}

	// List lifecycle
	ctx.Step(`^I create a list "([^"]*)" with contacts:$`, steps.createList)
	ctx.Step(`^I create and start a list "([^"]*)" with contacts:$`, steps.createAndStartList)
	ctx.Step(`^I start list "([^"]*)"$`, steps.startList)
	ctx.Step(`^I terminate list "([^"]*)"$`, steps.terminateList)
	ctx.Step(`^I delete list "([^"]*)"$`, steps.deleteList)
	ctx.Step(`^I fetch the results of list "([^"]*)"$`, steps.fetchResults)
	ctx.Step(`^I fetch list "([^"]*)"$`, steps.fetchList)

	// Assertions
	ctx.Step(`^list "([^"]*)" should be "([^"]*)"$`, steps.listShouldBe)
	ctx.Step(`^the completed lists should include "([^"]*)"$`, steps.completedListsShouldInclude)
	ctx.Step(`^I should get (\d+) results$`, steps.shouldGetResults)
	ctx.Step(`^the results should include the email "([^"]*)"$`, steps.resultsShouldIncludeEmail)
}

type listSteps struct {
	tc      TestContext
	results []verification.BulkVerificationResult
}

func contactsFrom(table *godog.Table) ([]verification.VerificationRequest, error) {
	var contacts []verification.VerificationRequest
	for i, row := range table.Rows {
		if i == 0 || len(row.Cells) == 0 {
			continue // header
		}
		req, err := verification.ParseRequest(row.Cells[0].Value)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, req)
	}
	return contacts, nil
}

func (s *listSteps) create(ctx context.Context, name string, table *godog.Table, start bool) error {
	contacts, err := contactsFrom(table)
	if err != nil {
		return err
	}
	resp, err := s.tc.Client().CreateList(ctx, contacts, start)
	s.tc.RecordError(err)
	if err == nil {
		s.tc.RememberList(name, resp.List.ID)
	}
	return nil
}

func (s *listSteps) createList(ctx context.Context, name string, table *godog.Table) error {
	return s.create(ctx, name, table, false)
}

func (s *listSteps) createAndStartList(ctx context.Context, name string, table *godog.Table) error {
	return s.create(ctx, name, table, true)
}

// withList resolves name and records the outcome of fn.
func (s *listSteps) withList(name string, fn func(id string) error) error {
	id, err := s.tc.ListID(name)
	if err != nil {
		return err
	}
	s.tc.RecordError(fn(id))
	return nil
}

func (s *listSteps) startList(ctx context.Context, name string) error {
	return s.withList(name, func(id string) error {
		_, err := s.tc.Client().QueueListForProcessing(ctx, id)
		return err
	})
}

func (s *listSteps) terminateList(ctx context.Context, name string) error {
	return s.withList(name, func(id string) error {
		_, err := s.tc.Client().TerminateListByID(ctx, id)
		return err
	})
}

func (s *listSteps) deleteList(ctx context.Context, name string) error {
	return s.withList(name, func(id string) error {
		_, err := s.tc.Client().DeleteListByID(ctx, id)
		return err
	})
}

func (s *listSteps) fetchList(ctx context.Context, name string) error {
	return s.withList(name, func(id string) error {
		_, err := s.tc.Client().GetListByID(ctx, id)
		return err
	})
}

func (s *listSteps) fetchResults(ctx context.Context, name string) error {
	return s.withList(name, func(id string) error {
		results, err := s.tc.Client().GetResultsByListID(ctx, id)
		s.results = results
		return err
	})
}

func (s *listSteps) listShouldBe(ctx context.Context, name, state string) error {
	id, err := s.tc.ListID(name)
	if err != nil {
		return err
	}
	list, err := s.tc.Client().GetListByID(ctx, id)
	if err != nil {
		return err
	}
	if list.State.String() != state {
		return fmt.Errorf("expected list %s to be %s, got %s", name, state, list.State)
	}
	return nil
}

func (s *listSteps) completedListsShouldInclude(ctx context.Context, name string) error {
	id, err := s.tc.ListID(name)
	if err != nil {
		return err
	}
	page, err := s.tc.Client().GetListsByState(ctx, verification.BatchComplete)
	if err != nil {
		return err
	}
	if !slices.Contains(page.IDs(), id) {
		return fmt.Errorf("list %s is not among the completed lists %v", name, page.IDs())
	}
	return nil
}

func (s *listSteps) shouldGetResults(ctx context.Context, n int) error {
	if len(s.results) != n {
		return fmt.Errorf("expected %d results, got %d", n, len(s.results))
	}
	return nil
}

func (s *listSteps) resultsShouldIncludeEmail(ctx context.Context, email string) error {
	for _, r := range s.results {
		switch v := r.(type) {
		case verification.BulkEmailResult:
			if v.Email == email {
				return nil
			}
		case verification.BulkContactResult:
			if v.Email != nil && v.Email.Email == email {
				return nil
			}
		}
	}
	return fmt.Errorf("no result for %s", email)
}
