package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"briteverify/pkg/briteverify"
	platformstrings "briteverify/pkg/platform/strings"
	"briteverify/pkg/verification"
)

func (a *app) listsCmd() *cobra.Command {
	var (
		page       uint32
		date       string
		state      string
		externalID string
	)

	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Show bulk verification lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := briteverify.ListFilter{Page: page, ExternalID: externalID}
			if date != "" {
				d, err := time.Parse(time.DateOnly, date)
				if err != nil {
					return fmt.Errorf("--date must look like 2006-01-02: %w", err)
				}
				filter.Date = d
			}
			if state != "" {
				filter.State = verification.ParseBatchState(state)
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			lists, err := client.GetFilteredLists(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("get lists: %w", err)
			}
			return a.render(lists)
		},
	}

	f := cmd.Flags()
	f.Uint32Var(&page, "page", 0, "page of lists to fetch")
	f.StringVar(&date, "date", "", "only lists created on this date (YYYY-MM-DD)")
	f.StringVar(&state, "state", "", "only lists in this state")
	f.StringVar(&externalID, "external-id", "", "only lists of this external account")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	var externalID string

	cmd := &cobra.Command{
		Use:   "list <list-id>",
		Short: "Show the state of one bulk list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}

			var state verification.VerificationListState
			if externalID != "" {
				state, err = client.GetListByExternalID(cmd.Context(), args[0], externalID)
			} else {
				state, err = client.GetListByID(cmd.Context(), args[0])
			}
			if err != nil {
				return fmt.Errorf("get list: %w", err)
			}
			return a.render(state)
		},
	}
	cmd.Flags().StringVar(&externalID, "external-id", "", "external account the list belongs to")
	return cmd
}

func (a *app) createListCmd() *cobra.Command {
	var (
		contacts []string
		start    bool
	)

	cmd := &cobra.Command{
		Use:   "create-list",
		Short: "Create a bulk list from contacts",
		Example: `  briteverify create-list --contact jane@example.com --contact 5555555555 --start
  briteverify create-list --contact '{"email":"jane@example.com","phone":"5555555555"}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			contacts = platformstrings.DedupeAndTrim(contacts)
			requests := make([]verification.VerificationRequest, 0, len(contacts))
			for _, raw := range contacts {
				req, err := verification.ParseRequest(raw)
				if err != nil {
					return fmt.Errorf("contact %q: %w", raw, err)
				}
				requests = append(requests, req)
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			resp, err := client.CreateList(cmd.Context(), requests, start)
			if err != nil {
				return fmt.Errorf("create list: %w", err)
			}
			return a.render(resp)
		},
	}
	cmd.Flags().StringArrayVar(&contacts, "contact", nil, "contact to add; repeat for several, duplicates are sent once")
	cmd.Flags().BoolVar(&start, "start", false, "queue the list for processing once created")
	return cmd
}

func (a *app) terminateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "terminate <list-id>",
		Short: "Terminate a bulk list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			resp, err := client.TerminateListByID(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("terminate list: %w", err)
			}
			return a.render(resp)
		},
	}
}

func (a *app) startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <list-id>",
		Short: "Queue a bulk list for processing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			resp, err := client.QueueListForProcessing(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("start list: %w", err)
			}
			return a.render(resp)
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <list-id>",
		Short: "Delete a bulk list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			resp, err := client.DeleteListByID(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("delete list: %w", err)
			}
			return a.render(resp)
		},
	}
}
