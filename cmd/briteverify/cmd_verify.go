package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"briteverify/pkg/verification"
)

func (a *app) verifyCmd() *cobra.Command {
	var values verification.Values

	cmd := &cobra.Command{
		Use:   "verify [value]",
		Short: "Verify a single contact in real time",
		Long: `Verify a single contact against the real-time API.

A positional value is resolved on its own: a JSON request body, an email
address, a phone number or a one-line street address. Without one, the
contact is assembled from the field flags.`,
		Example: `  briteverify verify jane@example.com
  briteverify verify --email jane@example.com --phone 5555555555
  briteverify verify --address1 "123 Main St" --city Springfield --state IL --zip 62701`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}

			var resp verification.VerificationResponse
			if len(args) == 1 {
				resp, err = client.VerifyValue(cmd.Context(), args[0])
			} else {
				resp, err = client.VerifyContact(cmd.Context(), values)
			}
			if err != nil {
				return fmt.Errorf("verify: %w", err)
			}
			return a.render(resp)
		},
	}

	f := cmd.Flags()
	f.StringVar(&values.Email, "email", "", "email address")
	f.StringVar(&values.Phone, "phone", "", "phone number")
	f.StringVar(&values.Address1, "address1", "", "street address, first line")
	f.StringVar(&values.Address2, "address2", "", "street address, second line")
	f.StringVar(&values.City, "city", "", "city")
	f.StringVar(&values.State, "state", "", "state")
	f.StringVar(&values.Zip, "zip", "", "zip code")
	return cmd
}

func (a *app) balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the account's credit balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			balance, err := client.GetAccountBalance(cmd.Context())
			if err != nil {
				return fmt.Errorf("get balance: %w", err)
			}
			return a.render(balance)
		},
	}
}
