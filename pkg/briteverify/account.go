package briteverify

import (
	"context"
	"net/http"

	"briteverify/pkg/verification"
)

// GetAccountBalance fetches the account's credit balance.
func (c *Client) GetAccountBalance(ctx context.Context) (verification.AccountCreditBalance, error) {
	var out verification.AccountCreditBalance
	err := c.do(ctx, opAccountCredit, http.MethodGet, endpoint(c.v3BaseURL, "accounts", "credits"), nil,
		func(resp *http.Response) error {
			if resp.StatusCode != http.StatusOK {
				return unexpectedStatus(opAccountCredit, resp)
			}
			var err error
			out, err = decodeBody[verification.AccountCreditBalance](opAccountCredit, resp)
			return err
		})
	return out, err
}

func (c *Client) CurrentCredits(ctx context.Context) (uint32, error) {
	balance, err := c.GetAccountBalance(ctx)
	if err != nil {
		return 0, err
	}
	return balance.Credits, nil
}

func (c *Client) CurrentCreditsInReserve(ctx context.Context) (uint32, error) {
	balance, err := c.GetAccountBalance(ctx)
	if err != nil {
		return 0, err
	}
	return balance.CreditsInReserve, nil
}
