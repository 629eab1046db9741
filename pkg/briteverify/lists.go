package briteverify

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"briteverify/pkg/verification"
)

const declinedUnknownState = "to request lists using 'unknown' as list state filter"

// ListFilter narrows GetFilteredLists. Zero fields are not sent.
type ListFilter struct {
	Page       uint32
	Date       time.Time
	State      verification.BatchState
	ExternalID string
}

func (f ListFilter) query() url.Values {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.FormatUint(uint64(f.Page), 10))
	}
	if !f.Date.IsZero() {
		q.Set("date", f.Date.Format(time.DateOnly))
	}
	if f.State != "" && !f.State.IsUnknown() {
		q.Set("state", f.State.String())
	}
	return q
}

// accountBase scopes a v3 path to an external account when one is given.
func (c *Client) accountBase(externalID string) *url.URL {
	if externalID == "" {
		return c.v3BaseURL
	}
	return endpoint(c.v3BaseURL, "accounts", externalID)
}

// GetLists fetches the first page of bulk lists.
func (c *Client) GetLists(ctx context.Context) (verification.GetListStatesResponse, error) {
	return c.GetFilteredLists(ctx, ListFilter{})
}

// GetFilteredLists fetches bulk lists matching filter. An unknown state filter is
// dropped rather than sent.
func (c *Client) GetFilteredLists(ctx context.Context, filter ListFilter) (verification.GetListStatesResponse, error) {
	if filter.State != "" && filter.State.IsUnknown() {
		c.logger.WarnContext(ctx, "declining to include unknown list state as request filter",
			"state", string(filter.State))
	}

	u := endpoint(c.accountBase(filter.ExternalID), "lists")
	u.RawQuery = filter.query().Encode()

	var out verification.GetListStatesResponse
	err := c.do(ctx, opGetLists, http.MethodGet, u, nil, func(resp *http.Response) error {
		if resp.StatusCode != http.StatusOK {
			return unexpectedStatus(opGetLists, resp)
		}
		var err error
		out, err = decodeBody[verification.GetListStatesResponse](opGetLists, resp)
		return err
	})
	return out, err
}

func (c *Client) GetListsByDate(ctx context.Context, date time.Time) (verification.GetListStatesResponse, error) {
	return c.GetFilteredLists(ctx, ListFilter{Date: date})
}

func (c *Client) GetListsByPage(ctx context.Context, page uint32) (verification.GetListStatesResponse, error) {
	return c.GetFilteredLists(ctx, ListFilter{Page: page})
}

// GetListsByState fetches lists in state. An unknown state is declined locally
// without calling the API.
func (c *Client) GetListsByState(ctx context.Context, state verification.BatchState) (verification.GetListStatesResponse, error) {
	if state.IsUnknown() {
		c.logger.WarnContext(ctx, "Declining "+declinedUnknownState)
		return verification.GetListStatesResponse{
			Message: verification.OptionalString("Declined " + declinedUnknownState),
			Lists:   []verification.VerificationListState{},
		}, nil
	}
	return c.GetFilteredLists(ctx, ListFilter{State: state})
}

// GetListByID fetches the state of one bulk list.
func (c *Client) GetListByID(ctx context.Context, listID string) (verification.VerificationListState, error) {
	return c.getListState(ctx, listID, "")
}

// GetListByExternalID fetches the state of a list owned by an external account.
func (c *Client) GetListByExternalID(ctx context.Context, listID, externalID string) (verification.VerificationListState, error) {
	return c.getListState(ctx, listID, externalID)
}

func (c *Client) getListState(ctx context.Context, listID, externalID string) (verification.VerificationListState, error) {
	u := endpoint(c.accountBase(externalID), "lists", listID)

	var out verification.VerificationListState
	err := c.do(ctx, opGetList, http.MethodGet, u, nil, func(resp *http.Response) error {
		switch resp.StatusCode {
		case http.StatusOK:
			var err error
			out, err = decodeBody[verification.VerificationListState](opGetList, resp)
			return err
		case http.StatusNotFound:
			return listNotFound(opGetList, listID, resp)
		default:
			return unexpectedStatus(opGetList, resp)
		}
	})
	return out, err
}

// CreateList opens a new bulk list. A list created without contacts is never
// started, whatever autoStart says.
func (c *Client) CreateList(ctx context.Context, contacts []verification.VerificationRequest, autoStart bool) (verification.CreateListResponse, error) {
	directive := verification.DirectiveFromBool(autoStart)
	if len(contacts) == 0 {
		directive = verification.DirectiveUnknown
	}
	return c.createOrUpdateList(ctx, opCreateList, "", contacts, directive)
}

// UpdateList appends contacts to an existing list.
func (c *Client) UpdateList(ctx context.Context, listID string, contacts []verification.VerificationRequest, autoStart bool) (verification.UpdateListResponse, error) {
	return c.createOrUpdateList(ctx, opUpdateList, listID, contacts, verification.DirectiveFromBool(autoStart))
}

// TerminateListByID stops processing of a list.
func (c *Client) TerminateListByID(ctx context.Context, listID string) (verification.UpdateListResponse, error) {
	return c.createOrUpdateList(ctx, opUpdateList, listID, nil, verification.DirectiveTerminate)
}

// QueueListForProcessing starts verification of a list's contacts.
func (c *Client) QueueListForProcessing(ctx context.Context, listID string) (verification.UpdateListResponse, error) {
	return c.createOrUpdateList(ctx, opUpdateList, listID, nil, verification.DirectiveStart)
}

func (c *Client) createOrUpdateList(
	ctx context.Context,
	op string,
	listID string,
	contacts []verification.VerificationRequest,
	directive verification.BulkListDirective,
) (verification.BulkListCRUDResponse, error) {
	u := endpoint(c.v3BaseURL, "lists")
	if listID != "" {
		u = endpoint(c.v3BaseURL, "lists", listID)
	}
	body := verification.NewBulkVerificationRequest(directive, contacts...)

	var out verification.BulkListCRUDResponse
	err := c.do(ctx, op, http.MethodPost, u, body, func(resp *http.Response) error {
		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated:
			var err error
			out, err = decodeBody[verification.BulkListCRUDResponse](op, resp)
			return err
		case http.StatusNotFound, http.StatusBadRequest:
			return listNotFound(op, listID, resp)
		default:
			return unexpectedStatus(op, resp)
		}
	})
	return out, err
}

// DeleteListByID deletes a list. A 204 carries no body, so the response is
// synthesized from the list id.
func (c *Client) DeleteListByID(ctx context.Context, listID string) (verification.DeleteListResponse, error) {
	u := endpoint(c.v3BaseURL, "lists", listID)

	var out verification.DeleteListResponse
	err := c.do(ctx, opDeleteList, http.MethodDelete, u, nil, func(resp *http.Response) error {
		switch resp.StatusCode {
		case http.StatusNoContent:
			out = verification.DeleteListResponse{
				Status: verification.BatchSuccess,
				List:   verification.VerificationListState{ID: listID, State: verification.BatchDeleted},
			}
			return nil
		case http.StatusOK, http.StatusAccepted:
			var err error
			out, err = decodeBody[verification.DeleteListResponse](opDeleteList, resp)
			return err
		case http.StatusNotFound:
			return listNotFound(opDeleteList, listID, resp)
		default:
			return unexpectedStatus(opDeleteList, resp)
		}
	})
	return out, err
}
