package verification

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// BulkListCRUDError is an error record attached to a list or returned in place of one.
type BulkListCRUDError struct {
	ListID  OptionalString
	Status  BatchState
	Message OptionalString
}

type crudErrorWire struct {
	ListID  OptionalString `json:"list_id,omitempty"`
	Status  *BatchState    `json:"status,omitempty"`
	Code    *BatchState    `json:"code,omitempty"`
	Message OptionalString `json:"message,omitempty"`
}

func (e BulkListCRUDError) MarshalJSON() ([]byte, error) {
	wire := crudErrorWire{ListID: e.ListID, Message: e.Message}
	if !e.Status.IsUnknown() {
		s := e.Status
		wire.Status = &s
	}
	return json.Marshal(wire)
}

func (e *BulkListCRUDError) UnmarshalJSON(data []byte) error {
	var wire crudErrorWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	e.ListID = wire.ListID
	e.Message = wire.Message
	e.Status = firstState(wire.Status, wire.Code)
	return nil
}

func (e BulkListCRUDError) Error() string {
	msg, _ := e.Message.Get()
	if msg == "" {
		return "bulk list error: " + e.Status.String()
	}
	return "bulk list error: " + e.Status.String() + ": " + msg
}

func firstState(states ...*BatchState) BatchState {
	for _, s := range states {
		if s != nil {
			return *s
		}
	}
	return BatchUnknown
}

// VerificationListState describes a bulk list and its progress.
type VerificationListState struct {
	ID                  string              `json:"id"`
	ExternalID          ExternalID          `json:"external_id,omitempty"`
	State               BatchState          `json:"state"`
	Progress            uint64              `json:"progress"`
	TotalVerified       uint64              `json:"total_verified"`
	PageCount           *uint64             `json:"page_count,omitempty"`
	TotalVerifiedEmails uint64              `json:"total_verified_emails"`
	TotalVerifiedPhones uint64              `json:"total_verified_phones"`
	CreatedAt           Timestamp           `json:"created_at"`
	ResultsPath         OptionalString      `json:"results_path,omitempty"`
	ExpirationDate      Timestamp           `json:"expiration_date"`
	Errors              []BulkListCRUDError `json:"errors"`
}

func (s *VerificationListState) UnmarshalJSON(data []byte) error {
	type plain VerificationListState
	wire := struct {
		plain
		AccountExternalID *ExternalID `json:"account_external_id"`
		PageCount         *FlexCount  `json:"page_count"`
	}{plain: plain{State: BatchUnknown}}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*s = VerificationListState(wire.plain)
	if s.ExternalID == "" && wire.AccountExternalID != nil {
		s.ExternalID = *wire.AccountExternalID
	}
	s.PageCount = nil
	if wire.PageCount != nil {
		n := uint64(*wire.PageCount)
		s.PageCount = &n
	}
	if s.Errors == nil {
		s.Errors = []BulkListCRUDError{}
	}
	return nil
}

// IsTerminal reports whether the list has stopped changing.
func (s VerificationListState) IsTerminal() bool {
	return s.State.IsTerminal()
}

// ResultsURL parses ResultsPath. ok is false when the list has no results yet.
func (s VerificationListState) ResultsURL() (u *url.URL, ok bool) {
	path, set := s.ResultsPath.Get()
	if !set {
		return nil, false
	}
	parsed, err := url.Parse(strings.TrimSpace(path))
	if err != nil {
		return nil, false
	}
	return parsed, true
}

// Pages returns the page count, or 0 when the list has not finished.
func (s VerificationListState) Pages() uint64 {
	if s.PageCount == nil {
		return 0
	}
	return *s.PageCount
}

// Expired reports whether the list's results are no longer retrievable at now.
func (s VerificationListState) Expired(now time.Time) bool {
	return !s.ExpirationDate.IsZero() && now.After(s.ExpirationDate.Time)
}

// GetListStatesResponse is a page of list states.
type GetListStatesResponse struct {
	Message OptionalString          `json:"message,omitempty"`
	Lists   []VerificationListState `json:"lists"`
}

// IDs returns the ids of every list on the page.
func (r GetListStatesResponse) IDs() []string {
	ids := make([]string, 0, len(r.Lists))
	for _, l := range r.Lists {
		ids = append(ids, l.ID)
	}
	return ids
}

// pages reads "Page X of Y" from Message, defaulting either number to 1.
func (r GetListStatesResponse) pages() (current, total uint64) {
	current, total = 1, 1
	var found []uint64
	for _, word := range strings.Fields(string(r.Message)) {
		if n, err := strconv.ParseUint(word, 10, 64); err == nil {
			found = append(found, n)
		}
	}
	if len(found) > 0 {
		current = found[0]
	}
	if len(found) > 1 {
		total = found[1]
	}
	return current, total
}

func (r GetListStatesResponse) CurrentPage() uint64 {
	current, _ := r.pages()
	return current
}

func (r GetListStatesResponse) TotalPages() uint64 {
	_, total := r.pages()
	return total
}

// ListByID finds a list on the page by id.
func (r GetListStatesResponse) ListByID(id string) (VerificationListState, bool) {
	for _, l := range r.Lists {
		if l.ID == id {
			return l, true
		}
	}
	return VerificationListState{}, false
}

// BulkListCRUDResponse answers a create, update or delete of a bulk list.
type BulkListCRUDResponse struct {
	Status  BatchState            `json:"status"`
	Message string                `json:"message"`
	List    VerificationListState `json:"list"`
}

func (r *BulkListCRUDResponse) UnmarshalJSON(data []byte) error {
	if err := requireKeys(data, "list"); err != nil {
		return err
	}
	type plain BulkListCRUDResponse
	wire := struct {
		plain
		Status *BatchState `json:"status"`
		Code   *BatchState `json:"code"`
	}{}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*r = BulkListCRUDResponse(wire.plain)
	r.Status = firstState(wire.Status, wire.Code)
	return nil
}

type (
	CreateListResponse = BulkListCRUDResponse
	UpdateListResponse = BulkListCRUDResponse
	DeleteListResponse = BulkListCRUDResponse
)

// AccountCreditBalance is the account's verification credit balance.
type AccountCreditBalance struct {
	Credits          uint32     `json:"credits"`
	CreditsInReserve uint32     `json:"credits_in_reserve"`
	RecordedOn       RecordedAt `json:"recorded_on"`
}
