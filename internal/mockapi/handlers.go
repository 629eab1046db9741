package mockapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"briteverify/pkg/platform/httputil"
	"briteverify/pkg/requestcontext"
	"briteverify/pkg/verification"
)

const maxBodyBytes = 10 << 20

func (s *Server) handleFullVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := requestcontext.Now(ctx)

	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "Unreadable request body")
		return
	}
	req, err := verification.DecodeRequest(data)
	if err != nil {
		s.logger.InfoContext(ctx, "rejected verification request",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "Request must carry an email, phone or address")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, respond(req, s.now().Sub(start)))
}

func (s *Server) handleCredits(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	balance := verification.AccountCreditBalance{
		Credits:          s.credits,
		CreditsInReserve: s.reserve,
		RecordedOn:       verification.RecordedAt{Time: requestcontext.Now(r.Context())},
	}
	s.mu.Unlock()
	httputil.WriteJSON(w, http.StatusOK, balance)
}

func (s *Server) handleGetLists(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	externalID := verification.ExternalID(chi.URLParam(r, "externalID"))

	page := 1
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httputil.WriteError(w, http.StatusBadRequest, "bad_request", "Invalid page")
			return
		}
		page = n
	}
	var date time.Time
	if raw := q.Get("date"); raw != "" {
		d, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "bad_request", "Invalid date")
			return
		}
		date = d
	}
	state := verification.BatchState("")
	if raw := q.Get("state"); raw != "" {
		state = verification.ParseBatchState(raw)
	}

	s.mu.Lock()
	matched := make([]verification.VerificationListState, 0, len(s.order))
	for _, id := range s.order {
		l := s.lists[id].state
		if externalID != "" && l.ExternalID != externalID {
			continue
		}
		if state != "" && l.State != state {
			continue
		}
		if !date.IsZero() && l.CreatedAt.UTC().Format(time.DateOnly) != date.Format(time.DateOnly) {
			continue
		}
		matched = append(matched, l)
	}
	s.mu.Unlock()

	totalPages := max(1, (len(matched)+listsPerPage-1)/listsPerPage)
	from := len(matched)
	if page <= totalPages {
		from = (page - 1) * listsPerPage
	}
	to := min(len(matched), from+listsPerPage)

	httputil.WriteJSON(w, http.StatusOK, verification.GetListStatesResponse{
		Message: verification.OptionalString(fmt.Sprintf("Page %d of %d", page, totalPages)),
		Lists:   matched[from:to],
	})
}

func (s *Server) handleGetList(w http.ResponseWriter, r *http.Request) {
	listID := chi.URLParam(r, "listID")
	externalID := verification.ExternalID(chi.URLParam(r, "externalID"))

	s.mu.Lock()
	l, ok := s.lists[listID]
	var state verification.VerificationListState
	if ok {
		state = l.state
	}
	s.mu.Unlock()

	if !ok || (externalID != "" && state.ExternalID != externalID) {
		writeNotFound(w, listID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, state)
}

func (s *Server) handleCreateList(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBulkRequest(w, r)
	if !ok {
		return
	}
	now := requestcontext.Now(r.Context())

	s.mu.Lock()
	l := &list{state: verification.VerificationListState{
		ID:        uuid.NewString(),
		State:     verification.BatchOpen,
		CreatedAt: verification.Timestamp{Time: now.Truncate(time.Minute)},
		Errors:    []verification.BulkListCRUDError{},
	}}
	s.lists[l.state.ID] = l
	s.order = append(s.order, l.state.ID)
	l.contacts = append(l.contacts, body.Contacts...)
	if body.Directive == verification.DirectiveStart && len(l.contacts) > 0 {
		s.complete(l, now)
	}
	state := l.state
	s.mu.Unlock()

	s.logger.InfoContext(r.Context(), "list created",
		"list_id", state.ID,
		"contacts", len(body.Contacts),
		"state", state.State.String(),
	)
	httputil.WriteJSON(w, http.StatusCreated, verification.CreateListResponse{
		Status:  verification.BatchSuccess,
		Message: "created new list",
		List:    state,
	})
}

func (s *Server) handleUpdateList(w http.ResponseWriter, r *http.Request) {
	listID := chi.URLParam(r, "listID")
	body, ok := decodeBulkRequest(w, r)
	if !ok {
		return
	}
	now := requestcontext.Now(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lists[listID]
	if !ok {
		writeNotFound(w, listID)
		return
	}
	if l.state.IsTerminal() {
		writeListError(w, http.StatusBadRequest, listID, verification.BatchInvalidState,
			"List is "+l.state.State.String()+" and can no longer be changed")
		return
	}

	l.contacts = append(l.contacts, body.Contacts...)
	message := "updated list"
	switch body.Directive {
	case verification.DirectiveStart:
		if len(l.contacts) == 0 {
			writeListError(w, http.StatusBadRequest, listID, verification.BatchMissingData, "List has no contacts")
			return
		}
		s.complete(l, now)
		message = "list queued for processing"
	case verification.DirectiveTerminate:
		l.state.State = verification.BatchTerminated
		message = "list terminated"
	}

	httputil.WriteJSON(w, http.StatusOK, verification.UpdateListResponse{
		Status:  verification.BatchSuccess,
		Message: message,
		List:    l.state,
	})
}

func (s *Server) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	listID := chi.URLParam(r, "listID")

	s.mu.Lock()
	l, ok := s.lists[listID]
	if ok {
		delete(s.lists, listID)
		s.order = slices.DeleteFunc(s.order, func(id string) bool { return id == listID })
	}
	s.mu.Unlock()

	if !ok {
		writeNotFound(w, listID)
		return
	}
	state := l.state
	state.State = verification.BatchDeleted
	httputil.WriteJSON(w, http.StatusOK, verification.DeleteListResponse{
		Status:  verification.BatchSuccess,
		Message: "list deleted",
		List:    state,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	listID := chi.URLParam(r, "listID")
	page, err := strconv.ParseUint(chi.URLParam(r, "page"), 10, 64)
	if err != nil || page < 1 {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "Invalid page")
		return
	}

	s.mu.Lock()
	l, ok := s.lists[listID]
	var (
		state    verification.VerificationListState
		contacts []verification.VerificationRequest
	)
	if ok {
		state = l.state
		contacts = l.contacts
	}
	s.mu.Unlock()

	if !ok {
		writeNotFound(w, listID)
		return
	}
	if state.State != verification.BatchComplete {
		writeListError(w, http.StatusBadRequest, listID, verification.BatchInvalidState, "List results are not ready")
		return
	}
	if state.Expired(requestcontext.Now(r.Context())) {
		writeListError(w, http.StatusNotFound, listID, verification.BatchExpired, "List results have expired")
		return
	}

	pageCount := state.Pages()
	if page > pageCount {
		writeListError(w, http.StatusNotFound, listID, verification.BatchNotFound, "No such page")
		return
	}

	from := min(len(contacts), int(page-1)*s.pageSize)
	to := min(len(contacts), from+s.pageSize)
	results := make([]verification.BulkVerificationResult, 0, to-from)
	for _, c := range contacts[from:to] {
		results = append(results, bulkResult(c))
	}
	httputil.WriteJSON(w, http.StatusOK, verification.BulkVerificationResponse{
		Status:    verification.BatchSuccess,
		PageCount: pageCount,
		Results:   results,
	})
}

// complete finishes verification of l at once. Callers hold s.mu.
func (s *Server) complete(l *list, now time.Time) {
	pages := uint64(max(1, (len(l.contacts)+s.pageSize-1)/s.pageSize))
	var emails, phones uint64
	for _, c := range l.contacts {
		if _, ok := verification.EmailOf(c); ok {
			emails++
		}
		if _, ok := verification.PhoneOf(c); ok {
			phones++
		}
	}

	l.state.State = verification.BatchComplete
	l.state.Progress = 100
	l.state.PageCount = &pages
	l.state.TotalVerified = uint64(len(l.contacts))
	l.state.TotalVerifiedEmails = emails
	l.state.TotalVerifiedPhones = phones
	l.state.ResultsPath = verification.OptionalString("/api/v3/lists/" + l.state.ID + "/export/1")
	l.state.ExpirationDate = verification.Timestamp{Time: now.Add(resultsRetention).Truncate(time.Minute)}
}

func decodeBulkRequest(w http.ResponseWriter, r *http.Request) (verification.BulkVerificationRequest, bool) {
	var body verification.BulkVerificationRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "Invalid list payload")
		return body, false
	}
	return body, true
}

func writeNotFound(w http.ResponseWriter, listID string) {
	writeListError(w, http.StatusNotFound, listID, verification.BatchNotFound, "No matching list found")
}

func writeListError(w http.ResponseWriter, status int, listID string, state verification.BatchState, message string) {
	httputil.WriteJSON(w, status, verification.BulkListCRUDError{
		ListID:  verification.OptionalString(listID),
		Status:  state,
		Message: verification.OptionalString(message),
	})
}
