package verification

import (
	"encoding/json"
	"strings"
)

// decodeEnum reads a JSON string (or null) for a lenient enum.
func decodeEnum(data []byte) (string, error) {
	if isNull(data) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", err
	}
	return s, nil
}

// VerificationStatus is the outcome of a single facet's verification.
type VerificationStatus string

const (
	StatusValid     VerificationStatus = "valid"
	StatusInvalid   VerificationStatus = "invalid"
	StatusAcceptAll VerificationStatus = "accept_all"
	StatusUnknown   VerificationStatus = "unknown"
)

// ParseVerificationStatus never fails; unrecognised input maps to StatusUnknown.
func ParseVerificationStatus(s string) VerificationStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "valid":
		return StatusValid
	case "invalid":
		return StatusInvalid
	case "accept_all", "accept-all", "acceptall":
		return StatusAcceptAll
	default:
		return StatusUnknown
	}
}

func (s VerificationStatus) IsUnknown() bool { return s == StatusUnknown || s == "" }

func (s VerificationStatus) String() string {
	if s == "" {
		return string(StatusUnknown)
	}
	return string(s)
}

func (s VerificationStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *VerificationStatus) UnmarshalJSON(data []byte) error {
	raw, err := decodeEnum(data)
	if err != nil {
		return err
	}
	*s = ParseVerificationStatus(raw)
	return nil
}

// BatchState is the lifecycle state of a bulk verification list.
type BatchState string

const (
	BatchOpen                  BatchState = "open"
	BatchClosed                BatchState = "closed"
	BatchDeleted               BatchState = "deleted"
	BatchExpired               BatchState = "expired"
	BatchPending               BatchState = "pending"
	BatchPrepped               BatchState = "prepped"
	BatchSuccess               BatchState = "success"
	BatchComplete              BatchState = "complete"
	BatchNotFound              BatchState = "not_found"
	BatchDelivered             BatchState = "delivered"
	BatchVerifying             BatchState = "verifying"
	BatchTerminated            BatchState = "terminated"
	BatchImportError           BatchState = "import_error"
	BatchMissingData           BatchState = "missing_data"
	BatchExceedsLimit          BatchState = "exceeds_limit"
	BatchInvalidState          BatchState = "invalid_state"
	BatchDuplicateData         BatchState = "duplicate_data"
	BatchListUploadsIncomplete BatchState = "list_uploads_incomplete"
	BatchUnknown               BatchState = "unknown"
)

// batchAliases is keyed by the lowercase form with separators removed.
var batchAliases = map[string]BatchState{
	"open":                  BatchOpen,
	"closed":                BatchClosed,
	"deleted":               BatchDeleted,
	"expired":               BatchExpired,
	"pending":               BatchPending,
	"prepped":               BatchPrepped,
	"success":               BatchSuccess,
	"complete":              BatchComplete,
	"notfound":              BatchNotFound,
	"delivered":             BatchDelivered,
	"verifying":             BatchVerifying,
	"terminated":            BatchTerminated,
	"importerror":           BatchImportError,
	"missing":               BatchMissingData,
	"missingdata":           BatchMissingData,
	"exceedslimit":          BatchExceedsLimit,
	"invalidstate":          BatchInvalidState,
	"duplicatedata":         BatchDuplicateData,
	"incomplete":            BatchListUploadsIncomplete,
	"uploadincomplete":      BatchListUploadsIncomplete,
	"uploadsincomplete":     BatchListUploadsIncomplete,
	"listuploadincomplete":  BatchListUploadsIncomplete,
	"listuploadsincomplete": BatchListUploadsIncomplete,
}

var separatorStripper = strings.NewReplacer("_", "", "-", "")

// ParseBatchState trims quotes and whitespace, ignores case and separators, and maps
// anything unrecognised to BatchUnknown.
func ParseBatchState(s string) BatchState {
	s = strings.Trim(strings.TrimSpace(s), `"'`)
	s = strings.ToLower(strings.TrimSpace(s))
	if state, ok := batchAliases[separatorStripper.Replace(s)]; ok {
		return state
	}
	return BatchUnknown
}

func (b BatchState) IsUnknown() bool { return b == BatchUnknown || b == "" }

// IsTerminal reports whether the list will not change state again. Request outcomes
// such as import_error and not_found are not list states and report false.
func (b BatchState) IsTerminal() bool {
	switch b {
	case BatchComplete, BatchDelivered, BatchDeleted, BatchExpired, BatchTerminated:
		return true
	default:
		return false
	}
}

func (b BatchState) String() string {
	if b == "" {
		return string(BatchUnknown)
	}
	return string(b)
}

func (b BatchState) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

func (b *BatchState) UnmarshalJSON(data []byte) error {
	raw, err := decodeEnum(data)
	if err != nil {
		return err
	}
	*b = ParseBatchState(raw)
	return nil
}

// VerificationError is a machine-readable reason attached to a failed verification.
type VerificationError string

const (
	ErrorDisposable            VerificationError = "disposable"
	ErrorPMBRequired           VerificationError = "pmb_required"
	ErrorRoleAddress           VerificationError = "role_address"
	ErrorSuiteInvalid          VerificationError = "suite_invalid"
	ErrorSuiteMissing          VerificationError = "suite_missing"
	ErrorInvalidFormat         VerificationError = "invalid_format"
	ErrorInvalidPrefix         VerificationError = "invalid_prefix"
	ErrorMultipleMatch         VerificationError = "multiple_match"
	ErrorUnknownStreet         VerificationError = "unknown_street"
	ErrorZipCodeInvalid        VerificationError = "zip_code_invalid"
	ErrorBlankPhoneNumber      VerificationError = "blank_phone_number"
	ErrorBoxNumberInvalid      VerificationError = "box_number_invalid"
	ErrorBoxNumberMissing      VerificationError = "box_number_missing"
	ErrorEmailDomainInvalid    VerificationError = "email_domain_invalid"
	ErrorInvalidPhoneNumber    VerificationError = "invalid_phone_number"
	ErrorMailboxFullInvalid    VerificationError = "mailbox_full_invalid"
	ErrorDirectionalsInvalid   VerificationError = "directionals_invalid"
	ErrorEmailAccountInvalid   VerificationError = "email_account_invalid"
	ErrorEmailAddressInvalid   VerificationError = "email_address_invalid"
	ErrorStreetNumberInvalid   VerificationError = "street_number_invalid"
	ErrorStreetNumberMissing   VerificationError = "street_number_missing"
	ErrorSuiteInvalidMissing   VerificationError = "suite_invalid_missing"
	ErrorMissingMinimumInputs  VerificationError = "missing_minimum_inputs"
	ErrorNonDeliverableAddress VerificationError = "non_deliverable_address"
	ErrorUnknown               VerificationError = "unknown"
)

var knownVerificationErrors = map[VerificationError]struct{}{
	ErrorDisposable: {}, ErrorPMBRequired: {}, ErrorRoleAddress: {}, ErrorSuiteInvalid: {},
	ErrorSuiteMissing: {}, ErrorInvalidFormat: {}, ErrorInvalidPrefix: {}, ErrorMultipleMatch: {},
	ErrorUnknownStreet: {}, ErrorZipCodeInvalid: {}, ErrorBlankPhoneNumber: {}, ErrorBoxNumberInvalid: {},
	ErrorBoxNumberMissing: {}, ErrorEmailDomainInvalid: {}, ErrorInvalidPhoneNumber: {},
	ErrorMailboxFullInvalid: {}, ErrorDirectionalsInvalid: {}, ErrorEmailAccountInvalid: {},
	ErrorEmailAddressInvalid: {}, ErrorStreetNumberInvalid: {}, ErrorStreetNumberMissing: {},
	ErrorSuiteInvalidMissing: {}, ErrorMissingMinimumInputs: {}, ErrorNonDeliverableAddress: {},
}

// ParseVerificationError never fails; unrecognised codes map to ErrorUnknown.
func ParseVerificationError(s string) VerificationError {
	code := VerificationError(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := knownVerificationErrors[code]; ok {
		return code
	}
	return ErrorUnknown
}

func (e VerificationError) IsUnknown() bool { return e == ErrorUnknown || e == "" }

func (e VerificationError) String() string {
	if e == "" {
		return string(ErrorUnknown)
	}
	return string(e)
}

func (e VerificationError) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

func (e *VerificationError) UnmarshalJSON(data []byte) error {
	raw, err := decodeEnum(data)
	if err != nil {
		return err
	}
	*e = ParseVerificationError(raw)
	return nil
}

// BulkListDirective tells the bulk API what to do with a list after an upload.
type BulkListDirective string

const (
	DirectiveStart     BulkListDirective = "start"
	DirectiveTerminate BulkListDirective = "terminate"
	DirectiveUnknown   BulkListDirective = "unknown"
)

// ParseBulkListDirective accepts "start"/"true" and "terminate"/"stop".
func ParseBulkListDirective(s string) BulkListDirective {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "start", "true":
		return DirectiveStart
	case "terminate", "stop":
		return DirectiveTerminate
	default:
		return DirectiveUnknown
	}
}

// DirectiveFromBool maps true to DirectiveStart and false to DirectiveUnknown.
func DirectiveFromBool(start bool) BulkListDirective {
	if start {
		return DirectiveStart
	}
	return DirectiveUnknown
}

// IsUnknown reports whether the directive should be left off the wire.
func (d BulkListDirective) IsUnknown() bool { return d == DirectiveUnknown || d == "" }

func (d BulkListDirective) String() string {
	if d == "" {
		return string(DirectiveUnknown)
	}
	return string(d)
}

func (d BulkListDirective) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *BulkListDirective) UnmarshalJSON(data []byte) error {
	raw, err := decodeEnum(data)
	if err != nil {
		return err
	}
	*d = ParseBulkListDirective(raw)
	return nil
}
