package verification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var jsonNull = []byte("null")

func isNull(raw []byte) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), jsonNull)
}

// Duration is a processing time carried on the wire as fractional seconds.
type Duration time.Duration

const maxDurationSeconds = float64(math.MaxInt64) / float64(time.Second)

// NewDuration converts fractional seconds. Negative or non-finite input is rejected.
func NewDuration(seconds float64) (Duration, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 || seconds > maxDurationSeconds {
		return 0, &TypeError{Kind: InvalidDuration, Value: strconv.FormatFloat(seconds, 'g', -1, 64)}
	}
	return Duration(math.Round(seconds * float64(time.Second))), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Seconds returns d as fractional seconds.
func (d Duration) Seconds() float64 { return time.Duration(d).Seconds() }

func (d Duration) String() string { return time.Duration(d).String() }

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(d.Seconds(), 'f', -1, 64)), nil
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*d = 0
		return nil
	}
	var seconds float64
	if err := json.Unmarshal(data, &seconds); err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	parsed, err := NewDuration(seconds)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// OptionalString is a string where blank input means absent. The zero value is absent
// and encodes as null.
type OptionalString string

// Get returns the value and whether it is present.
func (s OptionalString) Get() (string, bool) {
	return string(s), s != ""
}

// IsSet reports whether the value is present.
func (s OptionalString) IsSet() bool { return s != "" }

func (s OptionalString) MarshalJSON() ([]byte, error) {
	if s == "" {
		return jsonNull, nil
	}
	return json.Marshal(string(s))
}

func (s *OptionalString) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*s = ""
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if strings.TrimSpace(raw) == "" {
		*s = ""
		return nil
	}
	*s = OptionalString(raw)
	return nil
}

// FlexBool accepts a JSON boolean or the strings "true" and "false".
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*b = false
		return nil
	}
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = FlexBool(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("boolean: unexpected value %s", data)
	}
	parsed, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return fmt.Errorf("boolean: %w", err)
	}
	*b = FlexBool(parsed)
	return nil
}

// FlexCount accepts a non-negative JSON integer or a numeric string.
type FlexCount uint64

func (c *FlexCount) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*c = 0
		return nil
	}
	text := strings.TrimSpace(string(data))
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		text = strings.TrimSpace(s)
	}
	n, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return fmt.Errorf("count: %w", err)
	}
	*c = FlexCount(n)
	return nil
}

// ExternalID is an account-side identifier the API sends as either a string or a number.
type ExternalID string

func (id ExternalID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return jsonNull, nil
	}
	return json.Marshal(string(id))
}

func (id *ExternalID) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*id = ""
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch x := v.(type) {
	case string:
		*id = ExternalID(strings.TrimSpace(x))
	case json.Number:
		*id = ExternalID(x.String())
	default:
		return fmt.Errorf("external id: unexpected value %s", data)
	}
	return nil
}

// TimestampLayout is the bulk API's list timestamp format, e.g. "07-27-2021 09:10 pm".
const TimestampLayout = "01-02-2006 03:04 pm"

// Timestamp is a list timestamp. The zero value means absent and encodes as null.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return jsonNull, nil
	}
	return json.Marshal(t.UTC().Format(TimestampLayout))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	t.Time = parsed
	return nil
}

var recordedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
}

// RecordedAt is an ISO-8601 instant. Offsets with or without a colon are accepted.
type RecordedAt struct {
	time.Time
}

func (t RecordedAt) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

func (t *RecordedAt) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range recordedAtLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("recorded at: %w", lastErr)
}
