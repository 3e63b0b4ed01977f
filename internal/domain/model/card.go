package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// CardUserStatus is the claim state of a card from the account's point of view.
type CardUserStatus int

const (
	CardStatusUnknown   CardUserStatus = 0
	CardStatusActivated CardUserStatus = 2
	CardStatusEligible  CardUserStatus = 3
)

// UnmarshalJSON accepts any JSON number with an integral value. Strings,
// fractions, booleans and null decode as CardStatusUnknown so one odd card
// never fails the whole listing.
func (s *CardUserStatus) UnmarshalJSON(data []byte) error {
	*s = CardStatusUnknown

	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] == '"' {
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil || n == "" {
		return nil
	}

	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return nil
	}
	*s = CardUserStatus(int(f))
	return nil
}

// TaskID identifies a card. The API encodes it either as a JSON string or as
// a number; TaskID keeps whichever form it received so activation requests
// echo it back unchanged. TaskID is comparable and usable as a map key.
type TaskID struct {
	value   string
	numeric bool
}

// NewTaskID returns a TaskID that encodes as a JSON string.
func NewTaskID(s string) TaskID {
	return TaskID{value: s}
}

// NumericTaskID returns a TaskID that encodes as the JSON number literal s.
func NumericTaskID(s string) TaskID {
	return TaskID{value: s, numeric: true}
}

// String returns the identifier text without JSON quoting.
func (id TaskID) String() string {
	return id.value
}

// Numeric reports whether the identifier was received as a JSON number.
func (id TaskID) Numeric() bool {
	return id.numeric
}

// UnmarshalJSON accepts a JSON string or a bare number. null leaves the zero TaskID.
func (id *TaskID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = TaskID{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = NewTaskID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("task_id must be a string or number: %w", err)
	}
	*id = NumericTaskID(n.String())
	return nil
}

// MarshalJSON writes the identifier in the form it was received.
func (id TaskID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return json.Marshal(json.Number(id.value))
	}
	return json.Marshal(id.value)
}

// Card is a claimable benefit returned by the cards endpoint.
type Card struct {
	TaskID     TaskID          `json:"task_id"`
	UserStatus CardUserStatus  `json:"user_status"`
	OpenTime   json.RawMessage `json:"open_time,omitempty"`
}

// HasOpenTime reports whether open_time carries a truthy value. Absent, null,
// false, zero and empty-string values all count as not open.
func (c Card) HasOpenTime() bool {
	v := bytes.TrimSpace(c.OpenTime)
	switch string(v) {
	case "", "null", "false", `""`:
		return false
	}

	if v[0] != '"' && v[0] != '{' && v[0] != '[' && v[0] != 't' {
		f, err := strconv.ParseFloat(string(v), 64)
		if err == nil && f == 0 {
			return false
		}
	}
	return true
}

// CanActivate reports whether the card is pending activation and already open.
func (c Card) CanActivate() bool {
	return c.UserStatus == CardStatusEligible && c.HasOpenTime()
}

// IsActivated reports whether the card was activated in an earlier cycle.
func (c Card) IsActivated() bool {
	return c.UserStatus == CardStatusActivated
}
