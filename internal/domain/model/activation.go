package model

import (
	"encoding/json"
	"time"
)

// ActivationResult is the full payload returned by a successful activation call.
type ActivationResult struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ActivationRecord is one entry in the activation audit trail.
type ActivationRecord struct {
	ID          int64
	CycleID     string
	Email       string
	TaskID      TaskID
	Activated   bool
	Message     string
	AttemptedAt time.Time
}
