package model

import "time"

// CycleStatus summarizes one pass over every account in the credential file.
type CycleStatus struct {
	CycleID     string
	StartedAt   time.Time
	FinishedAt  time.Time
	Accounts    int
	Processed   int
	Activations int
	Err         string
}

// Succeeded reports whether the cycle reached every account.
func (s CycleStatus) Succeeded() bool {
	return s.Err == ""
}
