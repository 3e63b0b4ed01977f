package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/cardclaim/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

type errorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// CycleResponse is the JSON representation of one cycle.
type CycleResponse struct {
	ID          string `json:"id"`
	StartedAt   string `json:"started_at"`
	FinishedAt  string `json:"finished_at"`
	Accounts    int    `json:"accounts"`
	Processed   int    `json:"processed"`
	Activations int    `json:"activations"`
	Succeeded   bool   `json:"succeeded"`
	Error       string `json:"error,omitempty"`
}

// StatusResponse wraps the last cycle; Cycle is null before the first cycle.
type StatusResponse struct {
	Interval string         `json:"interval"`
	Cycle    *CycleResponse `json:"cycle"`
}

// ActivationResponse is the JSON representation of an activation attempt.
type ActivationResponse struct {
	ID          int64  `json:"id"`
	CycleID     string `json:"cycle_id"`
	Email       string `json:"email"`
	TaskID      string `json:"task_id"`
	Activated   bool   `json:"activated"`
	Message     string `json:"message"`
	AttemptedAt string `json:"attempted_at"`
}

func toCycleResponse(s model.CycleStatus) CycleResponse {
	return CycleResponse{
		ID:          s.CycleID,
		StartedAt:   s.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt:  s.FinishedAt.UTC().Format(time.RFC3339),
		Accounts:    s.Accounts,
		Processed:   s.Processed,
		Activations: s.Activations,
		Succeeded:   s.Succeeded(),
		Error:       s.Err,
	}
}

func toActivationResponse(rec model.ActivationRecord) ActivationResponse {
	return ActivationResponse{
		ID:          rec.ID,
		CycleID:     rec.CycleID,
		Email:       rec.Email,
		TaskID:      rec.TaskID.String(),
		Activated:   rec.Activated,
		Message:     rec.Message,
		AttemptedAt: rec.AttemptedAt.UTC().Format(time.RFC3339),
	}
}
