package httphandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/ericfisherdev/cardclaim/internal/adapter/driving/http"
	"github.com/ericfisherdev/cardclaim/internal/domain/model"
)

// --- Mock implementations ---

type mockActivationLog struct {
	records   []model.ActivationRecord
	err       error
	lastLimit int
}

func (m *mockActivationLog) Record(_ context.Context, rec model.ActivationRecord) (model.ActivationRecord, error) {
	return rec, nil
}

func (m *mockActivationLog) ListRecent(_ context.Context, limit int) ([]model.ActivationRecord, error) {
	m.lastLimit = limit
	return m.records, m.err
}

type mockRunner struct {
	last       *model.CycleStatus
	trigger    model.CycleStatus
	triggerErr error
	triggered  int
}

func (m *mockRunner) Trigger(_ context.Context) (model.CycleStatus, error) {
	m.triggered++
	return m.trigger, m.triggerErr
}

func (m *mockRunner) LastCycle() (model.CycleStatus, bool) {
	if m.last == nil {
		return model.CycleStatus{}, false
	}
	return *m.last, true
}

func (m *mockRunner) Interval() time.Duration { return 4*time.Hour + 10*time.Minute }

func newTestMux(t *testing.T, log *mockActivationLog, runner *mockRunner) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httphandler.NewRouter(httphandler.NewHandler(log, runner, logger), logger)
}

// serve runs a single request through the router and returns the recorded response.
func serve(h http.Handler, method, target string, header http.Header) *http.Response {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Result()
}

func TestHealth(t *testing.T) {
	mux := newTestMux(t, &mockActivationLog{}, &mockRunner{})

	resp := serve(mux, http.MethodGet, "/api/v1/health", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var body httphandler.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
}

func TestHealth_EchoesRequestID(t *testing.T) {
	mux := newTestMux(t, &mockActivationLog{}, &mockRunner{})

	resp := serve(mux, http.MethodGet, "/api/v1/health", http.Header{"X-Request-Id": {"abc-123"}})
	defer resp.Body.Close()

	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}

func TestStatus_BeforeFirstCycle(t *testing.T) {
	mux := newTestMux(t, &mockActivationLog{}, &mockRunner{})

	resp := serve(mux, http.MethodGet, "/api/v1/status", nil)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"interval":"4h10m0s","cycle":null}`, string(raw))
}

func TestStatus_LastCycle(t *testing.T) {
	start := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	runner := &mockRunner{last: &model.CycleStatus{
		CycleID: "c1", StartedAt: start, FinishedAt: start.Add(time.Minute),
		Accounts: 3, Processed: 1, Err: "logging in b@x.com: boom",
	}}
	mux := newTestMux(t, &mockActivationLog{}, runner)

	resp := serve(mux, http.MethodGet, "/api/v1/status", nil)
	defer resp.Body.Close()

	var body httphandler.StatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotNil(t, body.Cycle)
	assert.Equal(t, "c1", body.Cycle.ID)
	assert.False(t, body.Cycle.Succeeded)
	assert.Equal(t, 3, body.Cycle.Accounts)
	assert.Equal(t, "2026-02-01T08:00:00Z", body.Cycle.StartedAt)
}

func TestListActivations(t *testing.T) {
	log := &mockActivationLog{records: []model.ActivationRecord{
		{ID: 2, CycleID: "c1", Email: "a@x.com", TaskID: model.NewTaskID("A"), Activated: true, Message: "ok",
			AttemptedAt: time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)},
	}}
	mux := newTestMux(t, log, &mockRunner{})

	resp := serve(mux, http.MethodGet, "/api/v1/activations?limit=10", nil)
	defer resp.Body.Close()

	var body []httphandler.ActivationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, "A", body[0].TaskID)
	assert.True(t, body[0].Activated)
	assert.Equal(t, 10, log.lastLimit)
}

func TestListActivations_DefaultLimitAndEmpty(t *testing.T) {
	log := &mockActivationLog{}
	mux := newTestMux(t, log, &mockRunner{})

	resp := serve(mux, http.MethodGet, "/api/v1/activations", nil)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
	assert.Equal(t, 50, log.lastLimit)
}

func TestListActivations_BadLimit(t *testing.T) {
	mux := newTestMux(t, &mockActivationLog{}, &mockRunner{})

	for _, q := range []string{"0", "-1", "abc", "501"} {
		resp := serve(mux, http.MethodGet, "/api/v1/activations?limit="+q, nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "limit=%s", q)
	}
}

func TestListActivations_StoreError(t *testing.T) {
	mux := newTestMux(t, &mockActivationLog{err: errors.New("db down")}, &mockRunner{})

	resp := serve(mux, http.MethodGet, "/api/v1/activations", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestTriggerCycle_Success(t *testing.T) {
	runner := &mockRunner{trigger: model.CycleStatus{CycleID: "c9", Accounts: 1, Processed: 1, Activations: 2}}
	mux := newTestMux(t, &mockActivationLog{}, runner)

	resp := serve(mux, http.MethodPost, "/api/v1/cycles", nil)
	defer resp.Body.Close()

	var body httphandler.CycleResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "c9", body.ID)
	assert.Equal(t, 2, body.Activations)
	assert.Equal(t, 1, runner.triggered)
}

func TestTriggerCycle_CycleFailed(t *testing.T) {
	runner := &mockRunner{
		trigger:    model.CycleStatus{CycleID: "c9", Err: "loading accounts: missing"},
		triggerErr: errors.New("loading accounts: missing"),
	}
	mux := newTestMux(t, &mockActivationLog{}, runner)

	resp := serve(mux, http.MethodPost, "/api/v1/cycles", nil)
	defer resp.Body.Close()

	var body httphandler.CycleResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "loading accounts: missing", body.Error)
}

func TestTriggerCycle_NotStarted(t *testing.T) {
	runner := &mockRunner{triggerErr: context.Canceled}
	mux := newTestMux(t, &mockActivationLog{}, runner)

	resp := serve(mux, http.MethodPost, "/api/v1/cycles", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestUnknownMethodRejected(t *testing.T) {
	mux := newTestMux(t, &mockActivationLog{}, &mockRunner{})

	resp := serve(mux, http.MethodPost, "/api/v1/health", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
