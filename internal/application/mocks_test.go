package application_test

import (
	"context"
	"errors"
	"sync"

	"github.com/ericfisherdev/cardclaim/internal/domain/model"
)

// --- Mock implementations ---

type loginCall struct {
	Email  string
	Secret string
}

type mockAuthClient struct {
	mu     sync.Mutex
	calls  []loginCall
	token  string
	err    error
	onCall func()
}

func (m *mockAuthClient) Login(_ context.Context, email, secret string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, loginCall{Email: email, Secret: secret})
	m.mu.Unlock()
	if m.onCall != nil {
		m.onCall()
	}
	return m.token, m.err
}

type activateCall struct {
	Token  string
	TaskID model.TaskID
}

type mockCardClient struct {
	mu          sync.Mutex
	cards       map[string][]model.Card // by token
	listErr     map[string]error        // by token
	listTokens  []string
	activations []activateCall
	failTasks   map[string]bool
	onList      func(token string)
}

func (m *mockCardClient) ListCards(_ context.Context, token string) ([]model.Card, error) {
	m.mu.Lock()
	m.listTokens = append(m.listTokens, token)
	m.mu.Unlock()
	if m.onList != nil {
		m.onList(token)
	}
	if err := m.listErr[token]; err != nil {
		return nil, err
	}
	return m.cards[token], nil
}

func (m *mockCardClient) ActivateCard(_ context.Context, token string, taskID model.TaskID) *model.ActivationResult {
	m.mu.Lock()
	m.activations = append(m.activations, activateCall{Token: token, TaskID: taskID})
	m.mu.Unlock()
	if m.failTasks[taskID.String()] {
		return nil
	}
	return &model.ActivationResult{Code: 0, Msg: "success"}
}

func (m *mockCardClient) activatedTasks() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.activations))
	for _, a := range m.activations {
		ids = append(ids, a.TaskID.String())
	}
	return ids
}

type tokenUpdate struct {
	Email string
	Token string
}

type mockAccountStore struct {
	mu        sync.Mutex
	groups    []model.AccountGroup
	loadErr   error
	updateErr error
	updates   []tokenUpdate
	loads     int
}

func (m *mockAccountStore) Load(_ context.Context) ([]model.AccountGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	return m.groups, m.loadErr
}

func (m *mockAccountStore) UpdateToken(_ context.Context, email, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, tokenUpdate{Email: email, Token: token})
	return m.updateErr
}

func (m *mockAccountStore) loadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}

type mockActivationLog struct {
	mu      sync.Mutex
	records []model.ActivationRecord
	err     error
}

func (m *mockActivationLog) Record(_ context.Context, rec model.ActivationRecord) (model.ActivationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.ActivationRecord{}, m.err
	}
	rec.ID = int64(len(m.records) + 1)
	m.records = append(m.records, rec)
	return rec, nil
}

func (m *mockActivationLog) ListRecent(_ context.Context, _ int) ([]model.ActivationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records, nil
}

var errBoom = errors.New("boom")
