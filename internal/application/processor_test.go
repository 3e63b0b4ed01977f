package application_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/cardclaim/internal/application"
	"github.com/ericfisherdev/cardclaim/internal/domain/model"
)

func openCard(id string) model.Card {
	return model.Card{TaskID: model.NewTaskID(id), UserStatus: model.CardStatusEligible, OpenTime: json.RawMessage(`"2024-01-01"`)}
}

func TestProcess_EmptyTokenLogsInOnceAndPersistsBeforeListing(t *testing.T) {
	store := &mockAccountStore{}
	auth := &mockAuthClient{token: "fresh"}
	cards := &mockCardClient{}
	cards.onList = func(_ string) {
		// The new token must already be written back when cards are listed.
		assert.Equal(t, []tokenUpdate{{Email: "alice@x.com", Token: "fresh"}}, store.updates)
	}

	p := application.NewAccountProcessor(auth, cards, store, nil)
	res, err := p.Process(context.Background(), "c1", model.Account{Email: "alice@x.com", Secret: "pw"})

	require.NoError(t, err)
	assert.True(t, res.TokenRefreshed)
	assert.Equal(t, []loginCall{{Email: "alice@x.com", Secret: "pw"}}, auth.calls)
	assert.Equal(t, []string{"fresh"}, cards.listTokens)
}

func TestProcess_CachedTokenNeverLogsIn(t *testing.T) {
	store := &mockAccountStore{}
	auth := &mockAuthClient{token: "unused"}
	cards := &mockCardClient{}

	p := application.NewAccountProcessor(auth, cards, store, nil)
	res, err := p.Process(context.Background(), "c1", model.Account{Email: "alice@x.com", Secret: "pw", Token: " cached \r"})

	require.NoError(t, err)
	assert.False(t, res.TokenRefreshed)
	assert.Empty(t, auth.calls)
	assert.Empty(t, store.updates)
	assert.Equal(t, []string{"cached"}, cards.listTokens)
}

func TestProcess_ExpiredJWTIsStillReused(t *testing.T) {
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	auth := &mockAuthClient{token: "unused"}
	cards := &mockCardClient{}

	p := application.NewAccountProcessor(auth, cards, &mockAccountStore{}, nil)
	_, err = p.Process(context.Background(), "c1", model.Account{Email: "alice@x.com", Token: expired})

	require.NoError(t, err)
	assert.Empty(t, auth.calls)
	assert.Equal(t, []string{expired}, cards.listTokens)
}

func TestProcess_EligibilityRule(t *testing.T) {
	cards := &mockCardClient{cards: map[string][]model.Card{
		"tok": {
			openCard("open"),
			{TaskID: model.NewTaskID("done"), UserStatus: model.CardStatusActivated},
			{TaskID: model.NewTaskID("early"), UserStatus: 1},
			{TaskID: model.NewTaskID("closed"), UserStatus: model.CardStatusEligible},
			{TaskID: model.NewTaskID("falsy"), UserStatus: model.CardStatusEligible, OpenTime: json.RawMessage(`0`)},
			{TaskID: model.NewTaskID("flag"), UserStatus: model.CardStatusEligible, OpenTime: json.RawMessage(`true`)},
		},
	}}

	p := application.NewAccountProcessor(&mockAuthClient{}, cards, &mockAccountStore{}, nil)
	res, err := p.Process(context.Background(), "c1", model.Account{Email: "alice@x.com", Token: "tok"})

	require.NoError(t, err)
	assert.Equal(t, []string{"open", "flag"}, cards.activatedTasks())
	assert.Equal(t, 6, res.Cards)
	assert.Equal(t, 2, res.Activated)
	assert.Equal(t, 1, res.AlreadyActivated)
	assert.Equal(t, 3, res.NotEligible)
}

func TestProcess_ActivationFailureDoesNotStopSiblings(t *testing.T) {
	cards := &mockCardClient{
		cards:     map[string][]model.Card{"tok": {openCard("A"), openCard("B"), openCard("C")}},
		failTasks: map[string]bool{"A": true},
	}
	log := &mockActivationLog{}

	p := application.NewAccountProcessor(&mockAuthClient{}, cards, &mockAccountStore{}, log)
	res, err := p.Process(context.Background(), "c1", model.Account{Email: "alice@x.com", Token: "tok"})

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, cards.activatedTasks())
	assert.Equal(t, 2, res.Activated)
	assert.Equal(t, 1, res.Failed)

	require.Len(t, log.records, 3)
	assert.False(t, log.records[0].Activated)
	assert.Equal(t, "activation failed", log.records[0].Message)
	assert.True(t, log.records[1].Activated)
	assert.Equal(t, "c1", log.records[1].CycleID)
	assert.Equal(t, "alice@x.com", log.records[1].Email)
}

func TestProcess_ActivationLogFailureIsSwallowed(t *testing.T) {
	cards := &mockCardClient{cards: map[string][]model.Card{"tok": {openCard("A"), openCard("B")}}}
	log := &mockActivationLog{err: errBoom}

	p := application.NewAccountProcessor(&mockAuthClient{}, cards, &mockAccountStore{}, log)
	res, err := p.Process(context.Background(), "c1", model.Account{Email: "alice@x.com", Token: "tok"})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Activated)
}

func TestProcess_LoginFailurePropagates(t *testing.T) {
	authErr := &model.AuthenticationError{Email: "alice@x.com", Message: "bad password"}
	store := &mockAccountStore{}
	cards := &mockCardClient{}

	p := application.NewAccountProcessor(&mockAuthClient{err: authErr}, cards, store, nil)
	_, err := p.Process(context.Background(), "c1", model.Account{Email: "alice@x.com", Secret: "pw"})

	assert.ErrorIs(t, err, model.ErrAuthentication)
	assert.Empty(t, store.updates)
	assert.Empty(t, cards.listTokens)
}

func TestProcess_TokenPersistFailurePropagates(t *testing.T) {
	store := &mockAccountStore{updateErr: errBoom}
	cards := &mockCardClient{}

	p := application.NewAccountProcessor(&mockAuthClient{token: "fresh"}, cards, store, nil)
	_, err := p.Process(context.Background(), "c1", model.Account{Email: "alice@x.com", Secret: "pw"})

	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, cards.listTokens)
}

func TestProcess_ListFailurePropagates(t *testing.T) {
	listErr := &model.CardListError{Code: 401, Message: "token expired"}
	cards := &mockCardClient{listErr: map[string]error{"stale": listErr}}

	p := application.NewAccountProcessor(&mockAuthClient{}, cards, &mockAccountStore{}, nil)
	_, err := p.Process(context.Background(), "c1", model.Account{Email: "alice@x.com", Token: "stale"})

	assert.ErrorIs(t, err, model.ErrCardList)
	assert.Contains(t, err.Error(), fmt.Sprintf("listing cards for %s", "alice@x.com"))
}
