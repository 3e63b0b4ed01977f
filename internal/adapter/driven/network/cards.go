package network

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ericfisherdev/cardclaim/internal/domain/model"
	"github.com/ericfisherdev/cardclaim/internal/retry"
)

type cardsResponse struct {
	Code int          `json:"code"`
	Data []model.Card `json:"data"`
	Msg  string       `json:"msg"`
}

type activationRequest struct {
	TaskID model.TaskID `json:"task_id"`
}

// ListCards returns every card visible to the token holder.
func (c *Client) ListCards(ctx context.Context, token string) ([]model.Card, error) {
	resp, err := retry.Do(ctx, c.caller, c.retry, func(ctx context.Context) (cardsResponse, error) {
		var out cardsResponse
		err := c.do(ctx, http.MethodGet, cardsPath, token, nil, &out)
		return out, err
	})
	if err != nil {
		slog.Error("error getting cards", "error", err)
		return nil, err
	}

	if resp.Code != 0 {
		listErr := &model.CardListError{Code: resp.Code, Message: resp.Msg}
		slog.Error("error getting cards", "error", listErr)
		return nil, listErr
	}

	if resp.Data == nil {
		resp.Data = []model.Card{}
	}

	slog.Info("cards retrieved successfully", "cards", len(resp.Data))
	return resp.Data, nil
}

// ActivateCard activates a single card. It uses the reduced activation retry
// budget and reports every failure as a nil result so one card never stops
// the rest of the batch.
func (c *Client) ActivateCard(ctx context.Context, token string, taskID model.TaskID) *model.ActivationResult {
	resp, err := retry.Do(ctx, c.caller, c.activationRetry, func(ctx context.Context) (model.ActivationResult, error) {
		var out model.ActivationResult
		err := c.do(ctx, http.MethodPost, activationPath, token, activationRequest{TaskID: taskID}, &out)
		return out, err
	})
	if err != nil {
		slog.Error("error activating card", "task_id", taskID, "error", err)
		return nil
	}

	slog.Debug("activation response", "task_id", taskID, "code", resp.Code, "msg", resp.Msg, "data", string(resp.Data))

	if resp.Code != 0 {
		slog.Warn("failed to activate card", "task_id", taskID, "code", resp.Code, "msg", resp.Msg)
		return nil
	}

	slog.Info("card activated successfully", "task_id", taskID)
	return &resp
}
