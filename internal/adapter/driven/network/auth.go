package network

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ericfisherdev/cardclaim/internal/domain/model"
	"github.com/ericfisherdev/cardclaim/internal/retry"
)

type loginRequest struct {
	Email    string `json:"e"`
	Password string `json:"p"`
}

type loginResponse struct {
	Succ int    `json:"succ"`
	Data string `json:"data"`
	Msg  string `json:"msg"`
}

// Login exchanges an email and password for a bearer token.
func (c *Client) Login(ctx context.Context, email, secret string) (string, error) {
	resp, err := retry.Do(ctx, c.caller, c.retry, func(ctx context.Context) (loginResponse, error) {
		var out loginResponse
		err := c.do(ctx, http.MethodPost, loginPath, "", loginRequest{Email: email, Password: secret}, &out)
		return out, err
	})
	if err != nil {
		slog.Error("error getting token", "email", email, "error", err)
		return "", err
	}

	if resp.Succ != 0 || resp.Data == "" {
		authErr := &model.AuthenticationError{Email: email, Message: resp.Msg}
		slog.Error("error getting token", "email", email, "succ", resp.Succ, "error", authErr)
		return "", authErr
	}

	slog.Info("token retrieved successfully", "email", email)
	return resp.Data, nil
}
