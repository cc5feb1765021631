// Package httpapi authenticates against the remote users endpoints.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/dwikikusuma/storefront/internal/auth/app"
	"github.com/pkg/errors"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type loginResponse struct {
	ID      json.Number `json:"id"`
	MongoID string      `json:"_id"`
	Name    string      `json:"name"`
	Email   string      `json:"email"`
	Token   string      `json:"token"`
}

func (c *Client) Login(ctx context.Context, email, password string) (app.UserInfo, error) {
	buf, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return app.UserInfo{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/users/login/", bytes.NewReader(buf))
	if err != nil {
		return app.UserInfo{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return app.UserInfo{}, errors.Wrap(err, "login")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		return app.UserInfo{}, app.ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return app.UserInfo{}, errors.Errorf("login: status %d: %s", resp.StatusCode, body)
	}

	var out loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return app.UserInfo{}, errors.Wrap(err, "decode login response")
	}

	userID := out.ID.String()
	if userID == "" {
		userID = out.MongoID
	}
	if userID == "" || out.Token == "" {
		return app.UserInfo{}, errors.New("login response missing id or token")
	}

	return app.UserInfo{
		UserID: userID,
		Name:   out.Name,
		Email:  out.Email,
		Token:  out.Token,
	}, nil
}
