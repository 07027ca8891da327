package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/razetka2010/telegram-password-manager/pkg/api"
)

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient   *http.Client
	baseURL      string
	sessionToken string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetSessionToken задает токен, который будет добавляться
// в заголовок Authorization каждого запроса
func (c *Client) SetSessionToken(token string) {
	c.sessionToken = token
}

// Authenticate обменивает initData на сессионный токен
func (c *Client) Authenticate(ctx context.Context, initData string) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/auth", api.AuthRequest{InitData: initData}, &resp)
	if err != nil {
		return nil, fmt.Errorf("auth request failed: %w", err)
	}
	return &resp, nil
}

// ListPasswords возвращает все живые записи пользователя
func (c *Client) ListPasswords(ctx context.Context) (*api.ListPasswordsResponse, error) {
	var resp api.ListPasswordsResponse
	err := c.doRequest(ctx, http.MethodGet, "/api/passwords", nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("list request failed: %w", err)
	}
	return &resp, nil
}

// CreatePassword создает новую запись
func (c *Client) CreatePassword(ctx context.Context, req api.CreatePasswordRequest) (*api.CreatePasswordResponse, error) {
	var resp api.CreatePasswordResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/passwords", req, &resp)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	return &resp, nil
}

// UpdatePassword обновляет login и шифртекст существующей записи
func (c *Client) UpdatePassword(ctx context.Context, id int64, req api.UpdatePasswordRequest) (*api.UpdatePasswordResponse, error) {
	var resp api.UpdatePasswordResponse
	err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/api/passwords/%d", id), req, &resp)
	if err != nil {
		return nil, fmt.Errorf("update request failed: %w", err)
	}
	return &resp, nil
}

// DeletePassword удаляет запись
func (c *Client) DeletePassword(ctx context.Context, id int64) (*api.DeletePasswordResponse, error) {
	var resp api.DeletePasswordResponse
	err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/passwords/%d", id), nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("delete request failed: %w", err)
	}
	return &resp, nil
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.sessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.sessionToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Reason != "" {
			return fmt.Errorf("server error (%d, %s): %s", resp.StatusCode, errResp.Reason, errResp.Message)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
