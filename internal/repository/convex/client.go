// Package convex stores users and plans in a hosted Convex deployment through its HTTP API.
package convex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultURL is the deployment used when none is configured.
const DefaultURL = "https://whimsical-greyhound-498.convex.cloud"

const (
	kindMutation = "mutation"
	kindQuery    = "query"
)

// Client calls Convex functions over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the deployment at baseURL.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// FunctionError is a failure reported by the deployment for a single call.
type FunctionError struct {
	Path    string
	Message string
}

func (e *FunctionError) Error() string {
	return fmt.Sprintf("convex %s: %s", e.Path, e.Message)
}

type functionRequest struct {
	Path   string `json:"path"`
	Args   any    `json:"args"`
	Format string `json:"format"`
}

type functionResponse struct {
	Status       string          `json:"status"`
	Value        json.RawMessage `json:"value"`
	ErrorMessage string          `json:"errorMessage"`
}

// Mutation runs a mutation and decodes its value into out, which may be nil.
func (c *Client) Mutation(ctx context.Context, path string, args, out any) error {
	return c.call(ctx, kindMutation, path, args, out)
}

// Query runs a query and decodes its value into out.
func (c *Client) Query(ctx context.Context, path string, args, out any) error {
	return c.call(ctx, kindQuery, path, args, out)
}

func (c *Client) call(ctx context.Context, kind, path string, args, out any) error {
	body, err := json.Marshal(functionRequest{Path: path, Args: args, Format: "json"})
	if err != nil {
		return fmt.Errorf("failed to marshal %s args: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/"+kind, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("convex %s request failed: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", path, err)
	}

	var result functionResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("convex returned status %d: %s", resp.StatusCode, string(raw))
		}
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	if result.Status != "success" {
		msg := result.ErrorMessage
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return &FunctionError{Path: path, Message: msg}
	}

	if out == nil || len(result.Value) == 0 {
		return nil
	}
	if err := json.Unmarshal(result.Value, out); err != nil {
		return fmt.Errorf("failed to decode %s value: %w", path, err)
	}
	return nil
}
