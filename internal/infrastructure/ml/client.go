package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"CropInsights/internal/ports"
)

// FeatureCount is the width of the yield model input vector.
const FeatureCount = 9

// Client talks to the inference service that hosts the trained yield model.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ ports.YieldModel = (*Client)(nil)

// NewClient creates a reusable HTTP client; timeout defaults to 15s.
func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
	}
}

// PredictYield sends one feature row and returns the predicted yield in kg per acre.
func (c *Client) PredictYield(ctx context.Context, features []float64) (float64, error) {
	if len(features) != FeatureCount {
		return 0, fmt.Errorf("expected %d features, got %d", FeatureCount, len(features))
	}

	payload := map[string]any{
		"features": features,
	}

	var resp struct {
		PredictedYield *float64 `json:"predicted_yield"`
	}
	if err := c.post(ctx, "/predict", payload, &resp); err != nil {
		return 0, err
	}
	if resp.PredictedYield == nil {
		return 0, fmt.Errorf("inference response missing predicted_yield")
	}

	return *resp.PredictedYield, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return fmt.Errorf("unexpected status %s, close body: %v", resp.Status, closeErr)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		_ = resp.Body.Close()
		return fmt.Errorf("decode response: %w", err)
	}

	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}

	return nil
}
