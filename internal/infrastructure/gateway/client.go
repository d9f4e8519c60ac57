package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hakot-io/hakot/internal/shared/config"
	apperrors "github.com/hakot-io/hakot/internal/shared/errors"
)

// Client talks to the online payment gateway to create checkout sources.
type Client interface {
	// CreateSource registers a payment intent for the given amount and
	// returns the gateway-issued source ID plus the checkout URL the
	// resident is redirected to.
	CreateSource(ctx context.Context, amountCentavos int64, currency, method, redirectSuccess, redirectFailed string) (*SourceResult, error)
}

// SourceResult is the gateway's answer to a source creation.
type SourceResult struct {
	SourceID    string
	CheckoutURL string
	Status      string
}

type httpClient struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

// NewClient builds an HTTP gateway client with a bounded request timeout.
func NewClient(cfg *config.GatewayConfig) Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpClient{
		baseURL:   cfg.BaseURL,
		secretKey: cfg.SecretKey,
		client:    &http.Client{Timeout: timeout},
	}
}

type sourcePayload struct {
	Data struct {
		Attributes struct {
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
			Type     string `json:"type"`
			Redirect struct {
				Success string `json:"success"`
				Failed  string `json:"failed"`
			} `json:"redirect"`
		} `json:"attributes"`
	} `json:"data"`
}

type sourceResponse struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Status   string `json:"status"`
			Redirect struct {
				CheckoutURL string `json:"checkout_url"`
			} `json:"redirect"`
		} `json:"attributes"`
	} `json:"data"`
}

func (c *httpClient) CreateSource(ctx context.Context, amountCentavos int64, currency, method, redirectSuccess, redirectFailed string) (*SourceResult, error) {
	var payload sourcePayload
	payload.Data.Attributes.Amount = amountCentavos
	payload.Data.Attributes.Currency = currency
	payload.Data.Attributes.Type = method
	payload.Data.Attributes.Redirect.Success = redirectSuccess
	payload.Data.Attributes.Redirect.Failed = redirectFailed

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode source request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/sources", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build source request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.secretKey, "")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewInternalError(
			fmt.Sprintf("gateway returned status %d", resp.StatusCode),
			string(raw),
		)
	}

	var decoded sourceResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	if decoded.Data.ID == "" {
		return nil, fmt.Errorf("gateway response missing source ID")
	}

	return &SourceResult{
		SourceID:    decoded.Data.ID,
		CheckoutURL: decoded.Data.Attributes.Redirect.CheckoutURL,
		Status:      decoded.Data.Attributes.Status,
	}, nil
}
