package coinbase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Skotchmaster/tonstore/services/storefront/internal/payments"
)

const (
	DefaultBaseURL = "https://api.commerce.coinbase.com"
	apiVersion     = "2018-03-22"
)

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type money struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type createChargeRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	LocalPrice  money             `json:"local_price"`
	PricingType string            `json:"pricing_type"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	RedirectURL string            `json:"redirect_url,omitempty"`
	CancelURL   string            `json:"cancel_url,omitempty"`
}

type chargeResponse struct {
	Data struct {
		ID        string `json:"id"`
		Code      string `json:"code"`
		HostedURL string `json:"hosted_url"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateCharge makes a single attempt; the caller decides what a failure means.
func (c *Client) CreateCharge(ctx context.Context, in payments.ChargeRequest) (*payments.Charge, error) {
	body, err := json.Marshal(createChargeRequest{
		Name:        in.Name,
		Description: in.Description,
		LocalPrice:  money{Amount: in.Amount.String(), Currency: in.Currency},
		PricingType: "fixed_price",
		Metadata:    in.Metadata,
		RedirectURL: in.RedirectURL,
		CancelURL:   in.CancelURL,
	})
	if err != nil {
		return nil, fmt.Errorf("encode charge: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/charges", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-CC-Api-Key", c.apiKey)
	req.Header.Set("X-CC-Version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e errorResponse
		if json.Unmarshal(raw, &e) == nil && e.Error.Message != "" {
			return nil, fmt.Errorf("create charge failed with status %d: %s", resp.StatusCode, e.Error.Message)
		}
		return nil, fmt.Errorf("create charge failed with status %d", resp.StatusCode)
	}

	var out chargeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if out.Data.Code == "" || out.Data.HostedURL == "" {
		return nil, fmt.Errorf("create charge: response without code or hosted_url")
	}

	return &payments.Charge{
		ID:        out.Data.ID,
		Code:      out.Data.Code,
		HostedURL: out.Data.HostedURL,
	}, nil
}
