package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/quadramart/settlement/internal/pkg/money"
)

// ErrGatewayUnavailable indicates the provider rejected or failed the
// initiation request.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// Client exposes operations against the external payment provider.
type Client interface {
	Initiate(ctx context.Context, reference string, orderID int64, amount money.Amount) (string, error)
}

// HTTPClient implements Client via the provider's HTTP API.
type HTTPClient struct {
	http   *resty.Client
	logger *slog.Logger
}

type initiateRequest struct {
	Reference string `json:"reference"`
	OrderID   int64  `json:"order_id"`
	Amount    string `json:"amount"`
}

type initiateResponse struct {
	PaymentURL string `json:"payment_url"`
}

// NewHTTPClient creates the gateway client with default timeout and retries.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}

	client := resty.New().
		SetBaseURL(parsed.String()).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &HTTPClient{http: client, logger: logger}, nil
}

// Initiate registers a payment with the provider and returns the URL the
// customer is redirected to.
func (c *HTTPClient) Initiate(ctx context.Context, reference string, orderID int64, amount money.Amount) (string, error) {
	var result initiateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(initiateRequest{Reference: reference, OrderID: orderID, Amount: amount.String()}).
		SetResult(&result).
		Post("/api/payments")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		c.logger.Error("gateway initiation failed",
			slog.Int("status", resp.StatusCode()),
			slog.String("reference", reference),
			slog.String("body", resp.String()))
		return "", ErrGatewayUnavailable
	}
	if result.PaymentURL == "" {
		return "", fmt.Errorf("gateway returned no payment url for %s", reference)
	}
	return result.PaymentURL, nil
}
