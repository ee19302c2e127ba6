// Package paymentclient talks to the external fee ledger service. The
// registry calls it synchronously during registration, before any of its
// own state is committed.
package paymentclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/zots0127/registry/internal/domain/entities"
)

// Client is an HTTP client for the ledger's transfer endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	collector  string
}

// New creates a ledger client. collector is the identity the registration
// fee is transferred to.
func New(baseURL, collector string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		collector:  collector,
	}
}

type transferRequest struct {
	Amount int64  `json:"amount"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// CollectRegistrationFee moves the fee from the payer to the collector.
// The ledger answers 402 for insufficient funds, which surfaces as
// ErrPaymentFailed; any other non-200 answer is a transport-level error.
func (c *Client) CollectRegistrationFee(ctx context.Context, payer string, amount int64) error {
	if amount <= 0 {
		return nil
	}

	body, err := json.Marshal(transferRequest{
		Amount: amount,
		From:   payer,
		To:     c.collector,
	})
	if err != nil {
		return fmt.Errorf("failed to encode transfer request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/transfer", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create transfer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("transfer request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusPaymentRequired:
		return fmt.Errorf("%w: insufficient funds for %s", entities.ErrPaymentFailed, payer)
	default:
		return fmt.Errorf("%w: ledger answered %d", entities.ErrPaymentFailed, resp.StatusCode)
	}
}
