// Package payment talks to the payment gateway. The gateway is a black box:
// the workflow only needs order creation at checkout and signature
// verification at payment confirmation.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/electioncart/electioncart/internal/config"
)

// Client is a minimal REST client for the gateway's orders API.
type Client struct {
	keyID     string
	keySecret string
	baseURL   string
	currency  string
	http      *http.Client
}

func NewClient(cfg *config.PaymentConfig) *Client {
	return &Client{
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		baseURL:   cfg.BaseURL,
		currency:  cfg.Currency,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// KeyID returns the public key identifier the frontend needs to open the
// gateway's checkout widget.
func (c *Client) KeyID() string { return c.keyID }

// GatewayOrder is the gateway's view of a pending payment.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // smallest currency unit
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Subunits converts a monetary amount to the gateway's smallest currency
// unit (paise for INR).
func Subunits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}

// CreateOrder registers a pending payment with the gateway and returns its
// order reference.
func (c *Client) CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (*GatewayOrder, error) {
	payload := map[string]any{
		"amount":          Subunits(amount),
		"currency":        c.currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal gateway order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway order create: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("gateway order create: status %d: %s", resp.StatusCode, msg)
	}

	var order GatewayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decode gateway order: %w", err)
	}
	return &order, nil
}

// VerifySignature checks the gateway's payment signature: HMAC-SHA256 over
// "<order_id>|<payment_id>" with the secret key, hex encoded, compared in
// constant time.
func (c *Client) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	fmt.Fprintf(mac, "%s|%s", gatewayOrderID, gatewayPaymentID)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
