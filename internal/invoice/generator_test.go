package invoice

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electioncart/electioncart/internal/models"
	"github.com/electioncart/electioncart/internal/status"
)

func paidOrder() *models.Order {
	paidAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	paymentID := "pay_abc123"
	return &models.Order{
		ID:                 1,
		OrderNumber:        "EC-20250310-AB12CD34",
		Status:             status.ReadyForProcessing,
		TotalAmount:        decimal.NewFromInt(2500),
		PaymentCompletedAt: &paidAt,
		GatewayPaymentID:   &paymentID,
		CreatedAt:          paidAt.Add(-time.Hour),
		User:               &models.User{Username: "candidate", PhoneNumber: "9876543210"},
		Items: []models.OrderItem{
			{ProductName: "Starter Pack", Quantity: 1, Price: decimal.NewFromInt(1500)},
			{ProductName: "Poster Blitz", Quantity: 200, Price: decimal.NewFromInt(5)},
		},
	}
}

func TestGenerate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(paidOrder(), &buf))

	assert.Greater(t, buf.Len(), 1000, "a rendered PDF has real content")
	assert.Equal(t, "%PDF", buf.String()[:4])
}

func TestGenerateRejectsUnpaidOrder(t *testing.T) {
	order := paidOrder()
	order.PaymentCompletedAt = nil

	err := Generate(order, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not paid")
}
