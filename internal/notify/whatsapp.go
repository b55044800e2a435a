package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/mfourati/ordersync/internal/models"
)

// defaultCountryCode is assumed when a phone number carries none.
const defaultCountryCode = "216"

// WhatsAppChannel sends the rendered message to the customer's phone
// through a message-delivery HTTP API.
type WhatsAppChannel struct {
	client   *http.Client
	baseURL  string
	apiToken string
}

// NewWhatsAppChannel creates new WhatsAppChannel instance
func NewWhatsAppChannel(baseURL, apiToken string) *WhatsAppChannel {
	return &WhatsAppChannel{
		client:   &http.Client{},
		baseURL:  baseURL,
		apiToken: apiToken,
	}
}

// Name returns the channel name used in logs.
func (wc *WhatsAppChannel) Name() string {
	return "whatsapp"
}

type messageRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// Send delivers the status message for the order.
func (wc *WhatsAppChannel) Send(ctx context.Context, order *models.Order, status models.OrderStatus) error {
	if order.Customer == nil || order.Customer.Phone == "" {
		return fmt.Errorf("order %s has no customer phone", order.Number)
	}

	msg := messageRequest{
		To:   NormalizePhone(order.Customer.Phone),
		Body: RenderMessage(order, status),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wc.baseURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+wc.apiToken)

	resp, err := wc.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("message api: unexpected status %d", resp.StatusCode)
	}

	return nil
}

// NormalizePhone converts a free-form phone number to international
// digits: non-digits stripped, an international 00 prefix removed, and
// the default country code assumed for bare local numbers.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	digits = strings.TrimPrefix(digits, "00")
	if strings.HasPrefix(digits, defaultCountryCode) {
		return digits
	}
	// local numbers are eight digits
	if len(digits) == 8 {
		return defaultCountryCode + digits
	}

	return digits
}
