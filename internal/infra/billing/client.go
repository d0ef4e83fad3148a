package billing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the invoicing provider. Only the trigger point lives
// here: the provider owns dunning, receipts and settlement.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateCharge opens an invoice (pay_per_lead) or a recurring
// subscription and returns the provider's reference.
func (c *Client) CreateCharge(input CreateChargeInput) (string, error) {
	var (
		url  string
		body interface{}
	)

	description := fmt.Sprintf("Lead routing for %s", input.SiteSlug)

	if input.PricingModel == "subscription" {
		url = fmt.Sprintf("%s/subscriptions", c.baseURL)
		body = createSubscriptionRequest{
			Customer:    input.PartnerID,
			Email:       input.PartnerEmail,
			Value:       input.AmountCents,
			Cycle:       input.Period,
			Description: description,
		}
	} else {
		url = fmt.Sprintf("%s/invoices", c.baseURL)
		body = createInvoiceRequest{
			Customer:    input.PartnerID,
			Email:       input.PartnerEmail,
			Value:       input.AmountCents,
			Description: description,
		}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal charge request: %w", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("billing provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("billing provider rejected charge (status %d): %s", resp.StatusCode, string(respBody))
	}

	var response chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode billing response: %w", err)
	}

	return response.ID, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("access_token", c.apiKey)
}
