package billing

// CreateChargeInput is what the use case hands to the invoicing
// provider when a partner accepts pay-per-lead or subscription terms.
type CreateChargeInput struct {
	PartnerID    string
	PartnerEmail string
	PricingModel string // pay_per_lead or subscription
	AmountCents  int64
	Period       string // e.g. "MONTHLY"
	SiteSlug     string
}

type createInvoiceRequest struct {
	Customer    string `json:"customer"`
	Email       string `json:"email"`
	Value       int64  `json:"value"`
	Description string `json:"description"`
}

type createSubscriptionRequest struct {
	Customer    string `json:"customer"`
	Email       string `json:"email"`
	Value       int64  `json:"value"`
	Cycle       string `json:"cycle"`
	Description string `json:"description"`
}

type chargeResponse struct {
	ID string `json:"id"`
}
