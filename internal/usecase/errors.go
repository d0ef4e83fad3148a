package usecase

// DomainError is a business-rule rejection, surfaced to the submitting
// site so the form can show a retry prompt.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// TechnicalError is an infrastructure failure; the record of intent is
// lost and the caller should retry.
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}

const (
	CodeInvalidLeadData = "INVALID_LEAD_DATA"
	CodeUnknownSite     = "UNKNOWN_SITE"
	CodeDuplicateSite   = "DUPLICATE_SITE"
	CodeSiteDeactivated = "SITE_DEACTIVATED"
	CodePartnerNotFound = "PARTNER_NOT_FOUND"
	CodeInvalidPartner  = "INVALID_PARTNER"
	CodeBillingFailed   = "BILLING_FAILED"
	CodeInvalidEvent    = "INVALID_EVENT"
	CodeDatabaseError   = "DATABASE_ERROR"
)
