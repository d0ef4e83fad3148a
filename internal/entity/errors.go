package entity

import "errors"

var (
	ErrUnknownSite         = errors.New("site not found")
	ErrDuplicateSite       = errors.New("site slug already exists")
	ErrSiteDeactivated     = errors.New("site is deactivated")
	ErrInvalidSlug         = errors.New("invalid site slug")
	ErrLeadAlreadyRouted   = errors.New("lead routing status already set")
	ErrPartnerNotFound     = errors.New("partner not found")
	ErrInvalidPartner      = errors.New("invalid partner data")
	ErrInvalidPricingModel = errors.New("pricing model must be pay_per_lead or subscription")
	ErrInvalidLedgerEvent  = errors.New("invalid revenue/cost event")
)
