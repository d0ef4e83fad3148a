package entity

import (
	"strings"
	"time"
)

type SiteStatus string

const (
	SiteStatusActive        SiteStatus = "active"
	SiteStatusSalesEligible SiteStatus = "sales_eligible"
	SiteStatusDeactivated   SiteStatus = "deactivated"
)

// Site is a niche lead-generation property identified by its slug,
// "<niche-part>_<city-part>" with hyphens standing in for spaces.
// Status only ever moves forward: active to sales_eligible to
// deactivated, with sales_eligible skippable.
type Site struct {
	Slug       string     `json:"slug"`
	Niche      string     `json:"niche"`
	City       string     `json:"city"`
	PartnerID  *string    `json:"partner_id,omitempty"`
	Status     SiteStatus `json:"status"`
	BillingRef string     `json:"billing_ref,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func NewSite(slug, niche, city string) (*Site, error) {
	site := &Site{
		Slug:      slug,
		Niche:     niche,
		City:      city,
		Status:    SiteStatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := site.Validate(); err != nil {
		return nil, err
	}

	return site, nil
}

// NewSiteFromSlug derives niche and city from the slug itself, used
// when a lead arrives for a site nobody registered yet. A slug without
// a city part falls back to "Unknown".
func NewSiteFromSlug(slug string) *Site {
	niche := slug
	city := "Unknown"

	if parts := strings.SplitN(slug, "_", 2); len(parts) == 2 {
		niche = titleWords(parts[0])
		city = titleWords(parts[1])
	} else {
		niche = titleWords(slug)
	}

	return &Site{
		Slug:      slug,
		Niche:     niche,
		City:      city,
		Status:    SiteStatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func (s *Site) Validate() error {
	if strings.TrimSpace(s.Slug) == "" || strings.ContainsAny(s.Slug, " \t") {
		return ErrInvalidSlug
	}
	return nil
}

func (s *Site) IsDeactivated() bool {
	return s.Status == SiteStatusDeactivated
}

// Slugify is the inverse of NewSiteFromSlug's parsing.
func Slugify(niche, city string) string {
	return slugPart(niche) + "_" + slugPart(city)
}

func slugPart(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), "-"))
}

func titleWords(part string) string {
	words := strings.Split(part, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
