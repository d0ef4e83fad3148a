package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/localauthority/leadengine/internal/entity"
	"github.com/localauthority/leadengine/internal/infra/http/handlers"
	"github.com/localauthority/leadengine/internal/infra/queue"
	"github.com/localauthority/leadengine/internal/usecase"
)

type stubSiteRepo struct {
	site *entity.Site
}

func (s *stubSiteRepo) Create(ctx context.Context, site *entity.Site) error { return nil }

func (s *stubSiteRepo) FindBySlug(ctx context.Context, slug string) (*entity.Site, error) {
	if s.site == nil {
		return nil, entity.ErrUnknownSite
	}
	return s.site, nil
}

func (s *stubSiteRepo) ListUnassignedActive(ctx context.Context) ([]*entity.Site, error) {
	return nil, nil
}

func (s *stubSiteRepo) ListEvaluable(ctx context.Context) ([]*entity.Site, error) { return nil, nil }

func (s *stubSiteRepo) AssignPartner(ctx context.Context, slug, partnerID, billingRef string) error {
	return nil
}

func (s *stubSiteRepo) MarkSalesEligible(ctx context.Context, slug string) (bool, error) {
	return false, nil
}

func (s *stubSiteRepo) Deactivate(ctx context.Context, slug string) (bool, error) {
	return false, nil
}

type stubLeadRepo struct {
	created int
}

func (s *stubLeadRepo) Create(ctx context.Context, lead *entity.Lead) error {
	s.created++
	return nil
}

func (s *stubLeadRepo) UpdateRoutingStatus(ctx context.Context, id string, status entity.RoutingStatus) error {
	return nil
}

func (s *stubLeadRepo) CountInWindow(ctx context.Context, siteSlug string, from, to time.Time) (int, error) {
	return 0, nil
}

func (s *stubLeadRepo) CountRoutedForPartnerSince(ctx context.Context, partnerID string, from time.Time) (int, error) {
	return 0, nil
}

type stubPartnerRepo struct{}

func (s *stubPartnerRepo) Create(ctx context.Context, partner *entity.Partner) error { return nil }

func (s *stubPartnerRepo) FindByID(ctx context.Context, id string) (*entity.Partner, error) {
	return nil, entity.ErrPartnerNotFound
}

type stubProducer struct{}

func (s *stubProducer) PublishLeadRouted(ctx context.Context, payload queue.LeadNotification) error {
	return nil
}

func newLeadHandler(site *entity.Site) (*handlers.LeadHandler, *stubLeadRepo) {
	leadRepo := &stubLeadRepo{}
	router := usecase.NewRouteLeadUseCase(leadRepo, &stubPartnerRepo{}, &stubProducer{}, zap.NewNop())
	uc := usecase.NewStoreLeadUseCase(&stubSiteRepo{site: site}, leadRepo, router, zap.NewNop())
	return handlers.NewLeadHandler(uc), leadRepo
}

func testSite(status entity.SiteStatus) *entity.Site {
	return &entity.Site{
		Slug:      "water-damage-restoration_dallas",
		Niche:     "Water Damage Restoration",
		City:      "Dallas",
		Status:    status,
		CreatedAt: time.Now().Add(-24 * time.Hour),
	}
}

func postForm(handler *handlers.LeadHandler, form url.Values, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/lead", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = remoteAddr

	rec := httptest.NewRecorder()
	handler.Handle(rec, req)
	return rec
}

func validForm() url.Values {
	return url.Values{
		"site_slug": {"water-damage-restoration_dallas"},
		"name":      {"Jane Doe"},
		"phone":     {"555-123-4567"},
		"message":   {"Basement flooded overnight"},
	}
}

func TestLeadHandlerAcceptsFormSubmission(t *testing.T) {
	handler, leadRepo := newLeadHandler(testSite(entity.SiteStatusActive))

	rec := postForm(handler, validForm(), "203.0.113.7:1234")

	assert.Equal(t, http.StatusCreated, rec.Code)

	var body handlers.LeadResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.NotEmpty(t, body.LeadID)
	assert.Equal(t, string(entity.RoutingStatusFlaggedForOutreach), body.RoutingStatus)
	assert.Equal(t, 1, leadRepo.created)
}

func TestLeadHandlerAcceptsJSONWithCharset(t *testing.T) {
	handler, _ := newLeadHandler(testSite(entity.SiteStatusActive))

	payload := `{"site_slug":"water-damage-restoration_dallas","name":"Jane Doe","phone":"555-123-4567"}`
	req := httptest.NewRequest(http.MethodPost, "/api/lead", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.RemoteAddr = "203.0.113.8:1234"

	rec := httptest.NewRecorder()
	handler.Handle(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestLeadHandlerRejectsMissingPhone(t *testing.T) {
	handler, leadRepo := newLeadHandler(testSite(entity.SiteStatusActive))

	form := validForm()
	form.Del("phone")
	rec := postForm(handler, form, "203.0.113.9:1234")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, leadRepo.created)
}

func TestLeadHandlerRejectsDeactivatedSite(t *testing.T) {
	handler, leadRepo := newLeadHandler(testSite(entity.SiteStatusDeactivated))

	rec := postForm(handler, validForm(), "203.0.113.10:1234")

	assert.Equal(t, http.StatusGone, rec.Code)
	assert.Equal(t, 0, leadRepo.created)
}

func TestLeadHandlerRateLimitsPerIP(t *testing.T) {
	handler, _ := newLeadHandler(testSite(entity.SiteStatusActive))

	var last *httptest.ResponseRecorder
	for i := 0; i < 11; i++ {
		last = postForm(handler, validForm(), "203.0.113.11:1234")
	}
	assert.Equal(t, http.StatusTooManyRequests, last.Code)

	// A different client is unaffected.
	rec := postForm(handler, validForm(), "203.0.113.12:1234")
	assert.Equal(t, http.StatusCreated, rec.Code)
}
