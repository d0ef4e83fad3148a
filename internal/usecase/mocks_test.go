package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/localauthority/leadengine/internal/entity"
	"github.com/localauthority/leadengine/internal/infra/billing"
	"github.com/localauthority/leadengine/internal/infra/queue"
)

type MockSiteRepository struct {
	mock.Mock
}

func (m *MockSiteRepository) Create(ctx context.Context, site *entity.Site) error {
	args := m.Called(ctx, site)
	return args.Error(0)
}

func (m *MockSiteRepository) FindBySlug(ctx context.Context, slug string) (*entity.Site, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Site), args.Error(1)
}

func (m *MockSiteRepository) ListUnassignedActive(ctx context.Context) ([]*entity.Site, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Site), args.Error(1)
}

func (m *MockSiteRepository) ListEvaluable(ctx context.Context) ([]*entity.Site, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Site), args.Error(1)
}

func (m *MockSiteRepository) AssignPartner(ctx context.Context, slug, partnerID, billingRef string) error {
	args := m.Called(ctx, slug, partnerID, billingRef)
	return args.Error(0)
}

func (m *MockSiteRepository) MarkSalesEligible(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockSiteRepository) Deactivate(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) UpdateRoutingStatus(ctx context.Context, id string, status entity.RoutingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockLeadRepository) CountInWindow(ctx context.Context, siteSlug string, from, to time.Time) (int, error) {
	args := m.Called(ctx, siteSlug, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockLeadRepository) CountRoutedForPartnerSince(ctx context.Context, partnerID string, from time.Time) (int, error) {
	args := m.Called(ctx, partnerID, from)
	return args.Int(0), args.Error(1)
}

type MockPartnerRepository struct {
	mock.Mock
}

func (m *MockPartnerRepository) Create(ctx context.Context, partner *entity.Partner) error {
	args := m.Called(ctx, partner)
	return args.Error(0)
}

func (m *MockPartnerRepository) FindByID(ctx context.Context, id string) (*entity.Partner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Partner), args.Error(1)
}

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Append(ctx context.Context, event *entity.LedgerEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockLedgerRepository) NetCents(ctx context.Context, siteSlug string, from *time.Time, asOf time.Time) (int64, error) {
	args := m.Called(ctx, siteSlug, from, asOf)
	return args.Get(0).(int64), args.Error(1)
}

type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) LastRun(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockRunRepository) RecordRun(ctx context.Context, asOf time.Time, flagged, deactivated int) error {
	args := m.Called(ctx, asOf, flagged, deactivated)
	return args.Error(0)
}

type MockNotificationProducer struct {
	mock.Mock
}

func (m *MockNotificationProducer) PublishLeadRouted(ctx context.Context, payload queue.LeadNotification) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

type MockOutreachSender struct {
	mock.Mock
}

func (m *MockOutreachSender) SendOutreach(site *entity.Site, leadCount int) error {
	args := m.Called(site, leadCount)
	return args.Error(0)
}

type MockBillingGateway struct {
	mock.Mock
}

func (m *MockBillingGateway) CreateCharge(input billing.CreateChargeInput) (string, error) {
	args := m.Called(input)
	return args.String(0), args.Error(1)
}
