package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/localauthority/leadengine/internal/entity"
	"github.com/localauthority/leadengine/internal/usecase"
)

type lifecycleFixture struct {
	controller *usecase.LifecycleController
	siteRepo   *MockSiteRepository
	leadRepo   *MockLeadRepository
	ledgerRepo *MockLedgerRepository
	runRepo    *MockRunRepository
	outreach   *MockOutreachSender
}

func newLifecycleFixture() *lifecycleFixture {
	siteRepo := new(MockSiteRepository)
	leadRepo := new(MockLeadRepository)
	ledgerRepo := new(MockLedgerRepository)
	runRepo := new(MockRunRepository)
	outreach := new(MockOutreachSender)

	scanner := usecase.NewEligibilityScanner(siteRepo, leadRepo, 5, 30, zap.NewNop())
	tracker := usecase.NewROITracker(siteRepo, leadRepo, ledgerRepo, 120, 0, zap.NewNop())
	controller := usecase.NewLifecycleController(scanner, tracker, siteRepo, runRepo, outreach, zap.NewNop())

	return &lifecycleFixture{
		controller: controller,
		siteRepo:   siteRepo,
		leadRepo:   leadRepo,
		ledgerRepo: ledgerRepo,
		runRepo:    runRepo,
		outreach:   outreach,
	}
}

// A site crossing the threshold is flagged once and outreach fires
// once; subsequent runs see the transition already applied and stay
// quiet, so a sixth lead never re-triggers outreach.
func TestRunOnceTriggersOutreachExactlyOncePerTransition(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture()

	asOf := time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)
	site := unassignedSite("water-damage-restoration_dallas")

	f.runRepo.On("LastRun", ctx).Return(nil, nil)
	f.siteRepo.On("ListUnassignedActive", ctx).Return([]*entity.Site{site}, nil)
	f.leadRepo.On("CountInWindow", ctx, site.Slug, mock.Anything, mock.Anything).Return(5, nil)
	f.siteRepo.On("MarkSalesEligible", ctx, site.Slug).Return(true, nil).Once()
	f.siteRepo.On("MarkSalesEligible", ctx, site.Slug).Return(false, nil)
	f.siteRepo.On("FindBySlug", ctx, site.Slug).Return(site, nil)
	f.outreach.On("SendOutreach", site, 5).Return(nil)
	f.siteRepo.On("ListEvaluable", ctx).Return([]*entity.Site{}, nil)
	f.runRepo.On("RecordRun", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	report, err := f.controller.RunOnce(ctx, asOf)
	require.NoError(t, err)
	assert.Equal(t, []string{site.Slug}, report.FlaggedSites)
	assert.Equal(t, 1, report.OutreachSent)

	// Next run: scanner flags again, but the transition no longer applies.
	report2, err := f.controller.RunOnce(ctx, asOf.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, report2.FlaggedSites)

	f.outreach.AssertNumberOfCalls(t, "SendOutreach", 1)
}

func TestRunOnceDeactivatesFlaggedSites(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture()

	asOf := time.Now()
	site := evaluableSite("duct-cleaning-services_charlotte", 130)

	f.runRepo.On("LastRun", ctx).Return(nil, nil)
	f.siteRepo.On("ListUnassignedActive", ctx).Return([]*entity.Site{}, nil)
	f.siteRepo.On("ListEvaluable", ctx).Return([]*entity.Site{site}, nil)
	f.leadRepo.On("CountInWindow", ctx, site.Slug, mock.Anything, asOf).Return(0, nil)
	f.siteRepo.On("Deactivate", ctx, site.Slug).Return(true, nil)
	f.runRepo.On("RecordRun", ctx, asOf, 0, 1).Return(nil)

	report, err := f.controller.RunOnce(ctx, asOf)

	require.NoError(t, err)
	assert.Equal(t, []string{site.Slug}, report.Deactivated)
	f.runRepo.AssertExpectations(t)
}

// Outreach delivery is best effort: a send failure is counted but the
// sales_eligible transition stands.
func TestRunOnceOutreachFailureDoesNotRevertTransition(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture()

	asOf := time.Now()
	site := unassignedSite("hvac-repair-services_phoenix")

	f.runRepo.On("LastRun", ctx).Return(nil, nil)
	f.siteRepo.On("ListUnassignedActive", ctx).Return([]*entity.Site{site}, nil)
	f.leadRepo.On("CountInWindow", ctx, site.Slug, mock.Anything, asOf).Return(8, nil)
	f.siteRepo.On("MarkSalesEligible", ctx, site.Slug).Return(true, nil)
	f.siteRepo.On("FindBySlug", ctx, site.Slug).Return(site, nil)
	f.outreach.On("SendOutreach", site, 8).Return(assert.AnError)
	f.siteRepo.On("ListEvaluable", ctx).Return([]*entity.Site{}, nil)
	f.runRepo.On("RecordRun", ctx, mock.Anything, 1, 0).Return(nil)

	report, err := f.controller.RunOnce(ctx, asOf)

	require.NoError(t, err)
	assert.Equal(t, []string{site.Slug}, report.FlaggedSites)
	assert.Equal(t, 0, report.OutreachSent)
	assert.Equal(t, 1, report.OutreachFailed)
}
