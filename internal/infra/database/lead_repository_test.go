package database

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localauthority/leadengine/internal/entity"
)

func newLeadRepoMock(t *testing.T) (*LeadRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewLeadRepository(db), mock
}

func TestLeadRepositoryCreateStoresOptionalFieldsAsNull(t *testing.T) {
	repo, mock := newLeadRepoMock(t)

	lead := entity.NewLead("pest-control_miami", "Jane Doe", "555-123-4567", "", "", "")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO leads")).
		WithArgs(lead.ID, lead.SiteSlug, lead.Name, lead.Phone, nil, nil, nil,
			string(entity.RoutingStatusUnrouted), lead.ReceivedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), lead)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRoutingStatusGuardsAgainstSecondTransition(t *testing.T) {
	repo, mock := newLeadRepoMock(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("routing_status = 'unrouted'")).
		WithArgs(string(entity.RoutingStatusRouted), "lead-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("routing_status = 'unrouted'")).
		WithArgs(string(entity.RoutingStatusFlaggedForOutreach), "lead-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateRoutingStatus(ctx, "lead-1", entity.RoutingStatusRouted)
	require.NoError(t, err)

	// Already routed: the guarded UPDATE touches no row.
	err = repo.UpdateRoutingStatus(ctx, "lead-1", entity.RoutingStatusFlaggedForOutreach)
	assert.ErrorIs(t, err, entity.ErrLeadAlreadyRouted)
}

func TestCountInWindowPassesBoundaries(t *testing.T) {
	repo, mock := newLeadRepoMock(t)

	to := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	from := to.Add(-30 * 24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("received_at > $2 AND received_at <= $3")).
		WithArgs("pest-control_miami", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	count, err := repo.CountInWindow(context.Background(), "pest-control_miami", from, to)

	require.NoError(t, err)
	assert.Equal(t, 5, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountRoutedForPartnerSince(t *testing.T) {
	repo, mock := newLeadRepoMock(t)

	from := time.Now().Add(-30 * 24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("l.routing_status = 'routed'")).
		WithArgs("partner-1", from).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	count, err := repo.CountRoutedForPartnerSince(context.Background(), "partner-1", from)

	require.NoError(t, err)
	assert.Equal(t, 12, count)
}
