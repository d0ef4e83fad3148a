package queue

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type flakyNotifier struct {
	failures int
	calls    int
}

func (n *flakyNotifier) SendLeadNotification(payload LeadNotification) error {
	n.calls++
	if n.calls <= n.failures {
		return errors.New("smtp unavailable")
	}
	return nil
}

func newTestWorker(notifier PartnerNotifier) *Worker {
	return &Worker{
		Notifier:    notifier,
		Log:         zap.NewNop(),
		MaxAttempts: 3,
		Backoff:     time.Millisecond,
	}
}

func TestDeliverSucceedsFirstAttempt(t *testing.T) {
	notifier := &flakyNotifier{}
	w := newTestWorker(notifier)

	err := w.deliver(LeadNotification{LeadID: "lead-1"})

	require.NoError(t, err)
	assert.Equal(t, 1, notifier.calls)
}

func TestDeliverRetriesTransientFailures(t *testing.T) {
	notifier := &flakyNotifier{failures: 2}
	w := newTestWorker(notifier)

	err := w.deliver(LeadNotification{LeadID: "lead-1"})

	require.NoError(t, err)
	assert.Equal(t, 3, notifier.calls)
}

func TestDeliverGivesUpAfterMaxAttempts(t *testing.T) {
	notifier := &flakyNotifier{failures: 10}
	w := newTestWorker(notifier)

	err := w.deliver(LeadNotification{LeadID: "lead-1"})

	require.Error(t, err)
	assert.Equal(t, 3, notifier.calls)
}
