package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type MockRecordPurger struct {
	mock.Mock
}

func (m *MockRecordPurger) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Error(1)
}

func TestRunOnce_UsesRetentionWindow(t *testing.T) {
	purger := new(MockRecordPurger)
	job := NewRecordRetentionJob(purger, RecordRetentionConfig{Schedule: "@daily", RetentionDays: 30}, zap.NewNop())
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return now }

	purger.On("PurgeOlderThan", mock.Anything, time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC)).Return(3, nil).Once()

	n, err := job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	purger.AssertExpectations(t)
}

func TestRunOnce_Disabled(t *testing.T) {
	purger := new(MockRecordPurger)
	job := NewRecordRetentionJob(purger, RecordRetentionConfig{Schedule: "@daily"}, zap.NewNop())

	n, err := job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	purger.AssertNotCalled(t, "PurgeOlderThan", mock.Anything, mock.Anything)

	require.NoError(t, job.SetupAndStart())
	assert.Empty(t, job.cronScheduler.Entries())
}

func TestRunOnce_PropagatesError(t *testing.T) {
	purger := new(MockRecordPurger)
	job := NewRecordRetentionJob(purger, RecordRetentionConfig{Schedule: "@daily", RetentionDays: 1}, zap.NewNop())
	purger.On("PurgeOlderThan", mock.Anything, mock.Anything).Return(0, errors.New("disk gone"))

	_, err := job.RunOnce(context.Background())
	assert.EqualError(t, err, "disk gone")
}

func TestSetupAndStart_SchedulesAndStops(t *testing.T) {
	job := NewRecordRetentionJob(new(MockRecordPurger), RecordRetentionConfig{Schedule: "@daily", RetentionDays: 7}, zap.NewNop())
	require.NoError(t, job.SetupAndStart())
	assert.Len(t, job.cronScheduler.Entries(), 1)
	job.Stop()
}

func TestSetupAndStart_BadSchedule(t *testing.T) {
	job := NewRecordRetentionJob(new(MockRecordPurger), RecordRetentionConfig{Schedule: "every tuesday", RetentionDays: 7}, zap.NewNop())
	assert.Error(t, job.SetupAndStart())
}

func TestCronLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewCronLogger(zap.New(core))

	l.Info("tick", "entry", 1, "dangling")
	l.Error(errors.New("boom"), "failed", "entry", 2)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "tick", entries[0].Message)
	assert.Equal(t, "MISSING_VALUE", entries[0].ContextMap()["dangling"])
	assert.Equal(t, int64(1), entries[0].ContextMap()["entry"])
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}
