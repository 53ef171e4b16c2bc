package availability

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"studiobook/models"
	"studiobook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	slots []models.AvailableSlot
	err   error
	calls int
	start time.Time
	end   time.Time
}

func (f *fakeSource) ListAvailableTimes(_ context.Context, _ string, start, end time.Time) ([]models.AvailableSlot, error) {
	f.calls++
	f.start, f.end = start, end
	return f.slots, f.err
}

type memoryCache struct {
	entries map[string][]models.AvailableSlot
}

func (m *memoryCache) Get(_ context.Context, key string) ([]models.AvailableSlot, bool, error) {
	slots, ok := m.entries[key]
	return slots, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, slots []models.AvailableSlot) error {
	m.entries[key] = slots
	return nil
}

func newTestService(source SlotSource) *DefaultAvailabilityService {
	return &DefaultAvailabilityService{
		Source:       source,
		EventTypeURI: "https://api.calendly.com/event_types/intake",
		Policy:       DefaultPolicy,
		Logger:       zap.NewNop(),
		Now:          func() time.Time { return testNow },
	}
}

func TestAvailableTimesFiltersNoticePeriod(t *testing.T) {
	minStart := testNow.Add(4 * time.Hour)
	source := &fakeSource{slots: []models.AvailableSlot{
		{StartTime: minStart.Add(-30 * time.Minute).Format(time.RFC3339), Status: "available"},
		{StartTime: minStart.Add(30 * time.Minute).Format(time.RFC3339), Status: "available"},
	}}
	svc := newTestService(source)

	result, err := svc.AvailableTimes(context.Background(), "", "")
	require.NoError(t, err)

	require.Len(t, result.Collection, 1)
	assert.Equal(t, source.slots[1], result.Collection[0])
	assert.Equal(t, 4, result.MinNoticeHours)
	assert.Equal(t, 31, result.MaxDaysAhead)
	assert.Equal(t, minStart, source.start)
	assert.Equal(t, minStart.Add(7*24*time.Hour), source.end)
}

func TestAvailableTimesNotConfigured(t *testing.T) {
	t.Run("no source", func(t *testing.T) {
		svc := newTestService(nil)
		_, err := svc.AvailableTimes(context.Background(), "", "")

		var cfgErr *utils.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "CALENDLY_API_TOKEN", cfgErr.Setting)
		assert.Equal(t, http.StatusInternalServerError, utils.StatusFor(err))
	})

	t.Run("no event type", func(t *testing.T) {
		source := &fakeSource{}
		svc := newTestService(source)
		svc.EventTypeURI = ""
		_, err := svc.AvailableTimes(context.Background(), "", "")

		var cfgErr *utils.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "CALENDLY_EVENT_TYPE_URI", cfgErr.Setting)
		assert.Zero(t, source.calls)
	})
}

func TestAvailableTimesUpstreamErrorPassesThrough(t *testing.T) {
	upstream := &utils.UpstreamError{Provider: "calendly", StatusCode: 403, Body: []byte(`{"title":"Permission Denied"}`)}
	svc := newTestService(&fakeSource{err: upstream})

	_, err := svc.AvailableTimes(context.Background(), "", "")

	assert.Same(t, upstream, err)
	assert.Equal(t, 403, utils.StatusFor(err))
}

func TestAvailableTimesTransportError(t *testing.T) {
	svc := newTestService(&fakeSource{err: errors.New("connection reset")})

	_, err := svc.AvailableTimes(context.Background(), "", "")

	var transportErr *utils.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Contains(t, err.Error(), "failed to fetch available times")
}

func TestAvailableTimesEmptyWindowSkipsProvider(t *testing.T) {
	source := &fakeSource{}
	svc := newTestService(source)

	result, err := svc.AvailableTimes(context.Background(),
		testNow.Add(-48*time.Hour).Format(time.RFC3339),
		testNow.Add(-24*time.Hour).Format(time.RFC3339))
	require.NoError(t, err)

	assert.Empty(t, result.Collection)
	assert.NotNil(t, result.Collection)
	assert.Zero(t, source.calls)
}

func TestAvailableTimesCachedSlotsAreRefiltered(t *testing.T) {
	source := &fakeSource{}
	svc := newTestService(source)
	cache := &memoryCache{entries: map[string][]models.AvailableSlot{}}
	svc.Cache = cache

	window, err := svc.Policy.Resolve(testNow, "", "")
	require.NoError(t, err)
	cache.entries[cacheKey(svc.EventTypeURI, window)] = []models.AvailableSlot{
		{StartTime: testNow.Add(time.Hour).Format(time.RFC3339)},
		{StartTime: testNow.Add(6 * time.Hour).Format(time.RFC3339)},
	}

	result, err := svc.AvailableTimes(context.Background(), "", "")
	require.NoError(t, err)

	assert.Zero(t, source.calls)
	require.Len(t, result.Collection, 1)
	assert.Equal(t, testNow.Add(6*time.Hour).Format(time.RFC3339), result.Collection[0].StartTime)
}

func TestAvailableTimesPopulatesCache(t *testing.T) {
	source := &fakeSource{slots: []models.AvailableSlot{
		{StartTime: testNow.Add(6 * time.Hour).Format(time.RFC3339)},
	}}
	svc := newTestService(source)
	cache := &memoryCache{entries: map[string][]models.AvailableSlot{}}
	svc.Cache = cache

	_, err := svc.AvailableTimes(context.Background(), "", "")
	require.NoError(t, err)
	_, err = svc.AvailableTimes(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, 1, source.calls)
	assert.Len(t, cache.entries, 1)
}

func TestAvailableTimesCachedSlotsPastWindowEndAreDropped(t *testing.T) {
	later := testNow.Add(30 * time.Second)
	lastSlot := later.Add(4*time.Hour + 7*24*time.Hour - 5*time.Second)
	source := &fakeSource{slots: []models.AvailableSlot{
		{StartTime: testNow.Add(6 * time.Hour).Format(time.RFC3339)},
		{StartTime: lastSlot.Format(time.RFC3339)},
	}}
	svc := newTestService(source)
	svc.Cache = &memoryCache{entries: map[string][]models.AvailableSlot{}}

	svc.Now = func() time.Time { return later }
	first, err := svc.AvailableTimes(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, first.Collection, 2)

	// Same minute bucket, but the resolved window now ends before lastSlot.
	svc.Now = func() time.Time { return testNow }
	second, err := svc.AvailableTimes(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, 1, source.calls)
	require.Len(t, second.Collection, 1)
	assert.Equal(t, testNow.Add(6*time.Hour).Format(time.RFC3339), second.Collection[0].StartTime)
}
