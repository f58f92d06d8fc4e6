package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradeview-api/internal/models"
	"github.com/noah-isme/gradeview-api/internal/portal"
	appErrors "github.com/noah-isme/gradeview-api/pkg/errors"
	"github.com/noah-isme/gradeview-api/pkg/jobs"
)

type gradebookFetcherStub struct {
	raw   *portal.Gradebook
	err   error
	calls int
}

func (s *gradebookFetcherStub) Gradebook(ctx context.Context, accessToken string, period int) (*portal.Gradebook, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.raw, nil
}

// memoryCacheRepo round-trips values through JSON like the Redis
// repository does, so type fidelity bugs surface in tests.
type memoryCacheRepo struct {
	entries map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (r *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	payload, ok := r.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (r *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.entries[key] = payload
	return nil
}

func (r *memoryCacheRepo) Delete(ctx context.Context, key string) error {
	delete(r.entries, key)
	return nil
}

func (r *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	return nil
}

func rawAlgebraGradebook() *portal.Gradebook {
	return &portal.Gradebook{
		ReportingPeriod: portal.ReportingPeriod{
			Current: portal.Period{Index: 0, Name: "Quarter 1"},
			Available: []portal.Period{
				{Index: 0, Name: "Quarter 1"},
				{Index: 1, Name: "Quarter 2"},
			},
		},
		Courses: []portal.Course{
			{
				Title:  "Algebra 1 (MAT1008A)",
				Period: 2,
				Staff:  portal.Staff{Name: "J. Rivera", Email: "jrivera@example.edu"},
				Room:   "204",
				Marks: []portal.Mark{
					{
						Assignments: []portal.Assignment{
							{
								Name:   "Unit Test 1",
								Type:   "Assessments",
								Date:   portal.AssignmentDate{Start: "09/02/2025", Due: "09/05/2025"},
								Score:  portal.Score{Type: "Raw Score", Value: "Graded"},
								Points: "86.69 / 100.0000",
							},
							{
								Name:   "Worksheet 3",
								Type:   "Practice",
								Date:   portal.AssignmentDate{Start: "09/01/2025", Due: "09/03/2025"},
								Score:  portal.Score{Type: "Raw Score", Value: "Graded"},
								Points: "9.00 / 10.0000",
							},
						},
						WeightedCategories: []portal.WeightedCategory{
							{Type: "Practice", Weight: portal.CategoryWeight{Evaluated: "10%", Standard: "10%"}},
							{Type: "Assessments", Weight: portal.CategoryWeight{Evaluated: "90%", Standard: "90%"}},
							{Type: "TOTAL", Weight: portal.CategoryWeight{Evaluated: "100%", Standard: "100%"}},
						},
					},
				},
			},
			{
				Title:  "English 9",
				Period: 4,
				Staff:  portal.Staff{Name: "M. Chen"},
				Room:   "110",
			},
		},
	}
}

func testSession() *models.Session {
	return &models.Session{
		ID:          "sess-1",
		StudentID:   "12345",
		StudentName: "Alex Example",
		PortalToken: "portal-token",
		CreatedAt:   time.Now().UTC(),
	}
}

func newTestCacheService(repo CacheRepository) *CacheService {
	return NewCacheService(repo, nil, time.Minute, nil, true)
}

func TestGradebookServiceFetchCachesSnapshot(t *testing.T) {
	fetcher := &gradebookFetcherStub{raw: rawAlgebraGradebook()}
	cache := newTestCacheService(newMemoryCacheRepo())
	svc := NewGradebookService(fetcher, cache, time.Minute, nil)
	session := testSession()

	raw, cached, err := svc.Fetch(context.Background(), session, 0, false)
	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, raw.Courses, 2)
	assert.Equal(t, 1, fetcher.calls)

	raw, cached, err = svc.Fetch(context.Background(), session, 0, false)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, "Algebra 1 (MAT1008A)", raw.Courses[0].Title)
	assert.Equal(t, 1, fetcher.calls, "second fetch must be served from cache")
}

func TestGradebookServiceFetchScopesCacheByPeriod(t *testing.T) {
	fetcher := &gradebookFetcherStub{raw: rawAlgebraGradebook()}
	cache := newTestCacheService(newMemoryCacheRepo())
	svc := NewGradebookService(fetcher, cache, time.Minute, nil)
	session := testSession()

	_, _, err := svc.Fetch(context.Background(), session, 0, false)
	require.NoError(t, err)
	_, cached, err := svc.Fetch(context.Background(), session, 1, false)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, fetcher.calls)
}

func TestGradebookServiceForceRefreshBypassesCache(t *testing.T) {
	fetcher := &gradebookFetcherStub{raw: rawAlgebraGradebook()}
	cache := newTestCacheService(newMemoryCacheRepo())
	svc := NewGradebookService(fetcher, cache, time.Minute, nil)
	session := testSession()

	_, _, err := svc.Fetch(context.Background(), session, 0, false)
	require.NoError(t, err)
	_, cached, err := svc.Fetch(context.Background(), session, 0, true)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, fetcher.calls)
}

func TestGradebookServiceFetchPortalError(t *testing.T) {
	fetcher := &gradebookFetcherStub{err: appErrors.ErrUpstream}
	cache := newTestCacheService(newMemoryCacheRepo())
	svc := NewGradebookService(fetcher, cache, time.Minute, nil)

	_, _, err := svc.Fetch(context.Background(), testSession(), 0, false)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErrors.FromError(err).Code)
}

func TestGradebookServiceStaleHitSchedulesRefresh(t *testing.T) {
	fetcher := &gradebookFetcherStub{raw: rawAlgebraGradebook()}
	repo := newMemoryCacheRepo()
	svc := NewGradebookService(fetcher, newTestCacheService(repo), time.Minute, nil)
	session := testSession()

	_, _, err := svc.Fetch(context.Background(), session, 0, false)
	require.NoError(t, err)

	// age the snapshot past half its TTL
	key := fmt.Sprintf("gradebook:%s:%d", session.ID, 0)
	var entry cachedGradebook
	require.NoError(t, json.Unmarshal(repo.entries[key], &entry))
	entry.FetchedAt = time.Now().Add(-time.Minute)
	payload, err := json.Marshal(entry)
	require.NoError(t, err)
	repo.entries[key] = payload

	refreshed := make(chan struct{})
	queue := jobs.NewQueue("gradebook-refresh", func(ctx context.Context, job jobs.Job) error {
		defer close(refreshed)
		return svc.RefreshJob(ctx, job)
	}, jobs.QueueConfig{Workers: 1})
	queue.Start(context.Background())
	defer queue.Stop()
	svc.AttachRefreshQueue(queue)

	_, cached, err := svc.Fetch(context.Background(), session, 0, false)
	require.NoError(t, err)
	assert.True(t, cached)

	select {
	case <-refreshed:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a background refresh for the stale snapshot")
	}
	assert.Equal(t, 2, fetcher.calls)
}

func TestGradebookServiceInvalidate(t *testing.T) {
	fetcher := &gradebookFetcherStub{raw: rawAlgebraGradebook()}
	repo := newMemoryCacheRepo()
	svc := NewGradebookService(fetcher, newTestCacheService(repo), time.Minute, nil)
	session := testSession()

	_, _, err := svc.Fetch(context.Background(), session, 0, false)
	require.NoError(t, err)
	assert.Contains(t, repo.entries, fmt.Sprintf("gradebook:%s:%d", session.ID, 0))

	svc.Invalidate(context.Background(), session, 0)
	assert.NotContains(t, repo.entries, fmt.Sprintf("gradebook:%s:%d", session.ID, 0))
}
