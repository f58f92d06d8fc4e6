package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/gradeview-api/internal/models"
	"github.com/noah-isme/gradeview-api/internal/portal"
	"github.com/noah-isme/gradeview-api/pkg/jobs"
)

type portalGradebookFetcher interface {
	Gradebook(ctx context.Context, accessToken string, period int) (*portal.Gradebook, error)
}

// cachedGradebook wraps a raw snapshot with its fetch time so stale
// entries can be refreshed in the background. The raw payload is
// cached instead of the normalized model: it is all strings, so it
// survives the JSON round-trip that NaN sentinels would not.
type cachedGradebook struct {
	FetchedAt time.Time         `json:"fetched_at"`
	Gradebook *portal.Gradebook `json:"gradebook"`
}

type refreshPayload struct {
	SessionID   string
	PortalToken string
	Period      int
}

// GradebookService fetches raw gradebooks through the portal client
// and caches them per session and reporting period. Snapshots served
// from the second half of their TTL trigger an opportunistic
// background re-fetch so the mobile client rarely waits on the portal.
type GradebookService struct {
	portal  portalGradebookFetcher
	cache   *CacheService
	refresh *jobs.Queue
	ttl     time.Duration
	logger  *zap.Logger
}

// NewGradebookService constructs a GradebookService.
func NewGradebookService(portalClient portalGradebookFetcher, cache *CacheService, ttl time.Duration, logger *zap.Logger) *GradebookService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradebookService{portal: portalClient, cache: cache, ttl: ttl, logger: logger}
}

// AttachRefreshQueue enables background refresh. Called once during
// wiring; the queue's handler must be RefreshJob.
func (s *GradebookService) AttachRefreshQueue(queue *jobs.Queue) {
	s.refresh = queue
}

// Fetch returns the raw gradebook for the session and reporting
// period. A negative period selects the portal's current one. The
// boolean reports whether the snapshot came from cache.
func (s *GradebookService) Fetch(ctx context.Context, session *models.Session, period int, forceRefresh bool) (*portal.Gradebook, bool, error) {
	key := gradebookKey(session.ID, period)

	if !forceRefresh {
		var cached cachedGradebook
		hit, err := s.cache.Get(ctx, key, &cached)
		if err == nil && hit && cached.Gradebook != nil {
			s.maybeScheduleRefresh(session, period, cached.FetchedAt)
			return cached.Gradebook, true, nil
		}
	}

	raw, err := s.portal.Gradebook(ctx, session.PortalToken, period)
	if err != nil {
		return nil, false, err
	}
	s.cache.Set(ctx, key, cachedGradebook{FetchedAt: time.Now().UTC(), Gradebook: raw}, s.ttl)
	return raw, false, nil
}

// RefreshJob is the background handler re-fetching a cached snapshot.
func (s *GradebookService) RefreshJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(refreshPayload)
	if !ok {
		return fmt.Errorf("unexpected refresh payload %T", job.Payload)
	}
	raw, err := s.portal.Gradebook(ctx, payload.PortalToken, payload.Period)
	if err != nil {
		return fmt.Errorf("refresh gradebook for session %s: %w", payload.SessionID, err)
	}
	s.cache.Set(ctx, gradebookKey(payload.SessionID, payload.Period), cachedGradebook{FetchedAt: time.Now().UTC(), Gradebook: raw}, s.ttl)
	s.logger.Debug("gradebook refreshed in background",
		zap.String("session_id", payload.SessionID),
		zap.Int("period", payload.Period),
	)
	return nil
}

// Invalidate drops the cached snapshot for one session and period.
func (s *GradebookService) Invalidate(ctx context.Context, session *models.Session, period int) {
	s.cache.Delete(ctx, gradebookKey(session.ID, period))
}

func (s *GradebookService) maybeScheduleRefresh(session *models.Session, period int, fetchedAt time.Time) {
	if s.refresh == nil {
		return
	}
	if time.Since(fetchedAt) < s.ttl/2 {
		return
	}
	job := jobs.Job{
		ID:      fmt.Sprintf("%s:%d", session.ID, period),
		Type:    "gradebook_refresh",
		Payload: refreshPayload{SessionID: session.ID, PortalToken: session.PortalToken, Period: period},
	}
	if !s.refresh.TryEnqueue(job) {
		s.logger.Debug("refresh queue full, skipping", zap.String("session_id", session.ID))
	}
}

// gradebookKey scopes cached snapshots by session so one student's
// data can never leak into another's view.
func gradebookKey(sessionID string, period int) string {
	return fmt.Sprintf("gradebook:%s:%d", sessionID, period)
}
