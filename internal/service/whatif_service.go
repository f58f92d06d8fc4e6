package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/gradeview-api/internal/gradebook"
	"github.com/noah-isme/gradeview-api/internal/models"
	appErrors "github.com/noah-isme/gradeview-api/pkg/errors"
)

type scenarioStore interface {
	Create(ctx context.Context, scenario *models.Scenario) error
	Update(ctx context.Context, scenario *models.Scenario) error
	FindByID(ctx context.Context, studentID, id string) (*models.Scenario, error)
	ListByStudent(ctx context.Context, studentID string, period int) ([]models.Scenario, error)
	Delete(ctx context.Context, studentID, id string) error
}

// WhatIfService layers hypothetical edits over live gradebook data.
// The working edit list lives in Redis keyed by session and period, so
// it survives app restarts but expires with the session; named
// scenarios are the durable copy in Postgres. Edits always replay over
// a fresh snapshot, there is no cached post-edit state.
type WhatIfService struct {
	gradebooks *GradebookService
	scenarios  scenarioStore
	cache      *CacheService
	validator  *validator.Validate
	editTTL    time.Duration
	logger     *zap.Logger
}

// NewWhatIfService constructs a WhatIfService.
func NewWhatIfService(gradebooks *GradebookService, scenarios scenarioStore, cache *CacheService, v *validator.Validate, editTTL time.Duration, logger *zap.Logger) *WhatIfService {
	if editTTL <= 0 {
		editTTL = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhatIfService{
		gradebooks: gradebooks,
		scenarios:  scenarios,
		cache:      cache,
		validator:  v,
		editTTL:    editTTL,
		logger:     logger,
	}
}

// Snapshot returns the normalized gradebook for the session and period
// with the working edit list replayed on top. The boolean reports
// whether the underlying raw snapshot came from cache.
func (s *WhatIfService) Snapshot(ctx context.Context, session *models.Session, period int, forceRefresh bool) (gradebook.Marks, bool, error) {
	raw, cached, err := s.gradebooks.Fetch(ctx, session, period, forceRefresh)
	if err != nil {
		return gradebook.Marks{}, false, err
	}
	marks := gradebook.Normalize(raw)
	edits := s.workingEdits(ctx, session, period)
	return s.replay(marks, edits, session), cached, nil
}

// ApplyEdit validates and applies one edit on top of the current
// snapshot. Unlike replay, a direct edit is strict: referencing a
// missing course or assignment fails instead of being skipped. On
// success the edit is appended to the working list.
func (s *WhatIfService) ApplyEdit(ctx context.Context, session *models.Session, period int, edit models.WhatIfEdit) (gradebook.Marks, error) {
	if err := s.validateEdit(edit); err != nil {
		return gradebook.Marks{}, err
	}

	marks, _, err := s.Snapshot(ctx, session, period, false)
	if err != nil {
		return gradebook.Marks{}, err
	}
	next, err := applyEdit(marks, edit)
	if err != nil {
		return gradebook.Marks{}, err
	}

	edits := append(s.workingEdits(ctx, session, period), edit)
	s.cache.Set(ctx, whatIfKey(session.ID, period), edits, s.editTTL)
	return next, nil
}

// Reset discards the working edit list for one period.
func (s *WhatIfService) Reset(ctx context.Context, session *models.Session, period int) {
	s.cache.Delete(ctx, whatIfKey(session.ID, period))
}

// SaveScenario persists the current working edit list under a name.
func (s *WhatIfService) SaveScenario(ctx context.Context, session *models.Session, period int, name string) (*models.Scenario, error) {
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "scenario name is required")
	}
	edits := s.workingEdits(ctx, session, period)
	if len(edits) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no edits to save")
	}

	scenario := &models.Scenario{
		ID:              uuid.NewString(),
		StudentID:       session.StudentID,
		Name:            name,
		ReportingPeriod: period,
		Edits:           edits,
	}
	if err := s.scenarios.Create(ctx, scenario); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save scenario")
	}
	s.logger.Info("scenario saved",
		zap.String("scenario_id", scenario.ID),
		zap.String("student_id", session.StudentID),
		zap.Int("edits", len(edits)),
	)
	return scenario, nil
}

// UpdateScenario overwrites a saved scenario with the current working
// edit list, optionally renaming it.
func (s *WhatIfService) UpdateScenario(ctx context.Context, session *models.Session, id, name string) (*models.Scenario, error) {
	scenario, err := s.scenarios.FindByID(ctx, session.StudentID, id)
	if err != nil {
		return nil, scenarioLookupError(err, id)
	}
	if name != "" {
		scenario.Name = name
	}
	scenario.Edits = s.workingEdits(ctx, session, scenario.ReportingPeriod)
	if err := s.scenarios.Update(ctx, scenario); err != nil {
		return nil, scenarioLookupError(err, id)
	}
	return scenario, nil
}

// ListScenarios returns one page of the student's saved scenarios,
// optionally filtered by reporting period (negative means all).
func (s *WhatIfService) ListScenarios(ctx context.Context, session *models.Session, period, page, size int) ([]models.Scenario, *models.Pagination, error) {
	scenarios, err := s.scenarios.ListByStudent(ctx, session.StudentID, period)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list scenarios")
	}

	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	total := len(scenarios)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return scenarios[start:end], pagination, nil
}

// LoadScenario replaces the working edit list with a saved scenario's
// edits and returns the resulting snapshot for the scenario's period.
func (s *WhatIfService) LoadScenario(ctx context.Context, session *models.Session, id string) (gradebook.Marks, *models.Scenario, error) {
	scenario, err := s.scenarios.FindByID(ctx, session.StudentID, id)
	if err != nil {
		return gradebook.Marks{}, nil, scenarioLookupError(err, id)
	}
	s.cache.Set(ctx, whatIfKey(session.ID, scenario.ReportingPeriod), scenario.Edits, s.editTTL)

	marks, _, err := s.Snapshot(ctx, session, scenario.ReportingPeriod, false)
	if err != nil {
		return gradebook.Marks{}, nil, err
	}
	return marks, scenario, nil
}

// DeleteScenario removes a saved scenario.
func (s *WhatIfService) DeleteScenario(ctx context.Context, session *models.Session, id string) error {
	if err := s.scenarios.Delete(ctx, session.StudentID, id); err != nil {
		return scenarioLookupError(err, id)
	}
	return nil
}

// replay applies recorded edits leniently: gradebook data shifts under
// a saved list (assignments get graded, renamed, removed), so an edit
// whose target vanished is skipped with a warning rather than sinking
// the whole snapshot.
func (s *WhatIfService) replay(marks gradebook.Marks, edits models.WhatIfEdits, session *models.Session) gradebook.Marks {
	for i, edit := range edits {
		next, err := applyEdit(marks, edit)
		if err != nil {
			s.logger.Warn("skipping stale what-if edit",
				zap.String("session_id", session.ID),
				zap.Int("index", i),
				zap.String("type", string(edit.Type)),
				zap.Error(err),
			)
			continue
		}
		marks = next
	}
	return marks
}

func (s *WhatIfService) workingEdits(ctx context.Context, session *models.Session, period int) models.WhatIfEdits {
	var edits models.WhatIfEdits
	hit, err := s.cache.Get(ctx, whatIfKey(session.ID, period), &edits)
	if err != nil || !hit {
		return nil
	}
	return edits
}

func (s *WhatIfService) validateEdit(edit models.WhatIfEdit) error {
	if err := s.validator.Struct(edit); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	switch edit.Type {
	case models.EditUpdatePoints:
		if edit.Assignment == "" || edit.Field == "" {
			return appErrors.Clone(appErrors.ErrValidation, "update requires assignment and field")
		}
	case models.EditDeleteAssignment:
		if edit.Assignment == "" {
			return appErrors.Clone(appErrors.ErrValidation, "delete requires assignment")
		}
	case models.EditToggleCategory:
		if edit.Category == "" {
			return appErrors.Clone(appErrors.ErrValidation, "toggle requires category")
		}
	}
	return nil
}

// applyEdit dispatches one recorded edit to the engine. nil numeric
// fields become NaN, the engine's representation of a blank input.
func applyEdit(marks gradebook.Marks, edit models.WhatIfEdit) (gradebook.Marks, error) {
	switch edit.Type {
	case models.EditUpdatePoints:
		field := gradebook.FieldEarned
		if edit.Field == string(gradebook.FieldTotal) {
			field = gradebook.FieldTotal
		}
		return gradebook.UpdatePoints(marks, edit.Course, edit.Assignment, floatOrNaN(edit.Value), field)
	case models.EditAddAssignment:
		return gradebook.AddAssignment(marks, edit.Course, edit.Category, floatOrNaN(edit.Points), floatOrNaN(edit.Total))
	case models.EditDeleteAssignment:
		return gradebook.DeleteAssignment(marks, edit.Course, edit.Assignment)
	case models.EditToggleCategory:
		return gradebook.ToggleCategory(marks, edit.Course, edit.Category)
	default:
		return gradebook.Marks{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown edit type %q", edit.Type))
	}
}

func floatOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func scenarioLookupError(err error, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("scenario %q not found", id))
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "scenario storage failure")
}

func whatIfKey(sessionID string, period int) string {
	return fmt.Sprintf("whatif:%s:%d", sessionID, period)
}
