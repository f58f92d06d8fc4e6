package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/gradeview-api/internal/models"
)

// ScenarioRepository persists named what-if scenarios. Scenarios are
// the only state this service writes to Postgres; gradebook data stays
// in memory and Redis.
type ScenarioRepository struct {
	db *sqlx.DB
}

// NewScenarioRepository constructs the repository.
func NewScenarioRepository(db *sqlx.DB) *ScenarioRepository {
	return &ScenarioRepository{db: db}
}

// Create inserts a scenario.
func (r *ScenarioRepository) Create(ctx context.Context, scenario *models.Scenario) error {
	const query = `INSERT INTO whatif_scenarios (id, student_id, name, reporting_period, edits, created_at, updated_at)
VALUES (:id, :student_id, :name, :reporting_period, :edits, :created_at, :updated_at)`
	now := time.Now().UTC()
	scenario.CreatedAt = now
	scenario.UpdatedAt = now
	if _, err := r.db.NamedExecContext(ctx, query, scenario); err != nil {
		return fmt.Errorf("create scenario: %w", err)
	}
	return nil
}

// Update replaces a scenario's name and edit list.
func (r *ScenarioRepository) Update(ctx context.Context, scenario *models.Scenario) error {
	const query = `UPDATE whatif_scenarios
SET name = :name, edits = :edits, updated_at = :updated_at
WHERE id = :id AND student_id = :student_id`
	scenario.UpdatedAt = time.Now().UTC()
	result, err := r.db.NamedExecContext(ctx, query, scenario)
	if err != nil {
		return fmt.Errorf("update scenario: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update scenario rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindByID fetches one scenario scoped to a student.
func (r *ScenarioRepository) FindByID(ctx context.Context, studentID, id string) (*models.Scenario, error) {
	const query = `SELECT id, student_id, name, reporting_period, edits, created_at, updated_at
FROM whatif_scenarios WHERE id = $1 AND student_id = $2`
	var scenario models.Scenario
	if err := r.db.GetContext(ctx, &scenario, query, id, studentID); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// ListByStudent returns a student's scenarios, newest first, optionally
// filtered by reporting period (negative means all).
func (r *ScenarioRepository) ListByStudent(ctx context.Context, studentID string, period int) ([]models.Scenario, error) {
	query := `SELECT id, student_id, name, reporting_period, edits, created_at, updated_at
FROM whatif_scenarios WHERE student_id = $1`
	args := []interface{}{studentID}
	if period >= 0 {
		query += ` AND reporting_period = $2`
		args = append(args, period)
	}
	query += ` ORDER BY updated_at DESC`
	var scenarios []models.Scenario
	if err := r.db.SelectContext(ctx, &scenarios, query, args...); err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	return scenarios, nil
}

// Delete removes a scenario scoped to a student.
func (r *ScenarioRepository) Delete(ctx context.Context, studentID, id string) error {
	const query = `DELETE FROM whatif_scenarios WHERE id = $1 AND student_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, studentID)
	if err != nil {
		return fmt.Errorf("delete scenario: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete scenario rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
