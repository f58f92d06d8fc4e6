package dto

import (
	"time"

	"github.com/noah-isme/gradeview-api/internal/models"
)

// SaveScenarioRequest names the current working edit list.
type SaveScenarioRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateScenarioRequest renames a scenario and refreshes its edits
// from the working list.
type UpdateScenarioRequest struct {
	Name string `json:"name"`
}

// ScenarioView is the JSON projection of a saved scenario.
type ScenarioView struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	ReportingPeriod int                `json:"reportingPeriod"`
	Edits           models.WhatIfEdits `json:"edits"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// NewScenarioView projects a stored scenario.
func NewScenarioView(scenario models.Scenario) ScenarioView {
	return ScenarioView{
		ID:              scenario.ID,
		Name:            scenario.Name,
		ReportingPeriod: scenario.ReportingPeriod,
		Edits:           scenario.Edits,
		CreatedAt:       scenario.CreatedAt,
		UpdatedAt:       scenario.UpdatedAt,
	}
}

// NewScenarioViews projects a scenario list.
func NewScenarioViews(scenarios []models.Scenario) []ScenarioView {
	views := make([]ScenarioView, 0, len(scenarios))
	for _, scenario := range scenarios {
		views = append(views, NewScenarioView(scenario))
	}
	return views
}
