package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradeview-api/internal/models"
	"github.com/noah-isme/gradeview-api/pkg/response"
)

func applyEditBody(t *testing.T, edit models.WhatIfEdit) []byte {
	t.Helper()
	payload, err := json.Marshal(edit)
	require.NoError(t, err)
	return payload
}

func TestWhatIfHandlerApplyEdit(t *testing.T) {
	stack := newTestStack()
	handler := NewWhatIfHandler(stack.whatIf)
	value := 10.0

	body := applyEditBody(t, models.WhatIfEdit{
		Type:       models.EditUpdatePoints,
		Course:     "Algebra 1 (MAT1008A)",
		Assignment: "Worksheet 3",
		Field:      "earned",
		Value:      &value,
	})
	c, w := authedContext(t, http.MethodPost, "/whatif/edits", body)
	handler.ApplyEdit(c)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)
	course := data["courses"].([]interface{})[0].(map[string]interface{})
	assert.InDelta(t, 88.021, course["value"].(float64), 1e-9)
}

func TestWhatIfHandlerApplyEditUnknownAssignment(t *testing.T) {
	stack := newTestStack()
	handler := NewWhatIfHandler(stack.whatIf)
	value := 10.0

	body := applyEditBody(t, models.WhatIfEdit{
		Type:       models.EditUpdatePoints,
		Course:     "Algebra 1 (MAT1008A)",
		Assignment: "Ghost Quiz",
		Field:      "earned",
		Value:      &value,
	})
	c, w := authedContext(t, http.MethodPost, "/whatif/edits", body)
	handler.ApplyEdit(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWhatIfHandlerApplyEditInvalidBody(t *testing.T) {
	stack := newTestStack()
	handler := NewWhatIfHandler(stack.whatIf)

	c, w := authedContext(t, http.MethodPost, "/whatif/edits", []byte(`not json`))
	handler.ApplyEdit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWhatIfHandlerSaveScenarioWithoutEdits(t *testing.T) {
	stack := newTestStack()
	handler := NewWhatIfHandler(stack.whatIf)

	c, w := authedContext(t, http.MethodPost, "/whatif/scenarios", []byte(`{"name":"empty"}`))
	handler.SaveScenario(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWhatIfHandlerScenarioRoundTrip(t *testing.T) {
	stack := newTestStack()
	handler := NewWhatIfHandler(stack.whatIf)
	value := 10.0

	body := applyEditBody(t, models.WhatIfEdit{
		Type:       models.EditUpdatePoints,
		Course:     "Algebra 1 (MAT1008A)",
		Assignment: "Worksheet 3",
		Field:      "earned",
		Value:      &value,
	})
	c, w := authedContext(t, http.MethodPost, "/whatif/edits", body)
	handler.ApplyEdit(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = authedContext(t, http.MethodPost, "/whatif/scenarios", []byte(`{"name":"perfect worksheet"}`))
	handler.SaveScenario(c)
	require.Equal(t, http.StatusCreated, w.Code)
	saved := decodeEnvelope(t, w)
	scenarioID := saved["id"].(string)
	require.NotEmpty(t, scenarioID)

	c, w = authedContext(t, http.MethodGet, "/whatif/scenarios", nil)
	handler.ListScenarios(c)
	require.Equal(t, http.StatusOK, w.Code)
	var listed response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.NotNil(t, listed.Pagination)
	assert.Equal(t, 1, listed.Pagination.Page)
	assert.Equal(t, 1, listed.Pagination.TotalCount)

	// discard the working edits, then load them back from the scenario
	c, w = authedContext(t, http.MethodDelete, "/whatif/edits", nil)
	handler.Reset(c)
	// handlers invoked outside the engine leave the buffered status
	// unflushed, so flush before reading the recorder
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)

	c, w = authedContext(t, http.MethodPost, "/whatif/scenarios/"+scenarioID+"/load", nil)
	c.Params = append(c.Params, gin.Param{Key: "id", Value: scenarioID})
	handler.LoadScenario(c)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)
	course := data["courses"].([]interface{})[0].(map[string]interface{})
	assert.InDelta(t, 88.021, course["value"].(float64), 1e-9)

	c, w = authedContext(t, http.MethodDelete, "/whatif/scenarios/"+scenarioID, nil)
	c.Params = append(c.Params, gin.Param{Key: "id", Value: scenarioID})
	handler.DeleteScenario(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestWhatIfHandlerDeleteScenarioNotFound(t *testing.T) {
	stack := newTestStack()
	handler := NewWhatIfHandler(stack.whatIf)

	c, w := authedContext(t, http.MethodDelete, "/whatif/scenarios/missing", nil)
	c.Params = append(c.Params, gin.Param{Key: "id", Value: "missing"})
	handler.DeleteScenario(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
