package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smilemakc/prana/pkg/models"
)

func TestActionSpec_DeclaresAnyPort(t *testing.T) {
	s := models.ActionSpec{OutputPorts: []string{models.PortAny}}
	assert.True(t, s.DeclaresAnyPort())

	s = models.ActionSpec{OutputPorts: []string{models.PortMain, models.PortError}}
	assert.False(t, s.DeclaresAnyPort())
}

func TestActionSpec_HasOutputPort(t *testing.T) {
	s := models.ActionSpec{OutputPorts: []string{models.PortMain, "true", "false"}}
	assert.True(t, s.HasOutputPort("true"))
	assert.False(t, s.HasOutputPort("missing"))
}

func TestActionOutcome_Constructors(t *testing.T) {
	completed := models.Completed(map[string]any{"x": 1}, models.PortMain, nil)
	assert.Equal(t, models.OutcomeCompleted, completed.Kind)

	shared := models.CompletedWithSharedState(nil, models.PortMain, map[string]any{"counter": 1}, nil)
	assert.Equal(t, models.OutcomeCompletedWithSharedState, shared.Kind)
	assert.Equal(t, 1, shared.SharedState["counter"])

	suspended := models.Suspended(models.SuspensionWebhook, models.WebhookSuspensionData{ResumeToken: "t"})
	assert.Equal(t, models.OutcomeSuspended, suspended.Kind)
	assert.Equal(t, models.SuspensionWebhook, suspended.SuspensionType)

	failed := models.Failed(assertError{}, "")
	assert.Equal(t, models.OutcomeFailed, failed.Kind)
	assert.Equal(t, models.PortError, failed.ErrorPort, "empty port defaults to the error port")
}

type assertError struct{}

func (assertError) Error() string { return "boom" }
