package models_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/prana/pkg/models"
)

func TestCodedError_ErrorsIsMatchesByCode(t *testing.T) {
	err := models.ErrActionNotFound("http.request")
	target := &models.CodedError{Code: models.CodeActionNotFound}

	assert.True(t, errors.Is(err, target))
	assert.False(t, errors.Is(err, &models.CodedError{Code: models.CodeValidationError}))
}

func TestCodedError_WrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := models.WrapCodedError(models.CodeTemplateRenderError, cause)

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "boom")
}

func TestCodedError_WithDetailsReplacesDetails(t *testing.T) {
	err := models.ErrTriggerNodeNotFound("start")
	assert.Equal(t, "start", err.Details["node_key"])

	err = err.WithDetails(map[string]any{"extra": "x"})
	assert.Equal(t, "x", err.Details["extra"])
	assert.NotContains(t, err.Details, "node_key")
}
