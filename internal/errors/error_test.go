package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ValidationError(t *testing.T) {
	err := fmt.Errorf("create: %w", NewValidationError(map[string]string{
		"stock":  "failed on rule: min",
		"nombre": "failed on rule: required",
	}))

	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrProductNotFound)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Len(t, vErr.Fields, 2)
	assert.Equal(t, "create: validation failed: nombre: failed on rule: required, stock: failed on rule: min", err.Error())
}
