package middleware

import (
	"testing"

	"github.com/cockroachdb/errors"
	ierr "github.com/lensprice/lensprice/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorDisplayAndDetails(t *testing.T) {
	err := ierr.NewError("lens product not found").
		WithHint("Lens BLUE160 was not found").
		WithReportableDetails(map[string]any{"lens_code": "BLUE160"}).
		Mark(ierr.ErrNotFound)

	assert.Equal(t, "Lens BLUE160 was not found", getDisplayMessage(err))
	assert.Equal(t, map[string]any{"lens_code": "BLUE160"}, getSafeDetails(err))
}

func TestErrorDisplayFallback(t *testing.T) {
	err := errors.New("connection reset")

	assert.Equal(t, "An unexpected error occurred", getDisplayMessage(err))
	assert.Empty(t, getSafeDetails(err))
}
