package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"cefilm-backend/internal/models"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, models.ErrNotFound},
		{"unique violation", &pq.Error{Code: uniqueViolation}, models.ErrConflict},
		{"malformed uuid", fmt.Errorf("get account: %w", &pq.Error{Code: invalidTextRepresentation}), models.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translate(tt.err), tt.want)
		})
	}

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, translate(nil))
	})

	t.Run("other errors pass through", func(t *testing.T) {
		boom := errors.New("boom")
		assert.Equal(t, boom, translate(boom))
	})
}
