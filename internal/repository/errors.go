package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"cefilm-backend/internal/models"
)

const (
	uniqueViolation           = "23505"
	invalidTextRepresentation = "22P02"
)

// translate maps driver errors to domain sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return models.ErrConflict
		case invalidTextRepresentation:
			// malformed uuid lookups cannot match any row
			return models.ErrNotFound
		}
	}
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
