package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	err := fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505", ConstraintName: ConstraintUsernameUnique})

	assert.True(t, IsDuplicateConstraintError(err, ConstraintUsernameUnique))
	assert.False(t, IsDuplicateConstraintError(err, ConstraintEnrollmentUnique))
	assert.False(t, IsDuplicateConstraintError(errors.New("boom"), ConstraintUsernameUnique))
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
}
