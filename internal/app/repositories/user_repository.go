package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/dberrors"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

var userColumns = []string{"id", "username", "password_hash", "role", "created_at"}

// PgUserRepository handles user database operations
type PgUserRepository struct {
	db DBTX
}

// NewUserRepository creates a new PgUserRepository
func NewUserRepository(db DBTX) *PgUserRepository {
	return &PgUserRepository{db: db}
}

// Create inserts user and fills in its ID and CreatedAt. A taken username
// yields apperrors.ErrDuplicateUsername.
func (r *PgUserRepository) Create(ctx context.Context, user *models.User) error {
	sql, args, err := psql.Insert("users").
		Columns("username", "password_hash", "role").
		Values(user.Username, user.Password, string(user.RoleType)).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintUsernameUnique) {
			return apperrors.ErrDuplicateUsername
		}
		logger.Error().Err(err).Str("username", user.Username).Msg("Error creating user")
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *PgUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByUsername retrieves a user by username
func (r *PgUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"username": username})
}

func (r *PgUserRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	sql, args, err := psql.Select(userColumns...).From("users").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user := &models.User{}
	var role string
	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.Username, &user.Password, &role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	user.RoleType = models.RoleType(role)
	return user, nil
}

// Delete removes the user row. Courses and enrollments must be gone first.
func (r *PgUserRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("users").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete user query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return wrapWriteError("deleting user", err)
	}
	return nil
}

func wrapWriteError(action string, err error) error {
	if dberrors.IsForeignKeyViolation(err) {
		return fmt.Errorf("%s: %w: %v", action, ErrForeignKey, err)
	}
	return fmt.Errorf("error %s: %w", action, err)
}
