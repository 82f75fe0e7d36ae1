package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/db"
)

// psql builds statements with $n placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// PostgresStore is the Store backed by a pgx pool.
type PostgresStore struct {
	db    *db.PostgresDB
	repos *Repositories
}

// NewPostgresStore creates a PostgresStore over database.
func NewPostgresStore(database *db.PostgresDB) *PostgresStore {
	return &PostgresStore{db: database, repos: NewRepositories(database.Pool)}
}

// NewRepositories initializes all repositories over conn.
func NewRepositories(conn DBTX) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(conn),
		Courses:     NewCourseRepository(conn),
		Videos:      NewMaterialRepository(conn, models.MaterialVideo),
		Assignments: NewMaterialRepository(conn, models.MaterialAssignment),
		Enrollments: NewEnrollmentRepository(conn),
	}
}

// Repos returns pool-bound repositories.
func (s *PostgresStore) Repos() *Repositories {
	return s.repos
}

// WithTransaction runs fn with repositories bound to a single pgx transaction.
func (s *PostgresStore) WithTransaction(ctx context.Context, fn TxFn) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, NewRepositories(tx))
	})
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
