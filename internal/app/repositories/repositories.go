package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yigit/coursehub/internal/app/models"
)

// ErrForeignKey is returned when a write would leave a row pointing at a
// missing row, or delete a row that is still referenced.
var ErrForeignKey = errors.New("foreign key constraint violated")

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so every repository
// can run inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository persists accounts. Lookups return (nil, nil) when absent.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

// CourseRepository persists courses. Lists are newest first.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	ListByInstructor(ctx context.Context, instructor string) ([]*models.Course, error)
	Delete(ctx context.Context, id int64) error
}

// MaterialRepository persists one kind of course material (videos or assignments).
type MaterialRepository interface {
	Kind() models.MaterialKind
	Create(ctx context.Context, material *models.Material) error
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Material, error)
	DeleteByCourse(ctx context.Context, courseID int64) error
}

// EnrollmentRepository persists the user_courses relation.
type EnrollmentRepository interface {
	// Add inserts the pair unless it exists; added is false for a no-op.
	Add(ctx context.Context, userID, courseID int64) (added bool, err error)
	ListCoursesForUser(ctx context.Context, userID int64) ([]*models.Course, error)
	ListCoursesNotForUser(ctx context.Context, userID int64) ([]*models.Course, error)
	CountForInstructor(ctx context.Context, instructor string) (int64, error)
	CountDistinctStudentsForInstructor(ctx context.Context, instructor string) (int64, error)
	DeleteByCourse(ctx context.Context, courseID int64) error
	DeleteByUser(ctx context.Context, userID int64) error
}

// Repositories holds all the repository instances
type Repositories struct {
	Users       UserRepository
	Courses     CourseRepository
	Videos      MaterialRepository
	Assignments MaterialRepository
	Enrollments EnrollmentRepository
}

// Materials returns the repository for kind.
func (r *Repositories) Materials(kind models.MaterialKind) MaterialRepository {
	switch kind {
	case models.MaterialVideo:
		return r.Videos
	case models.MaterialAssignment:
		return r.Assignments
	}
	panic("repositories: unknown material kind " + string(kind))
}

// TxFn runs against repositories bound to one transaction.
type TxFn func(ctx context.Context, repos *Repositories) error

// Store hands out repositories and runs units of work atomically.
type Store interface {
	// Repos returns repositories that auto-commit each statement.
	Repos() *Repositories
	// WithTransaction commits every write fn makes, or none of them.
	WithTransaction(ctx context.Context, fn TxFn) error
	Ping(ctx context.Context) error
}
