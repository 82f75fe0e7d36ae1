package seed

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/coursehub/internal/app/auth"
	"github.com/yigit/coursehub/internal/app/repositories/memory"
	appServices "github.com/yigit/coursehub/internal/app/services"
	pkgAuth "github.com/yigit/coursehub/internal/pkg/auth"
	"github.com/yigit/coursehub/internal/pkg/filestorage"
	"github.com/yigit/coursehub/internal/pkg/session"
)

func newServices(t *testing.T) *appServices.Services {
	t.Helper()
	pkgAuth.BcryptCost = bcrypt.MinCost
	store := memory.NewStore()
	local, err := filestorage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	files := filestorage.NewManager(local)
	jwtService := pkgAuth.NewJWTService(pkgAuth.JWTConfig{SecretKey: "seed-test", SessionExp: time.Hour, Issuer: "test"})
	sessions := session.NewManager(session.NewMemoryStore(), jwtService)
	log := zerolog.Nop()

	return &appServices.Services{
		Auth:        appServices.NewAuthService(store, sessions, log),
		Courses:     appServices.NewCourseService(store, files, auth.NewAuthorizationService(), log),
		Enrollments: appServices.NewEnrollmentService(store, log),
		Accounts:    appServices.NewAccountService(store, files, sessions, log),
	}
}

func TestCreateDefaultDataIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newServices(t)

	require.NoError(t, CreateDefaultData(ctx, svc, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(ctx, svc, zerolog.Nop()))

	courses, err := svc.Courses.ListCoursesByInstructor(ctx, InstructorUsername)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, DefaultCourseTitle, courses[0].Title)

	student, err := svc.Auth.Authenticate(ctx, StudentUsername, DefaultPassword)
	require.NoError(t, err)
	recommended, err := svc.Enrollments.ListRecommended(ctx, student.ID)
	require.NoError(t, err)
	assert.Len(t, recommended, 1)
}
