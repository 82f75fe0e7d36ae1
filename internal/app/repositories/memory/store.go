// Package memory is an in-process repositories.Store. It enforces the same
// unique and foreign key constraints as the SQL schema, which makes it a
// stand-in for Postgres in development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/repositories"
)

type state struct {
	users       map[int64]models.User
	courses     map[int64]models.Course
	materials   map[models.MaterialKind]map[int64]models.Material
	enrollments map[int64]models.Enrollment
	seq         map[string]int64
}

func newState() *state {
	return &state{
		users:   map[int64]models.User{},
		courses: map[int64]models.Course{},
		materials: map[models.MaterialKind]map[int64]models.Material{
			models.MaterialVideo:      {},
			models.MaterialAssignment: {},
		},
		enrollments: map[int64]models.Enrollment{},
		seq:         map[string]int64{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.courses {
		if v.Image != nil {
			img := *v.Image
			v.Image = &img
		}
		c.courses[k] = v
	}
	for kind, rows := range s.materials {
		for k, v := range rows {
			c.materials[kind][k] = v
		}
	}
	for k, v := range s.enrollments {
		c.enrollments[k] = v
	}
	for k, v := range s.seq {
		c.seq[k] = v
	}
	return c
}

func (s *state) next(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// Store keeps all rows in memory. Transactions are serialized: each one works
// on a private copy that replaces the live state on commit.
type Store struct {
	mu    sync.Mutex
	st    *state
	now   func() time.Time
	repos *repositories.Repositories
}

// NewStore creates an empty Store.
func NewStore() *Store {
	s := &Store{st: newState(), now: time.Now}
	s.repos = s.bind(nil)
	return s
}

// WithClock replaces the time source used for created_at, for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Repos returns repositories that lock the store per call.
func (s *Store) Repos() *repositories.Repositories {
	return s.repos
}

// WithTransaction runs fn on a snapshot and publishes it only if fn succeeds.
// fn must use the repositories it is given, not Store.Repos.
func (s *Store) WithTransaction(ctx context.Context, fn repositories.TxFn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(ctx, s.bind(snapshot)); err != nil {
		return err
	}
	s.st = snapshot
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

func (s *Store) bind(tx *state) *repositories.Repositories {
	v := &view{store: s, tx: tx}
	return &repositories.Repositories{
		Users:       &userRepo{v},
		Courses:     &courseRepo{v},
		Videos:      &materialRepo{v, models.MaterialVideo},
		Assignments: &materialRepo{v, models.MaterialAssignment},
		Enrollments: &enrollmentRepo{v},
	}
}

// view routes calls either to a transaction snapshot or to the locked live state.
type view struct {
	store *Store
	tx    *state
}

func (v *view) do(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.st)
}

func (v *view) now() time.Time {
	return v.store.now().UTC()
}

func sortCoursesNewestFirst(courses []*models.Course) {
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID > courses[j].ID })
}

func copyCourse(c models.Course) *models.Course {
	if c.Image != nil {
		img := *c.Image
		c.Image = &img
	}
	return &c
}

func usernameTaken(st *state, username string) bool {
	for _, u := range st.users {
		if u.Username == username {
			return true
		}
	}
	return false
}
