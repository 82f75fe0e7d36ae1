package memory

import (
	"testing"
	"time"

	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/app/repositories/repotest"
)

func TestMemoryStore(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repotest.RunStoreSuite(t, func(t *testing.T) repositories.Store {
		return NewStore().WithClock(func() time.Time { return clock })
	})
}
