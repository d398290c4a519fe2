package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/buddyguard/pkg/usecase"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestLiveness(t *testing.T) {
	t.Run("pings immediately and periodically", func(t *testing.T) {
		repo := newFaultyRepo()
		l := usecase.NewLiveness(repo, 10*time.Millisecond, nil)
		gt.False(t, l.IsLive())

		l.Start(context.Background())
		waitFor(t, l.IsLive)
		waitFor(t, func() bool { return repo.pings.Load() >= 3 })
		gt.False(t, l.Status().CheckedAt.IsZero())

		repo.failReads.Store(true)
		waitFor(t, func() bool { return !l.IsLive() })

		l.Stop()
		stopped := repo.pings.Load()
		time.Sleep(50 * time.Millisecond)
		gt.Equal(t, repo.pings.Load(), stopped)
	})

	t.Run("first ping does not wait for the interval", func(t *testing.T) {
		repo := newFaultyRepo()
		l := usecase.NewLiveness(repo, time.Hour, nil)
		l.Start(context.Background())
		defer l.Stop()
		waitFor(t, l.IsLive)
	})

	t.Run("stop without start", func(t *testing.T) {
		l := usecase.NewLiveness(newFaultyRepo(), 0, nil)
		l.Stop()
		gt.False(t, l.IsLive())
	})
}
