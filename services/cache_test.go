package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"fintrack-backend/database"
	"fintrack-backend/models"
)

func TestCacheWithoutRedis(t *testing.T) {
	database.Redis = nil
	ctx := context.Background()
	userID := uuid.New()

	summaries, version, ok := CachedSummaries(ctx, userID)
	if ok || summaries != nil {
		t.Error("expected a cache miss with no redis")
	}
	if version != 0 {
		t.Errorf("expected version 0 with no redis, got %d", version)
	}

	// Both are best-effort no-ops with the cache down.
	StoreSummaries(ctx, userID, version, []models.BorrowerSummaryResponse{})
	BumpLedgerVersion(ctx, userID)

	if got := LedgerVersion(ctx, userID); got != 0 {
		t.Errorf("expected version 0 with no redis, got %d", got)
	}
}

func TestCacheKeysIncludeVersion(t *testing.T) {
	userID := uuid.New()
	// Summaries are stored under the version they were folded at, so a
	// bump mid-fold strands the stale entry under a key nobody reads.
	if summariesKey(userID, 1) == summariesKey(userID, 2) {
		t.Error("summary keys must differ across ledger versions")
	}
}

func TestGetNotificationServiceIsShared(t *testing.T) {
	const callers = 8
	services := make([]*NotificationService, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			services[i] = GetNotificationService()
		}(i)
	}
	wg.Wait()

	for i, s := range services {
		if s == nil || s != services[0] {
			t.Fatalf("caller %d got a different instance", i)
		}
	}
}
