package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fintrack-backend/database"
	"fintrack-backend/models"
)

const summaryCacheTTL = 5 * time.Minute

// The borrower-summary fold is recomputed from the full ledger on every
// read. Reads may optionally be served from redis, keyed by a per-user
// ledger version token that every mutation bumps, so a cached entry can
// never outlive the ledger state it was computed from. With redis down,
// everything falls through to the fold.

func ledgerVersionKey(userID uuid.UUID) string {
	return "ledgerver:" + userID.String()
}

func summariesKey(userID uuid.UUID, version int64) string {
	return fmt.Sprintf("summaries:%s:%d", userID, version)
}

// LedgerVersion returns the user's current ledger version token (0 when
// unset or when the cache is unavailable).
func LedgerVersion(ctx context.Context, userID uuid.UUID) int64 {
	if database.Redis == nil {
		return 0
	}
	version, err := database.Redis.Get(ctx, ledgerVersionKey(userID)).Int64()
	if err != nil {
		return 0
	}
	return version
}

// BumpLedgerVersion invalidates every cached summary for the user. Called
// after any debt, repayment or borrower mutation commits.
func BumpLedgerVersion(ctx context.Context, userID uuid.UUID) {
	if database.Redis == nil {
		return
	}
	database.Redis.Incr(ctx, ledgerVersionKey(userID))
}

// CachedSummaries returns the summaries cached for the user's current
// ledger version, if any. On a miss it also returns that version, so
// the caller can store the recomputed fold under the version it was
// read at; a mutation landing mid-fold bumps the version and the store
// goes to a key nobody will read.
func CachedSummaries(ctx context.Context, userID uuid.UUID) ([]models.BorrowerSummaryResponse, int64, bool) {
	if database.Redis == nil {
		return nil, 0, false
	}
	version := LedgerVersion(ctx, userID)
	raw, err := database.Redis.Get(ctx, summariesKey(userID, version)).Bytes()
	if err != nil {
		return nil, version, false
	}
	var summaries []models.BorrowerSummaryResponse
	if err := json.Unmarshal(raw, &summaries); err != nil {
		return nil, version, false
	}
	return summaries, version, true
}

// StoreSummaries caches the summaries under the ledger version they
// were computed at, best effort.
func StoreSummaries(ctx context.Context, userID uuid.UUID, version int64, summaries []models.BorrowerSummaryResponse) {
	if database.Redis == nil {
		return
	}
	raw, err := json.Marshal(summaries)
	if err != nil {
		return
	}
	database.Redis.Set(ctx, summariesKey(userID, version), raw, summaryCacheTTL)
}
