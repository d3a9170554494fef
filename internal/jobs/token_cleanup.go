package jobs

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"
)

const refreshTokenKeyPattern = "residora:refresh_token:*"

type tokenStore interface {
	ScanKeys(ctx context.Context, pattern string) ([]string, error)
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// TokenJanitor sweeps the refresh-token keyspace and deletes records whose
// embedded expiry has passed. Redis TTLs evict most of them first; the sweep
// catches records written without a TTL or left behind by clock drift.
type TokenJanitor struct {
	store tokenStore
	now   func() time.Time
}

func NewTokenJanitor(store tokenStore) *TokenJanitor {
	return &TokenJanitor{store: store, now: time.Now}
}

// NewTokenJanitorWithClock builds a janitor with a fixed clock for tests.
func NewTokenJanitorWithClock(store tokenStore, now func() time.Time) *TokenJanitor {
	return &TokenJanitor{store: store, now: now}
}

// Run deletes expired and malformed refresh-token records. A failure on one
// key does not stop the sweep.
func (j *TokenJanitor) Run(ctx context.Context) error {
	keys, err := j.store.ScanKeys(ctx, refreshTokenKeyPattern)
	if err != nil {
		log.Printf("Token cleanup: failed to scan refresh tokens: %v", err)
		return err
	}

	nowUnix := j.now().Unix()
	deleted := 0
	for _, key := range keys {
		value, err := j.store.GetString(ctx, key)
		if err != nil {
			// Evicted between scan and read
			continue
		}

		if !j.expired(value, nowUnix) {
			continue
		}
		if err := j.store.Delete(ctx, key); err != nil {
			log.Printf("Token cleanup: failed to delete %s: %v", key, err)
			continue
		}
		deleted++
	}

	log.Printf("Token cleanup completed: %d keys scanned, %d deleted", len(keys), deleted)
	return nil
}

// expired reports whether a "userID:expiresAtUnix" record is past its expiry.
// Records that do not parse are treated as expired.
func (j *TokenJanitor) expired(value string, nowUnix int64) bool {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return true
	}
	expiresAt, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return true
	}
	return nowUnix > expiresAt
}
