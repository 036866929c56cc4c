package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix    = "user:%d"
	DomainListKey    = "domains:all"
	PositionsListKey = "positions:active"
)

const (
	UserTTL       = 5 * time.Minute
	DomainListTTL = 1 * time.Minute
	PositionsTTL  = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateDomainList drops the public domain listing. Called on every
// lifecycle mutation so stale statuses are never served between calls.
func InvalidateDomainList(ctx context.Context) {
	Invalidate(ctx, DomainListKey)
}

func InvalidatePositions(ctx context.Context) {
	Invalidate(ctx, PositionsListKey)
}
