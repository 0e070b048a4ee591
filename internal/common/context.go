package common

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey  contextKey = "user_id"
	StoreIDKey contextKey = "store_id"
)

// GetUserIDFromContext extracts the authenticated user ID from the request
// context.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetStoreIDFromContext extracts the tenant (store) ID from the request
// context. Users without a store resolve to false.
func GetStoreIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	storeID, ok := ctx.Value(StoreIDKey).(uuid.UUID)
	if !ok || storeID == uuid.Nil {
		return uuid.Nil, false
	}
	return storeID, true
}

// WithIdentity attaches the resolved user and store IDs to ctx.
func WithIdentity(ctx context.Context, userID, storeID uuid.UUID) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, StoreIDKey, storeID)
}
