package repository

import "context"

// StoreRepository exposes the store facts the core needs: ownership for
// authorization and payouts, and the province for shipping cost.
type StoreRepository interface {
	OwnerOf(ctx context.Context, storeID int64) (int64, error)
	ProvinceOf(ctx context.Context, storeID int64) (string, error)
}
