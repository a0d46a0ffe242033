package rediscache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quadramart/settlement/internal/domain/model"
	"github.com/quadramart/settlement/internal/domain/repository"
)

// FlashSaleCache is a read-through cache in front of the flash sale
// repository. Only the hot ActiveForProduct lookup is cached; every
// mutation invalidates the product's entry so quota checks always reach
// the primary.
type FlashSaleCache struct {
	primary repository.FlashSaleRepository
	client  *redis.Client
	ttl     time.Duration
}

// NewFlashSaleCache constructs the caching decorator.
func NewFlashSaleCache(primary repository.FlashSaleRepository, client *redis.Client, ttl time.Duration) *FlashSaleCache {
	return &FlashSaleCache{primary: primary, client: client, ttl: ttl}
}

func productKey(productID int64) string {
	return "flashsale:product:" + strconv.FormatInt(productID, 10)
}

func (c *FlashSaleCache) ActiveForProduct(ctx context.Context, productID int64, now time.Time) (*model.FlashSale, error) {
	cached, err := c.client.Get(ctx, productKey(productID)).Bytes()
	if err == nil {
		var sale model.FlashSale
		if err := json.Unmarshal(cached, &sale); err == nil && sale.ActiveAt(now) {
			return &sale, nil
		}
	}

	sale, err := c.primary.ActiveForProduct(ctx, productID, now)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(sale); err == nil {
		c.client.Set(ctx, productKey(productID), data, c.ttl)
	}
	return sale, nil
}

func (c *FlashSaleCache) Create(ctx context.Context, sale *model.FlashSale) (*model.FlashSale, error) {
	defer c.client.Del(ctx, productKey(sale.ProductID))
	return c.primary.Create(ctx, sale)
}

func (c *FlashSaleCache) Update(ctx context.Context, sale *model.FlashSale) error {
	defer c.client.Del(ctx, productKey(sale.ProductID))
	return c.primary.Update(ctx, sale)
}

func (c *FlashSaleCache) Delete(ctx context.Context, saleID int64) error {
	if sale, err := c.primary.GetByID(ctx, saleID); err == nil {
		defer c.client.Del(ctx, productKey(sale.ProductID))
	}
	return c.primary.Delete(ctx, saleID)
}

func (c *FlashSaleCache) GetByID(ctx context.Context, saleID int64) (*model.FlashSale, error) {
	return c.primary.GetByID(ctx, saleID)
}

func (c *FlashSaleCache) Reserve(ctx context.Context, saleID int64, qty int) error {
	c.invalidateBySale(ctx, saleID)
	return c.primary.Reserve(ctx, saleID, qty)
}

func (c *FlashSaleCache) Release(ctx context.Context, saleID int64, qty int) error {
	c.invalidateBySale(ctx, saleID)
	return c.primary.Release(ctx, saleID, qty)
}

func (c *FlashSaleCache) invalidateBySale(ctx context.Context, saleID int64) {
	if sale, err := c.primary.GetByID(ctx, saleID); err == nil {
		c.client.Del(ctx, productKey(sale.ProductID))
	}
}
