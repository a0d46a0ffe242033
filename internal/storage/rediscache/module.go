package rediscache

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/quadramart/settlement/internal/config"
	"github.com/quadramart/settlement/internal/domain/repository"
	"github.com/quadramart/settlement/internal/storage/postgres"
)

// Module provides the flash sale repository, cached behind Redis when an
// address is configured and plain PostgreSQL otherwise.
var Module = fx.Options(
	fx.Provide(newFlashSaleRepository),
)

type params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Storage   *postgres.Storage
}

func newFlashSaleRepository(p params) repository.FlashSaleRepository {
	primary := p.Storage.FlashSales()
	if p.Config.RedisAddr == "" {
		return primary
	}

	client := redis.NewClient(&redis.Options{Addr: p.Config.RedisAddr})
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return NewFlashSaleCache(primary, client, p.Config.FlashSaleCacheTTL)
}
