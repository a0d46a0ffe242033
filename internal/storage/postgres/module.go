package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/quadramart/settlement/internal/config"
	"github.com/quadramart/settlement/internal/domain/repository"
)

// Module wires PostgreSQL storage and repository adapters.
var Module = fx.Options(
	fx.Provide(newStorage),
	fx.Provide(
		func(s *Storage) repository.OrderRepository { return s.Orders() },
		func(s *Storage) repository.WalletRepository { return s.Wallets() },
		func(s *Storage) repository.DiscountRepository { return s.Discounts() },
		func(s *Storage) repository.DeliveryRepository { return s.Deliveries() },
		func(s *Storage) repository.StockRepository { return s.Stock() },
		func(s *Storage) repository.PaymentRepository { return s.Payments() },
		func(s *Storage) repository.StoreRepository { return s.Stores() },
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	return New(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			storage.Close()
			return nil
		},
	})
}
