package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/quadramart/settlement/internal/config"
	"github.com/quadramart/settlement/internal/domain/repository"
	"github.com/quadramart/settlement/internal/usecase"
	"github.com/quadramart/settlement/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newFlashSaleUseCase,
		newSettlementUseCase,
		NewSettlementFacade,
		newHTTPServer,
		newReconciler,
	),
	fx.Invoke(registerLifecycle),
)

type flashSaleParams struct {
	fx.In

	Sales  repository.FlashSaleRepository
	Stock  repository.StockRepository
	Stores repository.StoreRepository
	Config *config.Config
}

func newFlashSaleUseCase(p flashSaleParams) *usecase.FlashSaleUseCase {
	return usecase.NewFlashSaleUseCase(p.Sales, p.Stock, p.Stores, p.Config.ConflictRetries)
}

type settlementParams struct {
	fx.In

	Orders     repository.OrderRepository
	Wallets    repository.WalletRepository
	Deliveries repository.DeliveryRepository
	Payments   repository.PaymentRepository
	Stock      repository.StockRepository
	Stores     repository.StoreRepository
	Discounts  *usecase.DiscountUseCase
	Sales      *usecase.FlashSaleUseCase
	Events     usecase.EventPublisher
	Config     *config.Config
}

func newSettlementUseCase(p settlementParams) *usecase.SettlementUseCase {
	return usecase.NewSettlementUseCase(
		p.Orders,
		p.Wallets,
		p.Deliveries,
		p.Payments,
		p.Stock,
		p.Stores,
		p.Discounts,
		p.Sales,
		p.Events,
		p.Config.EscrowOwnerID,
	)
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Facade *SettlementFacade
	Config *config.Config
	Logger *slog.Logger
}

func newReconciler(p workerParams) *worker.Reconciler {
	return worker.NewReconciler(
		p.Facade,
		p.Config.ReconcileInterval,
		p.Config.ReconcileBatch,
		p.Config.AutoCancelAfter,
		p.Config.AutoConfirmAfter,
		p.Config.PaymentTimeout,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Worker     *worker.Reconciler
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting settlement service", slog.String("addr", p.Server.Addr))
			p.Worker.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Worker.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("settlement service stopped")
			return nil
		},
	})
}
