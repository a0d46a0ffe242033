package di

import (
	"go.uber.org/fx"

	"github.com/quadramart/settlement/internal/adapter/gateway"
	"github.com/quadramart/settlement/internal/adapter/notifier"
	"github.com/quadramart/settlement/internal/app"
	"github.com/quadramart/settlement/internal/config"
	"github.com/quadramart/settlement/internal/logger"
	"github.com/quadramart/settlement/internal/server/http/handlers"
	"github.com/quadramart/settlement/internal/server/http/router"
	"github.com/quadramart/settlement/internal/storage/postgres"
	"github.com/quadramart/settlement/internal/storage/rediscache"
	"github.com/quadramart/settlement/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		rediscache.Module,
		gateway.Module,
		notifier.Module,
		usecase.Module,
		fx.Provide(func(client gateway.Client) usecase.PaymentGateway { return client }),
		fx.Provide(func(f *app.SettlementFacade) handlers.Facade { return f }),
		fx.Provide(func(v *gateway.Verifier) handlers.SignatureVerifier { return v }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
