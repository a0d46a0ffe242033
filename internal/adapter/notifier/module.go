package notifier

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/quadramart/settlement/internal/config"
	"github.com/quadramart/settlement/internal/domain/model"
	"github.com/quadramart/settlement/internal/pkg/money"
	"github.com/quadramart/settlement/internal/usecase"
)

// Module provides the event publisher: Kafka backed when brokers are
// configured, a no-op otherwise.
var Module = fx.Provide(newPublisher)

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) OrderStatusChanged(context.Context, *model.Order, model.OrderStatus) {}

func (NopNotifier) PaymentSettled(context.Context, int64, model.WalletTransactionKind, money.Amount) {
}

type publisherParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newPublisher(p publisherParams) (usecase.EventPublisher, error) {
	if len(p.Config.KafkaBrokers) == 0 {
		return NopNotifier{}, nil
	}

	kafka, err := NewKafkaNotifier(p.Config.KafkaBrokers, p.Logger)
	if err != nil {
		return nil, err
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return kafka.Close()
		},
	})
	return kafka, nil
}
