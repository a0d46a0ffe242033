package usecase

import "go.uber.org/fx"

// Module provides core business use cases to the fx container.
// Constructors that need configuration values are provided by the app
// module.
var Module = fx.Provide(
	NewDiscountUseCase,
	NewWalletUseCase,
	NewOrderUseCase,
	NewCheckoutUseCase,
)
