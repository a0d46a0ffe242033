package gateway

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/quadramart/settlement/internal/config"
)

// Module exposes the gateway client and callback verifier to the fx graph.
var Module = fx.Provide(newClient, newVerifier)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.GatewayAddress, p.Logger)
}

func newVerifier(cfg *config.Config) *Verifier {
	return NewVerifier(cfg.GatewaySecret)
}
