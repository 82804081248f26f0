package httpapi

import (
	"context"
	"fmt"

	"github.com/orgball2608/fawazbook/internal/workspace"
	"github.com/orgball2608/fawazbook/pkg/config"
	"github.com/orgball2608/fawazbook/pkg/logger"
	"go.uber.org/fx"
)

var Module = fx.Module("httpapi",
	fx.Provide(func(r *workspace.Registry, log logger.Logger) *Server {
		return New(r, log.WithComponent("HTTP"))
	}),
	fx.Invoke(register),
)

func register(lc fx.Lifecycle, s *Server, cfg *config.Config) {
	addr := fmt.Sprintf(":%d", cfg.App.Port)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.log.Info(fmt.Sprintf("Starting server on %s", addr))
			go func() {
				if err := s.app.Listen(addr); err != nil {
					s.log.Error("Server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.app.ShutdownWithContext(ctx)
		},
	})
}
