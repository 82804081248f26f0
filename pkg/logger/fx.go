package logger

import (
	"context"

	"github.com/orgball2608/fawazbook/pkg/config"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

var FxOption = fx.Annotate(
	func(lc fx.Lifecycle, cfg *config.Config) *Impl {
		log := New(
			Opts{
				Env:       cfg.App.Env,
				SentryDSN: cfg.App.SentryUrl,
			},
		)
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				log.Flush(ctx)
				return nil
			},
		})
		return log
	},
	fx.As(new(Logger)),
)

// FxEventLogger routes fx's own lifecycle events through the application logger.
func FxEventLogger(log Logger) fxevent.Logger {
	return &fxevent.SlogLogger{Logger: log.WithComponent("fx").Slog()}
}
