package app

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/fawazbook/internal/command"
	"github.com/orgball2608/fawazbook/internal/command/commandimpl"
	"github.com/orgball2608/fawazbook/internal/fixture"
	"github.com/orgball2608/fawazbook/internal/httpapi"
	"github.com/orgball2608/fawazbook/internal/ratelimit"
	"github.com/orgball2608/fawazbook/internal/telegram"
	"github.com/orgball2608/fawazbook/internal/telegram/telegramimpl"
	"github.com/orgball2608/fawazbook/internal/workspace"
	"github.com/orgball2608/fawazbook/pkg/config"
	"github.com/orgball2608/fawazbook/pkg/logger"
	"go.uber.org/fx"
)

const drainTimeout = 5 * time.Second

var Core = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		func() clockwork.Clock { return clockwork.NewRealClock() },
	),
	fixture.Module,
	workspace.Module,
	httpapi.Module,
)

var Bot = fx.Module("bot",
	fx.Provide(
		fx.Annotate(
			telegramimpl.New,
			fx.As(new(telegram.Client)),
		),
		fx.Annotate(
			func(cfg *config.Config) *ratelimit.ChatLimiter {
				return ratelimit.NewChatLimiter(cfg.Telegram.RatePerMinute, time.Minute, cfg.Telegram.RateBurst)
			},
			fx.As(new(ratelimit.Limiter)),
		),
		fx.Annotate(
			commandimpl.New,
			fx.As(fx.Self()),
			fx.As(new(command.Client)),
		),
	),
	fx.Invoke(runBot),
)

// Module is the whole application. The Telegram front end is only wired when a
// bot token is configured; the HTTP API always runs.
func Module(cfg *config.Config) fx.Option {
	if cfg.Telegram.Token == "" {
		return Core
	}
	return fx.Options(Core, Bot)
}

func runBot(lc fx.Lifecycle, log logger.Logger, cmd command.Client, impl *commandimpl.CommandImpl) {
	log = log.WithComponent("Bot")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				if err := cmd.HandleCommand(ctx); err != nil && ctx.Err() == nil {
					log.Error("Command loop stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
			return impl.Close(drainTimeout)
		},
	})
}
