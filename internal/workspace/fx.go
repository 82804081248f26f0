package workspace

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/fawazbook/internal/fixture"
	"github.com/orgball2608/fawazbook/internal/story"
	"github.com/orgball2608/fawazbook/pkg/config"
	"github.com/orgball2608/fawazbook/pkg/logger"
	"go.uber.org/fx"
)

var Module = fx.Module("workspace",
	fx.Provide(ProvideRegistry),
	fx.Invoke(func(lc fx.Lifecycle, r *Registry) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return r.Start()
			},
			OnStop: func(ctx context.Context) error {
				return r.Stop()
			},
		})
	}),
)

type Params struct {
	fx.In

	Config    *config.Config
	Store     fixture.Store
	Directory *fixture.Directory
	Logger    logger.Logger
	Clock     clockwork.Clock `optional:"true"`
}

func ProvideRegistry(p Params) *Registry {
	return NewRegistry(RegistryOpts{
		Store:         p.Store,
		Directory:     p.Directory,
		CurrentUserID: p.Config.App.CurrentUser,
		Playback: story.Playback{
			Interval: p.Config.Story.TickInterval,
			Step:     p.Config.Story.TickStep,
			Max:      p.Config.Story.MaxProgress,
		},
		IdleTTL:         p.Config.Workspace.IdleTTL,
		CleanupInterval: p.Config.Workspace.CleanupInterval,
		Clock:           p.Clock,
		Logger:          p.Logger,
	})
}
