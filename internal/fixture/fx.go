package fixture

import (
	"context"
	"fmt"
	"time"

	"github.com/orgball2608/fawazbook/pkg/config"
	"github.com/orgball2608/fawazbook/pkg/errors"
	"github.com/orgball2608/fawazbook/pkg/logger"
	"github.com/orgball2608/fawazbook/pkg/pgx"
	"go.uber.org/fx"
)

var Module = fx.Module("fixture",
	fx.Provide(
		fx.Annotate(
			New,
			fx.As(new(Store)),
		),
		func(store Store) *Directory {
			return NewDirectory(store.ListUsers())
		},
	),
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

// New loads the fixture once from the configured source.
func New(opts Opts) (*Memory, error) {
	log := opts.Logger.WithComponent("Fixture")

	snap, err := load(opts.Config, log)
	if err != nil {
		return nil, err
	}

	store, err := NewMemory(snap)
	if err != nil {
		return nil, err
	}

	log.Info("Fixture loaded",
		"source", opts.Config.Fixture.Source,
		"users", len(snap.Users),
		"posts", len(snap.Posts),
		"stories", len(snap.Stories))
	return store, nil
}

func load(cfg *config.Config, log logger.Logger) (Snapshot, error) {
	switch cfg.Fixture.Source {
	case config.FixturePostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		pool, err := pgx.Connect(ctx, cfg, log)
		if err != nil {
			return Snapshot{}, errors.Unavailable("fixture database", err)
		}
		// The snapshot is taken once; nothing is ever written back.
		defer pool.Close()
		return LoadPostgres(ctx, pool)
	case config.FixtureEmbedded:
		if cfg.Fixture.Path != "" {
			return LoadFile(cfg.Fixture.Path)
		}
		return LoadEmbedded()
	}
	return Snapshot{}, fmt.Errorf("unknown fixture source %q", cfg.Fixture.Source)
}
