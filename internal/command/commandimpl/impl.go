package commandimpl

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/orgball2608/fawazbook/internal/command"
	"github.com/orgball2608/fawazbook/internal/fixture"
	"github.com/orgball2608/fawazbook/internal/ratelimit"
	"github.com/orgball2608/fawazbook/internal/telegram"
	"github.com/orgball2608/fawazbook/internal/workspace"
	"github.com/orgball2608/fawazbook/pkg/config"
	"github.com/orgball2608/fawazbook/pkg/logger"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Telegram  telegram.Client
	Registry  *workspace.Registry
	Directory *fixture.Directory
	Logger    logger.Logger
	Config    *config.Config
	Limiter   ratelimit.Limiter `optional:"true"`
}

type CommandImpl struct {
	Telegram  telegram.Client
	Registry  *workspace.Registry
	Directory *fixture.Directory
	Logger    logger.Logger
	Config    *config.Config
	Limiter   ratelimit.Limiter

	pool      *ants.Pool
	refresher *refresher
	viewers   *viewerMessages
}

func New(opts Opts) (*CommandImpl, error) {
	log := opts.Logger.WithComponent("Command")

	limiter := opts.Limiter
	if limiter == nil {
		limiter = ratelimit.NewChatLimiter(opts.Config.Telegram.RatePerMinute, time.Minute, opts.Config.Telegram.RateBurst)
	}

	pool, err := ants.NewPool(opts.Config.Telegram.Workers,
		ants.WithPanicHandler(func(r any) {
			log.Error("Panic recovered while processing an update", "panic", r, "stack", string(debug.Stack()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	refresher, err := newRefresher(log)
	if err != nil {
		pool.Release()
		return nil, err
	}

	return &CommandImpl{
		Telegram:  opts.Telegram,
		Registry:  opts.Registry,
		Directory: opts.Directory,
		Logger:    log,
		Config:    opts.Config,
		Limiter:   limiter,
		pool:      pool,
		refresher: refresher,
		viewers:   newViewerMessages(),
	}, nil
}

// Close waits up to timeout for queued updates, then for the viewer
// refreshes they scheduled, and releases both pools.
func (c *CommandImpl) Close(timeout time.Duration) error {
	return errors.Join(c.pool.ReleaseTimeout(timeout), c.refresher.close(timeout))
}

var _ command.Client = (*CommandImpl)(nil)

// workspaceID namespaces chat workspaces away from HTTP clients.
func workspaceID(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}

func (c *CommandImpl) workspace(chatID int64) *workspace.Workspace {
	return c.Registry.GetWith(workspaceID(chatID), func(w *workspace.Workspace) {
		w.Subscribe(c.storyListener(chatID, w))
	})
}
