package commandimpl

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/fawazbook/internal/feed"
	"github.com/orgball2608/fawazbook/internal/story"
	"github.com/orgball2608/fawazbook/internal/workspace"
	"github.com/orgball2608/fawazbook/pkg/logger"
	"github.com/panjf2000/ants/v2"
)

const (
	callbackPrev  = "viewer:prev"
	callbackPause = "viewer:pause"
	callbackNext  = "viewer:next"
	callbackClose = "viewer:close"
	callbackLike  = "like:"
)

// viewerMessages remembers, per chat, the message that shows the open viewer.
type viewerMessages struct {
	mu  sync.Mutex
	ids map[int64]int
}

func newViewerMessages() *viewerMessages {
	return &viewerMessages{ids: make(map[int64]int)}
}

func (v *viewerMessages) get(chatID int64) (int, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	id, ok := v.ids[chatID]
	return id, ok
}

func (v *viewerMessages) set(chatID int64, messageID int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ids[chatID] = messageID
}

func (v *viewerMessages) clear(chatID int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.ids, chatID)
}

func viewerKeyboard(snap story.Snapshot) tgbotapi.InlineKeyboardMarkup {
	pause := "⏸"
	if snap.Status == story.StatusPaused {
		pause = "▶️"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏮", callbackPrev),
			tgbotapi.NewInlineKeyboardButtonData(pause, callbackPause),
			tgbotapi.NewInlineKeyboardButtonData("⏭", callbackNext),
			tgbotapi.NewInlineKeyboardButtonData("✖️", callbackClose),
		),
	)
}

// likeKeyboard has one button per rendered post, two per row.
func likeKeyboard(entries []feed.Entry) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(entries) > maxPostsPerMessage {
		entries = entries[:maxPostsPerMessage]
	}
	if len(entries) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(entries); i += 2 {
		var row []tgbotapi.InlineKeyboardButton
		for _, e := range entries[i:min(i+2, len(entries))] {
			label := "🤍 " + shortID(e.Post.ID)
			if e.Post.Liked {
				label = "❤️ " + shortID(e.Post.ID)
			}
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, callbackLike+e.Post.ID))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (c *CommandImpl) handleStories(chatID int64) error {
	w := c.workspace(chatID)
	return c.send(chatID, renderRings(story.Rings(w.Stories(), c.Directory)))
}

func (c *CommandImpl) handleOpenStory(ctx context.Context, chatID int64, storyID string) error {
	if storyID == "" {
		return c.sendPlain(chatID, "Please provide a story id: /story <story id>")
	}

	w := c.workspace(chatID)
	c.viewers.clear(chatID)
	snap, ok := w.OpenStory(storyID)
	if !ok {
		return c.sendPlain(chatID, "No story with id "+storyID+".")
	}

	author, _ := c.Directory.User(snap.Story.UserID)
	msgID, err := c.Telegram.SendMessageWithKeyboard(chatID, renderViewer(snap, author), viewerKeyboard(snap))
	if err != nil {
		return err
	}
	c.viewers.set(chatID, msgID)
	return nil
}

func (c *CommandImpl) handleViewerStep(chatID int64, step string) error {
	w := c.workspace(chatID)
	if !c.stepViewer(w, step) {
		return c.sendPlain(chatID, "No story is open. Use /stories to pick one.")
	}
	c.refreshViewer(chatID, w)
	return nil
}

func (c *CommandImpl) stepViewer(w *workspace.Workspace, step string) bool {
	switch step {
	case "next":
		return w.NextStory()
	case "prev":
		return w.PrevStory()
	case "pause":
		return w.TogglePauseStory()
	case "close":
		return w.CloseStory()
	}
	return false
}

// refresher runs viewer edits off the update pool. Effects are delivered on
// the story timer goroutine or, for /story /next /prev, on an update worker,
// so scheduling must never wait for a worker. Refreshes per chat are
// coalesced: while one runs, further requests only mark it dirty and it runs
// once more, rendering whatever the viewer shows by then.
type refresher struct {
	mu    sync.Mutex
	dirty map[int64]bool
	pool  *ants.Pool
	log   logger.Logger
}

func newRefresher(log logger.Logger) (*refresher, error) {
	// Unbounded: coalescing caps it at one worker per chat with a viewer.
	pool, err := ants.NewPool(-1,
		ants.WithPanicHandler(func(r any) {
			log.Error("Panic recovered while refreshing a viewer", "panic", r, "stack", string(debug.Stack()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh pool: %w", err)
	}
	return &refresher{dirty: make(map[int64]bool), pool: pool, log: log}, nil
}

func (r *refresher) schedule(chatID int64, refresh func()) {
	r.mu.Lock()
	if _, running := r.dirty[chatID]; running {
		r.dirty[chatID] = true
		r.mu.Unlock()
		return
	}
	r.dirty[chatID] = false
	r.mu.Unlock()

	if err := r.pool.Submit(func() { r.run(chatID, refresh) }); err != nil {
		r.done(chatID)
		r.log.Error("Failed to schedule viewer refresh", "chatID", chatID, "error", err)
	}
}

func (r *refresher) run(chatID int64, refresh func()) {
	finished := false
	defer func() {
		// A panicking refresh must not leave the chat marked as running.
		if !finished {
			r.done(chatID)
		}
	}()
	for {
		refresh()
		r.mu.Lock()
		if !r.dirty[chatID] {
			delete(r.dirty, chatID)
			r.mu.Unlock()
			finished = true
			return
		}
		r.dirty[chatID] = false
		r.mu.Unlock()
	}
}

func (r *refresher) done(chatID int64) {
	r.mu.Lock()
	delete(r.dirty, chatID)
	r.mu.Unlock()
}

func (r *refresher) close(timeout time.Duration) error {
	return r.pool.ReleaseTimeout(timeout)
}

// storyListener keeps the viewer message in sync while the story timer runs.
func (c *CommandImpl) storyListener(chatID int64, w *workspace.Workspace) workspace.Listener {
	return func(e story.Effect) {
		if e.Kind == story.EffectViewed {
			return
		}
		c.refresher.schedule(chatID, func() { c.refreshViewer(chatID, w) })
	}
}

// refreshViewer renders whatever the viewer shows now, so refreshes that run
// out of order still converge.
func (c *CommandImpl) refreshViewer(chatID int64, w *workspace.Workspace) {
	msgID, ok := c.viewers.get(chatID)
	if !ok {
		return
	}

	snap, open := w.Viewer()
	if !open {
		c.viewers.clear(chatID)
		if err := c.Telegram.EditMessageText(chatID, msgID, renderViewerClosed()); err != nil {
			c.Logger.Error("Failed to close viewer message", "chatID", chatID, "error", err)
		}
		return
	}

	author, _ := c.Directory.User(snap.Story.UserID)
	if err := c.Telegram.EditMessageWithKeyboard(chatID, msgID, renderViewer(snap, author), viewerKeyboard(snap)); err != nil {
		c.Logger.Error("Failed to update viewer message", "chatID", chatID, "error", err)
	}
}

func (c *CommandImpl) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	if !c.Limiter.Allow(chatID) {
		c.Telegram.AnswerCallback(cb.ID, "Slow down a little.")
		return
	}

	w := c.workspace(chatID)
	answer := ""
	switch {
	case strings.HasPrefix(cb.Data, "viewer:"):
		c.viewers.set(chatID, cb.Message.MessageID)
		if !c.stepViewer(w, strings.TrimPrefix(cb.Data, "viewer:")) {
			answer = "This story is no longer open."
		}
		c.refreshViewer(chatID, w)
	case strings.HasPrefix(cb.Data, callbackLike):
		post, ok := w.ToggleLike(strings.TrimPrefix(cb.Data, callbackLike))
		switch {
		case !ok:
			answer = "That post is gone."
		case post.Liked:
			answer = "❤️ Liked"
		default:
			answer = "🤍 Unliked"
		}
	default:
		c.Logger.Warn("Unknown callback", "data", cb.Data)
	}

	if err := c.Telegram.AnswerCallback(cb.ID, answer); err != nil {
		c.Logger.Error("Failed to answer callback", "chatID", chatID, "error", err)
	}
}
