package commandimpl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/fawazbook/internal/domain"
	"github.com/orgball2608/fawazbook/internal/feed"
	"github.com/orgball2608/fawazbook/internal/router"
	"github.com/orgball2608/fawazbook/internal/workspace"
	"github.com/orgball2608/fawazbook/pkg/formatter"
)

var helpSections = []struct {
	title string
	lines []string
}{
	{"FEED", []string{
		"/feed - Show your feed",
		"/tags - List tags and the active filter",
		"/tag <tag> - Toggle a tag in the filter",
		"/untag <tag> - Remove a tag from the filter",
		"/cleartags - Clear the filter",
	}},
	{"DISCOVER", []string{
		"/search [all|posts|profiles] <query> - Search posts and people, or browse a #tag",
		"/profiles - Discover people",
		"/profile [username] - Show a profile",
		"/trending - Trending tags",
		"/leaderboard - Top creators",
	}},
	{"POSTS", []string{
		"/post <text> - Publish a post, #hashtags become tags",
		"/like <post id> - Like or unlike a post",
		"/comment <post id> <text> - Comment on a post",
		"/delete <post id> - Delete a post",
	}},
	{"STORIES", []string{
		"/stories - Story rings",
		"/story <story id> - Open the story viewer",
		"/next, /prev, /pause, /close - Control the viewer",
	}},
}

func helpMessage() string {
	var sb strings.Builder
	sb.WriteString("👋 *Welcome to Fawazbook\\!*\n")
	for _, sec := range helpSections {
		sb.WriteString("\n*" + sec.title + "*\n")
		for _, l := range sec.lines {
			sb.WriteString(formatter.EscapeMarkdownV2(l) + "\n")
		}
	}
	sb.WriteString("\n" + formatter.EscapeMarkdownV2("Type /help at any time to see this guide."))
	return sb.String()
}


func (c *CommandImpl) HandleCommand(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := c.Telegram.GetUpdatesChan(u)
	c.Logger.Info("Command handler started, listening for updates.")

	for {
		select {
		case <-ctx.Done():
			c.Logger.Info("Command handler shutting down.")
			c.Telegram.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				c.Logger.Warn("Telegram updates channel closed unexpectedly.")
				return errors.New("telegram updates channel closed")
			}
			c.dispatch(ctx, update)
		}
	}
}

func (c *CommandImpl) dispatch(ctx context.Context, update tgbotapi.Update) {
	var task func()
	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		task = func() { c.handleCallback(ctx, cb) }
	case update.Message != nil && update.Message.IsCommand():
		msg := update.Message
		task = func() { c.handleMessage(ctx, msg) }
	default:
		return
	}

	if err := c.pool.Submit(task); err != nil {
		c.Logger.Error("Failed to submit update to worker pool", "update_id", update.UpdateID, "error", err)
	}
}

func (c *CommandImpl) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	from := ""
	if msg.From != nil {
		from = msg.From.UserName
	}
	c.Logger.Info("Message received", "from", from, "text", msg.Text)

	if !c.Limiter.Allow(chatID) {
		c.Logger.Warn("Rate limit hit", "chatID", chatID)
		c.sendPlain(chatID, "Too many commands, slow down a little.")
		return
	}

	if err := c.processCommand(ctx, chatID, msg.Command(), strings.TrimSpace(msg.CommandArguments())); err != nil {
		c.Logger.Error("Error processing command", "command", msg.Command(), "error", err)
	}
}

func (c *CommandImpl) processCommand(ctx context.Context, chatID int64, command, args string) error {
	w := c.workspace(chatID)
	if id, ok := strings.CutPrefix(command, "story_"); ok {
		command, args = "story", id
	}

	switch command {
	case "start", "help":
		return c.send(chatID, helpMessage())
	case "feed":
		return c.sendFeed(chatID, w.Navigate(show(domain.ViewHome)).Home)
	case "tags":
		return c.send(chatID, renderTags(w.Navigate(show(domain.ViewHome)).Home))
	case "tag":
		if args == "" {
			return c.sendPlain(chatID, "Please provide a tag: /tag <tag>")
		}
		tag := feed.NormalizeTag(args)
		return c.sendFeed(chatID, w.Navigate(func(s router.State) router.State {
			return s.ToggleTag(tag)
		}).Home)
	case "untag":
		if args == "" {
			return c.sendPlain(chatID, "Please provide a tag: /untag <tag>")
		}
		tag := feed.NormalizeTag(args)
		return c.sendFeed(chatID, w.Navigate(func(s router.State) router.State {
			return s.RemoveTag(tag).ChangeView(domain.ViewHome)
		}).Home)
	case "cleartags":
		return c.sendFeed(chatID, w.Navigate(func(s router.State) router.State {
			return s.ClearTags().ChangeView(domain.ViewHome)
		}).Home)
	case "search":
		return c.handleSearch(chatID, args)
	case "profiles":
		return c.send(chatID, renderProfiles(w.Navigate(show(domain.ViewProfiles)).Profiles))
	case "profile":
		return c.handleProfile(chatID, args)
	case "trending":
		return c.send(chatID, renderTrending(w.Navigate(show(domain.ViewTrending)).Trending))
	case "leaderboard":
		return c.send(chatID, renderLeaderboard(w.Navigate(show(domain.ViewLeaderboard)).Leaderboard))
	case "post":
		return c.handlePost(chatID, args)
	case "like":
		return c.handleLike(chatID, args)
	case "comment":
		return c.handleComment(chatID, args)
	case "delete":
		return c.handleDelete(chatID, args)
	case "stories":
		return c.handleStories(chatID)
	case "story":
		return c.handleOpenStory(ctx, chatID, args)
	case "next", "prev", "pause", "close":
		return c.handleViewerStep(chatID, command)
	default:
		return c.sendPlain(chatID, "Unknown command. Type /help to see the list of available commands.")
	}
}

func (c *CommandImpl) handleSearch(chatID int64, args string) error {
	if args == "" {
		return c.sendPlain(chatID, "Please provide a query: /search [all|posts|profiles] <query>")
	}

	scope := domain.ScopeAll
	if first, rest, found := strings.Cut(args, " "); found {
		if s, err := domain.ParseScope(first); err == nil {
			scope, args = s, strings.TrimSpace(rest)
		}
	}

	scr := c.workspace(chatID).Navigate(func(s router.State) router.State {
		return s.Search(args, scope)
	})
	if scr.State.View == domain.ViewTrending {
		return c.send(chatID, renderTrending(scr.Trending))
	}
	return c.send(chatID, renderSearch(scr.Search))
}

func (c *CommandImpl) handleProfile(chatID int64, username string) error {
	w := c.workspace(chatID)
	if username == "" {
		return c.send(chatID, renderProfile(w.Navigate(show(domain.ViewProfile)).Profile))
	}

	username = strings.TrimPrefix(username, "@")
	u, ok := c.Directory.ByUsername(username)
	if !ok {
		return c.send(chatID, fmt.Sprintf("No one called @%s here\\.", formatter.EscapeMarkdownV2(username)))
	}
	return c.send(chatID, renderProfile(w.Navigate(func(s router.State) router.State {
		return s.SelectUser(u.ID)
	}).Profile))
}

func (c *CommandImpl) handlePost(chatID int64, text string) error {
	post, ok := c.workspace(chatID).CreatePost(text, "", nil)
	if !ok {
		return c.sendPlain(chatID, "Please write something: /post <text>")
	}
	return c.send(chatID, fmt.Sprintf("✅ Posted\\! id: `%s`", post.ID))
}

func (c *CommandImpl) handleLike(chatID int64, postID string) error {
	if postID == "" {
		return c.sendPlain(chatID, "Please provide a post id: /like <post id>")
	}
	post, ok := c.workspace(chatID).ToggleLike(postID)
	if !ok {
		return c.send(chatID, renderNoPost(postID))
	}
	return c.send(chatID, renderLike(post))
}

func (c *CommandImpl) handleComment(chatID int64, args string) error {
	postID, text, _ := strings.Cut(args, " ")
	if postID == "" || strings.TrimSpace(text) == "" {
		return c.sendPlain(chatID, "Please provide a post id and a comment: /comment <post id> <text>")
	}
	if _, ok := c.workspace(chatID).AddComment(postID, text); !ok {
		return c.send(chatID, renderNoPost(postID))
	}
	return c.sendPlain(chatID, "💬 Comment added.")
}

func (c *CommandImpl) handleDelete(chatID int64, postID string) error {
	if postID == "" {
		return c.sendPlain(chatID, "Please provide a post id: /delete <post id>")
	}
	if !c.workspace(chatID).DeletePost(postID) {
		return c.send(chatID, renderNoPost(postID))
	}
	return c.sendPlain(chatID, "🗑 Post deleted.")
}

// show switches to v; every command reads the screen from the same
// transition so a concurrent update for the chat cannot swap the view.
func show(v domain.View) func(router.State) router.State {
	return func(s router.State) router.State { return s.ChangeView(v) }
}

func (c *CommandImpl) send(chatID int64, text string) error {
	_, err := c.Telegram.SendMessage(chatID, text)
	return err
}

// sendFeed attaches like buttons for the posts shown.
func (c *CommandImpl) sendFeed(chatID int64, home *workspace.HomeScreen) error {
	kb, ok := likeKeyboard(home.Posts)
	if !ok {
		return c.send(chatID, renderHome(home))
	}
	_, err := c.Telegram.SendMessageWithKeyboard(chatID, renderHome(home), kb)
	return err
}

func (c *CommandImpl) sendPlain(chatID int64, text string) error {
	return c.send(chatID, formatter.EscapeMarkdownV2(text))
}
