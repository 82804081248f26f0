package commandimpl

import (
	"fmt"
	"strings"

	"github.com/orgball2608/fawazbook/internal/domain"
	"github.com/orgball2608/fawazbook/internal/feed"
	"github.com/orgball2608/fawazbook/internal/story"
	"github.com/orgball2608/fawazbook/internal/workspace"
	"github.com/orgball2608/fawazbook/pkg/formatter"
)

// Telegram caps messages at 4096 characters; ten posts stay well below it.
const maxPostsPerMessage = 10

var esc = formatter.EscapeMarkdownV2

func renderUser(u domain.User) string {
	name := "*" + esc(u.FullName) + "*"
	if u.Verified {
		name += " ✔️"
	}
	return name + " @" + esc(u.Username)
}

func renderTagList(tags []string) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = esc("#" + t)
	}
	return strings.Join(parts, " ")
}

func renderEntry(e feed.Entry) string {
	var sb strings.Builder
	sb.WriteString(renderUser(e.Author) + " · " + esc(e.Post.Timestamp) + "\n")
	if e.Post.Content != "" {
		sb.WriteString(esc(e.Post.Content) + "\n")
	}
	if len(e.Post.Tags) > 0 {
		sb.WriteString(renderTagList(e.Post.Tags) + "\n")
	}
	heart := "🤍"
	if e.Post.Liked {
		heart = "❤️"
	}
	sb.WriteString(fmt.Sprintf("%s %s  💬 %s  🔁 %s  id: `%s`",
		heart,
		esc(formatter.FormatCount(e.Post.Likes)),
		esc(formatter.FormatCount(e.Post.Comments)),
		esc(formatter.FormatCount(e.Post.Shares)),
		e.Post.ID,
	))
	return sb.String()
}

func renderEntries(entries []feed.Entry) string {
	if len(entries) == 0 {
		return esc("No posts here yet.")
	}
	shown := entries
	if len(shown) > maxPostsPerMessage {
		shown = shown[:maxPostsPerMessage]
	}
	parts := make([]string, len(shown))
	for i, e := range shown {
		parts[i] = renderEntry(e)
	}
	out := strings.Join(parts, "\n\n")
	if more := len(entries) - len(shown); more > 0 {
		out += "\n\n" + esc(fmt.Sprintf("…and %d more.", more))
	}
	return out
}

func renderHome(h *workspace.HomeScreen) string {
	header := "*Feed*"
	if !h.SelectedTags.Empty() {
		header += "\nFiltered by: " + renderTagList(h.SelectedTags.Sorted())
	}
	return header + "\n\n" + renderEntries(h.Posts)
}

func renderTags(h *workspace.HomeScreen) string {
	var sb strings.Builder
	sb.WriteString("*Tags*\n")
	sb.WriteString(renderTagList(h.AvailableTags))
	if h.SelectedTags.Empty() {
		sb.WriteString("\n\n" + esc("No filter active. Use /tag <tag> to add one."))
	} else {
		sb.WriteString("\n\nActive filter: " + renderTagList(h.SelectedTags.Sorted()))
	}
	return sb.String()
}

func renderSearch(s *workspace.SearchScreen) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*Search* %s \\(%s\\)", esc(`"`+s.Query+`"`), esc(string(s.Scope))))
	if len(s.Users) == 0 && len(s.Posts) == 0 {
		sb.WriteString("\n\n" + esc("Nothing found."))
		return sb.String()
	}
	if len(s.Users) > 0 {
		sb.WriteString("\n\n*People*")
		for _, u := range s.Users {
			sb.WriteString("\n" + renderUser(u))
		}
	}
	if len(s.Posts) > 0 {
		sb.WriteString("\n\n*Posts*\n" + renderEntries(s.Posts))
	}
	return sb.String()
}

func renderProfiles(users []domain.User) string {
	var sb strings.Builder
	sb.WriteString("*Discover People*")
	for _, u := range users {
		sb.WriteString("\n\n" + renderUser(u) + "\n")
		if u.Bio != "" {
			sb.WriteString(esc(u.Bio) + "\n")
		}
		sb.WriteString(esc(fmt.Sprintf("%s followers · %d posts", formatter.FormatNumber(u.Followers), u.Posts)))
	}
	return sb.String()
}

func renderProfile(p *workspace.ProfileScreen) string {
	u := p.User
	var sb strings.Builder
	sb.WriteString(renderUser(u) + "\n")
	if u.Bio != "" {
		sb.WriteString(esc(u.Bio) + "\n")
	}
	sb.WriteString(esc(fmt.Sprintf("%s followers · %s following · %d posts",
		formatter.FormatNumber(u.Followers), formatter.FormatNumber(u.Following), u.Posts)))
	sb.WriteString("\n\n" + renderEntries(p.Posts))
	return sb.String()
}

func renderTrending(t *workspace.TrendingScreen) string {
	var sb strings.Builder
	sb.WriteString("*Trending*")
	for _, row := range t.Tags {
		sb.WriteString("\n" + esc(fmt.Sprintf("#%d #%s · %d posts · %s interactions",
			row.Rank, row.Tag, row.Posts, formatter.FormatNumber(row.Engagement))))
	}
	if !t.SelectedTags.Empty() {
		sb.WriteString("\n\n*Browsing* " + renderTagList(t.SelectedTags.Sorted()) + "\n" + renderEntries(t.Posts))
	}
	return sb.String()
}

func renderLeaderboard(rows []feed.LeaderboardRow) string {
	var sb strings.Builder
	sb.WriteString("*Leaderboard*")
	for _, r := range rows {
		sb.WriteString("\n" + esc(fmt.Sprintf("%d. ", r.Rank)) + renderUser(r.User) +
			esc(fmt.Sprintf(" · %d posts · %s likes", r.Posts, formatter.FormatNumber(r.Likes))))
	}
	return sb.String()
}

func renderLike(p domain.Post) string {
	if p.Liked {
		return fmt.Sprintf("❤️ Liked `%s` %s", p.ID, esc(fmt.Sprintf("(%s likes)", formatter.FormatCount(p.Likes))))
	}
	return fmt.Sprintf("🤍 Unliked `%s` %s", p.ID, esc(fmt.Sprintf("(%s likes)", formatter.FormatCount(p.Likes))))
}

func renderNoPost(id string) string {
	return esc(fmt.Sprintf("No post with id %s.", id))
}

func renderRings(rings []story.Ring) string {
	if len(rings) == 0 {
		return esc("No stories right now.")
	}
	var sb strings.Builder
	sb.WriteString("*Stories*")
	for _, r := range rings {
		dot := "⚪️"
		if r.HasUnviewed {
			dot = "🔵"
		}
		sb.WriteString(fmt.Sprintf("\n%s %s · %s /story\\_%s",
			dot, renderUser(r.User), esc(r.Latest.Timestamp), esc(r.Latest.ID)))
	}
	return sb.String()
}

func renderViewer(snap story.Snapshot, author domain.User) string {
	var sb strings.Builder
	sb.WriteString(renderUser(author) + " · " + esc(snap.Story.Timestamp) + "\n")
	if snap.Story.Text != "" {
		sb.WriteString(esc(snap.Story.Text) + "\n")
	}
	if snap.Story.Image != "" {
		sb.WriteString(fmt.Sprintf("[🖼 image](%s)\n", escapeLinkURL(snap.Story.Image)))
	}
	state := "▶️"
	if snap.Status == story.StatusPaused {
		state = "⏸"
	}
	sb.WriteString(esc(fmt.Sprintf("%s %d/%d", state, snap.Index+1, snap.Total)))
	return sb.String()
}

func renderViewerClosed() string {
	return esc("Stories closed. Use /stories to watch more.")
}

// escapeLinkURL escapes the characters MarkdownV2 reserves inside (...) of an inline link.
func escapeLinkURL(u string) string {
	return strings.NewReplacer(`\`, `\\`, `)`, `\)`).Replace(u)
}
