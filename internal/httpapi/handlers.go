package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/orgball2608/fawazbook/internal/domain"
	"github.com/orgball2608/fawazbook/pkg/errors"
)

// mutation is the reply to every write. Applied is false when the request
// was valid but changed nothing.
type mutation struct {
	Applied bool `json:"applied"`
	Result  any  `json:"result,omitempty"`
}

func applied(c *fiber.Ctx, result any, ok bool) error {
	if !ok {
		return c.JSON(mutation{Applied: false})
	}
	return c.JSON(mutation{Applied: true, Result: result})
}

func parse(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errors.Invalid(err)
	}
	return nil
}

func (s *Server) healthz(c *fiber.Ctx) error {
	s.log.Debug("Health check request received", "method", c.Method(), "url", c.OriginalURL())
	return c.SendString("ok")
}

func (s *Server) getScreen(c *fiber.Ctx) error {
	return c.JSON(ws(c).Screen())
}

type viewRequest struct {
	View string `json:"view"`
}

func (s *Server) changeView(c *fiber.Ctx) error {
	var req viewRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	v, err := domain.ParseView(req.View)
	if err != nil {
		return errors.Invalid(err)
	}
	return applied(c, ws(c).ChangeView(v), true)
}

func (s *Server) selectUser(c *fiber.Ctx) error {
	state, err := ws(c).SelectUser(c.Params("id"))
	if err != nil {
		return err
	}
	return applied(c, state, true)
}

type searchRequest struct {
	Query string `json:"query"`
	Scope string `json:"scope"`
}

func (s *Server) search(c *fiber.Ctx) error {
	var req searchRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	scope, err := domain.ParseScope(req.Scope)
	if err != nil {
		return errors.Invalid(err)
	}
	return applied(c, ws(c).Search(req.Query, scope), true)
}

func (s *Server) toggleTag(c *fiber.Ctx) error {
	return applied(c, ws(c).ToggleTag(c.Params("tag")), true)
}

func (s *Server) removeTag(c *fiber.Ctx) error {
	return applied(c, ws(c).RemoveTag(c.Params("tag")), true)
}

func (s *Server) clearTags(c *fiber.Ctx) error {
	return applied(c, ws(c).ClearTags(), true)
}

type postRequest struct {
	Content string   `json:"content"`
	Image   string   `json:"image"`
	Tags    []string `json:"tags"`
}

func (s *Server) createPost(c *fiber.Ctx) error {
	var req postRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	post, ok := ws(c).CreatePost(req.Content, req.Image, req.Tags)
	if ok {
		c.Status(fiber.StatusCreated)
	}
	return applied(c, post, ok)
}

func (s *Server) deletePost(c *fiber.Ctx) error {
	return applied(c, nil, ws(c).DeletePost(c.Params("id")))
}

func (s *Server) toggleLike(c *fiber.Ctx) error {
	post, ok := ws(c).ToggleLike(c.Params("id"))
	return applied(c, post, ok)
}

type commentRequest struct {
	Text string `json:"text"`
}

func (s *Server) addComment(c *fiber.Ctx) error {
	var req commentRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	comment, ok := ws(c).AddComment(c.Params("id"), req.Text)
	if ok {
		c.Status(fiber.StatusCreated)
	}
	return applied(c, comment, ok)
}

func (s *Server) editComment(c *fiber.Ctx) error {
	var req commentRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	return applied(c, nil, ws(c).EditComment(c.Params("id"), c.Params("commentID"), req.Text))
}

func (s *Server) deleteComment(c *fiber.Ctx) error {
	return applied(c, nil, ws(c).DeleteComment(c.Params("id"), c.Params("commentID")))
}

type storyRequest struct {
	Image string `json:"image"`
	Text  string `json:"text"`
}

func (s *Server) addStory(c *fiber.Ctx) error {
	var req storyRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	st, ok := ws(c).AddStory(req.Image, req.Text)
	if ok {
		c.Status(fiber.StatusCreated)
	}
	return applied(c, st, ok)
}

func (s *Server) openStory(c *fiber.Ctx) error {
	snap, ok := ws(c).OpenStory(c.Params("id"))
	return applied(c, snap, ok)
}

type viewerResponse struct {
	Open   bool `json:"open"`
	Viewer any  `json:"viewer,omitempty"`
}

func (s *Server) getViewer(c *fiber.Ctx) error {
	snap, ok := ws(c).Viewer()
	if !ok {
		return c.JSON(viewerResponse{})
	}
	return c.JSON(viewerResponse{Open: true, Viewer: snap})
}

func (s *Server) viewerNext(c *fiber.Ctx) error {
	return s.viewerStep(c, ws(c).NextStory())
}

func (s *Server) viewerPrev(c *fiber.Ctx) error {
	return s.viewerStep(c, ws(c).PrevStory())
}

func (s *Server) viewerPause(c *fiber.Ctx) error {
	return s.viewerStep(c, ws(c).TogglePauseStory())
}

func (s *Server) viewerClose(c *fiber.Ctx) error {
	return s.viewerStep(c, ws(c).CloseStory())
}

// viewerStep replies with the viewer as it is after the step, or with no
// result once it has closed.
func (s *Server) viewerStep(c *fiber.Ctx, ok bool) error {
	if !ok {
		return applied(c, nil, false)
	}
	snap, open := ws(c).Viewer()
	if !open {
		return applied(c, viewerResponse{}, true)
	}
	return applied(c, viewerResponse{Open: true, Viewer: snap}, true)
}
