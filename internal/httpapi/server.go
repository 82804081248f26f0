package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/orgball2608/fawazbook/internal/workspace"
	"github.com/orgball2608/fawazbook/pkg/errors"
	"github.com/orgball2608/fawazbook/pkg/logger"
)

const (
	ClientHeader  = "X-Client-ID"
	DefaultClient = "web"

	workspaceKey = "workspace"
)

type Server struct {
	app      *fiber.App
	registry *workspace.Registry
	log      logger.Logger
}

func New(registry *workspace.Registry, log logger.Logger) *Server {
	s := &Server{
		registry: registry,
		log:      log,
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "fawazbook",
		DisableStartupMessage: true,
		// Params and headers end up as workspace state; they must not alias
		// fasthttp's reused request buffers.
		Immutable:             true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, " + ClientHeader,
	}))
	s.routes()
	return s
}

// App exposes the underlying fiber app, mostly for tests.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) routes() {
	s.app.Get("/healthz", s.healthz)

	api := s.app.Group("/api", s.withWorkspace)
	api.Get("/screen", s.getScreen)
	api.Post("/view", s.changeView)
	api.Post("/users/:id/select", s.selectUser)
	api.Post("/search", s.search)

	api.Post("/tags/:tag/toggle", s.toggleTag)
	api.Delete("/tags/:tag", s.removeTag)
	api.Delete("/tags", s.clearTags)

	api.Post("/posts", s.createPost)
	api.Delete("/posts/:id", s.deletePost)
	api.Post("/posts/:id/like", s.toggleLike)
	api.Post("/posts/:id/comments", s.addComment)
	api.Put("/posts/:id/comments/:commentID", s.editComment)
	api.Delete("/posts/:id/comments/:commentID", s.deleteComment)

	api.Post("/stories", s.addStory)
	api.Post("/stories/:id/open", s.openStory)
	api.Get("/viewer", s.getViewer)
	api.Post("/viewer/next", s.viewerNext)
	api.Post("/viewer/prev", s.viewerPrev)
	api.Post("/viewer/pause", s.viewerPause)
	api.Delete("/viewer", s.viewerClose)
}

func (s *Server) withWorkspace(c *fiber.Ctx) error {
	id := c.Get(ClientHeader)
	if id == "" {
		id = DefaultClient
	}
	c.Locals(workspaceKey, s.registry.Get("http:"+id))
	return c.Next()
}

func ws(c *fiber.Ctx) *workspace.Workspace {
	return c.Locals(workspaceKey).(*workspace.Workspace)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		status = fe.Code
	case errors.IsNotFound(err):
		status = fiber.StatusNotFound
	case errors.IsInvalidInput(err):
		status = fiber.StatusBadRequest
	case errors.IsServiceUnavailable(err):
		status = fiber.StatusServiceUnavailable
	}

	if status >= fiber.StatusInternalServerError {
		s.log.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
	} else {
		s.log.Debug("Request rejected", "method", c.Method(), "path", c.Path(), "status", status, "error", err)
	}
	return c.Status(status).JSON(errorResponse{Error: err.Error(), Code: errors.GetCode(err)})
}
