// Package httpapi exposes the backend over HTTP: the auth endpoints and the
// per-user document endpoints the client consumes.
package httpapi

import (
	"context"
	"errors"

	"medai/internal/common"
	"medai/internal/logging"
	"medai/internal/server/documents"
	"medai/internal/server/users"

	"github.com/gofiber/fiber/v2"
)

type Server struct {
	addr        string
	app         *fiber.App
	logger      logging.Logger
	userService *users.Service
	docService  *documents.Service
}

func NewServer(addr string, logger logging.Logger, userService *users.Service, docService *documents.Service) *Server {
	s := &Server{
		addr:        addr,
		logger:      logger,
		userService: userService,
		docService:  docService,
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Post("/api/auth/register", s.register)
	app.Post("/api/auth/login", s.login)
	app.Post("/api/auth/refresh", s.refresh)
	app.Post("/api/auth/logout", s.authRequired, s.logout)
	app.Post("/api/auth/password", s.authRequired, s.changePassword)
	app.Post("/api/auth/email", s.authRequired, s.updateEmail)

	app.Get("/api/me/docs/:name", s.authRequired, s.getDocument)
	app.Put("/api/me/docs/:name", s.authRequired, s.putDocument)

	s.app = app
	return s
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- s.app.Listen(s.addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.app.Shutdown()
	}
}

// serviceError maps domain errors to HTTP responses.
func (s *Server) serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	case errors.Is(err, common.ErrorNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, common.ErrorValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		s.logger.Error(c.Context(), "request failed", "path", c.Path(), "error", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}
