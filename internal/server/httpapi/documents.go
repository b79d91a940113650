package httpapi

import (
	"medai/internal/server/documents"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) getDocument(c *fiber.Ctx) error {
	name := c.Params("name")
	if !documents.ValidName(name) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}

	body, err := s.docService.Get(c.Context(), userID(c), name)
	if err != nil {
		return s.serviceError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// putDocument writes a document. The profile document is merge-written so a
// partial body keeps the stored values of absent fields; history is replaced
// wholesale.
func (s *Server) putDocument(c *fiber.Ctx) error {
	name := c.Params("name")
	if !documents.ValidName(name) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}

	body := c.Body()

	var err error
	if name == documents.NameProfile {
		err = s.docService.Merge(c.Context(), userID(c), name, body)
	} else {
		err = s.docService.Replace(c.Context(), userID(c), name, body)
	}
	if err != nil {
		return s.serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "saved"})
}
