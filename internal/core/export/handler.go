package export

import (
	"context"
	"errors"
	"fmt"

	"stylescraper/internal/core/session"
	"stylescraper/internal/logger"

	"github.com/gofiber/fiber/v2"
)

// Source is the read side of the session store.
type Source interface {
	Get(ctx context.Context, id int) (*session.Session, error)
	All(ctx context.Context) ([]*session.Session, error)
}

// Request is the body of POST /export.
type Request struct {
	Format     string `json:"format"`
	SessionIDs []int  `json:"sessionIds"`
}

type Handler struct {
	log    *logger.Logger
	source Source
}

func NewHandler(source Source) *Handler {
	return &Handler{log: logger.New("ExportHandler"), source: source}
}

// Collect returns the sessions named by ids, skipping unknown ones, or every
// session when ids is empty.
func Collect(ctx context.Context, src Source, ids []int) ([]*session.Session, error) {
	if len(ids) == 0 {
		return src.All(ctx)
	}
	out := make([]*session.Session, 0, len(ids))
	for _, id := range ids {
		s, err := src.Get(ctx, id)
		if errors.Is(err, session.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (h *Handler) HandleExport(c *fiber.Ctx) error {
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request data"})
	}

	sessions, err := Collect(c.Context(), h.source, req.SessionIDs)
	if err != nil {
		h.log.LogError("export collect failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to export data"})
	}

	file, err := Render(sessions, Format(req.Format))
	if errors.Is(err, ErrUnsupportedFormat) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid export format"})
	}
	if err != nil {
		h.log.LogError("export render failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to export data"})
	}

	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	return c.Send(file.Body)
}
