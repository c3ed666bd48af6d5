package scrape

import (
	"errors"

	"stylescraper/internal/core/session"
	"stylescraper/internal/utils/parser"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service     *Service
	recentLimit int
}

func NewHandler(service *Service, recentLimit int) *Handler {
	if recentLimit <= 0 {
		recentLimit = session.DefaultRecentLimit
	}
	return &Handler{service: service, recentLimit: recentLimit}
}

func (h *Handler) HandleList(c *fiber.Ctx) error {
	sessions, err := h.service.Store().All(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Message: "Failed to fetch scraping sessions"})
	}
	return c.JSON(sessions)
}

func (h *Handler) HandleRecent(c *fiber.Ctx) error {
	var p RecentParams
	limit := h.recentLimit
	// Unparseable or non-positive limits fall back to the default.
	if err := parser.ParseQuery(c, &p); err == nil && p.Limit != nil && *p.Limit > 0 {
		limit = *p.Limit
	}
	sessions, err := h.service.Store().Recent(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Message: "Failed to fetch recent sessions"})
	}
	return c.JSON(sessions)
}

func (h *Handler) HandleStatistics(c *fiber.Ctx) error {
	stats, err := h.service.Store().Statistics(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Message: "Failed to fetch statistics"})
	}
	return c.JSON(stats)
}

func (h *Handler) HandleGet(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: "Invalid session id"})
	}
	sess, err := h.service.Store().Get(c.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Message: "Scraping session not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Message: "Failed to fetch scraping session"})
	}
	return c.JSON(sess)
}

func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: "Invalid session id"})
	}
	ok, err := h.service.Store().Delete(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Message: "Failed to delete scraping session"})
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Message: "Scraping session not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request data",
			Errors:  []FieldError{{Message: err.Error()}},
		})
	}
	if errs := ValidateCreate(req); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: "Invalid request data", Errors: errs})
	}

	sess, err := h.service.Create(c.Context(), req.URL, req.Options.Resolve())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Message: "Failed to create scraping session"})
	}
	return c.JSON(sess)
}
