package controller

import (
	"errors"

	"myjourney-be/internal/pkg/serverutils"
	"myjourney-be/internal/service"
	"myjourney-be/pkg/speech"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	ChapterAudio(ctx *fiber.Ctx) error
	Genres(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
}

func NewSessionController(sessionService service.ISessionService) ISessionController {
	return &sessionController{
		sessionService: sessionService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Use(serverutils.OptionalJwtMiddleware)
	h.Get("genres", c.Genres)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
	h.Get(":id/chapters/:chapterId/audio", c.ChapterAudio)
}

func (c *sessionController) List(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	res, err := c.sessionService.List(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Sessions retrieved", res))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session ID"))
	}

	res, err := c.sessionService.Show(ctx.Context(), id, userId)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session detail", res))
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session ID"))
	}

	if err := c.sessionService.Delete(ctx.Context(), id, userId); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Session deleted", nil))
}

// ChapterAudio streams a chapter's narration as a playable audio body.
func (c *sessionController) ChapterAudio(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session ID"))
	}
	chapterId, err := uuid.Parse(ctx.Params("chapterId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid chapter ID"))
	}

	encoded, err := c.sessionService.ChapterAudio(ctx.Context(), id, chapterId, userId)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "No audio for chapter"))
		}
		return err
	}

	buf, err := speech.DecodeAudio(encoded)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Corrupted audio data"))
	}

	ctx.Set(fiber.HeaderContentType, buf.MimeType)
	return ctx.Send(buf.Data)
}

func (c *sessionController) Genres(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Available genres", c.sessionService.Genres()))
}
