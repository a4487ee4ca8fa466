package controller

import (
	"errors"

	"myjourney-be/internal/dto"
	"myjourney-be/internal/pkg/serverutils"
	"myjourney-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IRideController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Resume(ctx *fiber.Ctx) error
	UpdateSpeed(ctx *fiber.Ctx) error
	SetTracking(ctx *fiber.Ctx) error
	Metrics(ctx *fiber.Ctx) error
	Save(ctx *fiber.Ctx) error
	Exit(ctx *fiber.Ctx) error
}

type rideController struct {
	rideService service.IRideService
}

func NewRideController(rideService service.IRideService) IRideController {
	return &rideController{
		rideService: rideService,
	}
}

func (c *rideController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ride/v1")
	h.Use(serverutils.OptionalJwtMiddleware) // Anonymous rides stay on-device
	h.Post("", c.Start)
	h.Post(":id/resume", c.Resume)
	h.Put(":id/speed", c.UpdateSpeed)
	h.Put(":id/tracking", c.SetTracking)
	h.Get(":id/metrics", c.Metrics)
	h.Post(":id/save", c.Save)
	h.Post(":id/exit", c.Exit)
}

func (c *rideController) Start(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.StartRideRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.rideService.Start(ctx.Context(), userId, req)
	if err != nil {
		if errors.Is(err, service.ErrUnknownGenre) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Ride started", res))
}

func (c *rideController) Resume(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session ID"))
	}

	res, err := c.rideService.Resume(ctx.Context(), userId, sessionId)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		case errors.Is(err, service.ErrRideActive):
			return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(409, err.Error()))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Ride resumed", res))
}

func (c *rideController) UpdateSpeed(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session ID"))
	}

	var req dto.UpdateSpeedRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	if err := c.rideService.UpdateSpeed(sessionId, req.Speed); err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Speed updated", nil))
}

func (c *rideController) SetTracking(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session ID"))
	}

	var req dto.SetTrackingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	if err := c.rideService.SetTracking(sessionId, *req.Tracking); err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Tracking updated", nil))
}

func (c *rideController) Metrics(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session ID"))
	}

	res, err := c.rideService.Metrics(sessionId)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Ride metrics", res))
}

func (c *rideController) Save(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session ID"))
	}

	res, err := c.rideService.Save(sessionId)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Ride saved", res))
}

func (c *rideController) Exit(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session ID"))
	}

	res, err := c.rideService.Exit(sessionId)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Ride completed", res))
}
