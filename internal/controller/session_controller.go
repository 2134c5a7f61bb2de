package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"avatar-trainer-be/internal/dto"
	"avatar-trainer-be/internal/pkg/serverutils"
	"avatar-trainer-be/internal/service"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	SubmitAnswer(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Report(ctx *fiber.Ctx) error
	CreateFeedback(ctx *fiber.Ctx) error
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
	h.Post("", c.Start)
	h.Post(":id/answer", c.SubmitAnswer)
	h.Get(":id", c.Show)
	h.Get(":id/report", c.Report)
	h.Post(":id/feedback", c.CreateFeedback)
}

func (c *sessionController) Start(ctx *fiber.Ctx) error {
	var req dto.StartSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.Start(ctx.Context(), &req)
	if err != nil {
		return mapSessionError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Session started", res))
}

func (c *sessionController) SubmitAnswer(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	var req dto.SubmitAnswerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.SubmitAnswer(ctx.Context(), id, &req)
	if err != nil {
		return mapSessionError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Answer evaluated", res))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	res, err := c.sessionService.Show(ctx.Context(), id)
	if err != nil {
		return mapSessionError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}

func (c *sessionController) Report(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	res, err := c.sessionService.Report(ctx.Context(), id)
	if err != nil {
		return mapSessionError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get report", res))
}

func (c *sessionController) CreateFeedback(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	var req dto.CreateFeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.CreateFeedback(ctx.Context(), id, &req)
	if err != nil {
		return mapSessionError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Feedback saved", res))
}

func mapSessionError(err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmptyAnswer),
		errors.Is(err, service.ErrScenarioMissing):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}
