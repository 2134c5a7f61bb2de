package controller

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"avatar-trainer-be/internal/dto"
	"avatar-trainer-be/internal/pkg/serverutils"
	"avatar-trainer-be/internal/service"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	IngestDoc(ctx *fiber.Ctx) error
	ListDocs(ctx *fiber.Ctx) error
	DeleteDoc(ctx *fiber.Ctx) error
	Reindex(ctx *fiber.Ctx) error
	SearchKnowledge(ctx *fiber.Ctx) error
	ListSessions(ctx *fiber.Ctx) error
	UpsertArchetype(ctx *fiber.Ctx) error
	ListArchetypes(ctx *fiber.Ctx) error
	Logs(ctx *fiber.Ctx) error
}

type adminController struct {
	adminService     service.IAdminService
	knowledgeService service.IKnowledgeService
}

func NewAdminController(adminService service.IAdminService, knowledgeService service.IKnowledgeService) IAdminController {
	return &adminController{
		adminService:     adminService,
		knowledgeService: knowledgeService,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Post("login", c.Login)

	protected := h.Group("", serverutils.JwtMiddleware)
	protected.Post("knowledge", c.IngestDoc)
	protected.Get("knowledge", c.ListDocs)
	protected.Delete("knowledge/:id", c.DeleteDoc)
	protected.Post("knowledge/reindex", c.Reindex)
	protected.Get("knowledge/search", c.SearchKnowledge)
	protected.Get("sessions", c.ListSessions)
	protected.Post("archetypes", c.UpsertArchetype)
	protected.Get("archetypes", c.ListArchetypes)
	protected.Get("logs", c.Logs)
}

func (c *adminController) Login(ctx *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.adminService.Login(ctx.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Login success", res))
}

func (c *adminController) IngestDoc(ctx *fiber.Ctx) error {
	var req dto.IngestDocRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeService.Ingest(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Document ingested", res))
}

func (c *adminController) ListDocs(ctx *fiber.Ctx) error {
	res, err := c.knowledgeService.ListDocs(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get documents", res))
}

func (c *adminController) DeleteDoc(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid document id")
	}

	if err := c.knowledgeService.DeleteDoc(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Document deleted", nil))
}

func (c *adminController) Reindex(ctx *fiber.Ctx) error {
	res, err := c.knowledgeService.ReindexAll(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Reindex complete", res))
}

func (c *adminController) SearchKnowledge(ctx *fiber.Ctx) error {
	query := ctx.Query("q")
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Query parameter q is required")
	}
	topK, _ := strconv.Atoi(ctx.Query("top_k", "5"))

	results, err := c.knowledgeService.Search(ctx.Context(), query, topK)
	if err != nil {
		return err
	}

	res := make([]dto.SearchKnowledgeResponse, len(results))
	for i, r := range results {
		res[i] = dto.SearchKnowledgeResponse{
			Id:       r.Id,
			DocTitle: r.DocTitle,
			Snippet:  r.Snippet,
			Score:    r.Score,
		}
	}
	return ctx.JSON(serverutils.SuccessResponse("Success search knowledge", res))
}

func (c *adminController) ListSessions(ctx *fiber.Ctx) error {
	limit, _ := strconv.Atoi(ctx.Query("limit", "20"))
	offset, _ := strconv.Atoi(ctx.Query("offset", "0"))

	res, err := c.adminService.ListSessions(ctx.Context(), ctx.Query("status"), ctx.Query("mode"), limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get sessions", res))
}

func (c *adminController) UpsertArchetype(ctx *fiber.Ctx) error {
	var req dto.CreateArchetypeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.adminService.UpsertArchetype(ctx.Context(), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Archetype saved", nil))
}

func (c *adminController) ListArchetypes(ctx *fiber.Ctx) error {
	res, err := c.adminService.ListArchetypes(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get archetypes", res))
}

func (c *adminController) Logs(ctx *fiber.Ctx) error {
	limit, _ := strconv.Atoi(ctx.Query("limit", "100"))
	offset, _ := strconv.Atoi(ctx.Query("offset", "0"))

	res, err := c.adminService.Logs(ctx.Query("level"), limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get logs", res))
}
