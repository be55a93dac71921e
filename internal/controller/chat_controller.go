package controller

import (
	"boardgame-rules-be/internal/dto"
	"boardgame-rules-be/internal/pkg/apperror"
	"boardgame-rules-be/internal/pkg/serverutils"
	"boardgame-rules-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SearchRules(ctx *fiber.Ctx) error
	CreateSession(ctx *fiber.Ctx) error
	ListSessions(ctx *fiber.Ctx) error
	ShowSession(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	PostMessage(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Get("search-rules", c.SearchRules)
	h.Get("sessions", c.ListSessions)
	h.Post("sessions", c.CreateSession)
	h.Get("sessions/:id", c.ShowSession)
	h.Delete("sessions/:id", c.DeleteSession)
	h.Post("message", c.PostMessage)
}

func (c *chatController) SearchRules(ctx *fiber.Ctx) error {
	gameId, err := uuid.Parse(ctx.Query("gameId"))
	if err != nil {
		return apperror.Validation("invalid gameId parameter")
	}

	query := dto.SearchRulesQuery{
		GameId: gameId,
		Query:  ctx.Query("query"),
		Limit:  ctx.QueryInt("limit"),
	}
	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}

	res, err := c.chatService.SearchRules(ctx.Context(), &query)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	var req dto.CreateChatSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.CreateSession(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (c *chatController) ListSessions(ctx *fiber.Ctx) error {
	query := dto.ListChatSessionsQuery{
		PaginationQuery: dto.PaginationQuery{
			Page:  ctx.QueryInt("page"),
			Limit: ctx.QueryInt("limit"),
		},
	}
	if raw := ctx.Query("gameId"); raw != "" {
		gameId, err := uuid.Parse(raw)
		if err != nil {
			return apperror.Validation("invalid gameId parameter")
		}
		query.GameId = &gameId
	}

	res, err := c.chatService.ListSessions(ctx.Context(), &query)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) ShowSession(ctx *fiber.Ctx) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.chatService.ShowSession(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.chatService.DeleteSession(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *chatController) PostMessage(ctx *fiber.Ctx) error {
	var req dto.PostChatMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.PostMessage(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
