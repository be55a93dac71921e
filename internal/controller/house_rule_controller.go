package controller

import (
	"boardgame-rules-be/internal/dto"
	"boardgame-rules-be/internal/pkg/apperror"
	"boardgame-rules-be/internal/pkg/serverutils"
	"boardgame-rules-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IHouseRuleController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type houseRuleController struct {
	houseRuleService service.IHouseRuleService
}

func NewHouseRuleController(houseRuleService service.IHouseRuleService) IHouseRuleController {
	return &houseRuleController{
		houseRuleService: houseRuleService,
	}
}

func (c *houseRuleController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/house-rules")
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
}

func (c *houseRuleController) List(ctx *fiber.Ctx) error {
	gameId, err := uuid.Parse(ctx.Query("gameId"))
	if err != nil {
		return apperror.Validation("invalid gameId parameter")
	}

	query := dto.ListHouseRulesQuery{
		PaginationQuery: dto.PaginationQuery{
			Page:  ctx.QueryInt("page"),
			Limit: ctx.QueryInt("limit"),
		},
		GameId:     gameId,
		ActiveOnly: ctx.QueryBool("activeOnly"),
	}

	res, err := c.houseRuleService.List(ctx.Context(), &query)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *houseRuleController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateHouseRuleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.houseRuleService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (c *houseRuleController) Show(ctx *fiber.Ctx) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.houseRuleService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *houseRuleController) Update(ctx *fiber.Ctx) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateHouseRuleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.houseRuleService.Update(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *houseRuleController) Delete(ctx *fiber.Ctx) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.houseRuleService.Delete(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
