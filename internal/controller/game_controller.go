package controller

import (
	"io"

	"boardgame-rules-be/internal/dto"
	"boardgame-rules-be/internal/pkg/apperror"
	"boardgame-rules-be/internal/pkg/serverutils"
	"boardgame-rules-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IGameController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	UploadRules(ctx *fiber.Ctx) error
	RulesInfo(ctx *fiber.Ctx) error
	DeleteRules(ctx *fiber.Ctx) error
}

type gameController struct {
	gameService   service.IGameService
	ingestService service.IIngestService
}

func NewGameController(gameService service.IGameService, ingestService service.IIngestService) IGameController {
	return &gameController{
		gameService:   gameService,
		ingestService: ingestService,
	}
}

func (c *gameController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/games")
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
	h.Post(":id/rules-upload", c.UploadRules)
	h.Get(":id/rules-info", c.RulesInfo)
	h.Delete(":id/rules", c.DeleteRules)
}

func (c *gameController) List(ctx *fiber.Ctx) error {
	query := dto.ListGamesQuery{
		PaginationQuery: dto.PaginationQuery{
			Page:  ctx.QueryInt("page"),
			Limit: ctx.QueryInt("limit"),
		},
		Search: ctx.Query("search"),
	}

	res, err := c.gameService.List(ctx.Context(), &query)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *gameController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateGameRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.gameService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (c *gameController) Show(ctx *fiber.Ctx) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.gameService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *gameController) Update(ctx *fiber.Ctx) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateGameRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.gameService.Update(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *gameController) Delete(ctx *fiber.Ctx) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.gameService.Delete(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// UploadRules accepts either a multipart "file" field or a raw PDF body.
func (c *gameController) UploadRules(ctx *fiber.Ctx) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	fileBytes, err := readUploadedFile(ctx)
	if err != nil {
		return err
	}

	res, err := c.ingestService.UploadRules(ctx.Context(), id, fileBytes)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *gameController) RulesInfo(ctx *fiber.Ctx) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.gameService.RulesInfo(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *gameController) DeleteRules(ctx *fiber.Ctx) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.gameService.DeleteRules(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func parseUUIDParam(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperror.Validation("invalid %s parameter", name)
	}
	return id, nil
}

func readUploadedFile(ctx *fiber.Ctx) ([]byte, error) {
	fileHeader, err := ctx.FormFile("file")
	if err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, apperror.Validation("failed to read uploaded file")
		}
		defer file.Close()

		buf, err := io.ReadAll(file)
		if err != nil {
			return nil, apperror.Validation("failed to read uploaded file")
		}
		return buf, nil
	}

	body := ctx.Body()
	if len(body) == 0 {
		return nil, apperror.Validation("no file provided")
	}
	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}
