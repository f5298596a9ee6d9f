package controller

import (
	"food-donation-be/internal/dto"
	"food-donation-be/internal/pkg/serverutils"
	"food-donation-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWasteController interface {
	RegisterRoutes(r fiber.Router)
	ListLogs(ctx *fiber.Ctx) error
	CreateLog(ctx *fiber.Ctx) error
	MyLogs(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	DeleteLog(ctx *fiber.Ctx) error
	ListReductions(ctx *fiber.Ctx) error
	CreateReduction(ctx *fiber.Ctx) error
	DeleteReduction(ctx *fiber.Ctx) error
}

type wasteController struct {
	service service.IWasteService
}

func NewWasteController(service service.IWasteService) IWasteController {
	return &wasteController{service: service}
}

func (c *wasteController) RegisterRoutes(r fiber.Router) {
	logs := r.Group("/waste-logs")
	logs.Use(serverutils.JwtMiddleware)
	logs.Get("/", c.ListLogs)
	logs.Post("/", c.CreateLog)
	logs.Get("/my_logs", c.MyLogs)
	logs.Get("/stats", c.Stats)
	logs.Delete("/:id", c.DeleteLog)

	reductions := r.Group("/waste-reductions")
	reductions.Use(serverutils.JwtMiddleware)
	reductions.Get("/", c.ListReductions)
	reductions.Post("/", c.CreateReduction)
	reductions.Delete("/:id", c.DeleteReduction)
}

func (c *wasteController) ListLogs(ctx *fiber.Ctx) error {
	actorId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.List(ctx.UserContext(), actorId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Waste logs", res))
}

func (c *wasteController) CreateLog(ctx *fiber.Ctx) error {
	actorId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	var req dto.CreateWasteLogRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.CreateLog(ctx.UserContext(), actorId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Waste log recorded", res))
}

func (c *wasteController) MyLogs(ctx *fiber.Ctx) error {
	actorId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListMine(ctx.UserContext(), actorId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("My waste logs", res))
}

func (c *wasteController) Stats(ctx *fiber.Ctx) error {
	actorId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Stats(ctx.UserContext(), actorId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Waste statistics", res))
}

func (c *wasteController) DeleteLog(ctx *fiber.Ctx) error {
	actorId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParamId(ctx, "id", "waste log")
	if err != nil {
		return err
	}

	if err := c.service.DeleteLog(ctx.UserContext(), actorId, id); err != nil {
		return err
	}
	return ctx.Status(fiber.StatusNoContent).Send(nil)
}

func (c *wasteController) ListReductions(ctx *fiber.Ctx) error {
	actorId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListReductions(ctx.UserContext(), actorId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Waste reductions", res))
}

func (c *wasteController) CreateReduction(ctx *fiber.Ctx) error {
	actorId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	var req dto.CreateWasteReductionRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.CreateReduction(ctx.UserContext(), actorId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Waste reduction recorded", res))
}

func (c *wasteController) DeleteReduction(ctx *fiber.Ctx) error {
	actorId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParamId(ctx, "id", "waste reduction")
	if err != nil {
		return err
	}

	if err := c.service.DeleteReduction(ctx.UserContext(), actorId, id); err != nil {
		return err
	}
	return ctx.Status(fiber.StatusNoContent).Send(nil)
}
