package controller

import (
	"food-donation-be/internal/dto"
	"food-donation-be/internal/entity"
	"food-donation-be/internal/pkg/serverutils"
	"food-donation-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICategoryController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

// categoryController serves one category kind under its own path.
type categoryController struct {
	service service.ICategoryService
	kind    entity.CategoryKind
	path    string
}

func NewFoodCategoryController(service service.ICategoryService) ICategoryController {
	return &categoryController{service: service, kind: entity.CategoryKindFood, path: "/food-categories"}
}

func NewWasteCategoryController(service service.ICategoryService) ICategoryController {
	return &categoryController{service: service, kind: entity.CategoryKindWaste, path: "/waste-categories"}
}

func (c *categoryController) RegisterRoutes(r fiber.Router) {
	h := r.Group(c.path)
	h.Use(serverutils.JwtMiddleware)
	h.Get("/", c.List)
	h.Post("/", c.Create)
	h.Get("/:id", c.Get)
	h.Put("/:id", c.Update)
	h.Patch("/:id", c.Update)
	h.Delete("/:id", c.Delete)
}

func (c *categoryController) List(ctx *fiber.Ctx) error {
	res, err := c.service.List(ctx.UserContext(), c.kind)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Categories", res))
}

func (c *categoryController) Get(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamId(ctx, "id", "category")
	if err != nil {
		return err
	}

	res, err := c.service.Get(ctx.UserContext(), c.kind, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Category", res))
}

func (c *categoryController) Create(ctx *fiber.Ctx) error {
	actorId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	var req dto.CategoryRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), actorId, c.kind, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Category created", res))
}

func (c *categoryController) Update(ctx *fiber.Ctx) error {
	actorId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParamId(ctx, "id", "category")
	if err != nil {
		return err
	}
	var req dto.CategoryRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.UserContext(), actorId, c.kind, id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Category updated", res))
}

func (c *categoryController) Delete(ctx *fiber.Ctx) error {
	actorId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParamId(ctx, "id", "category")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), actorId, c.kind, id); err != nil {
		return err
	}
	return ctx.Status(fiber.StatusNoContent).Send(nil)
}
