package controller

import (
	"food-donation-be/internal/dto"
	"food-donation-be/internal/pkg/serverutils"
	"food-donation-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	GetAllUsers(ctx *fiber.Ctx) error
	GetUserDetail(ctx *fiber.Ctx) error
	UpdateUser(ctx *fiber.Ctx) error
	VerifyUser(ctx *fiber.Ctx) error
	DeleteUser(ctx *fiber.Ctx) error
	GetReport(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error
}

type adminController struct {
	service service.IAdminService
}

func NewAdminController(service service.IAdminService) IAdminController {
	return &adminController{service: service}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	guard := []fiber.Handler{serverutils.JwtMiddleware, serverutils.AdminOnly}
	with := func(h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, guard...), h)
	}

	// Users
	users := r.Group("/users")
	users.Get("/", with(c.GetAllUsers)...)
	users.Get("/:id", with(c.GetUserDetail)...)
	users.Put("/:id", with(c.UpdateUser)...)
	users.Patch("/:id", with(c.UpdateUser)...)
	users.Delete("/:id", with(c.DeleteUser)...)
	users.Post("/:id/verify", with(c.VerifyUser)...)

	// Reports & logs
	admin := r.Group("/admin")
	admin.Get("/reports", with(c.GetReport)...)
	admin.Get("/logs", with(c.GetLogs)...)
	admin.Get("/logs/:id", with(c.GetLogDetail)...)
}

func (c *adminController) GetAllUsers(ctx *fiber.Ctx) error {
	actorId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	var req dto.AdminUserListRequest
	if err := serverutils.ParseQuery(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.ListUsers(ctx.UserContext(), actorId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Users", res))
}

func (c *adminController) GetUserDetail(ctx *fiber.Ctx) error {
	actorId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	userId, err := serverutils.ParamId(ctx, "id", "user")
	if err != nil {
		return err
	}

	res, err := c.service.GetUser(ctx.UserContext(), actorId, userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User detail", res))
}

func (c *adminController) UpdateUser(ctx *fiber.Ctx) error {
	actorId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	userId, err := serverutils.ParamId(ctx, "id", "user")
	if err != nil {
		return err
	}
	var req dto.AdminUpdateUserRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.UpdateUser(ctx.UserContext(), actorId, userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User updated", res))
}

func (c *adminController) VerifyUser(ctx *fiber.Ctx) error {
	actorId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	userId, err := serverutils.ParamId(ctx, "id", "user")
	if err != nil {
		return err
	}

	res, err := c.service.VerifyUser(ctx.UserContext(), actorId, userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User verified", res))
}

func (c *adminController) DeleteUser(ctx *fiber.Ctx) error {
	actorId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	userId, err := serverutils.ParamId(ctx, "id", "user")
	if err != nil {
		return err
	}

	if err := c.service.DeleteUser(ctx.UserContext(), actorId, userId); err != nil {
		return err
	}
	return ctx.Status(fiber.StatusNoContent).Send(nil)
}

func (c *adminController) GetReport(ctx *fiber.Ctx) error {
	actorId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetReport(ctx.UserContext(), actorId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Report", res))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	actorId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	var req dto.LogListRequest
	if err := serverutils.ParseQuery(ctx, &req); err != nil {
		return err
	}

	logs, err := c.service.GetSystemLogs(ctx.UserContext(), actorId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", logs))
}

func (c *adminController) GetLogDetail(ctx *fiber.Ctx) error {
	actorId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	// Log ids are content hashes, not UUIDs.
	l, err := c.service.GetLogDetail(ctx.UserContext(), actorId, ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Log detail", l))
}
