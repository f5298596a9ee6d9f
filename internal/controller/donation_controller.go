package controller

import (
	"food-donation-be/internal/dto"
	"food-donation-be/internal/pkg/serverutils"
	"food-donation-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDonationController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Available(ctx *fiber.Ctx) error
	MyDonations(ctx *fiber.Ctx) error
	Claimed(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Claim(ctx *fiber.Ctx) error
	MarkReceived(ctx *fiber.Ctx) error
	UpdateStatus(ctx *fiber.Ctx) error
	ListClaims(ctx *fiber.Ctx) error
}

type donationController struct {
	service service.IDonationService
}

func NewDonationController(service service.IDonationService) IDonationController {
	return &donationController{service: service}
}

func (c *donationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/donations")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/", c.List)
	h.Post("/", c.Create)
	h.Get("/available", c.Available)
	h.Get("/my_donations", c.MyDonations)
	h.Get("/claimed", c.Claimed)
	h.Get("/:id", c.Get)
	h.Put("/:id", c.Update)
	h.Patch("/:id", c.Update)
	h.Delete("/:id", c.Delete)
	h.Post("/:id/claim", c.Claim)
	h.Post("/:id/mark_received", c.MarkReceived)
	h.Put("/:id/status", c.UpdateStatus)
	h.Patch("/:id/status", c.UpdateStatus)

	r.Get("/donation-claims", serverutils.JwtMiddleware, c.ListClaims)
}

// actorAndId reads the caller and the :id donation parameter.
func actorAndId(ctx *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	actorId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	id, err := serverutils.ParamId(ctx, "id", "donation")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return actorId, id, nil
}

func (c *donationController) List(ctx *fiber.Ctx) error {
	actorId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	var filter dto.DonationFilter
	if err := serverutils.ParseQuery(ctx, &filter); err != nil {
		return err
	}

	res, err := c.service.List(ctx.UserContext(), actorId, &filter)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Donations", res))
}

func (c *donationController) Create(ctx *fiber.Ctx) error {
	actorId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	var req dto.CreateDonationRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), actorId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Donation created", res))
}

func (c *donationController) Available(ctx *fiber.Ctx) error {
	actorId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	var filter dto.DonationFilter
	if err := serverutils.ParseQuery(ctx, &filter); err != nil {
		return err
	}

	res, err := c.service.ListAvailable(ctx.UserContext(), actorId, &filter)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Available donations", res))
}

func (c *donationController) MyDonations(ctx *fiber.Ctx) error {
	actorId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListMine(ctx.UserContext(), actorId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("My donations", res))
}

func (c *donationController) Claimed(ctx *fiber.Ctx) error {
	actorId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListClaimed(ctx.UserContext(), actorId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Claimed donations", res))
}

func (c *donationController) Get(ctx *fiber.Ctx) error {
	actorId, id, err := actorAndId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Get(ctx.UserContext(), actorId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Donation", res))
}

func (c *donationController) Update(ctx *fiber.Ctx) error {
	actorId, id, err := actorAndId(ctx)
	if err != nil {
		return err
	}
	var req dto.UpdateDonationRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.UserContext(), actorId, id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Donation updated", res))
}

func (c *donationController) Delete(ctx *fiber.Ctx) error {
	actorId, id, err := actorAndId(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), actorId, id); err != nil {
		return err
	}
	return ctx.Status(fiber.StatusNoContent).Send(nil)
}

func (c *donationController) Claim(ctx *fiber.Ctx) error {
	actorId, id, err := actorAndId(ctx)
	if err != nil {
		return err
	}
	// The body is optional.
	var req dto.ClaimRequest
	if len(ctx.Body()) > 0 {
		if err := serverutils.ParseBody(ctx, &req); err != nil {
			return err
		}
	}

	res, err := c.service.Claim(ctx.UserContext(), actorId, id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Donation claimed", res))
}

func (c *donationController) MarkReceived(ctx *fiber.Ctx) error {
	actorId, id, err := actorAndId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.MarkReceived(ctx.UserContext(), actorId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Donation marked as received", res))
}

func (c *donationController) UpdateStatus(ctx *fiber.Ctx) error {
	actorId, id, err := actorAndId(ctx)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.UpdateStatus(ctx.UserContext(), actorId, id, req.Status)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Donation status updated", res))
}

func (c *donationController) ListClaims(ctx *fiber.Ctx) error {
	actorId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListClaims(ctx.UserContext(), actorId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Donation claims", res))
}
