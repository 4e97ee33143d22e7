package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/domain"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/dto"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/helper"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/helper/utils"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/services"
)

type ApplicationHandler struct {
	apps    *services.ApplicationService
	reviews *services.ReviewService
	auth    helper.Auth
}

func NewApplicationHandler(apps *services.ApplicationService, reviews *services.ReviewService, auth helper.Auth) *ApplicationHandler {
	return &ApplicationHandler{apps: apps, reviews: reviews, auth: auth}
}

// SetupRoutes expects admin to already carry the auth and admin guards.
func (h *ApplicationHandler) SetupRoutes(admin fiber.Router) {
	apps := admin.Group("/applications")

	apps.Get("/", h.List)
	apps.Get("/stats", h.Stats)
	apps.Get("/:id", h.Get)
	apps.Post("/:id/review", h.Review)
}

func (h *ApplicationHandler) List(ctx *fiber.Ctx) error {
	programID := ctx.QueryInt("program_id", 0)
	if programID < 0 {
		programID = 0
	}

	resp, err := h.apps.List(ctx.UserContext(), services.ListQuery{
		Status:     ctx.Query("status"),
		ApplyingAs: ctx.Query("applying_as"),
		ProgramID:  uint(programID),
		Search:     ctx.Query("search"),
		Paging:     helper.ResolvePaging(ctx, helper.DefaultPerPage, helper.MaxPerPage),
	})
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

func (h *ApplicationHandler) Stats(ctx *fiber.Ctx) error {
	resp, err := h.apps.Stats(ctx.UserContext())
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

func (h *ApplicationHandler) Get(ctx *fiber.Ctx) error {
	id, ok := paramID(ctx, "id")
	if !ok {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid application id")
	}

	resp, err := h.apps.Get(ctx.UserContext(), id)
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

func (h *ApplicationHandler) Review(ctx *fiber.Ctx) error {
	id, ok := paramID(ctx, "id")
	if !ok {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid application id")
	}

	current, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	var requestBody dto.ReviewApplicationRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide a status")
	}
	if err := utils.Validate(requestBody); err != nil {
		return utils.ResponseValidation(ctx, err)
	}

	result, err := h.reviews.Review(ctx.UserContext(), services.ReviewRequest{
		ApplicationID: id,
		Status:        domain.ApplicationStatus(requestBody.Status),
		ReviewerID:    current.UserID,
		Notes:         requestBody.Notes,
	})
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, result)
}
