package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/helper"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/helper/utils"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/services"
)

type NotificationHandler struct {
	svc  *services.NotificationService
	auth helper.Auth
}

func NewNotificationHandler(svc *services.NotificationService, auth helper.Auth) *NotificationHandler {
	return &NotificationHandler{svc: svc, auth: auth}
}

// SetupRoutes registers the inbox on a group that already requires auth.
func (h *NotificationHandler) SetupRoutes(inbox fiber.Router) {
	inbox.Get("/", h.List)
	inbox.Patch("/:id/read", h.MarkRead)
}

func (h *NotificationHandler) List(ctx *fiber.Ctx) error {
	current, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	p := helper.ResolvePaging(ctx, helper.DefaultPerPage, helper.MaxPerPage)
	list, err := h.svc.List(ctx.UserContext(), current.UserID, ctx.QueryBool("unread", false), p.Limit, p.Offset)
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, services.ToNotificationResponses(list))
}

func (h *NotificationHandler) MarkRead(ctx *fiber.Ctx) error {
	id, ok := paramID(ctx, "id")
	if !ok {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid notification id")
	}
	current, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := h.svc.MarkRead(ctx.UserContext(), current.UserID, id); err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "notification marked as read")
}
