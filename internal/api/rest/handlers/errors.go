package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/helper/utils"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/services"
)

// respondError maps service errors onto HTTP statuses.
func respondError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidStatus), errors.Is(err, services.ErrInvalidFilter):
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, services.ErrUnauthorized):
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	case errors.Is(err, services.ErrAccountInactive):
		return utils.ResponseError(ctx, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrApplicationNotFound), errors.Is(err, services.ErrNotificationMissing):
		return utils.ResponseError(ctx, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrUpdateFailed):
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "failed to update application status")
	default:
		slog.Error("request failed", "path", ctx.Path(), "error", err)
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "internal server error")
	}
}

func paramID(ctx *fiber.Ctx, name string) (uint, bool) {
	id, err := ctx.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
