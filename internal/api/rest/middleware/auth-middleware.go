package middleware

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/helper"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/helper/utils"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/services"
)

const AccessTokenCookie = "access_token"

func AuthMiddleware(auth helper.Auth) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		// cookie first, then Authorization header
		tokenStr := strings.TrimSpace(ctx.Cookies(AccessTokenCookie))
		if tokenStr == "" {
			tokenStr = strings.TrimSpace(ctx.Get(fiber.HeaderAuthorization))
		}

		user, err := auth.VerifyToken(tokenStr)
		if err != nil {
			return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
		}

		ctx.Locals(helper.LocalUserID, user.UserID)
		ctx.Locals(helper.LocalUser, user)
		return ctx.Next()
	}
}

// AdminOnly checks the role table rather than the token claims so a revoked
// admin loses access before the token expires.
func AdminOnly(userSvc services.UserService) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userID, ok := ctx.Locals(helper.LocalUserID).(uint)
		if !ok || userID == 0 {
			return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
		}

		isAdmin, err := userSvc.IsAdmin(ctx.UserContext(), userID)
		if err != nil {
			slog.Error("admin check failed", "user_id", userID, "error", err)
			return utils.ResponseError(ctx, fiber.StatusInternalServerError, "could not verify permissions")
		}
		if !isAdmin {
			return utils.ResponseError(ctx, fiber.StatusForbidden, "admin only")
		}

		return ctx.Next()
	}
}
