package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/api/rest/middleware"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/dto"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/helper"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/helper/utils"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/services"
)

type UserHandler struct {
	svc        services.UserService
	auth       helper.Auth
	csrfKey    string
	secureCook bool
}

func NewUserHandler(svc services.UserService, auth helper.Auth, csrfContextKey string, secureCookies bool) *UserHandler {
	return &UserHandler{svc: svc, auth: auth, csrfKey: csrfContextKey, secureCook: secureCookies}
}

func (h *UserHandler) SetupRoutes(api fiber.Router) {
	auth := api.Group("/auth")

	auth.Post("/login", h.Login)
	auth.Get("/csrf", h.CSRFToken)
	auth.Get("/me", middleware.AuthMiddleware(h.auth), h.Me)
}

func (h *UserHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.UserLogin
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "email and password are required")
	}
	if err := utils.Validate(requestBody); err != nil {
		return utils.ResponseValidation(ctx, err)
	}

	resp, err := h.svc.Login(ctx.UserContext(), requestBody)
	if err != nil {
		return respondError(ctx, err)
	}

	ttl := h.auth.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	ctx.Cookie(&fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    resp.Token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   h.secureCook,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

func (h *UserHandler) Me(ctx *fiber.Ctx) error {
	current, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	profile, err := h.svc.GetProfile(ctx.UserContext(), current.UserID)
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, profile)
}

// CSRFToken returns the token the csrf middleware issued for this request so
// cookie-authenticated forms can echo it in X-Csrf-Token.
func (h *UserHandler) CSRFToken(ctx *fiber.Ctx) error {
	token, _ := ctx.Locals(h.csrfKey).(string)
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"csrf_token": token})
}
