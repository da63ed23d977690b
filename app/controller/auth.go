package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/klarkurs/mpu-platform/app/factory"
	"github.com/klarkurs/mpu-platform/app/mapper"
	"github.com/klarkurs/mpu-platform/app/service"
	"github.com/klarkurs/mpu-platform/app/types"
)

type AuthController struct {
	authService *service.AuthService
	logger      logrus.FieldLogger
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      factory.NewModuleLogger("auth-controller"),
	}
}

func (c *AuthController) Register(ctx echo.Context) error {
	req, err := types.NewRegisterRequestFromContext(ctx)
	if err != nil {
		return writeBadRequest(ctx, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeValidationError(ctx, err)
	}

	user, token, err := c.authService.Register(ctx.Request().Context(), req)
	if err != nil {
		return writeError(ctx, c.logger, err)
	}

	return ctx.JSON(http.StatusCreated, &types.AuthResponse{
		Token: token,
		User:  mapper.UserToResponse(user),
	})
}

func (c *AuthController) Login(ctx echo.Context) error {
	req, err := types.NewLoginRequestFromContext(ctx)
	if err != nil {
		return writeBadRequest(ctx, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeValidationError(ctx, err)
	}

	user, token, err := c.authService.Login(ctx.Request().Context(), req)
	if err != nil {
		return writeError(ctx, c.logger, err)
	}

	return ctx.JSON(http.StatusOK, &types.AuthResponse{
		Token: token,
		User:  mapper.UserToResponse(user),
	})
}

func (c *AuthController) Me(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, mapper.UserToResponse(currentUser(ctx)))
}
