package controller

import (
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/klarkurs/mpu-platform/app/factory"
	"github.com/klarkurs/mpu-platform/app/service"
)

type AuthMiddleware struct {
	authService *service.AuthService
	logger      logrus.FieldLogger
}

func NewAuthMiddleware(authService *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		logger:      factory.NewModuleLogger("auth-middleware"),
	}
}

// RequireUser resolves the bearer token and stores the active user on
// the request context. Blocked accounts are cut off here on every
// request, not just at login.
func (m *AuthMiddleware) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		user, err := m.authService.CurrentUser(ctx.Request().Context(), ctx.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return writeError(ctx, m.logger, err)
		}
		ctx.Set(userContextKey, user)
		return next(ctx)
	}
}

// OptionalUser attaches the user when a valid token is present but
// lets anonymous requests through. Used by the public diagnostic
// endpoint so logged-in submissions get linked to their account.
func (m *AuthMiddleware) OptionalUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		bearer := ctx.Request().Header.Get(echo.HeaderAuthorization)
		if bearer != "" {
			if user, err := m.authService.CurrentUser(ctx.Request().Context(), bearer); err == nil {
				ctx.Set(userContextKey, user)
			}
		}
		return next(ctx)
	}
}
