// Package controller exposes the HTTP surface. Controllers bind and
// validate requests, delegate to services, and translate service
// errors into the wire error envelope.
package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/klarkurs/mpu-platform/app/apperr"
	"github.com/klarkurs/mpu-platform/app/entity"
	"github.com/klarkurs/mpu-platform/app/factory"
	"github.com/klarkurs/mpu-platform/app/types"
)

const userContextKey = "current_user"

// writeError renders a service error. Structured errors carry their
// own status and code; anything else is logged and hidden behind a
// generic 500 so internals never leak to clients.
func writeError(ctx echo.Context, logger logrus.FieldLogger, err error) error {
	if appErr, ok := apperr.From(err); ok {
		return ctx.JSON(appErr.Status, &types.ErrorResponse{Error: types.ErrorBody{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		}})
	}
	factory.LoggerWithContext(logger, ctx).WithError(err).Error("Request failed")
	return ctx.JSON(http.StatusInternalServerError, &types.ErrorResponse{Error: types.ErrorBody{
		Code:    "INTERNAL",
		Message: "internal server error",
	}})
}

func writeBadRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, &types.ErrorResponse{Error: types.ErrorBody{
		Code:    "BAD_REQUEST",
		Message: message,
	}})
}

func writeValidationError(ctx echo.Context, err error) error {
	return ctx.JSON(http.StatusUnprocessableEntity, &types.ErrorResponse{Error: types.ErrorBody{
		Code:    "VALIDATION",
		Message: err.Error(),
	}})
}

func currentUser(ctx echo.Context) *entity.User {
	user, _ := ctx.Get(userContextKey).(*entity.User)
	return user
}
