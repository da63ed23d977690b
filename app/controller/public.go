package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/klarkurs/mpu-platform/app/factory"
	"github.com/klarkurs/mpu-platform/app/service"
	"github.com/klarkurs/mpu-platform/app/types"
)

type PublicController struct {
	diagnosticService *service.DiagnosticService
	logger            logrus.FieldLogger
}

func NewPublicController(diagnosticService *service.DiagnosticService) *PublicController {
	return &PublicController{
		diagnosticService: diagnosticService,
		logger:            factory.NewModuleLogger("public-controller"),
	}
}

func (c *PublicController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

func (c *PublicController) SubmitDiagnostic(ctx echo.Context) error {
	req, err := types.NewDiagnosticRequestFromContext(ctx)
	if err != nil {
		return writeBadRequest(ctx, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeValidationError(ctx, err)
	}

	submission, err := c.diagnosticService.Submit(ctx.Request().Context(), currentUser(ctx), req)
	if err != nil {
		return writeError(ctx, c.logger, err)
	}

	return ctx.JSON(http.StatusCreated, &types.DiagnosticResponse{
		ID:              submission.ID,
		RecommendedPlan: submission.RecommendedPlan,
	})
}
