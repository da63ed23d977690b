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

type AIController struct {
	aiService *service.AIService
	logger    logrus.FieldLogger
}

func NewAIController(aiService *service.AIService) *AIController {
	return &AIController{
		aiService: aiService,
		logger:    factory.NewModuleLogger("ai-controller"),
	}
}

func (c *AIController) CreateSession(ctx echo.Context) error {
	req, err := types.NewCreateSessionRequestFromContext(ctx)
	if err != nil {
		return writeBadRequest(ctx, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeValidationError(ctx, err)
	}

	session, err := c.aiService.CreateSession(ctx.Request().Context(), currentUser(ctx), req)
	if err != nil {
		return writeError(ctx, c.logger, err)
	}

	return ctx.JSON(http.StatusCreated, mapper.SessionToResponse(session))
}

func (c *AIController) GetSession(ctx echo.Context) error {
	session, err := c.aiService.GetSession(ctx.Request().Context(), currentUser(ctx), ctx.Param("id"))
	if err != nil {
		return writeError(ctx, c.logger, err)
	}
	return ctx.JSON(http.StatusOK, mapper.SessionToResponse(session))
}

func (c *AIController) ListMessages(ctx echo.Context) error {
	messages, err := c.aiService.ListMessages(ctx.Request().Context(), currentUser(ctx), ctx.Param("id"))
	if err != nil {
		return writeError(ctx, c.logger, err)
	}
	return ctx.JSON(http.StatusOK, &types.MessagesResponse{Messages: mapper.MessagesToResponse(messages)})
}

func (c *AIController) SendMessage(ctx echo.Context) error {
	req, err := types.NewSendMessageRequestFromContext(ctx)
	if err != nil {
		return writeBadRequest(ctx, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeValidationError(ctx, err)
	}

	result, err := c.aiService.SendMessage(ctx.Request().Context(), currentUser(ctx), ctx.Param("id"), req.Content)
	if err != nil {
		return writeError(ctx, c.logger, err)
	}

	return ctx.JSON(http.StatusOK, &types.SendMessageResponse{
		UserMessage:      mapper.MessageToResponse(result.UserMessage),
		AssistantMessage: mapper.MessageToResponse(result.AssistantMessage),
		Evaluation:       mapper.EvaluationToResponse(result.Evaluation),
		CreditsLeft:      result.CreditsLeft,
	})
}

func (c *AIController) CloseSession(ctx echo.Context) error {
	session, err := c.aiService.CloseSession(ctx.Request().Context(), currentUser(ctx), ctx.Param("id"))
	if err != nil {
		return writeError(ctx, c.logger, err)
	}
	return ctx.JSON(http.StatusOK, mapper.SessionToResponse(session))
}
