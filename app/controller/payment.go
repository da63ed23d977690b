package controller

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/klarkurs/mpu-platform/app/factory"
	"github.com/klarkurs/mpu-platform/app/mapper"
	"github.com/klarkurs/mpu-platform/app/service"
	"github.com/klarkurs/mpu-platform/app/types"
)

type PaymentController struct {
	paymentService *service.PaymentService
	logger         logrus.FieldLogger
}

func NewPaymentController(paymentService *service.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		logger:         factory.NewModuleLogger("payment-controller"),
	}
}

func (c *PaymentController) ListProducts(ctx echo.Context) error {
	products, err := c.paymentService.ListProducts(ctx.Request().Context())
	if err != nil {
		return writeError(ctx, c.logger, err)
	}

	locale := ctx.QueryParam("locale")
	if user := currentUser(ctx); user != nil && locale == "" {
		locale = user.Locale
	}
	if locale == "" {
		locale = "de"
	}
	return ctx.JSON(http.StatusOK, &types.ProductsResponse{Products: mapper.ProductsToResponse(products, locale)})
}

func (c *PaymentController) CreateCheckout(ctx echo.Context) error {
	req, err := types.NewCheckoutRequestFromContext(ctx)
	if err != nil {
		return writeBadRequest(ctx, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeValidationError(ctx, err)
	}

	resp, err := c.paymentService.CreateCheckout(ctx.Request().Context(), currentUser(ctx), req.ProductID)
	if err != nil {
		return writeError(ctx, c.logger, err)
	}

	return ctx.JSON(http.StatusCreated, resp)
}

// HandleWebhook receives provider deliveries. The raw body is passed
// through untouched because the signature covers the exact bytes.
func (c *PaymentController) HandleWebhook(ctx echo.Context) error {
	payload, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return writeBadRequest(ctx, "cannot read request body")
	}

	resp, err := c.paymentService.HandleWebhook(
		ctx.Request().Context(),
		ctx.Param("provider"),
		payload,
		ctx.Request().Header.Get("Stripe-Signature"),
	)
	if err != nil {
		return writeError(ctx, c.logger, err)
	}

	return ctx.JSON(http.StatusOK, resp)
}
