package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/MikeMC777/choco-delisias/internal/apperr"
	"github.com/MikeMC777/choco-delisias/internal/httpx"
	"github.com/MikeMC777/choco-delisias/internal/order"
	"github.com/MikeMC777/choco-delisias/internal/user"
)

// chargeHandler godoc
// @Summary	Pagar con tarjeta y crear pedido
// @Tags		payments
// @Accept		json
// @Produce	json
// @Security	BearerAuth
// @Param		Idempotency-Key	header		string				false	"clave de idempotencia"
// @Param		body			body		order.ChargeRequest	true	"token y pedido"
// @Success	201				{object}	order.ChargeResponse
// @Failure	400				{object}	httpx.ErrorBody	"tarjeta rechazada"
// @Failure	502				{object}	httpx.ErrorBody	"pasarela no disponible"
// @Failure	500				{object}	httpx.ErrorBody
// @Router		/payments/charge [post]
func chargeHandler(svc checkoutService, users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.ChargeRequest
		if !httpx.BindJSON(c, &req) {
			return
		}
		ctx := c.Request.Context()

		if strings.TrimSpace(req.CustomerEmail) == "" || strings.TrimSpace(req.CustomerName) == "" {
			u, err := users.GetByID(ctx, httpx.UserID(c))
			if err != nil {
				httpx.Fail(c, err)
				return
			}
			if strings.TrimSpace(req.CustomerEmail) == "" {
				req.CustomerEmail = u.Email
			}
			if strings.TrimSpace(req.CustomerName) == "" {
				req.CustomerName = u.Name
			}
		}

		res, err := svc.Checkout(ctx, checkoutCommand(c, req.Request()))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, order.ChargeResponse{OrderID: res.OrderID, PaymentID: res.PaymentID})
	}
}

// webhookHandlerFunc godoc
// @Summary	Notificaciones de la pasarela
// @Tags		payments
// @Accept		json
// @Produce	json
// @Success	200	{object}	map[string]bool
// @Failure	400	{object}	httpx.ErrorBody
// @Failure	500	{object}	httpx.ErrorBody
// @Router		/payments/webhook [post]
func webhookHandlerFunc(h webhookHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := c.GetRawData()
		if err != nil {
			httpx.Fail(c, apperr.New(apperr.KindValidation, "invalid_body", "could not read body"))
			return
		}
		ev, err := h.Handle(c.Request.Context(), payload)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		zctx.From(c.Request.Context()).Debug("Webhook accepted",
			zap.String("event_id", ev.ID),
			zap.String("event_type", ev.Type),
		)
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}
