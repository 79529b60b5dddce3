package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/choco-delisias/internal/checkout"
	"github.com/MikeMC777/choco-delisias/internal/httpx"
	"github.com/MikeMC777/choco-delisias/internal/order"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func checkoutCommand(c *gin.Context, req order.CreateOrderRequest) checkout.Command {
	return checkout.Command{
		UserID:          httpx.UserID(c),
		Lines:           req.Lines(),
		AddressID:       req.AddressID,
		PaymentMethod:   req.PaymentMethod,
		ShippingCost:    req.ShippingCost,
		CardSourceToken: req.CardSourceToken,
		CustomerEmail:   req.CustomerEmail,
		CustomerName:    req.CustomerName,
		Notes:           req.Notes,
		IdempotencyKey:  c.GetHeader("Idempotency-Key"),
	}
}

// createOrderHandler godoc
// @Summary	Crear pedido (checkout)
// @Description	Sin items se usa el carrito del servidor. Con paymentMethod=card se cobra antes de guardar.
// @Tags		orders
// @Accept		json
// @Produce	json
// @Security	BearerAuth
// @Param		Idempotency-Key	header		string						false	"clave de idempotencia"
// @Param		body			body		order.CreateOrderRequest	true	"pedido"
// @Success	201				{object}	order.CreateOrderResponse
// @Failure	400				{object}	httpx.ErrorBody
// @Failure	502				{object}	httpx.ErrorBody
// @Failure	500				{object}	httpx.ErrorBody
// @Router		/orders [post]
func createOrderHandler(svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CreateOrderRequest
		if !httpx.BindJSON(c, &req) {
			return
		}
		res, err := svc.Checkout(c.Request.Context(), checkoutCommand(c, req))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, order.CreateOrderResponse{OrderID: res.OrderID, TotalAmount: res.Total})
	}
}

// listOrdersHandler godoc
// @Summary	Pedidos del usuario
// @Tags		orders
// @Produce	json
// @Security	BearerAuth
// @Param		limit	query	int	false	"máximo 100"
// @Param		offset	query	int	false	"desplazamiento"
// @Success	200		{array}	order.Order
// @Router		/orders [get]
func listOrdersHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if limit <= 0 || limit > maxPageSize {
			limit = defaultPageSize
		}
		if offset < 0 {
			offset = 0
		}
		list, err := repo.ListByUser(c.Request.Context(), httpx.UserID(c), limit, offset)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// getOrderHandler godoc
// @Summary	Obtener pedido con ítems
// @Tags		orders
// @Produce	json
// @Security	BearerAuth
// @Param		id	path		string	true	"ID de pedido"
// @Success	200	{object}	order.Order
// @Failure	404	{object}	httpx.ErrorBody
// @Router		/orders/{id} [get]
func getOrderHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := repo.GetByID(c.Request.Context(), c.Param("id"), httpx.UserID(c))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// updateOrderStatusHandler godoc
// @Summary	Cambiar estado del pedido
// @Tags		orders
// @Accept		json
// @Produce	json
// @Security	BearerAuth
// @Param		id		path		string						true	"ID de pedido"
// @Param		body	body		order.UpdateStatusRequest	true	"nuevo estado"
// @Success	200		{object}	order.Order
// @Failure	400		{object}	httpx.ErrorBody
// @Failure	404		{object}	httpx.ErrorBody
// @Failure	409		{object}	httpx.ErrorBody
// @Router		/orders/{id}/status [put]
func updateOrderStatusHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.UpdateStatusRequest
		if !httpx.BindJSON(c, &req) {
			return
		}
		next, err := order.ParseStatus(req.Status)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		o, err := repo.UpdateStatus(c.Request.Context(), c.Param("id"), httpx.UserID(c), next)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}
