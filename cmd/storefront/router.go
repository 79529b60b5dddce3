package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/MikeMC777/choco-delisias/docs"
	"github.com/MikeMC777/choco-delisias/internal/address"
	"github.com/MikeMC777/choco-delisias/internal/cart"
	"github.com/MikeMC777/choco-delisias/internal/checkout"
	"github.com/MikeMC777/choco-delisias/internal/httpx"
	"github.com/MikeMC777/choco-delisias/internal/order"
	"github.com/MikeMC777/choco-delisias/internal/payment"
	"github.com/MikeMC777/choco-delisias/internal/product"
	"github.com/MikeMC777/choco-delisias/internal/user"
)

type accountService interface {
	Register(ctx context.Context, in user.RegisterRequest) (*user.User, error)
	Login(ctx context.Context, in user.LoginRequest) (*user.LoginResponse, error)
}

type checkoutService interface {
	Checkout(ctx context.Context, cmd checkout.Command) (*checkout.Result, error)
}

type webhookHandler interface {
	Handle(ctx context.Context, payload []byte) (*payment.Event, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// deps holds everything the HTTP layer talks to.
type deps struct {
	users     user.Repository
	accounts  accountService
	tokens    httpx.TokenParser
	products  product.Repository
	addresses address.Repository
	orders    order.Repository
	carts     cart.Store
	checkouts checkoutService
	webhooks  webhookHandler
	health    pinger
	imageBase string
}

func newRouter(lg *zap.Logger, d deps) *gin.Engine {
	r := gin.New()
	r.Use(httpx.RequestID(), httpx.InjectLogger(lg), httpx.Logger(), httpx.Recovery())

	r.GET("/healthz", healthHandler(d.health))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.POST("/auth/register", registerHandler(d.accounts))
		api.POST("/auth/login", loginHandler(d.accounts))

		api.GET("/products/categories", listCategoriesHandler(d.products, d.imageBase))
		api.GET("/products", listProductsHandler(d.products, d.imageBase))
		api.GET("/products/:id", getProductHandler(d.products, d.imageBase))

		api.POST("/payments/webhook", webhookHandlerFunc(d.webhooks))
	}

	authed := api.Group("", httpx.Auth(d.tokens))
	{
		authed.GET("/addresses", listAddressesHandler(d.addresses))
		authed.POST("/addresses", createAddressHandler(d.addresses))
		authed.PUT("/addresses/:id", updateAddressHandler(d.addresses))
		authed.DELETE("/addresses/:id", deleteAddressHandler(d.addresses))
		authed.PUT("/addresses/:id/default", setDefaultAddressHandler(d.addresses))

		authed.GET("/cart", getCartHandler(d.carts))
		authed.POST("/cart/items", addCartItemHandler(d.carts, d.products, d.imageBase))
		authed.PUT("/cart/items/:productId", setCartQuantityHandler(d.carts))
		authed.DELETE("/cart/items/:productId", removeCartItemHandler(d.carts))
		authed.DELETE("/cart", clearCartHandler(d.carts))

		authed.POST("/orders", createOrderHandler(d.checkouts))
		authed.GET("/orders", listOrdersHandler(d.orders))
		authed.GET("/orders/:id", getOrderHandler(d.orders))
		authed.PUT("/orders/:id/status", updateOrderStatusHandler(d.orders))

		authed.POST("/payments/charge", chargeHandler(d.checkouts, d.users))
	}
	return r
}

// healthHandler godoc
// @Summary	Liveness y conexión a la base
// @Tags		health
// @Success	200	{string}	string	"ok"
// @Router		/healthz [get]
func healthHandler(p pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			c.String(http.StatusServiceUnavailable, "db unavailable")
			return
		}
		c.String(http.StatusOK, "ok")
	}
}
