package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/choco-delisias/internal/apperr"
	"github.com/MikeMC777/choco-delisias/internal/cart"
	"github.com/MikeMC777/choco-delisias/internal/httpx"
	"github.com/MikeMC777/choco-delisias/internal/product"
)

var errInvalidProductID = apperr.New(apperr.KindValidation, "invalid_product_id", "productId must be a positive integer")

// AddCartItemRequest payload para agregar al carrito.
// swagger:model AddCartItemRequest
type AddCartItemRequest struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"   example:"7"`
	Quantity  int   `json:"quantity"  binding:"gte=0,lte=999" example:"1"`
}

// SetQuantityRequest payload para cambiar cantidad. Zero removes the line.
// swagger:model SetQuantityRequest
type SetQuantityRequest struct {
	Quantity int `json:"quantity" binding:"gte=0,lte=999" example:"3"`
}

func productIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Fail(c, errInvalidProductID)
		return 0, false
	}
	return id, true
}

// getCartHandler godoc
// @Summary	Ver carrito
// @Tags		cart
// @Produce	json
// @Security	BearerAuth
// @Success	200	{object}	cart.View
// @Router		/cart [get]
func getCartHandler(store cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ct, err := store.Load(c.Request.Context(), httpx.UserID(c))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, ct.View())
	}
}

// addCartItemHandler godoc
// @Summary	Agregar producto al carrito
// @Tags		cart
// @Accept		json
// @Produce	json
// @Security	BearerAuth
// @Param		body	body		AddCartItemRequest	true	"producto y cantidad"
// @Success	200		{object}	cart.View
// @Failure	404		{object}	httpx.ErrorBody
// @Router		/cart/items [post]
func addCartItemHandler(store cart.Store, products product.Repository, imageBase string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in AddCartItemRequest
		if !httpx.BindJSON(c, &in) {
			return
		}
		ctx := c.Request.Context()
		p, err := products.GetByID(ctx, in.ProductID)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		ct, err := store.Load(ctx, httpx.UserID(c))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		ct.Add(cart.Item{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Image:     p.WithImageBase(imageBase).Image,
		}, in.Quantity)
		if err := store.Save(ctx, httpx.UserID(c), ct); err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, ct.View())
	}
}

// setCartQuantityHandler godoc
// @Summary	Cambiar cantidad de un producto
// @Tags		cart
// @Accept		json
// @Produce	json
// @Security	BearerAuth
// @Param		productId	path		int					true	"ID de producto"
// @Param		body		body		SetQuantityRequest	true	"cantidad"
// @Success	200			{object}	cart.View
// @Failure	400			{object}	httpx.ErrorBody
// @Router		/cart/items/{productId} [put]
func setCartQuantityHandler(store cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := productIDParam(c)
		if !ok {
			return
		}
		var in SetQuantityRequest
		if !httpx.BindJSON(c, &in) {
			return
		}
		ctx := c.Request.Context()
		ct, err := store.Load(ctx, httpx.UserID(c))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		ct.SetQuantity(id, in.Quantity)
		if err := store.Save(ctx, httpx.UserID(c), ct); err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, ct.View())
	}
}

// removeCartItemHandler godoc
// @Summary	Quitar producto del carrito
// @Tags		cart
// @Produce	json
// @Security	BearerAuth
// @Param		productId	path		int	true	"ID de producto"
// @Success	200			{object}	cart.View
// @Router		/cart/items/{productId} [delete]
func removeCartItemHandler(store cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := productIDParam(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		ct, err := store.Load(ctx, httpx.UserID(c))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		ct.Remove(id)
		if err := store.Save(ctx, httpx.UserID(c), ct); err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, ct.View())
	}
}

// clearCartHandler godoc
// @Summary	Vaciar carrito
// @Tags		cart
// @Produce	json
// @Security	BearerAuth
// @Success	200	{object}	cart.View
// @Router		/cart [delete]
func clearCartHandler(store cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Delete(c.Request.Context(), httpx.UserID(c)); err != nil {
			httpx.Fail(c, err)
			return
		}
		empty := &cart.Cart{}
		c.JSON(http.StatusOK, empty.View())
	}
}
