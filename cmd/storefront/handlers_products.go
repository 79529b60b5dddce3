package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/choco-delisias/internal/httpx"
	"github.com/MikeMC777/choco-delisias/internal/product"
)

// listCategoriesHandler godoc
// @Summary	Catálogo agrupado por categoría
// @Tags		products
// @Produce	json
// @Success	200	{array}		product.CategoryGroup
// @Failure	500	{object}	httpx.ErrorBody
// @Router		/products/categories [get]
func listCategoriesHandler(repo product.Repository, imageBase string) gin.HandlerFunc {
	return func(c *gin.Context) {
		groups, err := repo.ListByCategory(c.Request.Context())
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		for i := range groups {
			for j := range groups[i].Productos {
				groups[i].Productos[j] = groups[i].Productos[j].WithImageBase(imageBase)
			}
		}
		c.JSON(http.StatusOK, groups)
	}
}

// listProductsHandler godoc
// @Summary	Listar productos activos
// @Tags		products
// @Produce	json
// @Success	200	{array}		product.Product
// @Failure	500	{object}	httpx.ErrorBody
// @Router		/products [get]
func listProductsHandler(repo product.Repository, imageBase string) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := repo.List(c.Request.Context())
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		for i := range list {
			list[i] = list[i].WithImageBase(imageBase)
		}
		c.JSON(http.StatusOK, list)
	}
}

// getProductHandler godoc
// @Summary	Obtener producto por ID
// @Tags		products
// @Produce	json
// @Param		id	path		int	true	"ID de producto"
// @Success	200	{object}	product.Product
// @Failure	404	{object}	httpx.ErrorBody
// @Router		/products/{id} [get]
func getProductHandler(repo product.Repository, imageBase string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			httpx.Fail(c, product.ErrNotFound)
			return
		}
		p, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, p.WithImageBase(imageBase))
	}
}
