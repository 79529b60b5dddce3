package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/choco-delisias/internal/address"
	"github.com/MikeMC777/choco-delisias/internal/httpx"
)

// listAddressesHandler godoc
// @Summary	Direcciones del usuario
// @Tags		addresses
// @Produce	json
// @Security	BearerAuth
// @Success	200	{array}		address.Address
// @Failure	401	{object}	httpx.ErrorBody
// @Router		/addresses [get]
func listAddressesHandler(repo address.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := repo.List(c.Request.Context(), httpx.UserID(c))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// createAddressHandler godoc
// @Summary	Crear dirección
// @Tags		addresses
// @Accept		json
// @Produce	json
// @Security	BearerAuth
// @Param		body	body		address.Fields	true	"dirección"
// @Success	201		{object}	address.Address
// @Failure	400		{object}	httpx.ErrorBody
// @Router		/addresses [post]
func createAddressHandler(repo address.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var f address.Fields
		if !httpx.BindJSON(c, &f) {
			return
		}
		a, err := repo.Create(c.Request.Context(), httpx.UserID(c), f)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"address": a})
	}
}

// updateAddressHandler godoc
// @Summary	Actualizar dirección
// @Tags		addresses
// @Accept		json
// @Produce	json
// @Security	BearerAuth
// @Param		id		path		string			true	"ID de dirección"
// @Param		body	body		address.Fields	true	"dirección"
// @Success	200		{object}	address.Address
// @Failure	404		{object}	httpx.ErrorBody
// @Router		/addresses/{id} [put]
func updateAddressHandler(repo address.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var f address.Fields
		if !httpx.BindJSON(c, &f) {
			return
		}
		a, err := repo.Update(c.Request.Context(), c.Param("id"), httpx.UserID(c), f)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"address": a})
	}
}

// deleteAddressHandler godoc
// @Summary	Eliminar dirección
// @Tags		addresses
// @Security	BearerAuth
// @Param		id	path	string	true	"ID de dirección"
// @Success	200
// @Failure	404	{object}	httpx.ErrorBody
// @Router		/addresses/{id} [delete]
func deleteAddressHandler(repo address.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := repo.Delete(c.Request.Context(), c.Param("id"), httpx.UserID(c)); err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

// setDefaultAddressHandler godoc
// @Summary	Marcar dirección como predeterminada
// @Tags		addresses
// @Produce	json
// @Security	BearerAuth
// @Param		id	path		string	true	"ID de dirección"
// @Success	200	{object}	address.Address
// @Failure	404	{object}	httpx.ErrorBody
// @Router		/addresses/{id}/default [put]
func setDefaultAddressHandler(repo address.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := repo.SetDefault(c.Request.Context(), c.Param("id"), httpx.UserID(c))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"address": a})
	}
}
