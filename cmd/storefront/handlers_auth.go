package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/choco-delisias/internal/httpx"
	"github.com/MikeMC777/choco-delisias/internal/user"
)

// registerHandler godoc
// @Summary	Registrar cliente
// @Tags		auth
// @Accept		json
// @Produce	json
// @Param		body	body		user.RegisterRequest	true	"datos de registro"
// @Success	201		{object}	user.User
// @Failure	400		{object}	httpx.ErrorBody
// @Router		/auth/register [post]
func registerHandler(svc accountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in user.RegisterRequest
		if !httpx.BindJSON(c, &in) {
			return
		}
		u, err := svc.Register(c.Request.Context(), in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user": u})
	}
}

// loginHandler godoc
// @Summary	Iniciar sesión
// @Tags		auth
// @Accept		json
// @Produce	json
// @Param		body	body		user.LoginRequest	true	"credenciales"
// @Success	200		{object}	user.LoginResponse
// @Failure	400		{object}	httpx.ErrorBody
// @Router		/auth/login [post]
func loginHandler(svc accountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in user.LoginRequest
		if !httpx.BindJSON(c, &in) {
			return
		}
		res, err := svc.Login(c.Request.Context(), in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
