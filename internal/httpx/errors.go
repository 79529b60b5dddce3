package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/MikeMC777/choco-delisias/internal/apperr"
)

// ErrorBody is the JSON shape of every error response.
// swagger:model ErrorBody
type ErrorBody struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func statusOf(k apperr.Kind) int {
	switch k {
	case apperr.KindValidation, apperr.KindGateway:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindGatewayUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Fail writes err as a JSON error. Unclassified, persistence and provider
// outage errors are logged and hidden behind a fixed message; their code and
// details are still returned.
func Fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := statusOf(kind)
	body := ErrorBody{
		Error:   err.Error(),
		Code:    apperr.CodeOf(err),
		Details: apperr.DetailsOf(err),
	}
	lg := zctx.From(c.Request.Context())
	switch {
	case kind == apperr.KindGatewayUnavailable:
		lg.Warn("payment provider unavailable", zap.Error(err))
		body.Error = "payment provider unreachable"
	case status >= http.StatusInternalServerError:
		lg.Error("request failed", zap.Error(err), zap.String("kind", kind.String()))
		body.Error = "internal error"
		if body.Code == "" {
			body.Code = "internal"
		}
	default:
		lg.Debug("request rejected", zap.Error(err), zap.String("kind", kind.String()))
	}
	c.AbortWithStatusJSON(status, body)
}

// BindJSON decodes the body into v, answering 400 on failure.
func BindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{Error: err.Error(), Code: "invalid_body"})
		return false
	}
	return true
}
