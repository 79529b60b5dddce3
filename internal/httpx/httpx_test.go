package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MikeMC777/choco-delisias/internal/apperr"
)

type staticParser map[string]string

func (p staticParser) Parse(token string) (string, error) {
	if uid, ok := p[token]; ok {
		return uid, nil
	}
	return "", errors.New("bad token")
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), InjectLogger(zap.NewNop()), Logger(), Recovery())
	return r
}

func TestRequestID(t *testing.T) {
	r := newRouter()
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAuth(t *testing.T) {
	r := newRouter()
	r.GET("/me", Auth(staticParser{"good": "u-1"}), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})

	cases := []struct {
		header string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"Bearer", http.StatusUnauthorized},
		{"Bearer bad", http.StatusUnauthorized},
		{"Token good", http.StatusUnauthorized},
		{"Bearer good", http.StatusOK},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.status, w.Code, "header %q", tc.header)
		if tc.status == http.StatusOK {
			assert.Equal(t, "u-1", w.Body.String())
		}
	}
}

func TestFail_StatusMapping(t *testing.T) {
	cases := []struct {
		kind   apperr.Kind
		status int
	}{
		{apperr.KindValidation, http.StatusBadRequest},
		{apperr.KindGateway, http.StatusBadRequest},
		{apperr.KindNotFound, http.StatusNotFound},
		{apperr.KindAuth, http.StatusUnauthorized},
		{apperr.KindConflict, http.StatusConflict},
		{apperr.KindGatewayUnavailable, http.StatusBadGateway},
		{apperr.KindPersistence, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			r := newRouter()
			r.GET("/e", func(c *gin.Context) { Fail(c, apperr.New(tc.kind, "c", "boom")) })
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/e", nil))
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestFail_HidesInternalErrors(t *testing.T) {
	r := newRouter()
	r.GET("/e", func(c *gin.Context) { Fail(c, errors.New("pq: connection refused at 10.0.0.3")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/e", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal error", body.Error)
	assert.Equal(t, "internal", body.Code)
}

type outageErr struct{ key string }

func (e *outageErr) Error() string {
	return "payment provider unreachable (idempotency key " + e.key + "): dial tcp 10.0.0.1:443: i/o timeout"
}
func (e *outageErr) ErrorKind() apperr.Kind  { return apperr.KindGatewayUnavailable }
func (e *outageErr) ErrorCode() string       { return "gateway_unreachable" }
func (e *outageErr) Details() map[string]any { return map[string]any{"idempotencyKey": e.key} }

func TestFail_HidesProviderOutageText(t *testing.T) {
	r := newRouter()
	r.GET("/e", func(c *gin.Context) { Fail(c, errors.Wrap(&outageErr{key: "idem-9"}, "charge card")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/e", nil))
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.1")

	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "payment provider unreachable", body.Error)
	assert.Equal(t, "gateway_unreachable", body.Code)
	assert.Equal(t, "idem-9", body.Details["idempotencyKey"])
}

func TestRecovery(t *testing.T) {
	r := newRouter()
	r.GET("/p", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/p", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestBindJSON(t *testing.T) {
	type in struct {
		Name string `json:"name" binding:"required"`
	}
	r := newRouter()
	r.POST("/b", func(c *gin.Context) {
		var v in
		if !BindJSON(c, &v) {
			return
		}
		c.String(http.StatusOK, v.Name)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/b", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/b", strings.NewReader(`{"name":"ana"}`)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana", w.Body.String())
}
