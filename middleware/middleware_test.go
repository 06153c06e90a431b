package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/recolour/common"
	"github.com/joshu-sajeev/recolour/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantRole   string
	}{
		{name: "matching role", header: "operator", wantStatus: http.StatusOK},
		{name: "wrong role", header: "manager", wantStatus: http.StatusForbidden, wantRole: "manager"},
		{name: "missing role", header: "", wantStatus: http.StatusForbidden, wantRole: "none"},
		{name: "unknown role", header: "admin", wantStatus: http.StatusForbidden, wantRole: "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler())
			r.POST("/x", RequireRole(config.RoleOperator), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/x", nil)
			if tt.header != "" {
				req.Header.Set(RoleHeader, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusForbidden {
				return
			}

			var body struct {
				Error  string         `json:"error"`
				Fields map[string]any `json:"fields"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "Forbidden: requires operator role", body.Error)
			assert.Equal(t, tt.wantRole, body.Fields["role"])
		})
	}
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "api error keeps status",
			err:        common.Conflict("Cannot send ticket in status %s", "queued"),
			wantStatus: http.StatusConflict,
			wantError:  "Cannot send ticket in status queued",
		},
		{
			name:       "wrapped api error",
			err:        errors.Join(errors.New("ctx"), common.Errf(http.StatusNotFound, "ticket not found")),
			wantStatus: http.StatusNotFound,
			wantError:  "ticket not found",
		},
		{
			name:       "deadline exceeded",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusRequestTimeout,
			wantError:  "request timeout",
		},
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler())
			r.GET("/x", func(c *gin.Context) { c.Error(tt.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, `{"error":"`+tt.wantError+`"}`, w.Body.String())
		})
	}
}

type sample struct {
	Name     string `json:"name" validate:"required"`
	Priority string `form:"priority" json:"priority" validate:"omitempty,oneof=low medium high"`
}

func TestBind(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "valid", body: `{"name":"a","priority":"low"}`, wantStatus: http.StatusOK},
		{name: "malformed json", body: `{`, wantStatus: http.StatusBadRequest},
		{name: "missing required", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "bad enum", body: `{"name":"a","priority":"urgent"}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler())
			r.POST("/x", func(c *gin.Context) {
				var s sample
				if !Bind(c, &s) {
					return
				}
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestBindQuery(t *testing.T) {
	type query struct {
		Priority string `form:"priority" validate:"omitempty,oneof=low medium high"`
	}

	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/x", func(c *gin.Context) {
		var q query
		if !BindQuery(c, &q) {
			return
		}
		c.String(http.StatusOK, q.Priority)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x?priority=high", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "high", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x?priority=urgent", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"Priority":"failed oneof"`)
}

func TestTimeoutMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(TimeoutMiddleware(time.Millisecond), ErrorHandler())
	r.GET("/x", func(c *gin.Context) {
		<-c.Request.Context().Done()
		c.Error(c.Request.Context().Err())
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusRequestTimeout, w.Code)
}
