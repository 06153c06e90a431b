package partner_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/recolour/common"
	"github.com/joshu-sajeev/recolour/internal/dto"
	"github.com/joshu-sajeev/recolour/internal/mocks"
	"github.com/joshu-sajeev/recolour/internal/partner"
	"github.com/joshu-sajeev/recolour/middleware"
	"github.com/stretchr/testify/assert"
)

func TestPartnerHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		path           string
		setupMock      func(*mocks.PartnerServiceMock)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "list",
			path: "/api/partners",
			setupMock: func(m *mocks.PartnerServiceMock) {
				m.On("ListPartners").Return([]dto.PartnerResponseDTO{{ID: "p1", Name: "Partner A", Concurrency: 1}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[{"id":"p1","name":"Partner A","concurrency":1}]`,
		},
		{
			name: "overview error",
			path: "/api/overview/partners",
			setupMock: func(m *mocks.PartnerServiceMock) {
				m.On("Overview").Return(nil, common.Errf(http.StatusInternalServerError, "failed to list partners"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"failed to list partners"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.PartnerServiceMock)
			tt.setupMock(svc)

			r := gin.New()
			r.Use(middleware.ErrorHandler())
			h := partner.NewPartnerHandler(svc)
			r.GET("/api/partners", h.List)
			r.GET("/api/overview/partners", h.Overview)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
