package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func setupRouter(db Pinger) *gin.Engine {
	r := gin.New()
	h := NewHealth(db)
	r.GET("/healthz", h)
	r.HEAD("/healthz", h)
	r.OPTIONS("/healthz", h)
	return r
}

func TestHealth_ResponseStatus(t *testing.T) {
	t.Parallel()

	healthy := pingerFunc(func(context.Context) error { return nil })
	broken := pingerFunc(func(context.Context) error { return errors.New("database is closed") })

	tests := []struct {
		name           string
		db             Pinger
		method         string
		expectedStatus int
		expectedBody   string
	}{
		{"GET without database", nil, http.MethodGet, http.StatusOK, `{"status":"ok"}`},
		{"GET healthy database", healthy, http.MethodGet, http.StatusOK, `{"status":"ok","database":"ok"}`},
		{"GET broken database", broken, http.MethodGet, http.StatusServiceUnavailable, `{"status":"degraded","database":"unreachable"}`},
		{"HEAD skips database", broken, http.MethodHead, http.StatusOK, ""},
		{"OPTIONS skips database", broken, http.MethodOptions, http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := setupRouter(tt.db)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/healthz", nil)

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
			if tt.expectedBody == "" {
				assert.Zero(t, w.Body.Len())
			} else {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}
