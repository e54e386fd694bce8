package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casedesk/internal/middleware"
)

type observed struct {
	method, route string
	status        int
}

type fakeObserver struct{ calls []observed }

func (f *fakeObserver) ObserveHTTP(method, route string, status int, _ time.Time) {
	f.calls = append(f.calls, observed{method, route, status})
}

func TestLogger_ObservesRouteTemplate(t *testing.T) {
	obs := &fakeObserver{}
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(obs))
	r.GET("/clients/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/clients/42", http.NoBody)
	r.ServeHTTP(w, req)

	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest(http.MethodGet, "/missing", http.NoBody)
	r.ServeHTTP(w2, req2)

	require.Len(t, obs.calls, 2)
	assert.Equal(t, observed{"GET", "/clients/:id", http.StatusTeapot}, obs.calls[0])
	assert.Equal(t, "unmatched", obs.calls[1].route)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestID_PreservesIncoming(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) {
		id, _ := c.Get("request_id")
		c.String(http.StatusOK, id.(string))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("X-Request-ID", "abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc", w.Body.String())
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}
