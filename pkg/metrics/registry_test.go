package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledByDefault(t *testing.T) {
	reset()
	t.Cleanup(reset)

	assert.False(t, IsEnabled())
	assert.Nil(t, GetRegistry())
	assert.Nil(t, NewCodecMetrics())
	assert.Nil(t, NewCacheMetrics())

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInitRegistryIsIdempotent(t *testing.T) {
	reset()
	t.Cleanup(reset)

	a := InitRegistry()
	b := InitRegistry()
	require.NotNil(t, a)
	assert.Same(t, a, b)
	assert.True(t, IsEnabled())
}

func TestHandlerServesRuntimeMetrics(t *testing.T) {
	reset()
	t.Cleanup(reset)
	InitRegistry()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "go_goroutines"))
}

func TestNoConstructorMeansNil(t *testing.T) {
	reset()
	t.Cleanup(reset)
	InitRegistry()

	prev := newCodecMetrics
	newCodecMetrics = nil
	t.Cleanup(func() { newCodecMetrics = prev })

	assert.Nil(t, NewCodecMetrics())
}
