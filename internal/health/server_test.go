package health

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/villani/menubot/internal/config"
)

func TestHandlerRoutes(t *testing.T) {
	t.Parallel()

	srv := NewServer(config.HTTPConfig{Port: 3000, Status: config.DefaultHTTPStatus}, nil)
	h := srv.Handler()

	tests := []struct {
		method string
		path   string
		code   int
		body   string
	}{
		{method: http.MethodGet, path: "/", code: http.StatusOK, body: config.DefaultHTTPStatus},
		{method: http.MethodHead, path: "/", code: http.StatusOK},
		{method: http.MethodGet, path: "/healthz", code: http.StatusNotFound},
		{method: http.MethodGet, path: "/status/", code: http.StatusNotFound},
		{method: http.MethodPost, path: "/", code: http.StatusMethodNotAllowed},
		{method: http.MethodDelete, path: "/", code: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

		assert.Equal(t, tt.code, rec.Code, "%s %s", tt.method, tt.path)
		if tt.body != "" {
			assert.Equal(t, tt.body, rec.Body.String())
		}
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer(config.HTTPConfig{Status: "online"}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "online", string(body))

	cancel()
	require.NoError(t, <-done)
}
