package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ikigai-ua/formrelay/internal/api"
	"github.com/ikigai-ua/formrelay/internal/metrics"
	"github.com/ikigai-ua/formrelay/internal/service"
	svcmocks "github.com/ikigai-ua/formrelay/internal/service/mocks"
	storemocks "github.com/ikigai-ua/formrelay/internal/storage/mocks"
)

const origin = "https://ikigai.com.ua"

type harness struct {
	svc   *svcmocks.MockSubmissionService
	store *storemocks.MockSubmissionStore
	srv   *Server
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := new(svcmocks.MockSubmissionService)
	store := new(storemocks.MockSubmissionStore)

	reg := metrics.NewRegistry()
	m := metrics.New(reg)
	m.Submission(metrics.OutcomeDelivered)

	srv := New(api.New(svc, logger), store, Options{
		Port:          0,
		AllowedOrigin: origin,
		Gatherer:      reg,
	}, logger)

	return &harness{svc: svc, store: store, srv: srv}
}

func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	t.Run("store reachable", func(t *testing.T) {
		h := newHarness(t)
		h.store.On("Ping", mock.Anything).Return(nil).Once()

		w := h.do(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	})

	t.Run("store down", func(t *testing.T) {
		h := newHarness(t)
		h.store.On("Ping", mock.Anything).Return(errors.New("connection refused")).Once()

		w := h.do(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"status":"unavailable"}`, w.Body.String())
	})
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t)

	w := h.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `formrelay_submissions_total{outcome="delivered"} 1`)
}

func TestCORS(t *testing.T) {
	t.Run("preflight from allowed origin", func(t *testing.T) {
		h := newHarness(t)

		req := httptest.NewRequest(http.MethodOptions, "/submitForm", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
		w := h.do(req)

		assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
		h.svc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
	})

	t.Run("preflight from other origin", func(t *testing.T) {
		h := newHarness(t)

		req := httptest.NewRequest(http.MethodOptions, "/submitForm", nil)
		req.Header.Set("Origin", "https://evil.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := h.do(req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("simple POST carries allow-origin", func(t *testing.T) {
		h := newHarness(t)
		h.svc.On("Submit", mock.Anything, service.SubmissionInput{Name: "Олена", Phone: "+380501234567"}).
			Return(&service.SubmitResult{Persist: service.PersistResult{Saved: true, ID: "rec-1"}}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/submitForm", strings.NewReader(`{"name":"Олена","phone":"+380501234567"}`))
		req.Header.Set("Origin", origin)
		req.Header.Set("Content-Type", "application/json")
		w := h.do(req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
		h.svc.AssertExpectations(t)
	})
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	h := newHarness(t)
	h.store.On("Ping", mock.Anything).Return(nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.srv.serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
