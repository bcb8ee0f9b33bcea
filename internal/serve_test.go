package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cwl2slack/internal/config"
	"cwl2slack/internal/constants"
	"cwl2slack/internal/payloads"
	"cwl2slack/internal/pipeline"
	"cwl2slack/internal/util"
)

type stubNotifier struct {
	calls int
	err   error
}

func (s *stubNotifier) Notify(_ context.Context, _, _, _ string) (string, error) {
	s.calls++
	return "ok", s.err
}

func newTestServer(t *testing.T, conf *config.Config, notifier pipeline.Notifier) http.Handler {
	t.Helper()
	conf.Env = constants.TEST
	conf.DevServerAddr = "127.0.0.1:0"
	server := NewServerWithNotifier(conf, notifier)
	return LoadWebServer(server).Handler
}

func invokeBody(t *testing.T, batch *payloads.LogBatch) []byte {
	t.Helper()
	raw, err := pipeline.Encode(batch)
	require.NoError(t, err)
	body, err := json.Marshal(map[string]any{"awslogs": map[string]string{"data": raw}})
	require.NoError(t, err)
	return body
}

func doRequest(handler http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestInvoke(t *testing.T) {
	t.Run("Notifies", func(t *testing.T) {
		notifier := &stubNotifier{}
		handler := newTestServer(t, &config.Config{}, notifier)

		rr := doRequest(handler, "POST", "/invoke", invokeBody(t, payloads.NewLogBatch("g1", "s1", "ERROR boom")))
		require.Equal(t, http.StatusOK, rr.Code)

		var result pipeline.Result
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		assert.True(t, result.Notified)
		assert.Equal(t, "g1", result.LogGroup)
		assert.Equal(t, "ok", result.ResponseBody)
		assert.Equal(t, 1, notifier.calls)
	})

	t.Run("NothingToReport", func(t *testing.T) {
		notifier := &stubNotifier{}
		handler := newTestServer(t, &config.Config{ExcludePattern: "ERROR"}, notifier)

		rr := doRequest(handler, "POST", "/invoke", invokeBody(t, payloads.NewLogBatch("g1", "s1", "ERROR boom")))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"notified":false`)
		assert.Equal(t, 0, notifier.calls)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		handler := newTestServer(t, &config.Config{}, &stubNotifier{})
		rr := doRequest(handler, "POST", "/invoke", []byte("{"))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("DecodeError", func(t *testing.T) {
		handler := newTestServer(t, &config.Config{}, &stubNotifier{})
		rr := doRequest(handler, "POST", "/invoke", []byte(`{"awslogs":{"data":"not-base64!!"}}`))
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), `"kind":"decode"`)
	})

	t.Run("DeliveryError", func(t *testing.T) {
		notifier := &stubNotifier{err: util.NewDeliveryError(errors.New("boom"), "POST webhook")}
		handler := newTestServer(t, &config.Config{}, notifier)

		rr := doRequest(handler, "POST", "/invoke", invokeBody(t, payloads.NewLogBatch("g1", "s1", "ERROR boom")))
		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Contains(t, rr.Body.String(), `"kind":"delivery"`)
	})

	t.Run("RejectedWhileClosing", func(t *testing.T) {
		conf := &config.Config{Env: constants.TEST, DevServerAddr: "127.0.0.1:0"}
		server := NewServerWithNotifier(conf, &stubNotifier{})
		server.Closing.Store(true)
		handler := LoadWebServer(server).Handler

		rr := doRequest(handler, "POST", "/invoke", invokeBody(t, payloads.NewLogBatch("g1", "s1", "x")))
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}

func TestHealthzAndMetrics(t *testing.T) {
	handler := newTestServer(t, &config.Config{}, &stubNotifier{})

	rr := doRequest(handler, "GET", "/healthz", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	doRequest(handler, "POST", "/invoke", invokeBody(t, payloads.NewLogBatch("g1", "s1", "ERROR boom")))

	rr = doRequest(handler, "GET", "/metrics", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "cwl2slack_notifications_sent_total 1")
}

func TestLoadWebServer_GinMode(t *testing.T) {
	newTestServer(t, &config.Config{}, &stubNotifier{})
	assert.Equal(t, gin.TestMode, gin.Mode())
}

func TestStatusForError(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, statusForError(util.NewSchemaError("logGroup", "is required")))
	assert.Equal(t, http.StatusBadGateway, statusForError(util.NewDeliveryError(nil, "x")))
	assert.Equal(t, http.StatusInternalServerError, statusForError(util.NewConfigError(nil, "x")))
	assert.Equal(t, http.StatusInternalServerError, statusForError(errors.New("plain")))
}
