package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/stepsort/pkg/adapters/memory"
	stephttp "github.com/aretw0/stepsort/pkg/adapters/http"
	"github.com/aretw0/stepsort/pkg/domain"
	"github.com/aretw0/stepsort/pkg/observability"
	"github.com/aretw0/stepsort/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	mgr := session.NewManager(memory.NewStore(), session.WithHooks(metrics.Hooks()))
	srv := httptest.NewServer(stephttp.NewHandler(mgr,
		stephttp.WithVersion("1.2.3"),
		stephttp.WithGatherer(reg),
	))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func decodeView(t *testing.T, b []byte) session.View {
	t.Helper()
	var v session.View
	require.NoError(t, json.Unmarshal(b, &v))
	return v
}

func TestSpec_Valid(t *testing.T) {
	doc, err := stephttp.GetSwagger()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", doc.Info.Version)
	assert.NotNil(t, doc.Paths.Find("/sessions/{id}/step"))
}

func TestHealthAndInfo(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	resp, body = do(t, http.MethodGet, srv.URL+"/info", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"app":"stepsort-http","version":"1.2.3","api_version":"1.0.0"}`, string(body))

	resp, body = do(t, http.MethodGet, srv.URL+"/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "openapi: 3.0.3")
}

func TestListAlgorithms(t *testing.T) {
	srv := newTestServer(t)
	_, body := do(t, http.MethodGet, srv.URL+"/algorithms", "")

	var names []string
	require.NoError(t, json.Unmarshal(body, &names))
	assert.Len(t, names, 14)
	assert.Equal(t, "bubble", names[0])
	assert.Contains(t, names, "odd-even")
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, http.MethodPost, srv.URL+"/sessions", `{"algorithm":"bubble","numbers":[3,2,1]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	v := decodeView(t, body)
	id := v.Session.ID
	assert.Equal(t, "/sessions/"+id, resp.Header.Get("Location"))
	assert.Equal(t, domain.StatusStart, v.Frame.Status)

	resp, body = do(t, http.MethodPost, srv.URL+"/sessions/"+id+"/step", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v = decodeView(t, body)
	assert.Equal(t, 1, v.Frame.Step)
	assert.Equal(t, []int{2, 3, 1}, v.Numbers)
	assert.Equal(t, domain.Highlight{First: 0, Second: 1}, v.Frame.Highlight)
	assert.Equal(t, domain.Switching, v.Frame.Reason)

	resp, body = do(t, http.MethodPost, srv.URL+"/sessions/"+id+"/step?n=100", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"highlight":null`)
	v = decodeView(t, body)
	assert.True(t, v.Frame.Finished())
	assert.True(t, v.Frame.Highlight.IsNone())
	assert.Equal(t, []int{1, 2, 3}, v.Numbers)

	resp, body = do(t, http.MethodGet, srv.URL+"/sessions", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `["`+id+`"]`, string(body))

	resp, body = do(t, http.MethodPost, srv.URL+"/sessions/"+id+"/reset", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v = decodeView(t, body)
	assert.Equal(t, []int{3, 2, 1}, v.Numbers)
	assert.Equal(t, 0, v.Frame.Step)

	resp, _ = do(t, http.MethodDelete, srv.URL+"/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateSession_Inputs(t *testing.T) {
	srv := newTestServer(t)

	_, body := do(t, http.MethodPost, srv.URL+"/sessions", `{"algorithm":"insertion","input":"5, 3 1"}`)
	assert.Equal(t, []int{5, 3, 1}, decodeView(t, body).Numbers)

	_, body = do(t, http.MethodPost, srv.URL+"/sessions", `{"algorithm":"heap","size":12,"seed":3}`)
	v := decodeView(t, body)
	require.Len(t, v.Numbers, 12)
	for _, n := range v.Numbers {
		assert.GreaterOrEqual(t, n, 1)
		assert.Less(t, n, 21)
	}

	_, body = do(t, http.MethodPost, srv.URL+"/sessions", `{"algorithm":"heap","size":12,"seed":3}`)
	assert.Equal(t, v.Numbers, decodeView(t, body).Numbers, "same seed, same vector")
}

func TestErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"unknown algorithm", http.MethodPost, "/sessions", `{"algorithm":"sleep","numbers":[1]}`, http.StatusBadRequest},
		{"negative value", http.MethodPost, "/sessions", `{"algorithm":"bubble","numbers":[1,-4]}`, http.StatusBadRequest},
		{"bad text", http.MethodPost, "/sessions", `{"algorithm":"bubble","input":"1,x"}`, http.StatusBadRequest},
		{"too large", http.MethodPost, "/sessions", `{"algorithm":"bubble","size":100000}`, http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/sessions", `{`, http.StatusBadRequest},
		{"missing session", http.MethodGet, "/sessions/nope", "", http.StatusNotFound},
		{"step missing session", http.MethodPost, "/sessions/nope/step", "", http.StatusNotFound},
		{"bad n", http.MethodPost, "/sessions/nope/step?n=abc", "", http.StatusBadRequest},
		{"zero n", http.MethodPost, "/sessions/nope/step?n=0", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, tt.method, srv.URL+tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, string(body))

			var e map[string]string
			require.NoError(t, json.Unmarshal(body, &e))
			assert.NotEmpty(t, e["error"])
		})
	}
}

func TestCreateSession_ExplicitID(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, http.MethodPost, srv.URL+"/sessions", `{"id":"demo","algorithm":"gnome","numbers":[2,1]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.Equal(t, "/sessions/demo", resp.Header.Get("Location"))

	resp, body = do(t, http.MethodPost, srv.URL+"/sessions", `{"id":"demo","algorithm":"bubble","numbers":[9,8,7]}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, string(body))

	_, body = do(t, http.MethodGet, srv.URL+"/sessions/demo", "")
	assert.Equal(t, []int{2, 1}, decodeView(t, body).Numbers)
}

func TestRequestValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		path string
		body string
		want string
	}{
		{"algorithm type", "/sessions", `{"algorithm":["bubble"]}`, "request body has an error"},
		{"missing algorithm", "/sessions", `{"numbers":[1,2]}`, "request body has an error"},
		{"empty id", "/sessions", `{"id":"","algorithm":"bubble"}`, "request body has an error"},
		{"n not a number", "/sessions/any/step?n=abc", "", `parameter "n" in query has an error`},
		{"n below minimum", "/sessions/any/step?n=0", "", `parameter "n" in query has an error`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, srv.URL+tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))

			var e map[string]string
			require.NoError(t, json.Unmarshal(body, &e))
			assert.Contains(t, e["error"], tt.want)
		})
	}

	// Paths outside the document are not validated.
	resp, _ := do(t, http.MethodGet, srv.URL+"/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := do(t, http.MethodOptions, srv.URL+"/sessions", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	_, body := do(t, http.MethodPost, srv.URL+"/sessions", `{"algorithm":"gnome","numbers":[2,1]}`)
	id := decodeView(t, body).Session.ID
	do(t, http.MethodPost, srv.URL+"/sessions/"+id+"/step?n=10", "")

	resp, body := do(t, http.MethodGet, srv.URL+"/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `stepsort_steps_total{algorithm="gnome"`)
	assert.Contains(t, string(body), `stepsort_runs_finished_total{algorithm="gnome"} 1`)
}

func TestSubscribeSession(t *testing.T) {
	srv := newTestServer(t)

	_, body := do(t, http.MethodPost, srv.URL+"/sessions", `{"algorithm":"bubble","numbers":[2,1]}`)
	id := decodeView(t, body).Session.ID

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/sessions/"+id+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: ping\n", line)
	_, _ = reader.ReadString('\n') // data: connected
	_, _ = reader.ReadString('\n') // blank

	do(t, http.MethodPost, srv.URL+"/sessions/"+id+"/step", "")

	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: step\n", line)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(line, "data: "))

	v := decodeView(t, []byte(strings.TrimPrefix(line, "data: ")))
	assert.Equal(t, []int{1, 2}, v.Numbers)
}

func TestSubscribeSession_NotFound(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := do(t, http.MethodGet, srv.URL+"/sessions/missing/events", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
