package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/debateclub/llm"
	"github.com/c360studio/debateclub/llm/testutil"
	"github.com/c360studio/debateclub/session"
)

func scriptedGenerator() *testutil.MockCompleter {
	return &testutil.MockCompleter{
		Script: func(req llm.Request) (*llm.Response, error) {
			system := req.Messages[0].Content
			switch {
			case strings.Contains(system, "debate moderator"):
				return &llm.Response{Content: "Welcome."}, nil
			case strings.Contains(system, "fact-checker"):
				return &llm.Response{Content: "No false claims found."}, nil
			case strings.Contains(system, "closing statement"):
				return &llm.Response{Content: "In closing."}, nil
			case strings.Contains(system, "debate judge"):
				return &llm.Response{Content: "Pro: 82 points. Con: 75 points."}, nil
			default:
				return &llm.Response{Content: "A compelling argument."}, nil
			}
		},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	handler := NewHandler(scriptedGenerator())
	mux := http.NewServeMux()
	handler.RegisterHTTPHandlers("api", mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func createDebate(t *testing.T, server *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(server.URL+"/api/debates", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestCreateDebateValidation(t *testing.T) {
	server := newTestServer(t)

	resp := createDebate(t, server, `{"max_rounds": 1}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = createDebate(t, server, `not json`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDebateNotFound(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/debates/no-such-id/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDebateLifecycle(t *testing.T) {
	server := newTestServer(t)

	resp := createDebate(t, server, `{"topic": "Should X?", "max_rounds": 1}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeJSON[createDebateResponse](t, resp)
	require.NotEmpty(t, created.ID)

	base := server.URL + "/api/debates/" + created.ID

	var status session.Status
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/status")
		require.NoError(t, err)
		status = decodeJSON[session.Status](t, resp)
		return status.Complete
	}, 10*time.Second, 10*time.Millisecond)

	assert.Empty(t, status.Error)
	assert.Equal(t, "evaluation", status.CurrentPhase)

	type updatesResponse struct {
		Updates []session.Event `json:"updates"`
	}

	resp, err := http.Get(base + "/updates")
	require.NoError(t, err)
	first := decodeJSON[updatesResponse](t, resp)
	require.Len(t, first.Updates, 8)
	assert.Equal(t, session.TagIntroduction, first.Updates[0].Type)
	assert.Equal(t, session.TagEvaluation, first.Updates[len(first.Updates)-1].Type)

	resp, err = http.Get(base + "/updates")
	require.NoError(t, err)
	second := decodeJSON[updatesResponse](t, resp)
	assert.Empty(t, second.Updates)

	resp, err = http.Get(base + "/state")
	require.NoError(t, err)
	state := decodeJSON[map[string]any](t, resp)
	assert.Equal(t, "Should X?", state["topic"])
	assert.NotEmpty(t, state["evaluation"])

	resp, err = http.Get(base + "/transcript")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/markdown", resp.Header.Get("Content-Type"))
	transcript, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(transcript), "# Debate: Should X?")

	resp, err = http.Get(base + "/transcript?format=pdf")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListDebates(t *testing.T) {
	server := newTestServer(t)

	resp := createDebate(t, server, `{"topic": "Should X?", "max_rounds": 1}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	listResp, err := http.Get(server.URL + "/api/debates")
	require.NoError(t, err)
	list := decodeJSON[[]session.Info](t, listResp)
	require.Len(t, list, 1)
	assert.Equal(t, "Should X?", list[0].Topic)
}

func TestMethodNotAllowed(t *testing.T) {
	server := newTestServer(t)

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/debates", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestSplitDebatePath(t *testing.T) {
	id, action := splitDebatePath("/api/debates/abc/status")
	assert.Equal(t, "abc", id)
	assert.Equal(t, "status", action)

	id, action = splitDebatePath("/api/debates/abc")
	assert.Equal(t, "abc", id)
	assert.Equal(t, "", action)

	id, _ = splitDebatePath("/api/debates/")
	assert.Equal(t, "", id)
}
