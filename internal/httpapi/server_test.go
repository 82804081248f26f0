package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/fawazbook/internal/fixture"
	"github.com/orgball2608/fawazbook/internal/story"
	"github.com/orgball2608/fawazbook/internal/workspace"
	"github.com/orgball2608/fawazbook/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	snap, err := fixture.LoadEmbedded()
	require.NoError(t, err)
	store, err := fixture.NewMemory(snap)
	require.NoError(t, err)

	log := logger.New(logger.Opts{Env: "production", Output: io.Discard})
	registry := workspace.NewRegistry(workspace.RegistryOpts{
		Store:         store,
		Directory:     fixture.NewDirectory(store.ListUsers()),
		CurrentUserID: "1",
		Playback:      story.DefaultPlayback(),
		Clock:         clockwork.NewFakeClock(),
		Logger:        log,
	})
	t.Cleanup(func() { _ = registry.Stop() })
	return New(registry, log)
}

func do(t *testing.T, s *Server, method, path, body string, client ...string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if len(client) > 0 {
		req.Header.Set(ClientHeader, client[0])
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestHealthz(t *testing.T) {
	s := newServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestHashtagSearchRedirects(t *testing.T) {
	s := newServer(t)

	code, body := do(t, s, http.MethodPost, "/api/search", `{"query":"#travel"}`)
	require.Equal(t, http.StatusOK, code)
	state := body["result"].(map[string]any)
	assert.Equal(t, "trending", state["view"])
	assert.Equal(t, []any{"travel"}, state["selectedTags"])

	_, screen := do(t, s, http.MethodGet, "/api/screen", "")
	trending := screen["trending"].(map[string]any)
	assert.Len(t, trending["posts"], 5)
}

func TestBadInput(t *testing.T) {
	s := newServer(t)

	code, body := do(t, s, http.MethodPost, "/api/view", `{"view":"feed"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_input", body["code"])

	code, _ = do(t, s, http.MethodPost, "/api/search", `{"query":"x","scope":"groups"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, s, http.MethodPost, "/api/posts", `{not json`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, s, http.MethodPost, "/api/users/99/select", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestNoopMutations(t *testing.T) {
	s := newServer(t)

	code, body := do(t, s, http.MethodPost, "/api/posts", `{"content":"  "}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["applied"])

	code, body = do(t, s, http.MethodPost, "/api/posts/404/like", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["applied"])

	_, body = do(t, s, http.MethodPost, "/api/posts/1/comments", `{"text":""}`)
	assert.Equal(t, false, body["applied"])

	_, body = do(t, s, http.MethodPost, "/api/viewer/next", "")
	assert.Equal(t, false, body["applied"])
}

func TestLikeIsPerClient(t *testing.T) {
	s := newServer(t)

	_, body := do(t, s, http.MethodPost, "/api/posts/1/like", "", "alice")
	post := body["result"].(map[string]any)
	assert.Equal(t, true, post["liked"])
	assert.EqualValues(t, 235, post["likes"])

	_, body = do(t, s, http.MethodPost, "/api/posts/1/like", "", "bob")
	post = body["result"].(map[string]any)
	assert.EqualValues(t, 235, post["likes"])

	_, body = do(t, s, http.MethodPost, "/api/posts/1/like", "", "alice")
	post = body["result"].(map[string]any)
	assert.Equal(t, false, post["liked"])
	assert.EqualValues(t, 234, post["likes"])
}

func TestCreatePostAndTags(t *testing.T) {
	s := newServer(t)

	code, body := do(t, s, http.MethodPost, "/api/posts", `{"content":"Hello #gophers"}`)
	require.Equal(t, http.StatusCreated, code)
	id := body["result"].(map[string]any)["id"].(string)

	_, body = do(t, s, http.MethodPost, "/api/tags/gophers/toggle", "")
	assert.Equal(t, "home", body["result"].(map[string]any)["view"])

	_, screen := do(t, s, http.MethodGet, "/api/screen", "")
	posts := screen["home"].(map[string]any)["posts"].([]any)
	require.Len(t, posts, 1)
	assert.Equal(t, id, posts[0].(map[string]any)["post"].(map[string]any)["id"])

	do(t, s, http.MethodDelete, "/api/tags", "")
	_, body = do(t, s, http.MethodDelete, "/api/posts/"+id, "")
	assert.Equal(t, true, body["applied"])
}

func TestStoryViewer(t *testing.T) {
	s := newServer(t)

	_, body := do(t, s, http.MethodPost, "/api/stories/zzz/open", "")
	assert.Equal(t, false, body["applied"])

	_, body = do(t, s, http.MethodPost, "/api/stories/37/open", "")
	require.Equal(t, true, body["applied"])
	assert.Equal(t, "playing", body["result"].(map[string]any)["status"])

	_, body = do(t, s, http.MethodPost, "/api/viewer/pause", "")
	viewer := body["result"].(map[string]any)["viewer"].(map[string]any)
	assert.Equal(t, "paused", viewer["status"])

	_, body = do(t, s, http.MethodGet, "/api/viewer", "")
	assert.Equal(t, true, body["open"])

	_, body = do(t, s, http.MethodPost, "/api/viewer/next", "")
	assert.Equal(t, true, body["applied"])
	assert.Equal(t, false, body["result"].(map[string]any)["open"])

	_, body = do(t, s, http.MethodGet, "/api/viewer", "")
	assert.Equal(t, false, body["open"])
}

func TestPathParamsSurviveLaterRequests(t *testing.T) {
	s := newServer(t)

	_, body := do(t, s, http.MethodPost, "/api/tags/travel/toggle", "", "web")
	require.Equal(t, []any{"travel"}, body["result"].(map[string]any)["selectedTags"])
	_, body = do(t, s, http.MethodPost, "/api/users/2/select", "", "web")
	require.Equal(t, "2", body["result"].(map[string]any)["selectedUserId"])

	for i := 0; i < 20; i++ {
		do(t, s, http.MethodPost, "/api/tags/cookin/toggle", "", "other")
		do(t, s, http.MethodPost, "/api/users/7/select", "", "other")
	}

	_, screen := do(t, s, http.MethodGet, "/api/screen", "", "web")
	state := screen["state"].(map[string]any)
	assert.Equal(t, []any{"travel"}, state["selectedTags"])
	assert.Equal(t, "2", state["selectedUserId"])
}
