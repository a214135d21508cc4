package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/journal-api/internal/config"
)

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message    string                 `json:"message"`
		Extensions map[string]interface{} `json:"extensions"`
	} `json:"errors"`
}

func (r gqlResponse) code() string {
	if len(r.Errors) == 0 {
		return ""
	}
	code, _ := r.Errors[0].Extensions["code"].(string)
	return code
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg, err := config.LoadFrom(map[string]string{
		"DB_PATH":     ":memory:",
		"BCRYPT_COST": "4",
		"JWT_SECRET":  "server-test-secret-0123456789",
	})
	require.NoError(t, err)

	s, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, token, query string, vars map[string]interface{}) gqlResponse {
	t.Helper()

	body, err := json.Marshal(map[string]interface{}{"query": query, "variables": vars})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/graphql", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out gqlResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

type authPayload struct {
	Token string
	User  struct{ ID, Name string }
}

const (
	registerQuery = `mutation($e: String!, $p: String!, $n: String!) { register(email: $e, password: $p, name: $n) { token user { id name } } }`
	loginQuery    = `mutation($e: String!, $p: String!) { login(email: $e, password: $p) { token user { id name } } }`
)

func TestJournalScenario(t *testing.T) {
	ts := newTestServer(t)

	// Ann registers.
	resp := post(t, ts, "", registerQuery, map[string]interface{}{"e": "a@x.com", "p": "secret1", "n": "Ann"})
	require.Empty(t, resp.Errors)
	var reg struct{ Register authPayload }
	require.NoError(t, json.Unmarshal(resp.Data, &reg))
	ann := reg.Register

	// The same email cannot register twice.
	resp = post(t, ts, "", registerQuery, map[string]interface{}{"e": "a@x.com", "p": "other2", "n": "Bob"})
	assert.Equal(t, "DUPLICATE_EMAIL", resp.code())

	// Login returns a token for Ann.
	resp = post(t, ts, "", loginQuery, map[string]interface{}{"e": "a@x.com", "p": "secret1"})
	require.Empty(t, resp.Errors)
	var login struct{ Login authPayload }
	require.NoError(t, json.Unmarshal(resp.Data, &login))
	assert.Equal(t, ann.User.ID, login.Login.User.ID)

	var me struct{ Me *struct{ ID string } }
	resp = post(t, ts, login.Login.Token, `{ me { id } }`, nil)
	require.Empty(t, resp.Errors)
	require.NoError(t, json.Unmarshal(resp.Data, &me))
	require.NotNil(t, me.Me)
	assert.Equal(t, ann.User.ID, me.Me.ID)

	// A second user to play the stranger.
	resp = post(t, ts, "", registerQuery, map[string]interface{}{"e": "b@x.com", "p": "secret1", "n": "Bob"})
	require.Empty(t, resp.Errors)
	var bobReg struct{ Register authPayload }
	require.NoError(t, json.Unmarshal(resp.Data, &bobReg))
	bob := bobReg.Register

	resp = post(t, ts, ann.Token, `mutation { createEntry(title: "Day1", content: "hi") { id title } }`, nil)
	require.Empty(t, resp.Errors)
	var created struct{ CreateEntry struct{ ID, Title string } }
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.Equal(t, "Day1", created.CreateEntry.Title)

	del := `mutation($id: ID!) { deleteEntry(id: $id) }`
	vars := map[string]interface{}{"id": created.CreateEntry.ID}

	resp = post(t, ts, bob.Token, del, vars)
	assert.Equal(t, "NOT_FOUND_OR_FORBIDDEN", resp.code())

	resp = post(t, ts, ann.Token, del, vars)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"deleteEntry": true}`, string(resp.Data))

	resp = post(t, ts, ann.Token, `{ myEntries { id } }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"myEntries": []}`, string(resp.Data))
}

func TestInvalidTokenIsAnonymous(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts, "not-a-token", `{ me { id } }`, nil)
	assert.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"me": null}`, string(resp.Data))

	resp = post(t, ts, "not-a-token", `{ myEntries { id } }`, nil)
	assert.Equal(t, "UNAUTHENTICATED", resp.code())
}

func TestGraphQLTransport(t *testing.T) {
	ts := newTestServer(t)

	t.Run("missing query", func(t *testing.T) {
		res, err := ts.Client().Post(ts.URL+"/graphql", "application/json", bytes.NewBufferString(`{"variables":{}}`))
		require.NoError(t, err)
		defer res.Body.Close()

		assert.Equal(t, http.StatusOK, res.StatusCode)
		body, _ := io.ReadAll(res.Body)
		assert.JSONEq(t, `{"errors":[{"message":"GraphQL query is required","extensions":{"code":"QUERY_MISSING"}}]}`, string(body))
	})

	t.Run("malformed body", func(t *testing.T) {
		res, err := ts.Client().Post(ts.URL+"/graphql", "application/json", bytes.NewBufferString(`{not json`))
		require.NoError(t, err)
		defer res.Body.Close()

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		var out gqlResponse
		require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
		assert.Equal(t, "BAD_REQUEST", out.code())
	})

	t.Run("api alias", func(t *testing.T) {
		res, err := ts.Client().Post(ts.URL+"/api/graphql", "application/json", bytes.NewBufferString(`{"query":"{ me { id } }"}`))
		require.NoError(t, err)
		defer res.Body.Close()

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "application/json", res.Header.Get("Content-Type"))
	})

	t.Run("health", func(t *testing.T) {
		res, err := ts.Client().Get(ts.URL + "/healthz")
		require.NoError(t, err)
		defer res.Body.Close()

		body, _ := io.ReadAll(res.Body)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.JSONEq(t, `{"status":"ok"}`, string(body))
	})

	t.Run("cors preflight", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodOptions, ts.URL+"/graphql", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Authorization")

		res, err := ts.Client().Do(req)
		require.NoError(t, err)
		defer res.Body.Close()

		assert.Equal(t, "http://localhost:3000", res.Header.Get("Access-Control-Allow-Origin"))
	})
}
