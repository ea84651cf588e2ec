package ctl

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsctl/dsctl/client"
)

func TestRawGetFollowsPaging(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.Equal(t, "/api/v1/logs", r.URL.Path)
		if r.URL.Query().Get("after") == "" {
			require.Equal(t, "since=yesterday", r.URL.RawQuery)
			w.Header().Set("Link", `<`+srv.URL+`/api/v1/logs?since=yesterday&after=2>; rel="next"`)
			json.NewEncoder(w).Encode([]map[string]interface{}{
				{"id": "evt1", "_links": map[string]interface{}{"self": "x"}},
			})
			return
		}
		json.NewEncoder(w).Encode([]map[string]interface{}{{"id": "evt2"}})
	}))
	t.Cleanup(srv.Close)
	c, err := client.New(srv.URL, "secret")
	require.NoError(t, err)

	var out bytes.Buffer
	cmd := NewRawCommand(strings.NewReader(""), &out, &out)
	cmd.Client = c
	cmd.Method = "get"
	cmd.Endpoint = "logs" // no leading slash on purpose
	cmd.Query = []string{"since=yesterday"}
	cmd.Output = OutputOptions{JSON: true}

	require.NoError(t, cmd.Run(context.Background()))
	var docs []map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, "evt1", docs[0]["id"])
	assert.NotContains(t, docs[0], "_links")
}

func TestRawPostWithBodyFile(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/groups", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "00g9"})
	}))
	t.Cleanup(srv.Close)
	c, err := client.New(srv.URL, "secret")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "body.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"profile":{"name":"ops"}}`), 0o644))

	var out bytes.Buffer
	cmd := NewRawCommand(strings.NewReader(""), &out, &out)
	cmd.Client = c
	cmd.Method = "post"
	cmd.Endpoint = "/groups"
	cmd.Body = "FILE:" + path

	require.NoError(t, cmd.Run(context.Background()))
	profile := got["profile"].(map[string]interface{})
	assert.Equal(t, "ops", profile["name"])

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "00g9", doc["id"])
}

func TestRawRejectsUnknownMethod(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRawCommand(strings.NewReader(""), &out, &out)
	cmd.Method = "patch"
	cmd.Endpoint = "/users"

	err := cmd.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown method")
}

func TestRawInlineBodyMustBeJSON(t *testing.T) {
	c, err := client.New("http://127.0.0.1:1", "secret")
	require.NoError(t, err)

	var out bytes.Buffer
	cmd := NewRawCommand(strings.NewReader(""), &out, &out)
	cmd.Client = c
	cmd.Method = "post"
	cmd.Endpoint = "/users"
	cmd.Body = "{not json"

	err = cmd.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing body as JSON")
}
