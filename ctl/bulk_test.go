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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsctl/dsctl/client"
	"github.com/dsctl/dsctl/errors"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newBulkTestServer(t *testing.T, failLogins ...string) (*httptest.Server, *sync.Map) {
	t.Helper()
	fail := map[string]bool{}
	for _, l := range failLogins {
		fail[l] = true
	}
	var seen sync.Map
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		login := strings.TrimPrefix(r.URL.Path, "/api/v1/users/")
		var doc map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
		seen.Store(login, doc)
		if fail[login] {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{
				"errorCode":    "E0000001",
				"errorSummary": "api validation failed",
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "00u-" + login})
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestBulkUpdateEndToEnd(t *testing.T) {
	srv, seen := newBulkTestServer(t, "bad@example.com")
	c, err := client.New(srv.URL, "secret")
	require.NoError(t, err)

	path := writeTempCSV(t,
		"profile.login,profile.city,comment\n"+
			"alice@example.com,Reno,ignored\n"+
			"bad@example.com,Nowhere,x\n"+
			"carol@example.com,Oslo,y\n")

	var stdout, stderr bytes.Buffer
	cmd := NewBulkCommand(strings.NewReader(""), &stdout, &stderr)
	cmd.Path = path
	cmd.Mode = "update"
	cmd.Workers = 2
	cmd.ReportDir = t.TempDir()
	cmd.Client = c

	err = cmd.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrRemoteOperationFailed))
	assert.Contains(t, stdout.String(), "3 total: 2 ok, 1 failed, 0 cancelled")

	// every row reached the server, and the ignored dotless column
	// never did
	doc, ok := seen.Load("alice@example.com")
	require.True(t, ok)
	profile := doc.(map[string]interface{})["profile"].(map[string]interface{})
	assert.Equal(t, "Reno", profile["city"])
	assert.NotContains(t, doc.(map[string]interface{}), "comment")
	_, ok = seen.Load("carol@example.com")
	assert.True(t, ok)

	okFiles, err := filepath.Glob(filepath.Join(cmd.ReportDir, "dsctl-bulk-*-ok.json"))
	require.NoError(t, err)
	require.Len(t, okFiles, 1)
	errFiles, err := filepath.Glob(filepath.Join(cmd.ReportDir, "dsctl-bulk-*-errors.json"))
	require.NoError(t, err)
	require.Len(t, errFiles, 1)

	var entries []bulkReportEntry
	raw, err := os.ReadFile(errFiles[0])
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].Row)
	assert.Equal(t, "failure", entries[0].Status)
	assert.Contains(t, entries[0].Error, "api validation failed")
}

func TestBulkUpdateAllOK(t *testing.T) {
	srv, _ := newBulkTestServer(t)
	c, err := client.New(srv.URL, "secret")
	require.NoError(t, err)

	path := writeTempCSV(t,
		"profile.login,profile.city\n"+
			"alice@example.com,Reno\n")

	var stdout bytes.Buffer
	cmd := NewBulkCommand(strings.NewReader(""), &stdout, &stdout)
	cmd.Path = path
	cmd.ReportDir = t.TempDir()
	cmd.Client = c

	require.NoError(t, cmd.Run(context.Background()))
	assert.Contains(t, stdout.String(), "1 total: 1 ok, 0 failed, 0 cancelled")

	// no failures, no errors file
	errFiles, err := filepath.Glob(filepath.Join(cmd.ReportDir, "dsctl-bulk-*-errors.json"))
	require.NoError(t, err)
	assert.Empty(t, errFiles)
}

func TestBulkAddEndToEnd(t *testing.T) {
	var mu sync.Mutex
	var gotParams []string
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.Equal(t, "/api/v1/users", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		mu.Lock()
		gotParams = append(gotParams, r.URL.Query().Encode())
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		mu.Unlock()
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "00u1"})
	}))
	defer srv.Close()
	c, err := client.New(srv.URL, "secret")
	require.NoError(t, err)

	path := writeTempCSV(t,
		"profile.login,profile.firstName\n"+
			"new@example.com,Ada\n")

	var stdout bytes.Buffer
	cmd := NewBulkCommand(strings.NewReader(""), &stdout, &stdout)
	cmd.Path = path
	cmd.Mode = "add"
	cmd.Set = []string{"profile.site=HQ"}
	cmd.ReportDir = t.TempDir()
	cmd.Client = c

	require.NoError(t, cmd.Run(context.Background()))
	require.Len(t, gotParams, 1)
	assert.Contains(t, gotParams[0], "activate=true")

	profile := body["profile"].(map[string]interface{})
	assert.Equal(t, "new@example.com", profile["login"])
	assert.Equal(t, "HQ", profile["site"])
}

func TestBulkRejectsBadFlags(t *testing.T) {
	var stdout bytes.Buffer
	cmd := NewBulkCommand(strings.NewReader(""), &stdout, &stdout)
	cmd.Path = "x.csv"
	cmd.Mode = "upsert"
	assert.Error(t, cmd.Run(context.Background()))

	cmd = NewBulkCommand(strings.NewReader(""), &stdout, &stdout)
	cmd.Path = "x.csv"
	cmd.JumpToIndex = 3
	cmd.JumpToKey = "someone@example.com"
	err := cmd.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBadConfig))
}
