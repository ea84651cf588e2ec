package ctl

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsctl/dsctl/client"
)

var stubFeatures = []map[string]interface{}{
	{
		"id": "ftr1", "name": "Directory Sync", "status": "DISABLED",
		"type": "self-service", "stage": map[string]interface{}{"value": "EA"},
	},
	{
		"id": "ftr2", "name": "Adaptive Login", "status": "ENABLED",
		"type": "self-service", "stage": map[string]interface{}{"value": "GA"},
	},
}

// newFeatureStub serves the features endpoints and records the query
// string of enable/disable calls in gotQuery.
func newFeatureStub(t *testing.T, gotQuery *string) *client.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/v1/features":
			json.NewEncoder(w).Encode(stubFeatures)
		case strings.HasSuffix(r.URL.Path, "/enable") || strings.HasSuffix(r.URL.Path, "/disable"):
			require.Equal(t, http.MethodPost, r.Method)
			if gotQuery != nil {
				*gotQuery = r.URL.RawQuery
			}
			status := "DISABLED"
			if strings.HasSuffix(r.URL.Path, "/enable") {
				status = "ENABLED"
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"id": "ftr1", "name": "Directory Sync", "status": status,
			})
		case strings.HasSuffix(r.URL.Path, "/dependencies"):
			json.NewEncoder(w).Encode([]map[string]interface{}{stubFeatures[1]})
		case strings.HasPrefix(r.URL.Path, "/api/v1/features/"):
			id := strings.TrimPrefix(r.URL.Path, "/api/v1/features/")
			for _, f := range stubFeatures {
				if f["id"] == id {
					json.NewEncoder(w).Encode(f)
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{
				"errorCode":    "E0000007",
				"errorSummary": "not found",
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	t.Cleanup(srv.Close)
	c, err := client.New(srv.URL, "secret")
	require.NoError(t, err)
	return c
}

func TestFeaturesListSortedByName(t *testing.T) {
	c := newFeatureStub(t, nil)

	var out bytes.Buffer
	cmd := NewFeaturesListCommand(strings.NewReader(""), &out, &out)
	cmd.Client = c
	cmd.Output = OutputOptions{CSV: true, Fields: "name,status"}

	require.NoError(t, cmd.Run(context.Background()))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Adaptive Login,ENABLED", lines[1])
	assert.Equal(t, "Directory Sync,DISABLED", lines[2])
}

func TestFeaturesGetByNameFragment(t *testing.T) {
	c := newFeatureStub(t, nil)

	var out bytes.Buffer
	cmd := NewFeaturesGetCommand(strings.NewReader(""), &out, &out)
	cmd.Client = c
	cmd.Feature = "sync"

	require.NoError(t, cmd.Run(context.Background()))
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "ftr1", doc["id"])
}

func TestFeaturesEnableForce(t *testing.T) {
	var query string
	c := newFeatureStub(t, &query)

	var out bytes.Buffer
	cmd := NewFeaturesSetCommand(strings.NewReader(""), &out, &out, true)
	cmd.Client = c
	cmd.Feature = "ftr1"
	cmd.Force = true

	require.NoError(t, cmd.Run(context.Background()))
	assert.Equal(t, "mode=force", query)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "ENABLED", doc["status"])
}

func TestFeaturesDisableSendsNoMode(t *testing.T) {
	var query string
	c := newFeatureStub(t, &query)

	var out bytes.Buffer
	cmd := NewFeaturesSetCommand(strings.NewReader(""), &out, &out, false)
	cmd.Client = c
	cmd.Feature = "ftr1"

	require.NoError(t, cmd.Run(context.Background()))
	assert.Empty(t, query)
}

func TestFeaturesDependencies(t *testing.T) {
	c := newFeatureStub(t, nil)

	var out bytes.Buffer
	cmd := NewFeaturesRelatedCommand(strings.NewReader(""), &out, &out, false)
	cmd.Client = c
	cmd.Feature = "ftr1"
	cmd.Output = OutputOptions{CSV: true, Fields: "id"}

	require.NoError(t, cmd.Run(context.Background()))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ftr2", lines[1])
}
