package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCompareStepMatches(t *testing.T) {
	goSrv := stubServer(t, http.StatusOK, `"Welcome to our miniCanvas!"`)
	legacySrv := stubServer(t, http.StatusOK, "\"Welcome to our miniCanvas!\"\n")

	res := compareStep(http.DefaultClient, goSrv.URL, legacySrv.URL, step{Method: http.MethodGet, Path: "/", Critical: true})
	require.NoError(t, res.Err)
	assert.True(t, res.StatusMatch)
	assert.True(t, res.BodyMatch)

	breaking, optional := tally([]result{res})
	assert.Zero(t, breaking)
	assert.Zero(t, optional)
}

func TestCompareStepDiverges(t *testing.T) {
	goSrv := stubServer(t, http.StatusOK, `1`)
	legacySrv := stubServer(t, http.StatusOK, `2`)

	res := compareStep(http.DefaultClient, goSrv.URL, legacySrv.URL, defaultSteps[1])
	require.NoError(t, res.Err)
	assert.True(t, res.StatusMatch)
	assert.False(t, res.BodyMatch)

	breaking, _ := tally([]result{res})
	assert.Equal(t, 1, breaking)

	var buf bytes.Buffer
	printReport(&buf, []result{res})
	assert.Contains(t, buf.String(), "[DIFF] POST /courses/CS101")
}

func TestCompareStepIgnoresErrorBodies(t *testing.T) {
	goSrv := stubServer(t, http.StatusNotFound, `{"error":{"code":"NOT_FOUND"}}`)
	legacySrv := stubServer(t, http.StatusNotFound, `{"detail":"Course not found"}`)

	res := compareStep(http.DefaultClient, goSrv.URL, legacySrv.URL, defaultSteps[4])
	assert.True(t, res.StatusMatch)
	assert.True(t, res.BodyMatch)
}

func TestLoadSteps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steps.json")
	raw, err := json.Marshal(scenario{Steps: defaultSteps[:1]})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	steps, err := loadSteps(path)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, "/", steps[0].Path)

	require.NoError(t, os.WriteFile(path, []byte(`{"steps":[]}`), 0o644))
	_, err = loadSteps(path)
	assert.Error(t, err)
}
