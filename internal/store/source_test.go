package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSource(t *testing.T) {
	assert.IsType(t, &HTTPSource{}, NewSource("https://example.com/services.json"))
	assert.IsType(t, &HTTPSource{}, NewSource("http://localhost/services.json"))
	assert.IsType(t, &FileSource{}, NewSource("data/services.json"))
}

func TestFileSource_Fetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "services.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o644))

	data, err := (&FileSource{Path: path}).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestFileSource_Missing(t *testing.T) {
	_, err := (&FileSource{Path: filepath.Join(t.TempDir(), "nope.json")}).Fetch(context.Background())
	assert.Error(t, err)
}

func TestHTTPSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1}]`))
	}))
	defer srv.Close()

	data, err := (&HTTPSource{URL: srv.URL}).Fetch(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(data))
}

func TestHTTPSource_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := (&HTTPSource{URL: srv.URL, Client: srv.Client()}).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
