package rpc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListing(t *testing.T) {
	entries, err := ParseListing([]byte(`{"id":0,"jsonrpc":"2.0","result":{"files":[
		{"label":"Action","file":"videodb://movies/genres/1/","filetype":"directory","thumbnail":"a.png"},
		{"label":"Heat","file":"/movies/heat.mkv","filetype":"file","thumbnail":""}
	],"limits":{"total":2}}}`))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Action", entries[0].Label)
	assert.True(t, entries[0].IsDir())
	assert.Equal(t, "a.png", entries[0].Thumbnail)
	assert.False(t, entries[1].IsDir())
}

func TestParseListing_Invalid(t *testing.T) {
	for name, raw := range map[string]string{
		"null files": `{"result":{"files":null}}`,
		"no result":  `{"error":{"code":-32602,"message":"Invalid params."}}`,
		"not json":   `<html>`,
		"wrong type": `{"result":{"files":"nope"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseListing([]byte(raw))
			assert.ErrorIs(t, err, ErrInvalidResponse)
		})
	}
}

func TestParseListing_EmptyDirectory(t *testing.T) {
	entries, err := ParseListing([]byte(`{"result":{"files":[]}}`))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClient_ListDirectory(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":{"files":[{"label":"Sub","file":"x/","filetype":"directory","thumbnail":""}]}}`))
	}))
	defer srv.Close()

	entries, err := NewClient(srv.URL).ListDirectory(context.Background(), `videodb://movies/`)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, "Files.GetDirectory", got["method"])
	params := got["params"].(map[string]any)
	assert.Equal(t, "videodb://movies/", params["directory"])
	assert.Equal(t, "files", params["media"])
}

func TestClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).ListDirectory(context.Background(), "x")
	assert.Error(t, err)
}
