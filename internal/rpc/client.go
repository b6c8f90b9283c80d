// Package rpc talks to the host's JSON-RPC endpoint.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// ErrInvalidResponse means the reply carried no file listing.
var ErrInvalidResponse = errors.New("invalid directory listing response")

// FileTypeDirectory is the filetype of listing entries that can be browsed.
const FileTypeDirectory = "directory"

var (
	filesPath = jp.MustParseString("$.result.files")
	errorPath = jp.MustParseString("$.error.message")
)

// Entry is one item of a directory listing.
type Entry struct {
	Label     string `json:"label"`
	File      string `json:"file"`
	FileType  string `json:"filetype"`
	Thumbnail string `json:"thumbnail"`
}

// IsDir reports whether the entry is a browsable directory.
func (e Entry) IsDir() bool { return e.FileType == FileTypeDirectory }

// Client issues Files.GetDirectory calls over HTTP.
type Client struct {
	Endpoint string
	HTTP     *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		Endpoint: endpoint,
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type directoryParams struct {
	Properties []string `json:"properties"`
	Directory  string   `json:"directory"`
	Media      string   `json:"media"`
}

// ListDirectory returns the entries of dir.
func (c *Client) ListDirectory(ctx context.Context, dir string) ([]Entry, error) {
	body, err := json.Marshal(request{
		JSONRPC: "2.0",
		Method:  "Files.GetDirectory",
		Params: directoryParams{
			Properties: []string{"title", "file", "thumbnail"},
			Directory:  dir,
			Media:      "files",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	defer func() { _ = resp.Body.Close() }() // ignore

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list %s failed with status %d: %s", dir, resp.StatusCode, string(raw))
	}
	return ParseListing(raw)
}

// ParseListing extracts the entries from a Files.GetDirectory reply.
func ParseListing(raw []byte) ([]Entry, error) {
	doc, err := oj.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	matches := filesPath.Get(doc)
	if len(matches) == 0 || matches[0] == nil {
		if msg := errorPath.Get(doc); len(msg) > 0 {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, msg[0])
		}
		return nil, ErrInvalidResponse
	}
	items, ok := matches[0].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: files is %T", ErrInvalidResponse, matches[0])
	}

	entries := make([]Entry, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		entries = append(entries, Entry{
			Label:     str(m["label"]),
			File:      str(m["file"]),
			FileType:  str(m["filetype"]),
			Thumbnail: str(m["thumbnail"]),
		})
	}
	return entries, nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
