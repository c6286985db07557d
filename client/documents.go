// ABOUTME: Document metadata endpoints (/dokumenty) plus binary download and multipart upload.
// ABOUTME: Binary content passes straight through; nothing is retained beyond the transfer.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// ListDocuments fetches document metadata, optionally narrowed by category.
func (c *Client) ListDocuments(ctx context.Context, category string) ([]Document, error) {
	path := "/dokumenty"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var docs []Document
	if err := c.getJSON(ctx, path, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteDocument removes a document and its stored binary.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.delete(ctx, "/dokumenty/"+url.PathEscape(id))
}

// DownloadDocument streams a document's binary content to w.
// The download URL is separate from the metadata resource.
func (c *Client) DownloadDocument(ctx context.Context, id string, w io.Writer) error {
	path := "/dokumenty/" + url.PathEscape(id) + "/download"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("stream document %s: %w", id, err)
	}
	return nil
}

// UploadDocument sends a file as multipart form data and returns the stored
// metadata record. Only the selected file is read; no local copy is kept.
func (c *Client) UploadDocument(ctx context.Context, name, category string, content io.Reader) (*Document, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("read upload content: %w", err)
	}
	if err := mw.WriteField("category", category); err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/dokumenty", &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST /dokumenty: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response from /dokumenty: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}

	var doc Document
	if err := decodeInto("/dokumenty", data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
