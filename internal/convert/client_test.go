package convert

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

func TestConvertSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		assert.Equal(t, "report.pdf", header.Filename)
		payload, _ := io.ReadAll(file)
		assert.Equal(t, "%PDF-fake", string(payload))

		_ = json.NewEncoder(w).Encode(Result{OK: true, Text: "## Page 1\nHello", TokenCount: 3})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 0)
	res, err := c.Convert(context.Background(), []byte("%PDF-fake"), "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "## Page 1\nHello", res.Text)
	assert.Equal(t, 3, res.TokenCount)
}

func TestConvertServiceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(Result{OK: false, Error: "encrypted PDF"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0)
	_, err := c.Convert(context.Background(), []byte("x"), "r.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encrypted PDF")
}

func TestConvertHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0)
	_, err := c.Convert(context.Background(), []byte("x"), "r.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestConvertBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0)
	_, err := c.Convert(context.Background(), []byte("x"), "r.pdf")
	require.Error(t, err)
}
