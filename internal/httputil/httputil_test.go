// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultipartFile(t *testing.T) {
	body, contentType, err := MultipartFile("file", "episode 1.pdf", "application/pdf", strings.NewReader("%PDF-1.4 data"))
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	mr := multipart.NewReader(body, params["boundary"])
	part, err := mr.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "file", part.FormName())
	assert.Equal(t, "episode 1.pdf", part.FileName())
	assert.Equal(t, "application/pdf", part.Header.Get("Content-Type"))

	data, err := io.ReadAll(part)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 data", string(data))

	_, err = mr.NextPart()
	assert.ErrorIs(t, err, io.EOF)
}

func TestMultipartFile_ServerParsesIt(t *testing.T) {
	var gotName, gotData string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		gotName, gotData = hdr.Filename, string(data)
	}))
	defer ts.Close()

	body, contentType, err := MultipartFile("file", `we"ird.pdf`, "", strings.NewReader("bytes"))
	require.NoError(t, err)

	resp, err := ts.Client().Post(ts.URL, contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `we"ird.pdf`, gotName)
	assert.Equal(t, "bytes", gotData)
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"detail field", 500, `{"detail":"bad file"}`, "bad file"},
		{"error field", 500, `{"error":"summarizer crashed"}`, "summarizer crashed"},
		{"error wins over detail", 400, `{"error":"first","detail":"second"}`, "first"},
		{"empty error falls back to detail", 400, `{"error":"","detail":"second"}`, "second"},
		{"non-string detail", 422, `{"detail":[{"loc":["body","file"],"msg":"field required"}]}`, "HTTP 422: Unprocessable Entity"},
		{"not json", 502, `<html>bad gateway</html>`, "HTTP 502: Bad Gateway"},
		{"empty body", 404, ``, "HTTP 404: Not Found"},
		{"json without fields", 503, `{"status":"down"}`, "HTTP 503: Service Unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer ts.Close()

			resp, err := ts.Client().Get(ts.URL)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.want, ErrorMessage(resp))
		})
	}
}

func TestStatusText(t *testing.T) {
	resp := &http.Response{StatusCode: 418, Status: "418 Short And Stout"}
	assert.Equal(t, "Short And Stout", StatusText(resp))

	resp = &http.Response{StatusCode: 500}
	assert.Equal(t, "Internal Server Error", StatusText(resp))
}

func TestIsSuccess(t *testing.T) {
	assert.True(t, IsSuccess(200))
	assert.True(t, IsSuccess(204))
	assert.False(t, IsSuccess(199))
	assert.False(t, IsSuccess(301))
	assert.False(t, IsSuccess(500))
}
