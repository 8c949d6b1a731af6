package artifact

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumableUpload_RoundTrip(t *testing.T) {
	payload := []byte("CONSULTANT CV\nName: Alice\n")

	var gotInitiate, gotFinalize *http.Request
	var uploadedBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/upload/v1beta/files":
			gotInitiate = r.Clone(context.Background())
			w.Header().Set("X-Goog-Upload-URL", "http://"+r.Host+"/upload/session/xyz")
			w.WriteHeader(http.StatusOK)
		case "/upload/session/xyz":
			gotFinalize = r.Clone(context.Background())
			uploadedBody, _ = io.ReadAll(r.Body)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"file": {"name": "files/xyz", "uri": "https://provider/files/xyz"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	uploader := NewResumableUploader(srv.URL, "test-key", 5*time.Second)
	ref, err := uploader.Upload(context.Background(), "consultant-7-cv", "text/plain", payload)

	require.NoError(t, err)
	assert.Equal(t, "https://provider/files/xyz", ref)

	require.NotNil(t, gotInitiate)
	assert.Equal(t, "resumable", gotInitiate.Header.Get("X-Goog-Upload-Protocol"))
	assert.Equal(t, "start", gotInitiate.Header.Get("X-Goog-Upload-Command"))
	assert.Equal(t, strconv.Itoa(len(payload)), gotInitiate.Header.Get("X-Goog-Upload-Header-Content-Length"))
	assert.Equal(t, "text/plain", gotInitiate.Header.Get("X-Goog-Upload-Header-Content-Type"))
	assert.Equal(t, "test-key", gotInitiate.URL.Query().Get("key"))

	require.NotNil(t, gotFinalize)
	assert.Equal(t, "upload, finalize", gotFinalize.Header.Get("X-Goog-Upload-Command"))
	assert.Equal(t, payload, uploadedBody)
}

func TestResumableUpload_FallsBackToFileName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/upload/v1beta/files" {
			w.Header().Set("X-Goog-Upload-URL", "http://"+r.Host+"/upload/session/abc")
			return
		}
		_, _ = w.Write([]byte(`{"file": {"name": "files/abc"}}`))
	}))
	defer srv.Close()

	uploader := NewResumableUploader(srv.URL, "k", 5*time.Second)
	ref, err := uploader.Upload(context.Background(), "n", "text/plain", []byte("x"))

	require.NoError(t, err)
	assert.Equal(t, "files/abc", ref)
}

func TestResumableUpload_InitiateFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	uploader := NewResumableUploader(srv.URL, "k", 5*time.Second)
	_, err := uploader.Upload(context.Background(), "n", "text/plain", []byte("x"))

	assert.Error(t, err)
}

func TestResumableUpload_MissingUploadTarget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	uploader := NewResumableUploader(srv.URL, "k", 5*time.Second)
	_, err := uploader.Upload(context.Background(), "n", "text/plain", []byte("x"))

	assert.ErrorContains(t, err, "no upload target")
}

func TestResumableUpload_MissingFileReference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/upload/v1beta/files" {
			w.Header().Set("X-Goog-Upload-URL", "http://"+r.Host+"/upload/session/abc")
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	uploader := NewResumableUploader(srv.URL, "k", 5*time.Second)
	_, err := uploader.Upload(context.Background(), "n", "text/plain", []byte("x"))

	assert.ErrorContains(t, err, "no file reference")
}
