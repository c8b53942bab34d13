package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerbridge/careerbridge/backend/go-services/internal/upload"
)

type fakeBlobStore struct {
	objects  map[string][]byte
	failWith error
}

func (f *fakeBlobStore) UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if f.failWith != nil {
		return f.failWith
	}
	b, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = b
	return nil
}

func (f *fakeBlobStore) GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "https://blobs.test/" + key, nil
}

func multipartBody(t *testing.T, field, filename, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func newUploadRouter(store *fakeBlobStore) *gin.Engine {
	g := gin.New()
	RegisterUploadRoutes(g, upload.NewService(store), nil)
	return g
}

func TestUpload_ResumePDFAccepted(t *testing.T) {
	store := &fakeBlobStore{}
	g := newUploadRouter(store)

	body, ct := multipartBody(t, "file", "cv.pdf", "application/pdf", bytes.Repeat([]byte("a"), 2*1024*1024))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", ct)
	g.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "file", resp["field"])
	assert.Contains(t, resp["url"], "https://blobs.test/file/")
	require.Len(t, store.objects, 1)
}

func TestUpload_ResumePNGRejected(t *testing.T) {
	store := &fakeBlobStore{}
	g := newUploadRouter(store)

	body, ct := multipartBody(t, "file", "cv.png", "image/png", bytes.Repeat([]byte("a"), 1024*1024))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", ct)
	g.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Only PDF files are allowed for resumes", resp["message"])
	assert.Empty(t, store.objects, "rejected upload must not reach storage")
}

func TestUpload_PhotoMustBeImage(t *testing.T) {
	store := &fakeBlobStore{}
	g := newUploadRouter(store)

	body, ct := multipartBody(t, "profilePhoto", "me.pdf", "application/pdf", []byte("pdf"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", ct)
	g.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Only image files are allowed for profile photos", resp["message"])
}

func TestUpload_UnexpectedFieldRejected(t *testing.T) {
	store := &fakeBlobStore{}
	g := newUploadRouter(store)

	body, ct := multipartBody(t, "coverLetter", "letter.pdf", "application/pdf", []byte("pdf"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", ct)
	g.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, store.objects)
}

func TestUpload_OversizedRejected(t *testing.T) {
	store := &fakeBlobStore{}
	g := newUploadRouter(store)

	body, ct := multipartBody(t, "profilePhoto", "huge.png", "image/png", make([]byte, upload.MaxBytes+1))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", ct)
	g.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Empty(t, store.objects, "oversized upload must not leave a partial write")
}

func TestUpload_NoFilePart(t *testing.T) {
	store := &fakeBlobStore{}
	g := newUploadRouter(store)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("note", "hello"))
	require.NoError(t, w.Close())

	rw := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	g.ServeHTTP(rw, req)

	assert.Equal(t, http.StatusBadRequest, rw.Code)
}

func TestUpload_StorageFailureHidesDetail(t *testing.T) {
	store := &fakeBlobStore{failWith: errors.New("minio: connection refused")}
	g := newUploadRouter(store)

	body, ct := multipartBody(t, "file", "cv.pdf", "application/pdf", bytes.Repeat([]byte("a"), 1024))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", ct)
	g.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Upload failed", resp["message"])
	assert.NotContains(t, w.Body.String(), "connection refused")
}
