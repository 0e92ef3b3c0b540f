package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type stubStorage struct {
	key         string
	contentType string
	payload     []byte
}

func (s *stubStorage) Save(_ context.Context, name, contentType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.key = name
	s.contentType = contentType
	s.payload = data
	return "https://media.example.com/" + name, nil
}

func multipartUpload(t *testing.T, filename, contentType, body string) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	header["Content-Type"] = []string{contentType}

	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := io.Copy(part, strings.NewReader(body)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	return buf, writer.FormDataContentType()
}

func TestMediaHandlerUpload(t *testing.T) {
	storage := &stubStorage{}
	handler := MediaHandler{Storage: storage}

	body, contentType := multipartUpload(t, "clip.mp4", "video/mp4", "fake video bytes")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/media", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Upload(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	if !strings.HasPrefix(storage.key, "media/") || !strings.HasSuffix(storage.key, ".mp4") {
		t.Fatalf("unexpected storage key %q", storage.key)
	}
	if storage.contentType != "video/mp4" {
		t.Fatalf("expected content type to pass through, got %q", storage.contentType)
	}
	if string(storage.payload) != "fake video bytes" {
		t.Fatalf("unexpected stored payload %q", storage.payload)
	}

	var resp map[string]string
	decodeBody(t, rec, &resp)
	if !strings.HasPrefix(resp["url"], "https://media.example.com/media/") {
		t.Fatalf("unexpected media url %q", resp["url"])
	}
}

func TestMediaHandlerUploadWithoutStorage(t *testing.T) {
	handler := MediaHandler{}

	body, contentType := multipartUpload(t, "avatar.png", "image/png", "png bytes")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/media", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Upload(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d got %d", http.StatusServiceUnavailable, rec.Code)
	}
}

func TestMediaHandlerUploadMissingFile(t *testing.T) {
	handler := MediaHandler{Storage: &stubStorage{}}

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	_ = writer.WriteField("note", "no file here")
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/media", buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	handler.Upload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}
