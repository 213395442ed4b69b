package storage

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
)

type fakeDoer struct {
	lastReq *http.Request
	status  int
	body    string
}

func (f *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	f.lastReq = req
	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(f.body)),
	}, nil
}

func TestUploadPlantImage(t *testing.T) {
	client := NewClient("https://store.example.com", "secret-key")
	doer := &fakeDoer{}
	client.SetHTTPClient(doer)

	url, err := client.UploadPlantImage(context.Background(), 3, 9, []byte("fake-bytes"), "PNG")
	if err != nil {
		t.Fatalf("UploadPlantImage returned error: %v", err)
	}

	if !strings.HasPrefix(url, "https://store.example.com/storage/v1/object/public/plant-images/3/plant_9_") {
		t.Fatalf("unexpected public url: %s", url)
	}
	if !strings.HasSuffix(url, ".png") {
		t.Fatalf("expected .png suffix, got %s", url)
	}

	req := doer.lastReq
	if req.Method != http.MethodPost {
		t.Fatalf("expected POST, got %s", req.Method)
	}
	if !strings.Contains(req.URL.Path, "/storage/v1/object/plant-images/3/plant_9_") {
		t.Fatalf("unexpected upload path: %s", req.URL.Path)
	}
	if got := req.Header.Get("Authorization"); got != "Bearer secret-key" {
		t.Fatalf("unexpected authorization header: %s", got)
	}
	if got := req.Header.Get("Content-Type"); got != "image/png" {
		t.Fatalf("unexpected content type: %s", got)
	}
}

func TestUploadNotConfigured(t *testing.T) {
	client := NewClient("", "")
	if _, err := client.UploadAvatar(context.Background(), 1, []byte("x"), "jpg"); err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestUploadServerError(t *testing.T) {
	client := NewClient("https://store.example.com", "secret-key")
	client.SetHTTPClient(&fakeDoer{status: http.StatusForbidden, body: "bucket permission denied"})

	_, err := client.UploadDiagnosisImage(context.Background(), 1, []byte("x"), "jpg")
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
	if !strings.Contains(err.Error(), "diagnosis-images") {
		t.Fatalf("expected bucket name in error, got: %v", err)
	}
}

func TestContentTypeForExt(t *testing.T) {
	cases := map[string]string{
		"jpg":   "image/jpeg",
		".JPEG": "image/jpeg",
		"png":   "image/png",
		"webp":  "image/webp",
		"":      "image/jpeg",
	}
	for ext, want := range cases {
		if got := ContentTypeForExt(ext); got != want {
			t.Fatalf("ContentTypeForExt(%q) = %q, want %q", ext, got, want)
		}
	}
}
