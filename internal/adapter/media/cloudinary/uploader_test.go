package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func newTestUploader(ts *httptest.Server) *Uploader {
	u := NewUploader("demo-cloud", "key123", "secret456", "avatars", zap.NewNop())
	u.baseURL = ts.URL
	u.client = ts.Client()
	return u
}

func TestUpload_Success(t *testing.T) {
	var gotPath string
	var gotSignature, gotTimestamp, gotFolder string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotSignature = r.FormValue("signature")
		gotTimestamp = r.FormValue("timestamp")
		gotFolder = r.FormValue("folder")
		if r.FormValue("api_key") != "key123" {
			t.Errorf("api_key = %q", r.FormValue("api_key"))
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		file.Close()
		w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/demo-cloud/image/upload/v1/avatars/a.png"}`))
	}))
	defer ts.Close()

	u := newTestUploader(ts)
	url, err := u.Upload(context.Background(), "a.png", []byte("fake-png"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if url != "https://res.cloudinary.com/demo-cloud/image/upload/v1/avatars/a.png" {
		t.Errorf("url = %q", url)
	}
	if gotPath != "/demo-cloud/image/upload" {
		t.Errorf("path = %q", gotPath)
	}
	if gotFolder != "avatars" {
		t.Errorf("folder = %q", gotFolder)
	}

	// The signature must cover the sorted parameters plus the secret.
	payload := "folder=avatars&timestamp=" + gotTimestamp + "secret456"
	sum := sha1.Sum([]byte(payload))
	if want := hex.EncodeToString(sum[:]); gotSignature != want {
		t.Errorf("signature = %q, want %q", gotSignature, want)
	}
}

func TestUpload_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid Signature"}}`))
	}))
	defer ts.Close()

	u := newTestUploader(ts)
	_, err := u.Upload(context.Background(), "a.png", []byte("fake-png"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestUpload_MissingURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	u := newTestUploader(ts)
	_, err := u.Upload(context.Background(), "a.png", []byte("fake-png"))
	if err == nil {
		t.Fatal("expected error for missing secure_url, got nil")
	}
}
