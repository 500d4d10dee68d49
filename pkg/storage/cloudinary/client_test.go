package cloudinary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/buahsegar/storefront-backend/pkg/config"
	pkgerrors "github.com/buahsegar/storefront-backend/pkg/errors"
	"github.com/buahsegar/storefront-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: os.Stderr})
}

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client, err := NewClient(context.Background(), config.CloudinaryConfig{
		CloudName:    "buahsegar",
		UploadPreset: "storefront",
	}, testLogger())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	client.uploadURL = serverURL + "/image/upload"
	return client
}

func TestUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("upload_preset"); got != "storefront" {
			t.Errorf("unexpected upload preset %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
		} else {
			defer file.Close()
			if header.Filename != "mangga.jpg" {
				t.Errorf("unexpected filename %q", header.Filename)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"secure_url":"https://res.example/buahsegar/mangga.jpg","public_id":"mangga"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	result, err := client.Upload(context.Background(), "mangga.jpg", strings.NewReader("fake-image-bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if result.SecureURL != "https://res.example/buahsegar/mangga.jpg" {
		t.Fatalf("unexpected secure url %q", result.SecureURL)
	}
}

func TestUploadAssetHostError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Upload preset not found"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Upload(context.Background(), "mangga.jpg", strings.NewReader("fake"))
	if err == nil {
		t.Fatal("expected error from asset host")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected DEPENDENCY_ERROR, got %v", err)
	}
}

func TestNewClientValidation(t *testing.T) {
	ctx := context.Background()
	logg := testLogger()

	if _, err := NewClient(ctx, config.CloudinaryConfig{UploadPreset: "p"}, logg); err == nil {
		t.Fatal("expected missing cloud name error")
	}
	if _, err := NewClient(ctx, config.CloudinaryConfig{CloudName: "c"}, logg); err == nil {
		t.Fatal("expected missing preset error")
	}
	if _, err := NewClient(ctx, config.CloudinaryConfig{CloudName: "c", UploadPreset: "p"}, nil); err == nil {
		t.Fatal("expected missing logger error")
	}
}
