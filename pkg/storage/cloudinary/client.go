package cloudinary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/buahsegar/storefront-backend/pkg/config"
	pkgerrors "github.com/buahsegar/storefront-backend/pkg/errors"
	"github.com/buahsegar/storefront-backend/pkg/logger"
)

const (
	uploadEndpointFmt = "https://api.cloudinary.com/v1_1/%s/image/upload"
	requestTimeout    = 30 * time.Second
)

var (
	errCloudNameRequired = errors.New("cloudinary cloud name is required")
	errPresetRequired    = errors.New("cloudinary upload preset is required")
	errLoggerRequired    = errors.New("cloudinary logger is required")
)

// Client uploads product images to the asset host using unsigned presets.
type Client struct {
	httpClient   *http.Client
	uploadURL    string
	uploadPreset string
	logger       *logger.Logger
}

// UploadResult carries the hosted image reference.
type UploadResult struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// NewClient validates the unsigned-upload settings.
func NewClient(ctx context.Context, cfg config.CloudinaryConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	cloudName := strings.TrimSpace(cfg.CloudName)
	if cloudName == "" {
		return nil, errCloudNameRequired
	}
	preset := strings.TrimSpace(cfg.UploadPreset)
	if preset == "" {
		return nil, errPresetRequired
	}

	c := &Client{
		httpClient:   &http.Client{Timeout: requestTimeout},
		uploadURL:    fmt.Sprintf(uploadEndpointFmt, cloudName),
		uploadPreset: preset,
		logger:       logg,
	}

	logg.Info(ctx, "cloudinary client initialized")
	return c, nil
}

// Upload posts the file as multipart form data and returns the secure URL.
// Asset host failures map to DEPENDENCY_ERROR.
func (c *Client) Upload(ctx context.Context, filename string, file io.Reader) (*UploadResult, error) {
	if file == nil {
		return nil, fmt.Errorf("file reader is required")
	}
	if strings.TrimSpace(filename) == "" {
		filename = "upload"
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copying file contents: %w", err)
	}
	if err := writer.WriteField("upload_preset", c.uploadPreset); err != nil {
		return nil, fmt.Errorf("writing upload preset field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "asset host unreachable")
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && c.logger != nil {
			c.logger.Warn(ctx, "closing asset host response body failed")
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("asset host returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding asset host response")
	}
	if result.SecureURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "asset host response missing secure_url")
	}

	return &result, nil
}
