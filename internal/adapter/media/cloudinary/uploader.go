// Package cloudinary uploads assistant avatars to the Cloudinary image API
// using signed uploads.
package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vaani-ai/vaani/internal/ports"
)

const defaultBaseURL = "https://api.cloudinary.com/v1_1"

type Uploader struct {
	baseURL   string
	cloudName string
	apiKey    string
	apiSecret string
	folder    string
	client    *http.Client
	log       *zap.Logger
}

var _ ports.MediaUploader = (*Uploader)(nil)

func NewUploader(cloudName, apiKey, apiSecret, folder string, log *zap.Logger) *Uploader {
	return &Uploader{
		baseURL:   defaultBaseURL,
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		folder:    folder,
		client:    &http.Client{Timeout: 30 * time.Second},
		log:       log,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload pushes an image and returns its hosted HTTPS URL.
func (u *Uploader) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	params := map[string]string{"timestamp": timestamp}
	if u.folder != "" {
		params["folder"] = u.folder
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("cloudinary: build form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("cloudinary: write file: %w", err)
	}
	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return "", fmt.Errorf("cloudinary: write field: %w", err)
		}
	}
	if err := writer.WriteField("api_key", u.apiKey); err != nil {
		return "", fmt.Errorf("cloudinary: write field: %w", err)
	}
	if err := writer.WriteField("signature", u.sign(params)); err != nil {
		return "", fmt.Errorf("cloudinary: write field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("cloudinary: close form: %w", err)
	}

	url := fmt.Sprintf("%s/%s/image/upload", u.baseURL, u.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("cloudinary: build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloudinary: upload: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("cloudinary: read response: %w", err)
	}

	var parsed uploadResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("cloudinary: decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error.Message != "" {
			return "", fmt.Errorf("cloudinary: %s", parsed.Error.Message)
		}
		return "", fmt.Errorf("cloudinary: status %d", resp.StatusCode)
	}
	if parsed.SecureURL == "" {
		return "", fmt.Errorf("cloudinary: response missing secure_url")
	}

	u.log.Info("image uploaded", zap.String("filename", filename))
	return parsed.SecureURL, nil
}

// sign builds the request signature: the sorted parameters joined as a query
// string, with the API secret appended, hashed with SHA-1.
func (u *Uploader) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	payload := strings.Join(pairs, "&") + u.apiSecret

	sum := sha1.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}
