package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const imgBBUploadURL = "https://api.imgbb.com/1/upload"

// ImageUploader pushes image bytes to an external hosting collaborator and
// returns the public URL. The request fails as a whole if the upload does.
type ImageUploader interface {
	Upload(ctx context.Context, data []byte) (string, error)
}

// ImgBBClient uploads images to the ImgBB hosting API.
type ImgBBClient struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

// NewImgBBClient creates an ImgBBClient with the given API key.
func NewImgBBClient(apiKey string) *ImgBBClient {
	return &ImgBBClient{
		apiKey:     apiKey,
		apiURL:     imgBBUploadURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type imgBBResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
}

// Upload sends the image as a base64 form field and returns the hosted URL.
func (c *ImgBBClient) Upload(ctx context.Context, data []byte) (string, error) {
	form := url.Values{}
	form.Set("key", c.apiKey)
	form.Set("image", base64.StdEncoding.EncodeToString(data))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build imgbb request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("imgbb upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("imgbb upload failed with status %d", resp.StatusCode)
	}

	var parsed imgBBResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode imgbb response: %w", err)
	}
	if !parsed.Success || parsed.Data.URL == "" {
		return "", fmt.Errorf("imgbb upload was not successful")
	}
	return parsed.Data.URL, nil
}
