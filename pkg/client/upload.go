package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
)

var ErrUploadNotConfigured = errors.New("image upload is not configured")

const cloudinaryBaseURL = "https://api.cloudinary.com/v1_1/"

// UploadClient posts images straight to the CDN using an unsigned preset.
type UploadClient struct {
	httpClient   *HttpClient
	baseURL      string
	cloudName    string
	uploadPreset string
}

func NewUploadClient(httpClient *HttpClient, cloudName, uploadPreset string) *UploadClient {
	return &UploadClient{
		httpClient:   httpClient,
		baseURL:      cloudinaryBaseURL,
		cloudName:    cloudName,
		uploadPreset: uploadPreset,
	}
}

// WithBaseURL points the client at another CDN host.
func (c *UploadClient) WithBaseURL(baseURL string) *UploadClient {
	c.baseURL = baseURL
	return c
}

func (c *UploadClient) Configured() bool {
	return c.cloudName != "" && c.uploadPreset != ""
}

// Image uploads one image and returns its hosted URL.
func (c *UploadClient) Image(ctx context.Context, filename string, content io.Reader) (string, error) {
	if !c.Configured() {
		return "", ErrUploadNotConfigured
	}

	endpoint := c.baseURL + url.PathEscape(c.cloudName) + "/image/upload"
	fields := map[string]string{"upload_preset": c.uploadPreset}
	file := File{Field: "file", Name: filename, Content: content}

	// the CDN must not see the API bearer token
	resp, err := c.httpClient.Multipart(WithoutToken(ctx), endpoint, fields, file)
	var out struct {
		SecureURL string `json:"secure_url"`
	}
	if err := decode(resp, err, &out); err != nil {
		return "", err
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("upload response carries no secure_url")
	}
	return out.SecureURL, nil
}
