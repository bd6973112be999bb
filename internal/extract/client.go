package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/lmersch/sprooch/internal/model"
)

// Client calls an external phonetics-analyzer service over HTTP. The service
// measures pitch, formants, intensity, duration, and voice quality from a
// recording and returns them zero-filled where undetectable.
type Client struct {
	baseURL string
	c       *http.Client
}

// NewClient builds a client for the analyzer at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		c:       &http.Client{Timeout: 60 * time.Second},
	}
}

// Extract uploads the audio file and decodes the measured feature set.
func (c *Client) Extract(ctx context.Context, audioPath string) (model.FeatureSet, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return model.FeatureSet{}, err
	}
	fd, err := os.Open(audioPath)
	if err != nil {
		return model.FeatureSet{}, err
	}
	defer func() {
		if cerr := fd.Close(); cerr != nil {
			// Best-effort close for read-only audio file.
			_ = cerr
		}
	}()
	if _, err = io.Copy(fw, fd); err != nil {
		return model.FeatureSet{}, err
	}
	if err = w.Close(); err != nil {
		return model.FeatureSet{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", &b)
	if err != nil {
		return model.FeatureSet{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.c.Do(req)
	if err != nil {
		return model.FeatureSet{}, fmt.Errorf("analyzer request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return model.FeatureSet{}, fmt.Errorf("analyzer %s: %s", resp.Status, string(body))
	}

	var out model.FeatureSet
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return model.FeatureSet{}, fmt.Errorf("analyzer decode: %w", err)
	}
	return out, nil
}
