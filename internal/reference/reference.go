// Package reference downloads and caches reference pronunciations.
package reference

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Manager resolves reference audio files in a local cache directory.
type Manager struct {
	dir    string
	client *http.Client
}

// NewManager creates a manager caching into dir.
func NewManager(dir string) *Manager {
	return &Manager{
		dir:    dir,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Path returns the cache location for a word's reference audio.
func (m *Manager) Path(word string) string {
	name := strings.ToLower(strings.ReplaceAll(word, " ", "_")) + ".ogg"
	return filepath.Join(m.dir, name)
}

// Cached reports whether the reference audio is already downloaded.
func (m *Manager) Cached(word string) bool {
	_, err := os.Stat(m.Path(word))
	return err == nil
}

// Ensure returns the local path for a word's reference audio, downloading it
// from url when not cached yet.
func (m *Manager) Ensure(ctx context.Context, word, url string) (string, error) {
	path := m.Path(word)
	if m.Cached(word) {
		return path, nil
	}
	if url == "" {
		return "", fmt.Errorf("no reference audio configured for %q", word)
	}

	// Local file references are copied into the cache, remote ones fetched.
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return path, m.copyLocal(url, path)
	}
	return path, m.download(ctx, url, path)
}

func (m *Manager) download(ctx context.Context, url, path string) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create reference cache dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build reference request: %w", err)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download reference audio: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected reference download status: %s", resp.Status)
	}

	tmp := path + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create reference file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write reference file: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to close reference file: %w", err)
	}
	return os.Rename(tmp, path)
}

func (m *Manager) copyLocal(src, path string) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create reference cache dir: %w", err)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read local reference: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to cache local reference: %w", err)
	}
	return nil
}
