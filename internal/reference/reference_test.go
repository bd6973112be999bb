package reference

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDownloadsAndCaches(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte("OggS fake audio"))
	}))
	defer srv.Close()

	m := NewManager(filepath.Join(t.TempDir(), "reference_audio"))
	ctx := context.Background()

	path, err := m.Ensure(ctx, "moien", srv.URL+"/moien.ogg")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read cached file: %v", err)
	}
	if string(data) != "OggS fake audio" {
		t.Fatalf("cached content = %q", data)
	}
	if !m.Cached("moien") {
		t.Fatalf("expected moien to be cached")
	}

	// Second call serves from cache.
	if _, err := m.Ensure(ctx, "moien", srv.URL+"/moien.ogg"); err != nil {
		t.Fatalf("ensure cached: %v", err)
	}
	if hits != 1 {
		t.Fatalf("downloads = %d, want 1", hits)
	}
}

func TestEnsureRejectsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	m := NewManager(t.TempDir())
	if _, err := m.Ensure(context.Background(), "addi", srv.URL+"/addi.ogg"); err == nil {
		t.Fatalf("expected error on 404")
	}
	if m.Cached("addi") {
		t.Fatalf("failed download must not leave a cache entry")
	}
}

func TestEnsureLocalFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "merci.ogg")
	if err := os.WriteFile(src, []byte("local audio"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	m := NewManager(filepath.Join(t.TempDir(), "cache"))
	path, err := m.Ensure(context.Background(), "merci", src)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read cache: %v", err)
	}
	if string(data) != "local audio" {
		t.Fatalf("cached content = %q", data)
	}
}

func TestPathNormalizesWord(t *testing.T) {
	m := NewManager("/cache")
	if got := m.Path("Wann Ech Glift"); got != filepath.Join("/cache", "wann_ech_glift.ogg") {
		t.Fatalf("path = %q", got)
	}
}

func TestEnsureMissingURL(t *testing.T) {
	m := NewManager(t.TempDir())
	if _, err := m.Ensure(context.Background(), "neen", ""); err == nil {
		t.Fatalf("expected error for missing reference url")
	}
}
