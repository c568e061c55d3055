// Package netsource serves template bodies over HTTP with a persistent
// on-disk cache revalidated via ETag and Last-Modified headers.
package netsource

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/neurodesk/layout/pkg/layout"
)

// Source fetches template bodies from Base+name. It implements
// layout.Source. A 404 maps to layout.TemplateNotFoundError; on network
// errors a previously cached body is reused best-effort.
type Source struct {
	Base   string // base URL the template name is joined to
	Dir    string // cache directory
	Client *http.Client
}

// New returns a Source with a reasonable default HTTP client.
func New(base, dir string) *Source {
	return &Source{
		Base: base,
		Dir:  dir,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type meta struct {
	URL          string `json:"url"`
	ETag         string `json:"etag,omitempty"`
	LastModified string `json:"last_modified,omitempty"`
	// DataFile is the basename of the cached body file
	DataFile string `json:"data_file"`
}

func (s *Source) Load(ctx context.Context, name string) (string, error) {
	u, err := url.JoinPath(s.Base, name)
	if err != nil {
		return "", fmt.Errorf("joining template url for %s: %w", name, err)
	}
	key := hash(u)
	mpath := filepath.Join(s.Dir, key+".json")

	var m meta
	var haveMeta bool
	if b, err := os.ReadFile(mpath); err == nil {
		_ = json.Unmarshal(b, &m)
		if m.URL == u && m.DataFile != "" {
			if _, err := os.Stat(filepath.Join(s.Dir, m.DataFile)); err == nil {
				haveMeta = true
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	if haveMeta {
		if m.ETag != "" {
			req.Header.Set("If-None-Match", m.ETag)
		}
		if m.LastModified != "" {
			req.Header.Set("If-Modified-Since", m.LastModified)
		}
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		// Network failure: reuse the cached body best-effort.
		if haveMeta {
			return s.cached(m)
		}
		return "", fmt.Errorf("fetching template %s: %w", name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified && haveMeta:
		return s.cached(m)
	case resp.StatusCode == http.StatusNotFound:
		return "", layout.TemplateNotFoundError{Name: name}
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("reading template %s: %w", name, err)
		}
		dataFile := key + ".data"
		if err := writeFile(filepath.Join(s.Dir, dataFile), body); err != nil {
			return "", err
		}
		nm := meta{
			URL:          u,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
			DataFile:     dataFile,
		}
		if err := writeMeta(mpath, nm); err != nil {
			return "", err
		}
		return string(body), nil
	default:
		return "", fmt.Errorf("fetching template %s: HTTP %d", name, resp.StatusCode)
	}
}

func (s *Source) Exists(ctx context.Context, name string) bool {
	_, err := s.Load(ctx, name)
	if err == nil {
		return true
	}
	var nf layout.TemplateNotFoundError
	if errors.As(err, &nf) {
		return false
	}
	// Transient failures are indistinguishable here; report absent.
	return false
}

func (s *Source) cached(m meta) (string, error) {
	b, err := os.ReadFile(filepath.Join(s.Dir, m.DataFile))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func writeFile(dst string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}

func writeMeta(path string, m meta) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return writeFile(path, b)
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
