// Package fetch downloads published datasets into a local cache, verifying
// SHA-256 checksums, and unpacks archive files. A cached file is reused on
// subsequent calls without touching the network.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/plate-kinematics-etl/internal/observability"
)

// ErrChecksumMismatch is returned when a downloaded file's SHA-256 digest
// does not match the expected value.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// Fetcher retrieves remote files into a cache directory.
type Fetcher struct {
	cacheDir   string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates a Fetcher caching into cacheDir.
func New(cacheDir string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Fetcher {
	return &Fetcher{
		cacheDir: cacheDir,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// Spec identifies a remote file by URL and expected SHA-256 digest (hex).
type Spec struct {
	URL    string
	SHA256 string
}

// Retrieve returns the local path of the file at spec.URL, downloading it
// into the cache if needed. A cached file whose digest no longer matches is
// re-downloaded once; a digest mismatch on the fresh download fails the fetch.
func (f *Fetcher) Retrieve(ctx context.Context, spec Spec) (string, error) {
	if spec.URL == "" {
		return "", errors.New("fetch: empty URL")
	}
	if spec.SHA256 == "" {
		return "", errors.New("fetch: missing expected SHA-256 digest")
	}

	dest := filepath.Join(f.cacheDir, cacheFileName(spec.URL))

	if sum, err := fileSHA256(dest); err == nil {
		if sum == spec.SHA256 {
			f.metrics.FetchCacheHits.Inc()
			return dest, nil
		}
		f.logger.Warn("cached file digest stale, re-downloading", "path", dest, "url", spec.URL)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("fetch: inspect cached file: %w", err)
	}

	if err := f.download(ctx, spec, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// download fetches spec.URL into dest, verifying the digest before the file
// becomes visible in the cache (temp file + rename).
func (f *Fetcher) download(ctx context.Context, spec Spec, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("fetch: create cache dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, spec.URL, nil)
	if err != nil {
		return fmt.Errorf("fetch: create request: %w", err)
	}

	f.logger.Info("downloading dataset", "url", spec.URL)
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", spec.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fetch %s: status %d: %s", spec.URL, resp.StatusCode, body)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return fmt.Errorf("fetch: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	hasher := sha256.New()
	n, err := io.Copy(io.MultiWriter(tmp, hasher), resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("fetch %s: write body: %w", spec.URL, err)
	}

	sum := hex.EncodeToString(hasher.Sum(nil))
	if !strings.EqualFold(sum, spec.SHA256) {
		f.metrics.ChecksumFailures.Inc()
		return fmt.Errorf("fetch %s: %w: got %s want %s", spec.URL, ErrChecksumMismatch, sum, spec.SHA256)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("fetch: move into cache: %w", err)
	}

	f.metrics.FetchDownloads.Inc()
	f.metrics.FetchBytes.Add(float64(n))
	f.logger.Info("dataset cached", "url", spec.URL, "path", dest, "bytes", n)
	return nil
}

// PrefetchAll warms the cache for all specs with bounded concurrency.
func (f *Fetcher) PrefetchAll(ctx context.Context, specs ...Spec) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, spec := range specs {
		g.Go(func() error {
			_, err := f.Retrieve(ctx, spec)
			return err
		})
	}
	return g.Wait()
}

// cacheFileName builds a collision-free cache name: a short hash of the full
// URL prefixed to the URL's base name, so distinct URLs sharing a base name
// do not clobber each other.
func cacheFileName(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	base := path.Base(rawURL)
	if base == "." || base == "/" {
		base = "download"
	}
	return hex.EncodeToString(sum[:8]) + "-" + base
}

// fileSHA256 returns the hex digest of the file at p.
func fileSHA256(p string) (string, error) {
	file, err := os.Open(p)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
