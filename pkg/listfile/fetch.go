package listfile

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
)

// DefaultURL is the community listfile release.
const DefaultURL = "https://github.com/wowdev/wow-listfile/releases/latest/download/community-listfile.csv"

// DefaultMaxAge is how long a downloaded listfile stays fresh.
const DefaultMaxAge = 6 * time.Hour

// Fetcher downloads the listfile when the local copy is missing or stale.
type Fetcher struct {
	URL    string
	Path   string
	MaxAge time.Duration
	Client *http.Client

	now func() time.Time
}

// NeedsDownload reports whether the local copy is missing or older than MaxAge.
func (f *Fetcher) NeedsDownload() bool {
	info, err := os.Stat(f.Path)
	if err != nil {
		return true
	}
	now := time.Now
	if f.now != nil {
		now = f.now
	}
	return now().Sub(info.ModTime()) >= f.MaxAge
}

// Fetch downloads the listfile if needed. It returns true when a new copy
// was written.
func (f *Fetcher) Fetch(ctx context.Context) (bool, error) {
	if !f.NeedsDownload() {
		return false, nil
	}
	if err := f.Download(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Download fetches the listfile unconditionally. The file is written to a
// temporary name and renamed into place, compressed with zstd when Path
// ends in ".zst".
func (f *Fetcher) Download(ctx context.Context) error {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("downloading listfile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading listfile: unexpected status %s", resp.Status)
	}

	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := writeBody(tmp, resp.Body, isCompressed(f.Path)); err != nil {
		tmp.Close()
		return fmt.Errorf("writing listfile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), f.Path)
}

func writeBody(w io.Writer, body io.Reader, compress bool) error {
	if !compress {
		_, err := io.Copy(w, body)
		return err
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return err
	}
	if _, err := io.Copy(enc, body); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
