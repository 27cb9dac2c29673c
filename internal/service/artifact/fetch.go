package artifact

import (
	"bytes"
	"context"
	"crypto/sha1" //nolint:gosec // Mojang publishes SHA-1 checksums for server jars.
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/oshokin/mc-bootstrap/internal/domain/setup"
	"github.com/oshokin/mc-bootstrap/internal/logger"
	"github.com/oshokin/mc-bootstrap/internal/version"
)

const (
	// DefaultFileMode is the mode of the installed artifact.
	DefaultFileMode os.FileMode = 0o644

	// DefaultDirMode is used when the destination directory has to be created.
	DefaultDirMode os.FileMode = 0o755

	// partSuffix marks the in-progress download next to the destination.
	partSuffix = ".part"
)

var (
	errBadHTTPStatus  = errors.New("unexpected http status")
	errEmptyURL       = errors.New("download URL is empty")
	errEmptyTarget    = errors.New("destination path is empty")
	errBadChecksumHex = errors.New("checksum is not valid hex")
)

// Request describes one download.
type Request struct {
	// URL is the source of the artifact.
	URL string
	// Destination is the final local path; it is replaced only after a complete download.
	Destination string
	// SHA1 is the expected hex checksum; empty disables verification.
	SHA1 string
	// Size is the expected size used for progress reporting; 0 if unknown.
	Size int64
}

// Fetcher downloads artifacts over HTTP.
type Fetcher struct {
	client *http.Client
}

// NewFetcher returns a fetcher whose requests time out after timeout (0 disables the limit).
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// NewFetcherWithClient returns a fetcher using client.
func NewFetcherWithClient(client *http.Client) *Fetcher {
	return &Fetcher{client: client}
}

// readError marks failures that come from the response body rather than the disk.
type readError struct {
	err error
}

func (e *readError) Error() string { return e.err.Error() }
func (e *readError) Unwrap() error { return e.err }

// bodyReader tags read errors so io.Copy failures can be classified.
type bodyReader struct {
	r io.Reader
}

func (b bodyReader) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, &readError{err: err}
	}

	return n, err //nolint:wrapcheck // io.EOF must be returned unwrapped.
}

// Fetch downloads req.URL to req.Destination and returns the number of bytes written.
// Network failures wrap setup.ErrNetwork, local failures wrap setup.ErrFilesystem.
// On failure the destination is left as it was.
func (f *Fetcher) Fetch(ctx context.Context, req *Request) (int64, error) {
	if req.URL == "" {
		return 0, errEmptyURL
	}

	if req.Destination == "" {
		return 0, errEmptyTarget
	}

	var expected []byte

	if req.SHA1 != "" {
		var err error

		expected, err = hex.DecodeString(strings.TrimSpace(req.SHA1))
		if err != nil {
			return 0, fmt.Errorf("%q: %w", req.SHA1, errBadChecksumHex)
		}
	}

	destination := filepath.Clean(req.Destination)
	if err := os.MkdirAll(filepath.Dir(destination), DefaultDirMode); err != nil {
		return 0, fmt.Errorf("%w: create directory: %w", setup.ErrFilesystem, err)
	}

	response, err := f.get(ctx, req.URL)
	if response != nil {
		defer func() {
			_ = response.Body.Close()
		}()
	}

	if err != nil {
		return 0, err
	}

	size := req.Size
	if size <= 0 {
		size = response.ContentLength
	}

	partPath := destination + partSuffix

	written, checksum, err := download(ctx, response.Body, partPath, filepath.Base(destination), size)
	if err != nil {
		_ = os.Remove(partPath)

		return written, err
	}

	defer func() {
		_ = os.Remove(partPath)
	}()

	if expected != nil && !bytes.Equal(expected, checksum) {
		return written, fmt.Errorf("%s: expected %x, got %x: %w",
			req.URL, expected, checksum, setup.ErrChecksumMismatch)
	}

	if err = install(partPath, destination); err != nil {
		return written, err
	}

	logger.InfoKV(ctx, "Artifact downloaded", "path", destination, "bytes", written, "sha1", hex.EncodeToString(checksum))

	return written, nil
}

// get issues the GET request and checks the status.
func (f *Fetcher) get(ctx context.Context, url string) (*http.Response, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", setup.ErrNetwork, err)
	}

	request.Header.Set("User-Agent", version.UserAgent())

	response, err := f.client.Do(request)
	if err != nil {
		return response, fmt.Errorf("%w: %w", setup.ErrNetwork, err)
	}

	if response.StatusCode != http.StatusOK {
		return response, fmt.Errorf("%w: %s, %s: %w", setup.ErrNetwork, url, response.Status, errBadHTTPStatus)
	}

	return response, nil
}

// download streams body into partPath and returns the byte count and SHA-1.
func download(ctx context.Context, body io.Reader, partPath, name string, size int64) (int64, []byte, error) {
	part, err := os.OpenFile(filepath.Clean(partPath), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, DefaultFileMode)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: create %s: %w", setup.ErrFilesystem, partPath, err)
	}

	hasher := sha1.New() //nolint:gosec // See import.
	sink := io.MultiWriter(part, hasher, newProgressWriter(ctx, name, size))

	written, err := io.Copy(sink, bodyReader{r: body})
	if err != nil {
		_ = part.Close()

		var re *readError
		if errors.As(err, &re) {
			return written, nil, fmt.Errorf("%w: read body: %w", setup.ErrNetwork, re.err)
		}

		return written, nil, fmt.Errorf("%w: write %s: %w", setup.ErrFilesystem, partPath, err)
	}

	if err = part.Sync(); err != nil {
		_ = part.Close()

		return written, nil, fmt.Errorf("%w: sync %s: %w", setup.ErrFilesystem, partPath, err)
	}

	if err = part.Close(); err != nil {
		return written, nil, fmt.Errorf("%w: close %s: %w", setup.ErrFilesystem, partPath, err)
	}

	return written, hasher.Sum(nil), nil
}

// install swaps the verified download into place with go-update.
// go-update renames the current target aside, so a placeholder is created for a
// first install and removed again if the swap fails.
func install(partPath, destination string) error {
	part, err := os.Open(filepath.Clean(partPath))
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", setup.ErrFilesystem, partPath, err)
	}

	defer func() {
		_ = part.Close()
	}()

	createdPlaceholder := false

	if _, err = os.Stat(destination); errors.Is(err, os.ErrNotExist) {
		placeholder, createErr := os.OpenFile(destination, os.O_CREATE|os.O_EXCL|os.O_WRONLY, DefaultFileMode)
		if createErr != nil {
			return fmt.Errorf("%w: create %s: %w", setup.ErrFilesystem, destination, createErr)
		}

		_ = placeholder.Close()
		createdPlaceholder = true
	}

	options := goupdate.Options{
		TargetPath: destination,
		TargetMode: DefaultFileMode,
	}

	if err = goupdate.Apply(part, options); err != nil {
		_ = os.Remove(filepath.Join(filepath.Dir(destination), "."+filepath.Base(destination)+".new"))

		if createdPlaceholder {
			_ = os.Remove(destination)
		}

		if rerr := goupdate.RollbackError(err); rerr != nil {
			return fmt.Errorf("%w: replace %s: %w (rollback failed: %w)", setup.ErrFilesystem, destination, err, rerr)
		}

		return fmt.Errorf("%w: replace %s: %w", setup.ErrFilesystem, destination, err)
	}

	return nil
}
